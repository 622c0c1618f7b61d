package models

import (
	"gorm.io/gorm"
)

const (
	RoleAdmin    = "ADMIN"
	RoleOperator = "OPERATOR"
)

type User struct {
	gorm.Model
	Name     string `json:"name" gorm:"uniqueIndex;not null"`
	Role     string `json:"role" gorm:"type:varchar(16);not null;default:'OPERATOR'"`
	Password string `json:"-" gorm:"not null"`
}
