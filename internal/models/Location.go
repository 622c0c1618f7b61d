package models

import (
	"gorm.io/gorm"
)

const (
	LocationSupplier = "SUPPLIER"
	LocationCustomer = "CUSTOMER"
)

// Location is a geocoded supplier or customer site. Sites are never hard
// deleted once a trip has referenced them; Operational=false archives a site
// so it is excluded from planning while historical trips keep resolving.
type Location struct {
	gorm.Model

	Name        string  `json:"name" binding:"required"`
	Address     string  `json:"address"`
	Lat         float64 `json:"lat" binding:"required"`
	Lng         float64 `json:"lng" binding:"required"`
	Kind        string  `json:"kind" gorm:"type:varchar(16);index;not null"`
	Operational bool    `json:"operational" gorm:"default:true"`
}
