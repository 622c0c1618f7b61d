package models

import (
	"time"

	"gorm.io/gorm"
)

// UnloadStop is one delivery leg in a trip's manifest. SortOrder preserves
// manifest order across reload. ActualQuantityMT and UnloadedAt are written
// together exactly once, when the stop is delivered; after that the stop is
// immutable.
type UnloadStop struct {
	gorm.Model
	TripID           string     `json:"trip_id" gorm:"size:36;index;not null"`
	SortOrder        int        `json:"sort_order" gorm:"not null"`
	CustomerID       uint       `json:"customer_id" gorm:"not null"`
	QuantityMT       float64    `json:"quantity_mt"`
	ActualQuantityMT *float64   `json:"actual_quantity_mt,omitempty"`
	ChallanNumber    string     `json:"challan_number,omitempty"`
	SelectedRoute    *RouteData `json:"selected_route,omitempty" gorm:"type:jsonb"`
	UnloadedAt       *time.Time `json:"unloaded_at,omitempty"`
}

// Delivered reports whether the stop has already been unloaded.
func (u *UnloadStop) Delivered() bool {
	return u.UnloadedAt != nil
}
