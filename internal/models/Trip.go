package models

import (
	"time"
)

// TripStatus is the closed trip lifecycle vocabulary. The valid edges live in
// the trip package's transition table; nothing else derives transitions.
type TripStatus string

const (
	TripTentative         TripStatus = "TENTATIVE"
	TripPlanned           TripStatus = "PLANNED"
	TripTransitToSupplier TripStatus = "TRANSIT_TO_SUPPLIER"
	TripLoadedAtSupplier  TripStatus = "LOADED_AT_SUPPLIER"
	TripInTransit         TripStatus = "IN_TRANSIT"
	TripPartiallyUnloaded TripStatus = "PARTIALLY_UNLOADED"
	TripClosed            TripStatus = "CLOSED"
	TripCancelled         TripStatus = "CANCELLED"
)

// Trip is one planned-to-closed delivery mission for one tanker. Unloads is
// ordered by SortOrder and that order is both the delivery sequence and the
// route-chaining sequence.
type Trip struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TankerID         uint       `json:"tanker_id" gorm:"index;not null"`
	Product          string     `json:"product" gorm:"type:varchar(8);not null"`
	SupplierID       uint       `json:"supplier_id" gorm:"not null"`
	PlannedStartDate time.Time  `json:"planned_start_date"`
	ActualEndDate    *time.Time `json:"actual_end_date,omitempty"`
	Status           TripStatus `json:"status" gorm:"type:varchar(24);index;not null"`

	EmptyRoute *RouteData   `json:"empty_route,omitempty" gorm:"type:jsonb"`
	Unloads    []UnloadStop `json:"unloads" gorm:"foreignKey:TripID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	TotalLoadedMT    float64 `json:"total_loaded_mt"`
	DieselIssuedL    float64 `json:"diesel_issued_l"`
	DieselUsedL      float64 `json:"diesel_used_l"`
	EmptyDistanceKm  float64 `json:"empty_distance_km"`
	LoadedDistanceKm float64 `json:"loaded_distance_km"`
	TotalDistanceKm  float64 `json:"total_distance_km"`

	Remarks   string `json:"remarks" gorm:"type:text"`
	CreatedBy uint   `json:"created_by"`
}

// NextPendingStop returns the first stop not yet delivered, or nil.
func (t *Trip) NextPendingStop() *UnloadStop {
	for i := range t.Unloads {
		if !t.Unloads[i].Delivered() {
			return &t.Unloads[i]
		}
	}
	return nil
}

// LastDeliveredStop returns the most recently delivered stop, or nil.
func (t *Trip) LastDeliveredStop() *UnloadStop {
	var last *UnloadStop
	for i := range t.Unloads {
		if t.Unloads[i].Delivered() {
			last = &t.Unloads[i]
		}
	}
	return last
}
