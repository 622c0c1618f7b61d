package models

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Product codes carried by the fleet.
const (
	ProductLN2 = "LN2"
	ProductLOX = "LOX"
	ProductLAR = "LAR"
)

// Tanker operational statuses. Status is ON_TRIP exactly while one trip in a
// blocking status references the tanker; BREAKDOWN is set manually and
// grounds the asset.
const (
	TankerAvailable = "AVAILABLE"
	TankerOnTrip    = "ON_TRIP"
	TankerBreakdown = "BREAKDOWN"
)

type Tanker struct {
	gorm.Model
	Number             string         `json:"number" gorm:"uniqueIndex;not null"`
	CompatibleProducts pq.StringArray `json:"compatible_products" gorm:"type:text[]"`
	CapacityMT         float64        `json:"capacity_mt"`
	DieselAvgKmPerL    float64        `json:"diesel_avg_km_per_l" gorm:"default:3.5"`
	CurrentLocationID  uint           `json:"current_location_id"`
	Status             string         `json:"status" gorm:"type:varchar(16);index;not null;default:'AVAILABLE'"`
}

// Carries reports whether the tanker is rated for the given product.
func (t *Tanker) Carries(product string) bool {
	for _, p := range t.CompatibleProducts {
		if p == product {
			return true
		}
	}
	return false
}
