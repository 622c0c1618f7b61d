package routing

import (
	"context"
	"math"

	"cryofleet/internal/models"
)

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64
	Lng float64
}

// Resolver returns candidate road paths between two points. An empty slice
// means no route is available; callers must tolerate that and leave the leg
// unset rather than fail.
type Resolver interface {
	Resolve(ctx context.Context, start, end LatLng) ([]models.RouteData, error)
}

// HaversineKm is the great-circle distance between two points in kilometers,
// rounded to one decimal. Used as a straight-line fallback metric when no
// road route has been selected for a leg.
func HaversineKm(a, b LatLng) float64 {
	const earthRadiusKm = 6371
	dLat := deg2rad(b.Lat - a.Lat)
	dLng := deg2rad(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(a.Lat))*math.Cos(deg2rad(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return math.Round(earthRadiusKm*c*10) / 10
}

func deg2rad(deg float64) float64 {
	return deg * (math.Pi / 180)
}
