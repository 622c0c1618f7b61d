package trip

import (
	"context"

	"cryofleet/internal/models"
)

// TripFilter narrows trip listings.
type TripFilter struct {
	TankerID uint
	Status   models.TripStatus
}

// Store is the persistence port for trips and tankers. Implementations must
// provide atomic per-record read-modify-write; Transact applies fn as a
// single logical unit so a trip status change and its tanker side effects
// commit together or not at all.
type Store interface {
	Locator

	Transact(ctx context.Context, fn func(Store) error) error

	TripByID(ctx context.Context, id string) (*models.Trip, error)
	CreateTrip(ctx context.Context, t *models.Trip) error
	SaveTrip(ctx context.Context, t *models.Trip) error
	ListTrips(ctx context.Context, f TripFilter) ([]models.Trip, error)

	// ActiveTripForTanker is the canonical "is this tanker busy" lookup:
	// the single trip holding the tanker in a blocking status, or nil.
	ActiveTripForTanker(ctx context.Context, tankerID uint) (*models.Trip, error)
	TripsByTankerStatus(ctx context.Context, tankerID uint, statuses ...models.TripStatus) ([]models.Trip, error)

	TankerByID(ctx context.Context, id uint) (*models.Tanker, error)
	CreateTanker(ctx context.Context, t *models.Tanker) error
	SaveTanker(ctx context.Context, t *models.Tanker) error
	DeleteTanker(ctx context.Context, id uint) error
	ListTankers(ctx context.Context) ([]models.Tanker, error)
}
