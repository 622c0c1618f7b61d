package trip

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"cryofleet/internal/models"
)

// Repo is the gorm-backed Store.
type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) withCtx(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// Transact runs fn against a transactional copy of the repo.
func (r *Repo) Transact(ctx context.Context, fn func(Store) error) error {
	return r.withCtx(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repo{db: tx})
	})
}

func (r *Repo) TripByID(ctx context.Context, id string) (*models.Trip, error) {
	var t models.Trip
	err := r.withCtx(ctx).
		Preload("Unloads", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		First(&t, "id = ?", id).Error
	if err != nil {
		return nil, fmt.Errorf("trip %s: %w", id, err)
	}
	return &t, nil
}

func (r *Repo) CreateTrip(ctx context.Context, t *models.Trip) error {
	return r.withCtx(ctx).Create(t).Error
}

// SaveTrip persists the trip row and rewrites its stop rows wholesale, with
// SortOrder reflecting the in-memory manifest order.
func (r *Repo) SaveTrip(ctx context.Context, t *models.Trip) error {
	return r.withCtx(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Unloads").Save(t).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("trip_id = ?", t.ID).Delete(&models.UnloadStop{}).Error; err != nil {
			return err
		}
		for i := range t.Unloads {
			t.Unloads[i].ID = 0
			t.Unloads[i].TripID = t.ID
			t.Unloads[i].SortOrder = i
		}
		if len(t.Unloads) == 0 {
			return nil
		}
		return tx.Create(&t.Unloads).Error
	})
}

func (r *Repo) ListTrips(ctx context.Context, f TripFilter) ([]models.Trip, error) {
	q := r.withCtx(ctx).
		Preload("Unloads", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Order("created_at DESC")
	if f.TankerID != 0 {
		q = q.Where("tanker_id = ?", f.TankerID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var trips []models.Trip
	if err := q.Find(&trips).Error; err != nil {
		return nil, err
	}
	return trips, nil
}

func (r *Repo) ActiveTripForTanker(ctx context.Context, tankerID uint) (*models.Trip, error) {
	var t models.Trip
	err := r.withCtx(ctx).
		Preload("Unloads", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("tanker_id = ? AND status IN ?", tankerID, BlockingStatuses()).
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repo) TripsByTankerStatus(ctx context.Context, tankerID uint, statuses ...models.TripStatus) ([]models.Trip, error) {
	var trips []models.Trip
	err := r.withCtx(ctx).
		Preload("Unloads", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("tanker_id = ? AND status IN ?", tankerID, statuses).
		Find(&trips).Error
	if err != nil {
		return nil, err
	}
	return trips, nil
}

func (r *Repo) TankerByID(ctx context.Context, id uint) (*models.Tanker, error) {
	var t models.Tanker
	if err := r.withCtx(ctx).First(&t, id).Error; err != nil {
		return nil, fmt.Errorf("tanker %d: %w", id, err)
	}
	return &t, nil
}

func (r *Repo) CreateTanker(ctx context.Context, t *models.Tanker) error {
	return r.withCtx(ctx).Create(t).Error
}

func (r *Repo) SaveTanker(ctx context.Context, t *models.Tanker) error {
	return r.withCtx(ctx).Save(t).Error
}

func (r *Repo) DeleteTanker(ctx context.Context, id uint) error {
	return r.withCtx(ctx).Delete(&models.Tanker{}, id).Error
}

func (r *Repo) ListTankers(ctx context.Context) ([]models.Tanker, error) {
	var tankers []models.Tanker
	if err := r.withCtx(ctx).Order("number ASC").Find(&tankers).Error; err != nil {
		return nil, err
	}
	return tankers, nil
}

func (r *Repo) LocationByID(ctx context.Context, id uint) (*models.Location, error) {
	var loc models.Location
	if err := r.withCtx(ctx).First(&loc, id).Error; err != nil {
		return nil, fmt.Errorf("location %d: %w", id, err)
	}
	return &loc, nil
}
