// Package fleet is the asset registry: tanker records, their derived
// availability, and the breakdown lifecycle. Tanker status and location are
// otherwise mutated only by trip transitions.
package fleet

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"cryofleet/internal/models"
	"cryofleet/internal/trip"
)

type Service struct {
	store trip.Store
	now   func() time.Time
}

func NewService(store trip.Store) *Service {
	return &Service{store: store, now: time.Now}
}

type TankerInput struct {
	Number             string   `json:"number" binding:"required"`
	CompatibleProducts []string `json:"compatible_products" binding:"required"`
	CapacityMT         float64  `json:"capacity_mt" binding:"required"`
	DieselAvgKmPerL    float64  `json:"diesel_avg_km_per_l"`
	CurrentLocationID  uint     `json:"current_location_id" binding:"required"`
}

func (s *Service) Create(ctx context.Context, in TankerInput) (*models.Tanker, error) {
	if _, err := s.store.LocationByID(ctx, in.CurrentLocationID); err != nil {
		return nil, err
	}
	avg := in.DieselAvgKmPerL
	if avg <= 0 {
		avg = 3.5
	}
	t := &models.Tanker{
		Number:             in.Number,
		CompatibleProducts: in.CompatibleProducts,
		CapacityMT:         in.CapacityMT,
		DieselAvgKmPerL:    avg,
		CurrentLocationID:  in.CurrentLocationID,
		Status:             models.TankerAvailable,
	}
	if err := s.store.CreateTanker(ctx, t); err != nil {
		return nil, err
	}
	logrus.WithField("tanker", t.Number).Info("tanker registered")
	return t, nil
}

// Update edits tanker master data. A location change is a manual relocation
// and is rejected while the tanker is dispatched; location only moves via
// trip transitions then.
func (s *Service) Update(ctx context.Context, id uint, in TankerInput) (*models.Tanker, error) {
	t, err := s.store.TankerByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := trip.CheckLocationEdit(t, in.CurrentLocationID); err != nil {
		return nil, err
	}
	if in.CurrentLocationID != t.CurrentLocationID {
		if _, err := s.store.LocationByID(ctx, in.CurrentLocationID); err != nil {
			return nil, err
		}
	}

	t.Number = in.Number
	t.CompatibleProducts = in.CompatibleProducts
	t.CapacityMT = in.CapacityMT
	if in.DieselAvgKmPerL > 0 {
		t.DieselAvgKmPerL = in.DieselAvgKmPerL
	}
	t.CurrentLocationID = in.CurrentLocationID
	if err := s.store.SaveTanker(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes a tanker that no non-final trip references.
func (s *Service) Delete(ctx context.Context, id uint) error {
	t, err := s.store.TankerByID(ctx, id)
	if err != nil {
		return err
	}
	open, err := s.store.TripsByTankerStatus(ctx, id,
		models.TripTentative, models.TripPlanned, models.TripTransitToSupplier,
		models.TripLoadedAtSupplier, models.TripInTransit, models.TripPartiallyUnloaded)
	if err != nil {
		return err
	}
	if len(open) > 0 {
		return fmt.Errorf("tanker %s referenced by open trip %s: %w",
			t.Number, open[0].ID, trip.ErrImmutableRecord)
	}
	return s.store.DeleteTanker(ctx, id)
}

func (s *Service) Get(ctx context.Context, id uint) (*models.Tanker, error) {
	return s.store.TankerByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]models.Tanker, error) {
	return s.store.ListTankers(ctx)
}

// ActiveTrip returns the trip currently holding the tanker, or nil.
func (s *Service) ActiveTrip(ctx context.Context, tankerID uint) (*models.Trip, error) {
	return s.store.ActiveTripForTanker(ctx, tankerID)
}

// Breakdown grounds a tanker. Always permitted: if a trip currently holds the
// tanker it is auto-cancelled with an audit note, in the same transaction
// that sets BREAKDOWN, so the tanker never ends up AVAILABLE in between.
func (s *Service) Breakdown(ctx context.Context, tankerID uint) (*models.Tanker, error) {
	var result *models.Tanker
	err := s.store.Transact(ctx, func(tx trip.Store) error {
		tanker, err := tx.TankerByID(ctx, tankerID)
		if err != nil {
			return err
		}
		active, err := tx.ActiveTripForTanker(ctx, tankerID)
		if err != nil {
			return err
		}

		if active != nil {
			now := s.now()
			if _, err := trip.Apply(active, tanker, models.TripCancelled, trip.TransitionInput{}, now); err != nil {
				return fmt.Errorf("cancel trip %s for breakdown: %w", active.ID, err)
			}
			note := fmt.Sprintf("[%s] auto-cancelled: tanker %s marked BREAKDOWN",
				now.Format("2006-01-02 15:04"), tanker.Number)
			if active.Remarks != "" {
				active.Remarks += "\n"
			}
			active.Remarks += note
			if err := tx.SaveTrip(ctx, active); err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{"trip": active.ID, "tanker": tanker.Number}).
				Warn("active trip cancelled by breakdown")
		}

		tanker.Status = models.TankerBreakdown
		if err := tx.SaveTanker(ctx, tanker); err != nil {
			return err
		}
		result = tanker
		return nil
	})
	if err != nil {
		return nil, err
	}
	logrus.WithField("tanker", result.Number).Warn("tanker grounded")
	return result, nil
}

// Restore returns a repaired tanker to service.
func (s *Service) Restore(ctx context.Context, tankerID uint) (*models.Tanker, error) {
	t, err := s.store.TankerByID(ctx, tankerID)
	if err != nil {
		return nil, err
	}
	if t.Status != models.TankerBreakdown {
		return nil, fmt.Errorf("tanker %s is %s, not BREAKDOWN", t.Number, t.Status)
	}
	t.Status = models.TankerAvailable
	if err := s.store.SaveTanker(ctx, t); err != nil {
		return nil, err
	}
	logrus.WithField("tanker", t.Number).Info("tanker restored to service")
	return t, nil
}
