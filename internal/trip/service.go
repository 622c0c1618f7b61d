package trip

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"cryofleet/internal/models"
)

// Enqueuer schedules a background recompute of PLANNED trips for a tanker
// whose location just changed.
type Enqueuer interface {
	Enqueue(tankerID uint)
}

// Service owns the trip lifecycle: creation, validated status transitions
// with their tanker side effects, and manifest edits. All multi-row writes go
// through Store.Transact; validation always happens before any write.
type Service struct {
	store Store
	seq   *Sequencer
	enq   Enqueuer
	now   func() time.Time
}

func NewService(store Store, seq *Sequencer, enq Enqueuer) *Service {
	return &Service{store: store, seq: seq, enq: enq, now: time.Now}
}

type StopInput struct {
	CustomerID uint    `json:"customer_id" binding:"required"`
	QuantityMT float64 `json:"quantity_mt" binding:"required"`
}

type CreateInput struct {
	TankerID         uint
	Product          string
	SupplierID       uint
	PlannedStartDate time.Time
	Tentative        bool
	DieselIssuedL    float64
	Remarks          string
	CreatedBy        uint
	Stops            []StopInput
}

// Create plans a new trip (PLANNED, or TENTATIVE for drafts) and resolves its
// empty leg and stop legs. Missing routes are tolerated; the trip is created
// with unset legs and the caller may retry resolution later.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Trip, error) {
	tanker, err := s.store.TankerByID(ctx, in.TankerID)
	if err != nil {
		return nil, err
	}
	if !tanker.Carries(in.Product) {
		return nil, fmt.Errorf("tanker %s is not rated for product %s", tanker.Number, in.Product)
	}
	supplier, err := s.store.LocationByID(ctx, in.SupplierID)
	if err != nil {
		return nil, err
	}
	if !supplier.Operational {
		return nil, fmt.Errorf("supplier %s is archived and excluded from planning", supplier.Name)
	}

	status := models.TripPlanned
	if in.Tentative {
		status = models.TripTentative
	}
	t := &models.Trip{
		ID:               uuid.NewString(),
		TankerID:         in.TankerID,
		Product:          in.Product,
		SupplierID:       in.SupplierID,
		PlannedStartDate: in.PlannedStartDate,
		Status:           status,
		DieselIssuedL:    in.DieselIssuedL,
		Remarks:          in.Remarks,
		CreatedBy:        in.CreatedBy,
	}

	if err := s.seq.ResolveEmptyLeg(ctx, t, tanker); err != nil && !errors.Is(err, ErrRouteUnavailable) {
		return nil, err
	}
	for _, stop := range in.Stops {
		if err := s.addStop(ctx, t, stop.CustomerID, stop.QuantityMT); err != nil {
			return nil, err
		}
	}
	Recompute(t)

	if err := s.store.CreateTrip(ctx, t); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"trip": t.ID, "tanker": tanker.Number, "status": t.Status}).
		Info("trip created")
	return t, nil
}

// Transition validates and applies a status change. The trip row, stop rows
// and tanker row commit as one transaction; a precondition failure leaves
// everything untouched. When the tanker moved, a recompute of its other
// PLANNED trips is enqueued fire-and-forget.
func (s *Service) Transition(ctx context.Context, tripID string, to models.TripStatus, in TransitionInput) (*models.Trip, error) {
	var (
		result *models.Trip
		moved  bool
		tanker *models.Tanker
	)
	err := s.store.Transact(ctx, func(tx Store) error {
		t, err := tx.TripByID(ctx, tripID)
		if err != nil {
			return err
		}
		tanker, err = tx.TankerByID(ctx, t.TankerID)
		if err != nil {
			return err
		}
		active, err := tx.ActiveTripForTanker(ctx, t.TankerID)
		if err != nil {
			return err
		}

		if err := CheckTransition(TransitionCheck{Trip: t, Tanker: tanker, ActiveTrip: active, To: to}); err != nil {
			return err
		}
		eff, err := Apply(t, tanker, to, in, s.now())
		if err != nil {
			return err
		}

		if err := tx.SaveTrip(ctx, t); err != nil {
			return err
		}
		if err := tx.SaveTanker(ctx, tanker); err != nil {
			return err
		}
		result = t
		moved = eff.TankerMoved
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"trip": result.ID, "tanker": tanker.Number, "status": to}).
		Info("trip transitioned")
	if moved && s.enq != nil {
		s.enq.Enqueue(result.TankerID)
	}
	return result, nil
}

// AddStop appends a delivery stop to a non-terminal trip. An unresolvable leg
// is reported as ErrRouteUnavailable alongside the saved trip.
func (s *Service) AddStop(ctx context.Context, tripID string, in StopInput) (*models.Trip, error) {
	return s.editManifest(ctx, tripID, -1, func(t *models.Trip) error {
		return s.addStop(ctx, t, in.CustomerID, in.QuantityMT)
	})
}

// UpdateStop edits a pending stop's customer and/or quantity.
func (s *Service) UpdateStop(ctx context.Context, tripID string, idx int, customerID *uint, quantityMT *float64) (*models.Trip, error) {
	return s.editManifest(ctx, tripID, idx, func(t *models.Trip) error {
		if customerID != nil {
			if err := s.checkCustomer(ctx, *customerID); err != nil {
				return err
			}
		}
		return s.seq.UpdateStop(ctx, t, idx, customerID, quantityMT)
	})
}

// RemoveStop deletes a pending stop and re-chains downstream legs.
func (s *Service) RemoveStop(ctx context.Context, tripID string, idx int) (*models.Trip, error) {
	return s.editManifest(ctx, tripID, idx, func(t *models.Trip) error {
		return s.seq.RemoveStop(ctx, t, idx)
	})
}

// SelectRoute persists the operator's pick among a leg's candidates.
func (s *Service) SelectRoute(ctx context.Context, tripID string, idx, choice int) (*models.Trip, error) {
	return s.editManifest(ctx, tripID, idx, func(t *models.Trip) error {
		return s.seq.SelectRoute(ctx, t, idx, choice)
	})
}

// SelectEmptyRoute persists the operator's pick for the empty leg.
func (s *Service) SelectEmptyRoute(ctx context.Context, tripID string, choice int) (*models.Trip, error) {
	return s.editManifest(ctx, tripID, -1, func(t *models.Trip) error {
		tanker, err := s.store.TankerByID(ctx, t.TankerID)
		if err != nil {
			return err
		}
		return s.seq.SelectEmptyRoute(ctx, t, tanker, choice)
	})
}

type DetailsInput struct {
	Remarks       *string  `json:"remarks"`
	DieselIssuedL *float64 `json:"diesel_issued_l"`
	DieselUsedL   *float64 `json:"diesel_used_l"`
}

// UpdateDetails edits free-text and fuel accounting fields on a non-terminal
// trip.
func (s *Service) UpdateDetails(ctx context.Context, tripID string, in DetailsInput) (*models.Trip, error) {
	return s.editManifest(ctx, tripID, -1, func(t *models.Trip) error {
		if in.Remarks != nil {
			t.Remarks = *in.Remarks
		}
		if in.DieselIssuedL != nil {
			t.DieselIssuedL = *in.DieselIssuedL
		}
		if in.DieselUsedL != nil {
			t.DieselUsedL = *in.DieselUsedL
		}
		return nil
	})
}

// editManifest loads, guards, applies fn, recomputes aggregates, and saves.
// A RouteUnavailable outcome still saves and is returned with the trip.
func (s *Service) editManifest(ctx context.Context, tripID string, stopIndex int, fn func(*models.Trip) error) (*models.Trip, error) {
	t, err := s.store.TripByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if err := CheckManifestEdit(t, stopIndex); err != nil {
		return nil, err
	}

	editErr := fn(t)
	if editErr != nil && !errors.Is(editErr, ErrRouteUnavailable) {
		return nil, editErr
	}
	Recompute(t)
	if err := s.store.SaveTrip(ctx, t); err != nil {
		return nil, err
	}
	if editErr != nil {
		logrus.WithError(editErr).WithField("trip", t.ID).Warn("manifest saved with unresolved leg")
	}
	return t, editErr
}

func (s *Service) addStop(ctx context.Context, t *models.Trip, customerID uint, quantityMT float64) error {
	if err := s.checkCustomer(ctx, customerID); err != nil {
		return err
	}
	return s.seq.AddStop(ctx, t, customerID, quantityMT)
}

func (s *Service) checkCustomer(ctx context.Context, customerID uint) error {
	customer, err := s.store.LocationByID(ctx, customerID)
	if err != nil {
		return err
	}
	if !customer.Operational {
		return fmt.Errorf("customer %s is archived and excluded from planning", customer.Name)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, tripID string) (*models.Trip, error) {
	return s.store.TripByID(ctx, tripID)
}

func (s *Service) List(ctx context.Context, f TripFilter) ([]models.Trip, error) {
	return s.store.ListTrips(ctx, f)
}

// RecomputePlanned re-resolves the empty leg and aggregates of every PLANNED
// trip on a tanker against the tanker's current location. Invoked by the
// recalc worker after any transition that moved the tanker; idempotent and
// safe to retry.
func (s *Service) RecomputePlanned(ctx context.Context, tankerID uint) error {
	tanker, err := s.store.TankerByID(ctx, tankerID)
	if err != nil {
		return err
	}
	planned, err := s.store.TripsByTankerStatus(ctx, tankerID, models.TripPlanned, models.TripTentative)
	if err != nil {
		return err
	}

	for i := range planned {
		t := &planned[i]
		t.EmptyRoute = nil
		if err := s.seq.ResolveEmptyLeg(ctx, t, tanker); err != nil && !errors.Is(err, ErrRouteUnavailable) {
			return fmt.Errorf("recompute trip %s: %w", t.ID, err)
		}
		Recompute(t)
		if err := s.store.SaveTrip(ctx, t); err != nil {
			return fmt.Errorf("recompute trip %s: %w", t.ID, err)
		}
		logrus.WithFields(logrus.Fields{"trip": t.ID, "tanker": tanker.Number}).
			Debug("planned trip recomputed after tanker relocation")
	}
	return nil
}

// ReportedLocation resolves the location a trip should display for its
// tanker.
func (s *Service) ReportedLocation(ctx context.Context, tripID string) (*models.Trip, *models.Location, error) {
	t, err := s.store.TripByID(ctx, tripID)
	if err != nil {
		return nil, nil, err
	}
	tanker, err := s.store.TankerByID(ctx, t.TankerID)
	if err != nil {
		return nil, nil, err
	}
	loc, err := s.store.LocationByID(ctx, ReportedLocationID(t, tanker))
	if err != nil {
		return nil, nil, err
	}
	return t, loc, nil
}

// ReportedLocationID derives the location a trip should display for its
// tanker. Positions are simulated from trip state, not live telemetry.
func ReportedLocationID(t *models.Trip, tanker *models.Tanker) uint {
	switch t.Status {
	case models.TripPlanned, models.TripTentative, models.TripTransitToSupplier:
		return tanker.CurrentLocationID
	case models.TripLoadedAtSupplier, models.TripInTransit:
		return t.SupplierID
	case models.TripPartiallyUnloaded:
		if last := t.LastDeliveredStop(); last != nil {
			return last.CustomerID
		}
		return t.SupplierID
	case models.TripClosed:
		if len(t.Unloads) > 0 {
			return t.Unloads[len(t.Unloads)-1].CustomerID
		}
		return t.SupplierID
	default:
		return tanker.CurrentLocationID
	}
}
