package trip

import (
	"fmt"
	"time"

	"cryofleet/internal/models"
)

// TransitionInput carries the per-stop data some transitions capture:
// entering IN_TRANSIT records the challan number for the next pending stop,
// entering PARTIALLY_UNLOADED records the actual delivered quantity (planned
// quantity is assumed when absent).
type TransitionInput struct {
	ChallanNumber    string
	ActualQuantityMT *float64
}

// Effect reports the side effects a transition had beyond the trip row.
type Effect struct {
	// TankerMoved is set when the tanker's current location changed, which
	// obliges a recompute of every other PLANNED trip on that tanker.
	TankerMoved bool
}

// Apply mutates trip and tanker in memory for a transition already cleared by
// CheckTransition. It never partially applies: callers persist trip, stops
// and tanker as one transaction or not at all.
func Apply(t *models.Trip, tanker *models.Tanker, to models.TripStatus, in TransitionInput, now time.Time) (Effect, error) {
	var eff Effect
	from := t.Status

	switch to {
	case models.TripPlanned:
		// TENTATIVE -> PLANNED has no fleet effect.

	case models.TripTransitToSupplier:
		tanker.Status = models.TankerOnTrip

	case models.TripLoadedAtSupplier:
		tanker.Status = models.TankerOnTrip
		if tanker.CurrentLocationID != t.SupplierID {
			tanker.CurrentLocationID = t.SupplierID
			eff.TankerMoved = true
		}

	case models.TripInTransit:
		stop := t.NextPendingStop()
		if stop == nil {
			return eff, fmt.Errorf("trip %s: no pending stop for dispatch: %w", t.ID, ErrManifestIncomplete)
		}
		stop.ChallanNumber = in.ChallanNumber

	case models.TripPartiallyUnloaded:
		stop := t.NextPendingStop()
		if stop == nil {
			return eff, fmt.Errorf("trip %s: no pending stop to unload: %w", t.ID, ErrManifestIncomplete)
		}
		actual := stop.QuantityMT
		if in.ActualQuantityMT != nil {
			actual = *in.ActualQuantityMT
		}
		ts := now
		stop.ActualQuantityMT = &actual
		stop.UnloadedAt = &ts
		tanker.CurrentLocationID = stop.CustomerID
		eff.TankerMoved = true

	case models.TripClosed:
		if len(t.Unloads) == 0 {
			return eff, fmt.Errorf("trip %s: cannot close with empty manifest: %w", t.ID, ErrManifestIncomplete)
		}
		last := t.Unloads[len(t.Unloads)-1]
		if tanker.CurrentLocationID != last.CustomerID {
			tanker.CurrentLocationID = last.CustomerID
			eff.TankerMoved = true
		}
		if tanker.Status == models.TankerOnTrip {
			tanker.Status = models.TankerAvailable
		}
		ts := now
		t.ActualEndDate = &ts

	case models.TripCancelled:
		// The tanker stays where it is; it is only released if this trip
		// was the one holding it.
		if IsBlocking(from) && tanker.Status == models.TankerOnTrip {
			tanker.Status = models.TankerAvailable
		}
		ts := now
		t.ActualEndDate = &ts

	default:
		return eff, fmt.Errorf("trip %s: %s -> %s: %w", t.ID, from, to, ErrInvalidTransition)
	}

	t.Status = to
	return eff, nil
}
