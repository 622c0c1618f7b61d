package trip

import (
	"fmt"

	"cryofleet/internal/models"
)

// TransitionCheck carries the fleet context a transition is validated
// against. ActiveTrip is the blocking-status trip currently holding the
// tanker, if any (it may be the trip being transitioned).
type TransitionCheck struct {
	Trip       *models.Trip
	Tanker     *models.Tanker
	ActiveTrip *models.Trip
	To         models.TripStatus
}

// CheckTransition validates a requested transition against fleet-wide
// invariants. Checks run in order and short-circuit on the first failure; the
// guard never mutates anything. A nil return means the machine may apply the
// transition.
func CheckTransition(tc TransitionCheck) error {
	from := tc.Trip.Status

	if IsTerminal(from) {
		return fmt.Errorf("trip %s is %s and read-only: %w", tc.Trip.ID, from, ErrImmutableRecord)
	}
	if !ValidStatus(tc.To) {
		return fmt.Errorf("unknown status %q: %w", tc.To, ErrInvalidTransition)
	}
	if !CanTransition(from, tc.To) {
		return fmt.Errorf("trip %s: %s -> %s: %w", tc.Trip.ID, from, tc.To, ErrInvalidTransition)
	}

	// Breakdown lockout: a grounded tanker only allows terminal outcomes.
	if tc.Tanker.Status == models.TankerBreakdown && !IsTerminal(tc.To) {
		return fmt.Errorf("tanker %s: %w", tc.Tanker.Number, ErrAssetGrounded)
	}

	// Single active trip per tanker.
	if IsBlocking(tc.To) && tc.ActiveTrip != nil && tc.ActiveTrip.ID != tc.Trip.ID {
		return fmt.Errorf("tanker %s held by trip %s: %w",
			tc.Tanker.Number, tc.ActiveTrip.ID, ErrAssetBusy)
	}

	// Manifest-completeness gates.
	switch tc.To {
	case models.TripInTransit, models.TripClosed:
		if len(tc.Trip.Unloads) == 0 {
			return fmt.Errorf("trip %s has no delivery stops for %s: %w",
				tc.Trip.ID, tc.To, ErrManifestIncomplete)
		}
	case models.TripPartiallyUnloaded:
		if len(tc.Trip.Unloads) == 0 {
			return fmt.Errorf("trip %s has no delivery stops for %s: %w",
				tc.Trip.ID, tc.To, ErrManifestIncomplete)
		}
		if tc.Trip.NextPendingStop() == nil {
			return fmt.Errorf("trip %s has no pending stop left to unload: %w",
				tc.Trip.ID, ErrManifestIncomplete)
		}
	}

	return nil
}

// CheckManifestEdit validates that a trip's manifest may still be edited and,
// when stopIndex >= 0, that the targeted stop is not already delivered.
func CheckManifestEdit(t *models.Trip, stopIndex int) error {
	if IsTerminal(t.Status) {
		return fmt.Errorf("trip %s is %s and read-only: %w", t.ID, t.Status, ErrImmutableRecord)
	}
	if stopIndex >= 0 {
		if stopIndex >= len(t.Unloads) {
			return fmt.Errorf("trip %s has no stop %d: %w", t.ID, stopIndex, ErrImmutableRecord)
		}
		if t.Unloads[stopIndex].Delivered() {
			return fmt.Errorf("trip %s stop %d already delivered: %w",
				t.ID, stopIndex, ErrImmutableRecord)
		}
	}
	return nil
}

// CheckLocationEdit rejects manual tanker location changes while the tanker
// is dispatched; location only moves via trip transitions then.
func CheckLocationEdit(tanker *models.Tanker, newLocationID uint) error {
	if tanker.CurrentLocationID == newLocationID {
		return nil
	}
	if tanker.Status == models.TankerOnTrip {
		return fmt.Errorf("tanker %s: %w", tanker.Number, ErrLocationLocked)
	}
	return nil
}
