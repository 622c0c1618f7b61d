package trip

import (
	"testing"

	"cryofleet/internal/models"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to models.TripStatus }{
		{models.TripTentative, models.TripPlanned},
		{models.TripPlanned, models.TripTransitToSupplier},
		{models.TripPlanned, models.TripLoadedAtSupplier},
		{models.TripTransitToSupplier, models.TripLoadedAtSupplier},
		{models.TripLoadedAtSupplier, models.TripInTransit},
		{models.TripInTransit, models.TripPartiallyUnloaded},
		{models.TripPartiallyUnloaded, models.TripPartiallyUnloaded},
		{models.TripPartiallyUnloaded, models.TripClosed},
		{models.TripInTransit, models.TripClosed},
		{models.TripPlanned, models.TripCancelled},
		{models.TripPartiallyUnloaded, models.TripCancelled},
	}
	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s allowed", tc.from, tc.to)
		}
	}

	forbidden := []struct{ from, to models.TripStatus }{
		{models.TripLoadedAtSupplier, models.TripPlanned},
		{models.TripInTransit, models.TripLoadedAtSupplier},
		{models.TripClosed, models.TripPlanned},
		{models.TripClosed, models.TripCancelled},
		{models.TripCancelled, models.TripPlanned},
		{models.TripPlanned, models.TripInTransit},
		{models.TripPlanned, models.TripTentative},
		{models.TripTentative, models.TripLoadedAtSupplier},
	}
	for _, tc := range forbidden {
		if CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s forbidden", tc.from, tc.to)
		}
	}
}

func TestBlockingSet(t *testing.T) {
	blocking := []models.TripStatus{
		models.TripTransitToSupplier,
		models.TripLoadedAtSupplier,
		models.TripInTransit,
		models.TripPartiallyUnloaded,
	}
	for _, s := range blocking {
		if !IsBlocking(s) {
			t.Errorf("expected %s blocking", s)
		}
	}
	for _, s := range []models.TripStatus{
		models.TripTentative, models.TripPlanned, models.TripClosed, models.TripCancelled,
	} {
		if IsBlocking(s) {
			t.Errorf("expected %s non-blocking", s)
		}
	}
	if got := len(BlockingStatuses()); got != 4 {
		t.Errorf("BlockingStatuses() has %d entries, want 4", got)
	}
}

func TestIsTerminal(t *testing.T) {
	if !IsTerminal(models.TripClosed) || !IsTerminal(models.TripCancelled) {
		t.Fatal("expected CLOSED and CANCELLED terminal")
	}
	if IsTerminal(models.TripPartiallyUnloaded) {
		t.Fatal("expected PARTIALLY_UNLOADED non-terminal")
	}
}

// Every non-terminal status can still reach CANCELLED; no terminal status
// has any outgoing edge.
func TestCancelledReachableFromAnyNonTerminal(t *testing.T) {
	for from := range transitions {
		if IsTerminal(from) {
			if len(transitions[from]) != 0 {
				t.Errorf("terminal %s has outgoing edges", from)
			}
			continue
		}
		if !CanTransition(from, models.TripCancelled) {
			t.Errorf("expected %s -> CANCELLED allowed", from)
		}
	}
}
