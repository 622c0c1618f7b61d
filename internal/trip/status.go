package trip

import "cryofleet/internal/models"

// transitions is the single source of truth for legal status edges. The guard
// and the machine consult it; nothing else re-derives reachability.
//
// TRANSIT_TO_SUPPLIER is an optional intermediate: deployments may go
// PLANNED -> LOADED_AT_SUPPLIER directly or route through it. TENTATIVE is a
// pre-PLANNED draft with no fleet effect.
var transitions = map[models.TripStatus][]models.TripStatus{
	models.TripTentative: {models.TripPlanned, models.TripCancelled},
	models.TripPlanned: {
		models.TripTransitToSupplier,
		models.TripLoadedAtSupplier,
		models.TripCancelled,
	},
	models.TripTransitToSupplier: {models.TripLoadedAtSupplier, models.TripCancelled},
	models.TripLoadedAtSupplier:  {models.TripInTransit, models.TripCancelled},
	models.TripInTransit: {
		models.TripPartiallyUnloaded,
		models.TripClosed,
		models.TripCancelled,
	},
	models.TripPartiallyUnloaded: {
		models.TripPartiallyUnloaded, // repeat unload events
		models.TripClosed,
		models.TripCancelled,
	},
	models.TripClosed:    {},
	models.TripCancelled: {},
}

// blockingStatuses mark a tanker ON_TRIP and exclude it from new dispatch.
var blockingStatuses = map[models.TripStatus]struct{}{
	models.TripTransitToSupplier: {},
	models.TripLoadedAtSupplier:  {},
	models.TripInTransit:         {},
	models.TripPartiallyUnloaded: {},
}

// BlockingStatuses returns the blocking set for query filters.
func BlockingStatuses() []models.TripStatus {
	out := make([]models.TripStatus, 0, len(blockingStatuses))
	for s := range blockingStatuses {
		out = append(out, s)
	}
	return out
}

// CanTransition reports whether from -> to is a legal edge.
func CanTransition(from, to models.TripStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status is final; terminal trips are
// permanently read-only.
func IsTerminal(s models.TripStatus) bool {
	return s == models.TripClosed || s == models.TripCancelled
}

// IsBlocking reports whether the status holds the tanker.
func IsBlocking(s models.TripStatus) bool {
	_, ok := blockingStatuses[s]
	return ok
}

// ValidStatus reports whether s belongs to the closed vocabulary.
func ValidStatus(s models.TripStatus) bool {
	_, ok := transitions[s]
	return ok
}
