package trip

import (
	"context"
	"fmt"
	"math"

	"cryofleet/internal/models"
	"cryofleet/internal/routing"
)

// Locator resolves location records for route legs.
type Locator interface {
	LocationByID(ctx context.Context, id uint) (*models.Location, error)
}

// Sequencer maintains a trip's ordered stop list and keeps each stop's
// resolved route consistent with its position: stop 0's leg starts at the
// supplier, stop i's leg starts at stop i-1's customer. It mutates trips in
// memory only; persisting is the caller's job.
type Sequencer struct {
	resolver routing.Resolver
	locs     Locator
}

func NewSequencer(resolver routing.Resolver, locs Locator) *Sequencer {
	return &Sequencer{resolver: resolver, locs: locs}
}

// AddStop appends a stop and resolves its leg, defaulting to the first
// candidate. An empty resolver result leaves the route unset and returns
// ErrRouteUnavailable; the stop is still added.
func (s *Sequencer) AddStop(ctx context.Context, t *models.Trip, customerID uint, quantityMT float64) error {
	t.Unloads = append(t.Unloads, models.UnloadStop{
		TripID:     t.ID,
		SortOrder:  len(t.Unloads),
		CustomerID: customerID,
		QuantityMT: quantityMT,
	})
	return s.resolveFrom(ctx, t, len(t.Unloads)-1)
}

// UpdateStop changes a pending stop's destination and/or planned quantity.
// A destination change shifts the chain origin for every subsequent leg, so
// the stop's route and all downstream routes are cleared and re-resolved.
func (s *Sequencer) UpdateStop(ctx context.Context, t *models.Trip, idx int, customerID *uint, quantityMT *float64) error {
	if err := CheckManifestEdit(t, idx); err != nil {
		return err
	}
	stop := &t.Unloads[idx]
	if quantityMT != nil {
		stop.QuantityMT = *quantityMT
	}
	if customerID == nil || *customerID == stop.CustomerID {
		return nil
	}
	stop.CustomerID = *customerID
	for i := idx; i < len(t.Unloads); i++ {
		t.Unloads[i].SelectedRoute = nil
	}
	return s.resolveFrom(ctx, t, idx)
}

// RemoveStop deletes a pending stop, reindexes the manifest, and re-resolves
// the downstream chain. Delivered stops cannot be removed.
func (s *Sequencer) RemoveStop(ctx context.Context, t *models.Trip, idx int) error {
	if err := CheckManifestEdit(t, idx); err != nil {
		return err
	}
	t.Unloads = append(t.Unloads[:idx], t.Unloads[idx+1:]...)
	for i := range t.Unloads {
		t.Unloads[i].SortOrder = i
	}
	for i := idx; i < len(t.Unloads); i++ {
		t.Unloads[i].SelectedRoute = nil
	}
	return s.resolveFrom(ctx, t, idx)
}

// SelectRoute re-resolves the leg for one pending stop and persists the
// chosen candidate. The choice is final until the chain origin shifts.
func (s *Sequencer) SelectRoute(ctx context.Context, t *models.Trip, idx, choice int) error {
	if err := CheckManifestEdit(t, idx); err != nil {
		return err
	}
	candidates, err := s.legCandidates(ctx, t, idx)
	if err != nil {
		return err
	}
	if choice < 0 || choice >= len(candidates) {
		return fmt.Errorf("trip %s stop %d has %d candidates, want %d: %w",
			t.ID, idx, len(candidates), choice, ErrRouteUnavailable)
	}
	t.Unloads[idx].SelectedRoute = &candidates[choice]
	return nil
}

// ResolveEmptyLeg resolves the origin -> supplier leg from the tanker's
// current position, defaulting to the first candidate. With no candidates the
// route stays unset and the distance falls back to the straight-line
// estimate.
func (s *Sequencer) ResolveEmptyLeg(ctx context.Context, t *models.Trip, tanker *models.Tanker) error {
	origin, err := s.point(ctx, tanker.CurrentLocationID)
	if err != nil {
		return err
	}
	dest, err := s.point(ctx, t.SupplierID)
	if err != nil {
		return err
	}

	candidates, err := s.resolver.Resolve(ctx, origin, dest)
	if err != nil {
		return fmt.Errorf("resolve empty leg for trip %s: %w", t.ID, err)
	}
	if len(candidates) == 0 {
		t.EmptyRoute = nil
		t.EmptyDistanceKm = routing.HaversineKm(origin, dest)
		return fmt.Errorf("trip %s empty leg: %w", t.ID, ErrRouteUnavailable)
	}
	t.EmptyRoute = &candidates[0]
	t.EmptyDistanceKm = candidates[0].DistanceKm
	return nil
}

// SelectEmptyRoute picks among empty-leg candidates.
func (s *Sequencer) SelectEmptyRoute(ctx context.Context, t *models.Trip, tanker *models.Tanker, choice int) error {
	origin, err := s.point(ctx, tanker.CurrentLocationID)
	if err != nil {
		return err
	}
	dest, err := s.point(ctx, t.SupplierID)
	if err != nil {
		return err
	}
	candidates, err := s.resolver.Resolve(ctx, origin, dest)
	if err != nil {
		return fmt.Errorf("resolve empty leg for trip %s: %w", t.ID, err)
	}
	if choice < 0 || choice >= len(candidates) {
		return fmt.Errorf("trip %s empty leg has %d candidates, want %d: %w",
			t.ID, len(candidates), choice, ErrRouteUnavailable)
	}
	t.EmptyRoute = &candidates[choice]
	t.EmptyDistanceKm = candidates[choice].DistanceKm
	return nil
}

// resolveFrom fills missing routes for stops[idx:] in sequence order. Legs
// with no candidates are skipped (route stays unset); the first such gap is
// reported as ErrRouteUnavailable after the rest of the chain is attempted.
func (s *Sequencer) resolveFrom(ctx context.Context, t *models.Trip, idx int) error {
	if idx < 0 {
		idx = 0
	}
	var unavailable error
	for i := idx; i < len(t.Unloads); i++ {
		if t.Unloads[i].SelectedRoute != nil {
			continue
		}
		candidates, err := s.legCandidates(ctx, t, i)
		if err != nil {
			return err
		}
		if len(candidates) == 0 {
			if unavailable == nil {
				unavailable = fmt.Errorf("trip %s stop %d: %w", t.ID, i, ErrRouteUnavailable)
			}
			continue
		}
		t.Unloads[i].SelectedRoute = &candidates[0]
	}
	return unavailable
}

// legCandidates resolves candidate paths for stop idx from its chain origin.
func (s *Sequencer) legCandidates(ctx context.Context, t *models.Trip, idx int) ([]models.RouteData, error) {
	originID := t.SupplierID
	if idx > 0 {
		originID = t.Unloads[idx-1].CustomerID
	}
	origin, err := s.point(ctx, originID)
	if err != nil {
		return nil, err
	}
	dest, err := s.point(ctx, t.Unloads[idx].CustomerID)
	if err != nil {
		return nil, err
	}
	candidates, err := s.resolver.Resolve(ctx, origin, dest)
	if err != nil {
		return nil, fmt.Errorf("resolve leg %d of trip %s: %w", idx, t.ID, err)
	}
	return candidates, nil
}

func (s *Sequencer) point(ctx context.Context, locationID uint) (routing.LatLng, error) {
	loc, err := s.locs.LocationByID(ctx, locationID)
	if err != nil {
		return routing.LatLng{}, fmt.Errorf("location %d: %w", locationID, err)
	}
	return routing.LatLng{Lat: loc.Lat, Lng: loc.Lng}, nil
}

// Recompute refreshes a trip's aggregate fields from its manifest. The empty
// distance is only rewritten when a resolved empty route exists, so a
// straight-line estimate set at resolution time survives.
func Recompute(t *models.Trip) {
	if t.EmptyRoute != nil {
		t.EmptyDistanceKm = t.EmptyRoute.DistanceKm
	}
	var loaded, mass float64
	for i := range t.Unloads {
		if t.Unloads[i].SelectedRoute != nil {
			loaded += t.Unloads[i].SelectedRoute.DistanceKm
		}
		mass += t.Unloads[i].QuantityMT
	}
	t.LoadedDistanceKm = loaded
	t.TotalDistanceKm = t.EmptyDistanceKm + loaded
	t.TotalLoadedMT = mass
}

// EstimatedDieselL estimates fuel for the trip from total distance and the
// tanker's efficiency. Used only while no actual issued amount is recorded.
func EstimatedDieselL(t *models.Trip, tanker *models.Tanker) float64 {
	if t.DieselIssuedL > 0 {
		return t.DieselIssuedL
	}
	avg := tanker.DieselAvgKmPerL
	if avg <= 0 {
		avg = 3.5
	}
	return math.Round(t.TotalDistanceKm / avg)
}
