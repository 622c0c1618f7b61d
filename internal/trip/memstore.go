package trip

import (
	"context"
	"fmt"
	"sync"

	"cryofleet/internal/models"
)

// MemStore is an in-memory Store for tests and local development. Reads
// return copies so callers never mutate stored records without an explicit
// save, mirroring the load-modify-save discipline of the gorm repo.
type MemStore struct {
	mu         sync.Mutex
	trips      map[string]*models.Trip
	tankers    map[uint]*models.Tanker
	locations  map[uint]*models.Location
	nextTanker uint
	nextLoc    uint
}

func NewMemStore() *MemStore {
	return &MemStore{
		trips:     make(map[string]*models.Trip),
		tankers:   make(map[uint]*models.Tanker),
		locations: make(map[uint]*models.Location),
	}
}

// Transact applies fn directly; MemStore offers no rollback.
func (m *MemStore) Transact(ctx context.Context, fn func(Store) error) error {
	return fn(m)
}

// PutLocation stores a location, assigning an ID when absent.
func (m *MemStore) PutLocation(loc *models.Location) *models.Location {
	m.mu.Lock()
	defer m.mu.Unlock()
	if loc.ID == 0 {
		m.nextLoc++
		loc.ID = m.nextLoc
	}
	c := *loc
	m.locations[loc.ID] = &c
	return loc
}

func (m *MemStore) LocationByID(ctx context.Context, id uint) (*models.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	loc, ok := m.locations[id]
	if !ok {
		return nil, fmt.Errorf("location %d: not found", id)
	}
	c := *loc
	return &c, nil
}

func (m *MemStore) TripByID(ctx context.Context, id string) (*models.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trips[id]
	if !ok {
		return nil, fmt.Errorf("trip %s: not found", id)
	}
	return copyTrip(t), nil
}

func (m *MemStore) CreateTrip(ctx context.Context, t *models.Trip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trips[t.ID]; ok {
		return fmt.Errorf("trip %s: already exists", t.ID)
	}
	m.trips[t.ID] = copyTrip(t)
	return nil
}

func (m *MemStore) SaveTrip(ctx context.Context, t *models.Trip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range t.Unloads {
		t.Unloads[i].SortOrder = i
		t.Unloads[i].TripID = t.ID
	}
	m.trips[t.ID] = copyTrip(t)
	return nil
}

func (m *MemStore) ListTrips(ctx context.Context, f TripFilter) ([]models.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Trip
	for _, t := range m.trips {
		if f.TankerID != 0 && t.TankerID != f.TankerID {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		out = append(out, *copyTrip(t))
	}
	return out, nil
}

func (m *MemStore) ActiveTripForTanker(ctx context.Context, tankerID uint) (*models.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.trips {
		if t.TankerID == tankerID && IsBlocking(t.Status) {
			return copyTrip(t), nil
		}
	}
	return nil, nil
}

func (m *MemStore) TripsByTankerStatus(ctx context.Context, tankerID uint, statuses ...models.TripStatus) ([]models.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Trip
	for _, t := range m.trips {
		if t.TankerID != tankerID {
			continue
		}
		for _, s := range statuses {
			if t.Status == s {
				out = append(out, *copyTrip(t))
				break
			}
		}
	}
	return out, nil
}

func (m *MemStore) TankerByID(ctx context.Context, id uint) (*models.Tanker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tankers[id]
	if !ok {
		return nil, fmt.Errorf("tanker %d: not found", id)
	}
	return copyTanker(t), nil
}

func (m *MemStore) CreateTanker(ctx context.Context, t *models.Tanker) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == 0 {
		m.nextTanker++
		t.ID = m.nextTanker
	}
	m.tankers[t.ID] = copyTanker(t)
	return nil
}

func (m *MemStore) SaveTanker(ctx context.Context, t *models.Tanker) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tankers[t.ID] = copyTanker(t)
	return nil
}

func (m *MemStore) DeleteTanker(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tankers, id)
	return nil
}

func (m *MemStore) ListTankers(ctx context.Context) ([]models.Tanker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Tanker
	for _, t := range m.tankers {
		out = append(out, *copyTanker(t))
	}
	return out, nil
}

func copyTrip(t *models.Trip) *models.Trip {
	c := *t
	c.Unloads = make([]models.UnloadStop, len(t.Unloads))
	copy(c.Unloads, t.Unloads)
	for i := range c.Unloads {
		if r := t.Unloads[i].SelectedRoute; r != nil {
			rc := *r
			c.Unloads[i].SelectedRoute = &rc
		}
		if q := t.Unloads[i].ActualQuantityMT; q != nil {
			qc := *q
			c.Unloads[i].ActualQuantityMT = &qc
		}
		if ts := t.Unloads[i].UnloadedAt; ts != nil {
			tc := *ts
			c.Unloads[i].UnloadedAt = &tc
		}
	}
	if t.EmptyRoute != nil {
		rc := *t.EmptyRoute
		c.EmptyRoute = &rc
	}
	if t.ActualEndDate != nil {
		dc := *t.ActualEndDate
		c.ActualEndDate = &dc
	}
	return &c
}

func copyTanker(t *models.Tanker) *models.Tanker {
	c := *t
	c.CompatibleProducts = append(c.CompatibleProducts[:0:0], t.CompatibleProducts...)
	return &c
}
