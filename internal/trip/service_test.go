package trip

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"

	"cryofleet/internal/models"
)

type captureEnqueuer struct {
	ids []uint
}

func (c *captureEnqueuer) Enqueue(tankerID uint) { c.ids = append(c.ids, tankerID) }

type svcWorld struct {
	*seqWorld
	svc    *Service
	enq    *captureEnqueuer
	depot  uint
	tanker *models.Tanker
}

func newSvcWorld(t *testing.T) *svcWorld {
	t.Helper()
	sw := newSeqWorld()
	depot := sw.store.PutLocation(&models.Location{Name: "Yard", Kind: models.LocationCustomer, Lat: 2, Lng: 0, Operational: true})
	tanker := &models.Tanker{
		Number:             "KL-07-TKR-1",
		CompatibleProducts: pq.StringArray{models.ProductLOX, models.ProductLN2},
		CapacityMT:         10,
		DieselAvgKmPerL:    3.5,
		CurrentLocationID:  depot.ID,
		Status:             models.TankerAvailable,
	}
	if err := sw.store.CreateTanker(context.Background(), tanker); err != nil {
		t.Fatalf("create tanker: %v", err)
	}
	enq := &captureEnqueuer{}
	return &svcWorld{
		seqWorld: sw,
		svc:      NewService(sw.store, sw.seq, enq),
		enq:      enq,
		depot:    depot.ID,
		tanker:   tanker,
	}
}

func (w *svcWorld) create(t *testing.T, stops ...StopInput) *models.Trip {
	t.Helper()
	tr, err := w.svc.Create(context.Background(), CreateInput{
		TankerID:         w.tanker.ID,
		Product:          models.ProductLOX,
		SupplierID:       w.supplier,
		PlannedStartDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Stops:            stops,
	})
	if err != nil {
		t.Fatalf("create trip: %v", err)
	}
	return tr
}

func (w *svcWorld) mustTransition(t *testing.T, tripID string, to models.TripStatus, in TransitionInput) *models.Trip {
	t.Helper()
	tr, err := w.svc.Transition(context.Background(), tripID, to, in)
	if err != nil {
		t.Fatalf("transition to %s: %v", to, err)
	}
	return tr
}

func TestCreateResolvesEmptyLeg(t *testing.T) {
	w := newSvcWorld(t)
	tr := w.create(t, StopInput{CustomerID: w.c1, QuantityMT: 5})

	if tr.Status != models.TripPlanned {
		t.Errorf("status = %s, want PLANNED", tr.Status)
	}
	if tr.EmptyRoute == nil {
		t.Fatal("empty leg not resolved")
	}
	if tr.EmptyDistanceKm != tr.EmptyRoute.DistanceKm {
		t.Errorf("empty distance %v != route %v", tr.EmptyDistanceKm, tr.EmptyRoute.DistanceKm)
	}
	if tr.TotalDistanceKm != tr.EmptyDistanceKm+tr.LoadedDistanceKm {
		t.Errorf("total %v != empty %v + loaded %v", tr.TotalDistanceKm, tr.EmptyDistanceKm, tr.LoadedDistanceKm)
	}
	if tr.TotalLoadedMT != 5 {
		t.Errorf("loaded mass = %v", tr.TotalLoadedMT)
	}
}

func TestCreateRejectsIncompatibleProduct(t *testing.T) {
	w := newSvcWorld(t)
	_, err := w.svc.Create(context.Background(), CreateInput{
		TankerID:   w.tanker.ID,
		Product:    models.ProductLAR,
		SupplierID: w.supplier,
	})
	if err == nil || !strings.Contains(err.Error(), "not rated") {
		t.Fatalf("got %v, want product rating rejection", err)
	}
}

func TestCreateRejectsArchivedSupplier(t *testing.T) {
	w := newSvcWorld(t)
	archived := w.store.PutLocation(&models.Location{Name: "Old Plant", Kind: models.LocationSupplier, Operational: false})
	_, err := w.svc.Create(context.Background(), CreateInput{
		TankerID:   w.tanker.ID,
		Product:    models.ProductLOX,
		SupplierID: archived.ID,
	})
	if err == nil || !strings.Contains(err.Error(), "archived") {
		t.Fatalf("got %v, want archived supplier rejection", err)
	}
}

// A trip with an empty manifest can load at the supplier but cannot dispatch.
func TestDispatchRequiresManifest(t *testing.T) {
	w := newSvcWorld(t)
	ctx := context.Background()
	tr := w.create(t)

	got := w.mustTransition(t, tr.ID, models.TripLoadedAtSupplier, TransitionInput{})
	if got.Status != models.TripLoadedAtSupplier {
		t.Fatalf("status = %s", got.Status)
	}
	tanker, _ := w.store.TankerByID(ctx, w.tanker.ID)
	if tanker.Status != models.TankerOnTrip || tanker.CurrentLocationID != w.supplier {
		t.Errorf("tanker = %s @ %d, want ON_TRIP @ supplier %d", tanker.Status, tanker.CurrentLocationID, w.supplier)
	}

	if _, err := w.svc.Transition(ctx, tr.ID, models.TripInTransit, TransitionInput{}); !errors.Is(err, ErrManifestIncomplete) {
		t.Fatalf("got %v, want ErrManifestIncomplete", err)
	}
	// The failed transition must leave no trace.
	reloaded, _ := w.store.TripByID(ctx, tr.ID)
	if reloaded.Status != models.TripLoadedAtSupplier {
		t.Errorf("status mutated to %s by rejected transition", reloaded.Status)
	}
}

func TestDeliveryRun(t *testing.T) {
	w := newSvcWorld(t)
	ctx := context.Background()
	tr := w.create(t,
		StopInput{CustomerID: w.c1, QuantityMT: 5},
		StopInput{CustomerID: w.c2, QuantityMT: 3},
	)
	if tr.TotalLoadedMT != 8 {
		t.Fatalf("loaded mass = %v", tr.TotalLoadedMT)
	}

	w.mustTransition(t, tr.ID, models.TripLoadedAtSupplier, TransitionInput{})
	got := w.mustTransition(t, tr.ID, models.TripInTransit, TransitionInput{ChallanNumber: "CH-2201"})
	if got.Unloads[0].ChallanNumber != "CH-2201" {
		t.Errorf("challan = %q", got.Unloads[0].ChallanNumber)
	}

	actual := 4.8
	got = w.mustTransition(t, tr.ID, models.TripPartiallyUnloaded, TransitionInput{ActualQuantityMT: &actual})
	stop := got.Unloads[0]
	if stop.ActualQuantityMT == nil || *stop.ActualQuantityMT != 4.8 {
		t.Errorf("actual = %v, want 4.8", stop.ActualQuantityMT)
	}
	if stop.UnloadedAt == nil {
		t.Error("delivery timestamp missing")
	}
	tanker, _ := w.store.TankerByID(ctx, w.tanker.ID)
	if tanker.CurrentLocationID != w.c1 {
		t.Errorf("tanker at %d, want first customer %d", tanker.CurrentLocationID, w.c1)
	}

	// The delivered stop is now frozen.
	if _, err := w.svc.RemoveStop(ctx, tr.ID, 0); !errors.Is(err, ErrImmutableRecord) {
		t.Fatalf("got %v, want ErrImmutableRecord", err)
	}
	qty := 9.0
	if _, err := w.svc.UpdateStop(ctx, tr.ID, 0, nil, &qty); !errors.Is(err, ErrImmutableRecord) {
		t.Fatalf("got %v, want ErrImmutableRecord", err)
	}

	// Second delivery and close.
	w.mustTransition(t, tr.ID, models.TripPartiallyUnloaded, TransitionInput{})
	got = w.mustTransition(t, tr.ID, models.TripClosed, TransitionInput{})
	if got.ActualEndDate == nil {
		t.Error("close did not stamp end date")
	}
	tanker, _ = w.store.TankerByID(ctx, w.tanker.ID)
	if tanker.Status != models.TankerAvailable || tanker.CurrentLocationID != w.c2 {
		t.Errorf("tanker = %s @ %d, want AVAILABLE @ last customer %d", tanker.Status, tanker.CurrentLocationID, w.c2)
	}
}

func TestSecondTripBlockedWhileFirstActive(t *testing.T) {
	w := newSvcWorld(t)
	ctx := context.Background()
	first := w.create(t, StopInput{CustomerID: w.c1, QuantityMT: 5})
	second := w.create(t, StopInput{CustomerID: w.c2, QuantityMT: 3})

	w.mustTransition(t, first.ID, models.TripLoadedAtSupplier, TransitionInput{})
	if _, err := w.svc.Transition(ctx, second.ID, models.TripLoadedAtSupplier, TransitionInput{}); !errors.Is(err, ErrAssetBusy) {
		t.Fatalf("got %v, want ErrAssetBusy", err)
	}

	// Cancelling the active trip frees the tanker for the second.
	w.mustTransition(t, first.ID, models.TripCancelled, TransitionInput{})
	w.mustTransition(t, second.ID, models.TripLoadedAtSupplier, TransitionInput{})
}

// A transition that relocates the tanker schedules a recompute, and the
// recompute re-resolves the empty leg of sibling PLANNED trips.
func TestRelocationRecomputesPlannedTrips(t *testing.T) {
	w := newSvcWorld(t)
	ctx := context.Background()
	active := w.create(t, StopInput{CustomerID: w.c1, QuantityMT: 5})
	planned := w.create(t, StopInput{CustomerID: w.c2, QuantityMT: 3})
	firstEmpty := planned.EmptyDistanceKm

	w.mustTransition(t, active.ID, models.TripLoadedAtSupplier, TransitionInput{})
	w.mustTransition(t, active.ID, models.TripInTransit, TransitionInput{ChallanNumber: "CH-1"})
	w.mustTransition(t, active.ID, models.TripPartiallyUnloaded, TransitionInput{})
	w.mustTransition(t, active.ID, models.TripClosed, TransitionInput{})

	if len(w.enq.ids) == 0 {
		t.Fatal("no recompute enqueued despite tanker movement")
	}
	for _, id := range w.enq.ids {
		if id != w.tanker.ID {
			t.Errorf("enqueued tanker %d, want %d", id, w.tanker.ID)
		}
	}

	if err := w.svc.RecomputePlanned(ctx, w.tanker.ID); err != nil {
		t.Fatalf("recompute: %v", err)
	}
	got, _ := w.store.TripByID(ctx, planned.ID)
	if got.Status != models.TripPlanned {
		t.Errorf("status = %s, recompute must not touch status", got.Status)
	}
	if got.EmptyDistanceKm == firstEmpty {
		t.Errorf("empty leg unchanged at %v after tanker moved from depot to %d", firstEmpty, w.c1)
	}
	if got.EmptyRoute == nil {
		t.Error("empty leg not re-resolved")
	}
	if got.TotalDistanceKm != got.EmptyDistanceKm+got.LoadedDistanceKm {
		t.Errorf("total %v out of step with legs", got.TotalDistanceKm)
	}
}

func TestManifestEditSavesDespiteMissingRoute(t *testing.T) {
	w := newSvcWorld(t)
	ctx := context.Background()
	tr := w.create(t, StopInput{CustomerID: w.c1, QuantityMT: 5})

	w.res.dead[[2]float64{1, 2}] = true
	got, err := w.svc.AddStop(ctx, tr.ID, StopInput{CustomerID: w.c3, QuantityMT: 2})
	if !errors.Is(err, ErrRouteUnavailable) {
		t.Fatalf("got %v, want ErrRouteUnavailable", err)
	}
	if got == nil || len(got.Unloads) != 2 {
		t.Fatal("stop not saved alongside the warning")
	}
	reloaded, _ := w.store.TripByID(ctx, tr.ID)
	if len(reloaded.Unloads) != 2 {
		t.Error("stop missing after reload")
	}
	if reloaded.Unloads[1].SelectedRoute != nil {
		t.Error("unresolvable leg has a route")
	}
}

func TestReportedLocation(t *testing.T) {
	w := newSvcWorld(t)
	tr := w.create(t, StopInput{CustomerID: w.c1, QuantityMT: 5})

	_, loc, err := w.svc.ReportedLocation(context.Background(), tr.ID)
	if err != nil {
		t.Fatalf("reported location: %v", err)
	}
	if loc.ID != w.depot {
		t.Errorf("planned trip reports %d, want depot %d", loc.ID, w.depot)
	}

	w.mustTransition(t, tr.ID, models.TripLoadedAtSupplier, TransitionInput{})
	_, loc, err = w.svc.ReportedLocation(context.Background(), tr.ID)
	if err != nil {
		t.Fatalf("reported location: %v", err)
	}
	if loc.ID != w.supplier {
		t.Errorf("loaded trip reports %d, want supplier %d", loc.ID, w.supplier)
	}
}

func TestReportedLocationID(t *testing.T) {
	now := time.Now()
	tanker := &models.Tanker{CurrentLocationID: 99}
	tr := &models.Trip{
		SupplierID: 10,
		Unloads: []models.UnloadStop{
			{CustomerID: 20, UnloadedAt: &now},
			{CustomerID: 21},
		},
	}

	cases := []struct {
		status models.TripStatus
		want   uint
	}{
		{models.TripTentative, 99},
		{models.TripPlanned, 99},
		{models.TripTransitToSupplier, 99},
		{models.TripLoadedAtSupplier, 10},
		{models.TripInTransit, 10},
		{models.TripPartiallyUnloaded, 20},
		{models.TripClosed, 21},
		{models.TripCancelled, 99},
	}
	for _, c := range cases {
		tr.Status = c.status
		if got := ReportedLocationID(tr, tanker); got != c.want {
			t.Errorf("%s: reported %d, want %d", c.status, got, c.want)
		}
	}
}
