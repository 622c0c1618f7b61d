package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"cryofleet/internal/routing"
	"cryofleet/internal/trip"
)

// A request reaching the handler without an identity claim gets a 401, not a
// panic.
func TestCreateTripRejectsMissingIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := trip.NewMemStore()
	seq := trip.NewSequencer(routing.NewOSRMResolver(""), store)
	tc := NewTripController(trip.NewService(store, seq, nil))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/trips/",
		strings.NewReader(`{"tanker_id":1,"product":"LOX","supplier_id":1,"planned_start_date":"2026-03-01"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	tc.Create(c)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
