package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"cryofleet/internal/controllers"
	"cryofleet/internal/fleet"
	"cryofleet/internal/routing"
	"cryofleet/internal/trip"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	store := trip.NewMemStore()
	seq := trip.NewSequencer(routing.NewOSRMResolver(""), store)
	return SetupRouter(
		controllers.NewTankerController(fleet.NewService(store)),
		controllers.NewTripController(trip.NewService(store, seq, nil)),
	)
}

// A handler hitting the uninitialized database must come back as a 500, not
// kill the process. That only holds if the recovery middleware is attached
// before the route groups are registered.
func TestRouterRecoversHandlerPanics(t *testing.T) {
	r := testRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"name":"ops","password":"pw"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 from recovered panic", w.Code)
	}
}

func TestRoutesRequireAuth(t *testing.T) {
	r := testRouter()
	for _, path := range []string{"/trips/", "/tankers/", "/locations/"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", path, w.Code)
		}
	}
}
