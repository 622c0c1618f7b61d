package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cryofleet/internal/trip"
)

// reject maps a core rejection to an HTTP response. The message keeps the
// tanker/trip/rule detail the core wrapped in, so dispatchers can act on it.
func reject(c *gin.Context, err error) {
	status := http.StatusBadRequest
	kind := "invalid_request"

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		status, kind = http.StatusNotFound, "not_found"
	case errors.Is(err, trip.ErrInvalidTransition):
		status, kind = http.StatusConflict, "invalid_transition"
	case errors.Is(err, trip.ErrAssetGrounded):
		status, kind = http.StatusConflict, "asset_grounded"
	case errors.Is(err, trip.ErrAssetBusy):
		status, kind = http.StatusConflict, "asset_busy"
	case errors.Is(err, trip.ErrManifestIncomplete):
		status, kind = http.StatusUnprocessableEntity, "manifest_incomplete"
	case errors.Is(err, trip.ErrImmutableRecord):
		status, kind = http.StatusConflict, "immutable_record"
	case errors.Is(err, trip.ErrLocationLocked):
		status, kind = http.StatusConflict, "location_locked"
	case errors.Is(err, trip.ErrRouteUnavailable):
		status, kind = http.StatusUnprocessableEntity, "route_unavailable"
	}

	c.JSON(status, gin.H{"error": err.Error(), "kind": kind})
}
