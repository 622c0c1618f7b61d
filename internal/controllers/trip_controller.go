package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"cryofleet/internal/models"
	"cryofleet/internal/trip"
)

// TripController exposes trip planning, transitions and manifest edits.
type TripController struct {
	trips *trip.Service
}

func NewTripController(svc *trip.Service) *TripController {
	return &TripController{trips: svc}
}

type createTripInput struct {
	TankerID         uint             `json:"tanker_id" binding:"required"`
	Product          string           `json:"product" binding:"required"`
	SupplierID       uint             `json:"supplier_id" binding:"required"`
	PlannedStartDate string           `json:"planned_start_date" binding:"required"`
	Tentative        bool             `json:"tentative"`
	DieselIssuedL    float64          `json:"diesel_issued_l"`
	Remarks          string           `json:"remarks"`
	Stops            []trip.StopInput `json:"stops"`
}

func (tc *TripController) Create(c *gin.Context) {
	var input createTripInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip input: " + err.Error()})
		return
	}
	startDate, err := time.Parse("2006-01-02", input.PlannedStartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "planned_start_date must be YYYY-MM-DD"})
		return
	}

	claim, _ := c.Get("user_id")
	uid, ok := claim.(float64)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing user identity"})
		return
	}
	createdBy := uint(uid)

	created, err := tc.trips.Create(c.Request.Context(), trip.CreateInput{
		TankerID:         input.TankerID,
		Product:          input.Product,
		SupplierID:       input.SupplierID,
		PlannedStartDate: startDate,
		Tentative:        input.Tentative,
		DieselIssuedL:    input.DieselIssuedL,
		Remarks:          input.Remarks,
		CreatedBy:        createdBy,
		Stops:            input.Stops,
	})
	if err != nil {
		logrus.WithError(err).Warn("CreateTrip rejected")
		reject(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"trip": created})
}

func (tc *TripController) List(c *gin.Context) {
	var f trip.TripFilter
	if s := c.Query("status"); s != "" {
		f.Status = models.TripStatus(s)
	}
	if t := c.Query("tanker_id"); t != "" {
		id, err := strconv.ParseUint(t, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tanker_id"})
			return
		}
		f.TankerID = uint(id)
	}

	trips, err := tc.trips.List(c.Request.Context(), f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing trips: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": trips})
}

func (tc *TripController) Get(c *gin.Context) {
	t, err := tc.trips.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		reject(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip": t})
}

type transitionInput struct {
	Status           models.TripStatus `json:"status" binding:"required"`
	ChallanNumber    string            `json:"challan_number"`
	ActualQuantityMT *float64          `json:"actual_quantity_mt"`
}

// Transition requests a status change; rejections carry the rule that fired.
func (tc *TripController) Transition(c *gin.Context) {
	var input transitionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transition input: " + err.Error()})
		return
	}

	t, err := tc.trips.Transition(c.Request.Context(), c.Param("id"), input.Status, trip.TransitionInput{
		ChallanNumber:    input.ChallanNumber,
		ActualQuantityMT: input.ActualQuantityMT,
	})
	if err != nil {
		logrus.WithError(err).WithField("trip", c.Param("id")).Warn("transition rejected")
		reject(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip": t})
}

// respondManifest handles the shared outcome of manifest edits: a trip saved
// with an unresolvable leg is a success with a warning, not a failure.
func respondManifest(c *gin.Context, t *models.Trip, err error) {
	if err != nil && !errors.Is(err, trip.ErrRouteUnavailable) {
		reject(c, err)
		return
	}
	resp := gin.H{"trip": t}
	if err != nil {
		resp["warning"] = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func (tc *TripController) AddStop(c *gin.Context) {
	var input trip.StopInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stop input: " + err.Error()})
		return
	}
	t, err := tc.trips.AddStop(c.Request.Context(), c.Param("id"), input)
	respondManifest(c, t, err)
}

func stopIndex(c *gin.Context) (int, bool) {
	idx, err := strconv.Atoi(c.Param("idx"))
	if err != nil || idx < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stop index"})
		return 0, false
	}
	return idx, true
}

func (tc *TripController) UpdateStop(c *gin.Context) {
	idx, ok := stopIndex(c)
	if !ok {
		return
	}
	var input struct {
		CustomerID *uint    `json:"customer_id"`
		QuantityMT *float64 `json:"quantity_mt"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stop input: " + err.Error()})
		return
	}
	t, err := tc.trips.UpdateStop(c.Request.Context(), c.Param("id"), idx, input.CustomerID, input.QuantityMT)
	respondManifest(c, t, err)
}

func (tc *TripController) RemoveStop(c *gin.Context) {
	idx, ok := stopIndex(c)
	if !ok {
		return
	}
	t, err := tc.trips.RemoveStop(c.Request.Context(), c.Param("id"), idx)
	respondManifest(c, t, err)
}

// SelectRoute picks among resolver candidates for a stop leg (or the empty
// leg when the stop index is omitted).
func (tc *TripController) SelectRoute(c *gin.Context) {
	var input struct {
		StopIndex *int `json:"stop_index"`
		Choice    int  `json:"choice"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid route selection: " + err.Error()})
		return
	}

	var (
		t   *models.Trip
		err error
	)
	if input.StopIndex == nil {
		t, err = tc.trips.SelectEmptyRoute(c.Request.Context(), c.Param("id"), input.Choice)
	} else {
		t, err = tc.trips.SelectRoute(c.Request.Context(), c.Param("id"), *input.StopIndex, input.Choice)
	}
	if err != nil {
		reject(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip": t})
}

func (tc *TripController) UpdateDetails(c *gin.Context) {
	var input trip.DetailsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid details input: " + err.Error()})
		return
	}
	t, err := tc.trips.UpdateDetails(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		reject(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip": t})
}

// Position reports where a trip's tanker is displayed on the dashboard. The
// position is derived from trip state, not live telemetry.
func (tc *TripController) Position(c *gin.Context) {
	t, loc, err := tc.trips.ReportedLocation(c.Request.Context(), c.Param("id"))
	if err != nil {
		reject(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"trip_id":  t.ID,
		"status":   t.Status,
		"location": loc,
	})
}

// Geometry returns the trip's route legs as GeoJSON for map layers.
func (tc *TripController) Geometry(c *gin.Context) {
	t, err := tc.trips.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		reject(c, err)
		return
	}

	legs := make([]gin.H, 0, len(t.Unloads)+1)
	if t.EmptyRoute != nil {
		geo, err := t.EmptyRoute.GeoJSON()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not encode empty leg: " + err.Error()})
			return
		}
		legs = append(legs, gin.H{"leg": "empty", "summary": t.EmptyRoute.Summary, "geometry": geo})
	}
	for i := range t.Unloads {
		r := t.Unloads[i].SelectedRoute
		if r == nil {
			continue
		}
		geo, err := r.GeoJSON()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not encode leg: " + err.Error()})
			return
		}
		legs = append(legs, gin.H{"leg": i, "summary": r.Summary, "geometry": geo})
	}
	c.JSON(http.StatusOK, gin.H{"trip_id": t.ID, "legs": legs})
}
