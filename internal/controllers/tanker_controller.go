package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"cryofleet/internal/fleet"
)

// TankerController exposes the fleet asset registry over HTTP.
type TankerController struct {
	fleet *fleet.Service
}

func NewTankerController(svc *fleet.Service) *TankerController {
	return &TankerController{fleet: svc}
}

func tankerID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tanker id"})
		return 0, false
	}
	return uint(id), true
}

func (tc *TankerController) Create(c *gin.Context) {
	var input fleet.TankerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tanker input: " + err.Error()})
		return
	}

	tanker, err := tc.fleet.Create(c.Request.Context(), input)
	if err != nil {
		logrus.WithError(err).Warn("CreateTanker rejected")
		reject(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"tanker": tanker})
}

func (tc *TankerController) List(c *gin.Context) {
	tankers, err := tc.fleet.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing tankers: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tankers})
}

func (tc *TankerController) Get(c *gin.Context) {
	id, ok := tankerID(c)
	if !ok {
		return
	}
	tanker, err := tc.fleet.Get(c.Request.Context(), id)
	if err != nil {
		reject(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tanker": tanker})
}

func (tc *TankerController) Update(c *gin.Context) {
	id, ok := tankerID(c)
	if !ok {
		return
	}
	var input fleet.TankerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tanker input: " + err.Error()})
		return
	}

	tanker, err := tc.fleet.Update(c.Request.Context(), id, input)
	if err != nil {
		logrus.WithError(err).Warn("UpdateTanker rejected")
		reject(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tanker": tanker})
}

func (tc *TankerController) Delete(c *gin.Context) {
	id, ok := tankerID(c)
	if !ok {
		return
	}
	if err := tc.fleet.Delete(c.Request.Context(), id); err != nil {
		reject(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "tanker deleted"})
}

// ActiveTrip answers the canonical "is this tanker busy" question.
func (tc *TankerController) ActiveTrip(c *gin.Context) {
	id, ok := tankerID(c)
	if !ok {
		return
	}
	active, err := tc.fleet.ActiveTrip(c.Request.Context(), id)
	if err != nil {
		reject(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip": active})
}

// Breakdown grounds the tanker, auto-cancelling its active trip if any.
func (tc *TankerController) Breakdown(c *gin.Context) {
	id, ok := tankerID(c)
	if !ok {
		return
	}
	tanker, err := tc.fleet.Breakdown(c.Request.Context(), id)
	if err != nil {
		reject(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tanker": tanker})
}

func (tc *TankerController) Restore(c *gin.Context) {
	id, ok := tankerID(c)
	if !ok {
		return
	}
	tanker, err := tc.fleet.Restore(c.Request.Context(), id)
	if err != nil {
		reject(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tanker": tanker})
}
