package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"cryofleet/internal/config"
	"cryofleet/internal/models"
)

type locationInput struct {
	Name    string  `json:"name" binding:"required"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat" binding:"required"`
	Lng     float64 `json:"lng" binding:"required"`
	Kind    string  `json:"kind" binding:"required"`
}

func validLocationKind(kind string) bool {
	return kind == models.LocationSupplier || kind == models.LocationCustomer
}

func CreateLocation(c *gin.Context) {
	var input locationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !validLocationKind(input.Kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be SUPPLIER or CUSTOMER"})
		return
	}

	loc := models.Location{
		Name:        input.Name,
		Address:     input.Address,
		Lat:         input.Lat,
		Lng:         input.Lng,
		Kind:        input.Kind,
		Operational: true,
	}
	if err := config.DB.Create(&loc).Error; err != nil {
		logrus.WithError(err).Error("CreateLocation: insert failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create location"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"location": loc})
}

// ListLocations returns sites, optionally filtered by kind. Archived sites
// are excluded unless include_archived is set, so planning screens only see
// operational ones.
func ListLocations(c *gin.Context) {
	q := config.DB.Order("name ASC")
	if kind := c.Query("kind"); kind != "" {
		q = q.Where("kind = ?", kind)
	}
	if c.Query("include_archived") == "" {
		q = q.Where("operational = ?", true)
	}

	var locations []models.Location
	if err := q.Find(&locations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list locations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": locations})
}

func UpdateLocation(c *gin.Context) {
	id := c.Param("id")

	var loc models.Location
	if err := config.DB.First(&loc, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
		return
	}

	var input locationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !validLocationKind(input.Kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be SUPPLIER or CUSTOMER"})
		return
	}

	loc.Name = input.Name
	loc.Address = input.Address
	loc.Lat = input.Lat
	loc.Lng = input.Lng
	loc.Kind = input.Kind
	if err := config.DB.Save(&loc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update location"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"location": loc})
}

// ArchiveLocation soft-deletes a site: it disappears from planning but stays
// resolvable for historical trips. Sites are never hard deleted.
func ArchiveLocation(c *gin.Context) {
	id := c.Param("id")

	var loc models.Location
	if err := config.DB.First(&loc, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
		return
	}

	loc.Operational = false
	if err := config.DB.Save(&loc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not archive location"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"location": loc})
}

// RestoreLocation returns an archived site to planning.
func RestoreLocation(c *gin.Context) {
	id := c.Param("id")

	var loc models.Location
	if err := config.DB.First(&loc, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
		return
	}

	loc.Operational = true
	if err := config.DB.Save(&loc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not restore location"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"location": loc})
}
