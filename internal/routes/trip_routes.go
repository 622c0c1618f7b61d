package routes

import (
	"github.com/gin-gonic/gin"

	"cryofleet/internal/controllers"
	"cryofleet/internal/middleware"
)

func TripRoutes(r *gin.Engine, tc *controllers.TripController) {
	trips := r.Group("/trips")
	trips.Use(middleware.RequireAuth())
	{
		trips.POST("/", tc.Create)
		trips.GET("/", tc.List)
		trips.GET("/:id", tc.Get)
		trips.GET("/:id/geometry", tc.Geometry)
		trips.GET("/:id/position", tc.Position)
		trips.POST("/:id/status", tc.Transition)
		trips.PUT("/:id/details", tc.UpdateDetails)
		trips.POST("/:id/stops", tc.AddStop)
		trips.PUT("/:id/stops/:idx", tc.UpdateStop)
		trips.DELETE("/:id/stops/:idx", tc.RemoveStop)
		trips.POST("/:id/select-route", tc.SelectRoute)
	}
}
