package routes

import (
	"github.com/gin-gonic/gin"

	"cryofleet/internal/controllers"
	"cryofleet/internal/middleware"
	"cryofleet/internal/models"
)

func LocationRoutes(r *gin.Engine) {
	locations := r.Group("/locations")
	locations.Use(middleware.RequireAuth())
	{
		locations.GET("/", controllers.ListLocations)
	}

	admin := r.Group("/locations")
	admin.Use(middleware.RequireAuthWithRole(models.RoleAdmin))
	{
		admin.POST("/", controllers.CreateLocation)
		admin.PUT("/:id", controllers.UpdateLocation)
		admin.POST("/:id/archive", controllers.ArchiveLocation)
		admin.POST("/:id/restore", controllers.RestoreLocation)
	}
}
