package routes

import (
	"github.com/gin-gonic/gin"

	"cryofleet/internal/controllers"
	"cryofleet/internal/middleware"
	"cryofleet/internal/models"
)

func TankerRoutes(r *gin.Engine, tc *controllers.TankerController) {
	tankers := r.Group("/tankers")
	tankers.Use(middleware.RequireAuth())
	{
		tankers.GET("/", tc.List)
		tankers.GET("/:id", tc.Get)
		tankers.GET("/:id/active-trip", tc.ActiveTrip)
		tankers.POST("/:id/breakdown", tc.Breakdown)
		tankers.POST("/:id/restore", tc.Restore)
	}

	admin := r.Group("/tankers")
	admin.Use(middleware.RequireAuthWithRole(models.RoleAdmin))
	{
		admin.POST("/", tc.Create)
		admin.PUT("/:id", tc.Update)
		admin.DELETE("/:id", tc.Delete)
	}
}
