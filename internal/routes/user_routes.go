package routes

import (
	"github.com/gin-gonic/gin"

	"cryofleet/internal/controllers"
	"cryofleet/internal/middleware"
	"cryofleet/internal/models"
)

func UserRoutes(r *gin.Engine) {
	users := r.Group("/users")
	users.Use(middleware.RequireAuthWithRole(models.RoleAdmin))
	{
		users.POST("/", controllers.CreateUser)
		users.GET("/", controllers.ListUsers)
		users.PUT("/:id", controllers.UpdateUser)
		users.DELETE("/:id", controllers.DeleteUser)
	}
}
