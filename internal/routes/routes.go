package routes

import (
	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"cryofleet/internal/controllers"
)

// SetupRouter registers every resource group and returns the engine. Global
// middleware goes on before any group: gin snapshots handler chains at
// registration time.
func SetupRouter(tankers *controllers.TankerController, trips *controllers.TripController) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ginlog.SetLogger())

	AuthRoutes(r)
	UserRoutes(r)
	LocationRoutes(r)
	TankerRoutes(r, tankers)
	TripRoutes(r, trips)

	return r
}
