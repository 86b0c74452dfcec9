package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/shopfront/ecommerce-api/controllers"
)

func DefaultRoutes(server *gin.Engine, db controllers.Pinger) {
	server.GET("/", controllers.GetHome)
	server.GET("/health", controllers.Health(db))
}
