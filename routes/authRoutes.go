package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/shopfront/ecommerce-api/controllers"
)

func AuthRoutes(api *gin.RouterGroup, c *controllers.AuthController, g guards) {
	users := api.Group("/users")
	{
		users.POST("/register", c.Register)
		users.POST("/login", c.Login)
		users.POST("/logout", g.auth, c.Logout)
		users.POST("/upgrade-to-admin", g.auth, c.UpgradeToAdmin)
	}
}

func ProfileRoutes(api *gin.RouterGroup, c *controllers.ProfileController, g guards) {
	me := api.Group("/users/me", g.auth)
	{
		me.GET("", c.GetUserProfile)

		me.GET("/addresses", c.GetAllAddresses)
		me.GET("/addresses/:id", c.GetAddressByID)
		me.POST("/addresses", c.AddAddress)
		me.PUT("/addresses/:id", c.UpdateAddress)
		me.DELETE("/addresses/:id", c.RemoveAddress)

		me.GET("/payment-methods", c.GetAllPaymentMethods)
		me.GET("/payment-methods/:id", c.GetPaymentMethodByID)
		me.POST("/payment-methods", c.AddPaymentMethod)
		me.PUT("/payment-methods/:id", c.UpdatePaymentMethod)
		me.DELETE("/payment-methods/:id", c.RemovePaymentMethod)
	}
}
