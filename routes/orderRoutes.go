package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/shopfront/ecommerce-api/controllers"
)

func OrderRoutes(api *gin.RouterGroup, c *controllers.OrderController, g guards) {
	checkout := api.Group("/checkout", g.auth)
	{
		checkout.POST("", c.Checkout)
		checkout.GET("", c.GetUserOrders)
	}

	orders := api.Group("/orders", g.auth)
	{
		orders.GET("", c.GetUserOrders)
		orders.POST("", c.CreateOrder)
		orders.GET("/:id", c.GetOrderDetails)
		orders.POST("/:id/cancel", c.CancelOrder)
		orders.PUT("/:id/status", g.admin, c.UpdateOrderStatus)
	}
}

func AdminRoutes(api *gin.RouterGroup, c *controllers.AdminController, oc *controllers.OrderController, g guards) {
	admin := api.Group("/admin", g.auth, g.admin)
	{
		admin.GET("/products", c.GetProducts)
		admin.POST("/products", c.CreateProduct)
		admin.PUT("/products/:id", c.UpdateProduct)
		admin.DELETE("/products/:id", c.DeleteProduct)

		admin.GET("/orders", c.GetOrders)
		admin.PUT("/orders/:id/confirm", c.ConfirmOrder)
		admin.PUT("/orders/:id/cancel", c.CancelOrder)
		admin.PUT("/orders/:id/status", oc.UpdateOrderStatus)
	}
}
