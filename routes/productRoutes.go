package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/shopfront/ecommerce-api/controllers"
)

func ProductRoutes(api *gin.RouterGroup, c *controllers.ProductController, g guards) {
	products := api.Group("/products")
	{
		products.GET("/categories", c.GetCategories)
		products.GET("", c.GetProducts)
		products.GET("/:id", c.GetProduct)

		products.POST("", g.auth, g.admin, c.CreateProduct)
		products.POST("/bulk", g.auth, g.admin, c.CreateProducts)
		products.POST("/:id/images", g.auth, g.admin, c.UploadProductImages)
		products.PUT("/:id", g.auth, g.admin, c.UpdateProduct)
		products.DELETE("/:id", g.auth, g.admin, c.DeleteProduct)
		products.DELETE("", g.auth, g.admin, c.DeleteProducts)
	}
}
