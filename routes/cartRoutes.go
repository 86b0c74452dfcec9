package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/shopfront/ecommerce-api/controllers"
)

func CartRoutes(api *gin.RouterGroup, c *controllers.CartController, g guards) {
	cart := api.Group("/cart", g.auth)
	{
		cart.GET("", c.GetCart)
		cart.POST("", c.AddToCart)
		cart.DELETE("", c.ClearCart)
		cart.PUT("/:productId", c.UpdateCartItem)
		cart.DELETE("/:productId", c.RemoveFromCart)
	}
}

func WishlistRoutes(api *gin.RouterGroup, c *controllers.WishlistController, g guards) {
	wishlist := api.Group("/wishlist", g.auth)
	{
		wishlist.POST("", c.AddToWishlist)
		wishlist.GET("", c.GetWishlist)
		wishlist.DELETE("/:productId", c.RemoveFromWishlist)
	}
}
