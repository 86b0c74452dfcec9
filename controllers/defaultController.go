package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

func GetHome(ctx *gin.Context) {
	message := `Welcome to the Shopfront API. Enjoy seamless interaction with this API.

The following are the endpoints for this API:

USERS
- POST "/api/users/register" - Create user account
- POST "/api/users/login" - Access user account
- POST "/api/users/logout" - Revoke the current token
- POST "/api/users/upgrade-to-admin" - Upgrade the current user with the admin PIN
- GET "/api/users/me" - Profile, addresses and payment methods

PRODUCTS
- GET "/api/products" - Search and page through products
- GET "/api/products/categories" - Distinct categories
- GET "/api/products/:id" - Get product by ID

CART, WISHLIST AND ORDERS
- "/api/cart" - Shopping cart
- "/api/wishlist" - Wishlist
- "/api/checkout" - Place an order from the cart
- "/api/orders" - Order history and cancellation

ADMIN
- "/api/admin" - Product and order management`

	ctx.String(http.StatusOK, message)
}

// Health reports whether the database answers.
func Health(db Pinger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(pingCtx); err != nil {
			respondWithError(ctx, http.StatusServiceUnavailable, "Database unavailable", err)
			return
		}
		sendJSONResponse(ctx, http.StatusOK, gin.H{"status": "ok"})
	}
}
