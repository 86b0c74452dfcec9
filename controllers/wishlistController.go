package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopfront/ecommerce-api/middlewares"
	"github.com/shopfront/ecommerce-api/services"
)

type WishlistController struct {
	wishlist *services.WishlistService
}

func NewWishlistController(wishlist *services.WishlistService) *WishlistController {
	return &WishlistController{wishlist: wishlist}
}

func (c *WishlistController) AddToWishlist(ctx *gin.Context) {
	var body struct {
		ProductID string `json:"productId"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidBody, err)
		return
	}

	entry, err := c.wishlist.Add(ctx.Request.Context(), middlewares.GetUserID(ctx), body.ProductID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, entry)
}

func (c *WishlistController) GetWishlist(ctx *gin.Context) {
	items, err := c.wishlist.List(ctx.Request.Context(), middlewares.GetUserID(ctx))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, items)
}

func (c *WishlistController) RemoveFromWishlist(ctx *gin.Context) {
	entry, err := c.wishlist.Remove(ctx.Request.Context(), middlewares.GetUserID(ctx), ctx.Param("productId"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	// deletedItem is null when the pair was not present
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Removed", "deletedItem": entry})
}
