package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopfront/ecommerce-api/middlewares"
	"github.com/shopfront/ecommerce-api/services"
)

type CartController struct {
	cart *services.CartService
}

func NewCartController(cart *services.CartService) *CartController {
	return &CartController{cart: cart}
}

func (c *CartController) GetCart(ctx *gin.Context) {
	view, err := c.cart.Get(ctx.Request.Context(), middlewares.GetUserID(ctx))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, view)
}

func (c *CartController) AddToCart(ctx *gin.Context) {
	var input services.AddCartItemInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidBody, err)
		return
	}

	view, err := c.cart.AddItem(ctx.Request.Context(), middlewares.GetUserID(ctx), input)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, view)
}

func (c *CartController) UpdateCartItem(ctx *gin.Context) {
	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidBody, err)
		return
	}

	view, err := c.cart.UpdateItem(ctx.Request.Context(), middlewares.GetUserID(ctx), ctx.Param("productId"), body.Quantity)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, view)
}

func (c *CartController) RemoveFromCart(ctx *gin.Context) {
	view, err := c.cart.RemoveItem(ctx.Request.Context(), middlewares.GetUserID(ctx), ctx.Param("productId"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, view)
}

func (c *CartController) ClearCart(ctx *gin.Context) {
	view, err := c.cart.Clear(ctx.Request.Context(), middlewares.GetUserID(ctx))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, view)
}
