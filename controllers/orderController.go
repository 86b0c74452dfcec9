package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopfront/ecommerce-api/middlewares"
	"github.com/shopfront/ecommerce-api/services"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// checkoutFailure writes the checkout error shape the storefront expects.
func checkoutFailure(ctx *gin.Context, err error) {
	_ = ctx.Error(err)
	status, message := http.StatusInternalServerError, "Error processing order"
	var serr *services.Error
	if errors.As(err, &serr) && serr.Kind != services.KindInternal {
		status, message = statusForKind(serr.Kind), serr.Message
	}
	ctx.JSON(status, gin.H{
		"success": false,
		"orderId": "",
		"message": message,
		"error":   message,
	})
}

// Checkout places an order from the caller's cart.
func (c *OrderController) Checkout(ctx *gin.Context) {
	var input services.CheckoutInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		checkoutFailure(ctx, services.Validation("Missing required fields: name, address, email"))
		return
	}

	order, err := c.orders.Checkout(ctx.Request.Context(), middlewares.GetUserID(ctx), input)
	if err != nil {
		checkoutFailure(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"success": true,
		"orderId": order.ID,
		"message": "Order placed successfully",
	})
}

func (c *OrderController) CreateOrder(ctx *gin.Context) {
	var input services.DirectOrderInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid data format", err)
		return
	}

	order, err := c.orders.CreateDirect(ctx.Request.Context(), middlewares.GetUserID(ctx), input)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message": "Order created successfully",
		"order":   order,
		"orderId": order.ID,
	})
}

func (c *OrderController) GetUserOrders(ctx *gin.Context) {
	orders, err := c.orders.ListForUser(ctx.Request.Context(), middlewares.GetUserID(ctx))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, orders)
}

func (c *OrderController) GetOrderDetails(ctx *gin.Context) {
	order, err := c.orders.Get(ctx.Request.Context(), middlewares.GetUserID(ctx), ctx.Param("id"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, order)
}

func (c *OrderController) CancelOrder(ctx *gin.Context) {
	order, err := c.orders.Cancel(ctx.Request.Context(), middlewares.GetUserID(ctx), ctx.Param("id"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Order cancelled successfully", "order": order})
}

func (c *OrderController) UpdateOrderStatus(ctx *gin.Context) {
	var input services.StatusUpdateInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidBody, err)
		return
	}

	order, err := c.orders.UpdateStatus(ctx.Request.Context(), ctx.Param("id"), input)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Order status updated successfully", "order": order})
}
