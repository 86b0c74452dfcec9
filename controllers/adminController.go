package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopfront/ecommerce-api/services"
)

// AdminController serves the admin panel. Product writes reuse the catalog
// rules; order moves go through the order state machine.
type AdminController struct {
	catalog *services.CatalogService
	orders  *services.OrderService
}

func NewAdminController(catalog *services.CatalogService, orders *services.OrderService) *AdminController {
	return &AdminController{catalog: catalog, orders: orders}
}

func (c *AdminController) GetProducts(ctx *gin.Context) {
	products, err := c.catalog.ListAll(ctx.Request.Context())
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, products)
}

func (c *AdminController) CreateProduct(ctx *gin.Context) {
	var input services.ProductInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidBody, err)
		return
	}

	product, err := c.catalog.Create(ctx.Request.Context(), input)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, product)
}

func (c *AdminController) UpdateProduct(ctx *gin.Context) {
	var patch services.ProductPatch
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidBody, err)
		return
	}

	product, err := c.catalog.Update(ctx.Request.Context(), ctx.Param("id"), patch)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, product)
}

func (c *AdminController) DeleteProduct(ctx *gin.Context) {
	if err := c.catalog.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Product deleted"})
}

func (c *AdminController) GetOrders(ctx *gin.Context) {
	orders, err := c.orders.ListAll(ctx.Request.Context())
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, orders)
}

func (c *AdminController) ConfirmOrder(ctx *gin.Context) {
	order, err := c.orders.Confirm(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, order)
}

func (c *AdminController) CancelOrder(ctx *gin.Context) {
	order, err := c.orders.AdminCancel(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, order)
}
