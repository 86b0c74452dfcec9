package controllers

import (
	"math"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopfront/ecommerce-api/services"
)

type ProductController struct {
	catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

func positiveIntQuery(ctx *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(ctx.Query(key))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

func floatQuery(ctx *gin.Context, key string) *float64 {
	v, err := strconv.ParseFloat(ctx.Query(key), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func (c *ProductController) GetProducts(ctx *gin.Context) {
	page, err := c.catalog.List(ctx.Request.Context(), services.ProductQuery{
		Page:     positiveIntQuery(ctx, "page", services.DefaultPage),
		Limit:    positiveIntQuery(ctx, "limit", services.DefaultLimit),
		Search:   ctx.Query("search"),
		Category: ctx.Query("category"),
		Brand:    ctx.Query("brand"),
		MinPrice: floatQuery(ctx, "minPrice"),
		MaxPrice: floatQuery(ctx, "maxPrice"),
	})
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, page)
}

func (c *ProductController) GetCategories(ctx *gin.Context) {
	categories, err := c.catalog.Categories(ctx.Request.Context())
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, categories)
}

func (c *ProductController) GetProduct(ctx *gin.Context) {
	product, err := c.catalog.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, product)
}

func (c *ProductController) CreateProduct(ctx *gin.Context) {
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

func (c *ProductController) CreateProducts(ctx *gin.Context) {
	var inputs []services.ProductInput
	if err := ctx.ShouldBindJSON(&inputs); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Request body must be a non-empty array of products")
		return
	}

	products, err := c.catalog.BulkInsert(ctx.Request.Context(), inputs)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, gin.H{"message": "Products added successfully", "products": products})
}

func (c *ProductController) UpdateProduct(ctx *gin.Context) {
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

func (c *ProductController) DeleteProduct(ctx *gin.Context) {
	if err := c.catalog.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func (c *ProductController) DeleteProducts(ctx *gin.Context) {
	deleted, err := c.catalog.DeleteAll(ctx.Request.Context())
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Products deleted successfully", "deletedCount": deleted})
}

func (c *ProductController) UploadProductImages(ctx *gin.Context) {
	form, err := ctx.MultipartForm()
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid form data", err)
		return
	}

	files := append(form.File["images"], form.File["images[]"]...)
	if len(files) == 0 {
		respondWithError(ctx, http.StatusBadRequest, "No files uploaded", nil)
		return
	}

	uploads := make([]services.ImageUpload, 0, len(files))
	for _, file := range files {
		f, err := file.Open()
		if err != nil {
			respondWithError(ctx, http.StatusBadRequest, "Invalid form data", err)
			return
		}
		defer func(f multipart.File) { _ = f.Close() }(f)

		uploads = append(uploads, services.ImageUpload{
			Filename:    file.Filename,
			ContentType: file.Header.Get("Content-Type"),
			Body:        f,
		})
	}

	result, err := c.catalog.UploadImages(ctx.Request.Context(), ctx.Param("id"), uploads)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	response := gin.H{
		"message": "Files processed",
		"urls":    result.URLs,
		"product": result.Product,
	}
	if len(result.Failed) > 0 {
		response["failed"] = result.Failed
	}
	ctx.JSON(http.StatusOK, response)
}
