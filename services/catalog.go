package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/shopfront/ecommerce-api/models"
	"github.com/shopfront/ecommerce-api/store"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const (
	DefaultPage  = 1
	DefaultLimit = 12

	msgProductNotFound = "Product not found"
)

type ProductQuery struct {
	Page     int
	Limit    int
	Search   string
	Category string
	Brand    string
	MinPrice *float64
	MaxPrice *float64
}

type ProductPage struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	Pages    int              `json:"pages"`
	Products []models.Product `json:"products"`
}

type ProductInput struct {
	Title       string           `json:"title" validate:"notblank"`
	Price       *float64         `json:"price" validate:"required,gte=0"`
	Colors      []string         `json:"colors"`
	Description string           `json:"description"`
	Images      models.ImageList `json:"images"`
	Category    string           `json:"category"`
	Stock       int              `json:"stock" validate:"gte=0"`
	Rating      float64          `json:"rating" validate:"gte=0,lte=5"`
	Brand       string           `json:"brand"`
}

// ProductPatch carries a partial update; nil fields are left unchanged.
type ProductPatch struct {
	Title       *string           `json:"title" validate:"omitnil,notblank"`
	Price       *float64          `json:"price" validate:"omitnil,gte=0"`
	Colors      *[]string         `json:"colors"`
	Description *string           `json:"description"`
	Images      *models.ImageList `json:"images"`
	Category    *string           `json:"category"`
	Stock       *int              `json:"stock" validate:"omitnil,gte=0"`
	Rating      *float64          `json:"rating" validate:"omitnil,gte=0,lte=5"`
	Brand       *string           `json:"brand"`
}

// ImageUpload is one file received for a product.
type ImageUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type ImageUploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

type CatalogService struct {
	products store.ProductStore
	uploader ImageUploader
	keyFunc  func(productID, filename string) string
	log      *zap.Logger
	now      func() time.Time
}

// NewCatalogService builds the catalog service. uploader may be nil when no
// image storage is configured.
func NewCatalogService(products store.ProductStore, uploader ImageUploader, keyFunc func(productID, filename string) string, log *zap.Logger) *CatalogService {
	return &CatalogService{
		products: products,
		uploader: uploader,
		keyFunc:  keyFunc,
		log:      log.Named("catalog"),
		now:      time.Now,
	}
}

func productValidationMessage(errs []string) string {
	return "Invalid product: " + strings.Join(errs, ", ")
}

func describeProductErrors(v any) []string {
	errs := fieldErrors(v)
	if errs == nil {
		return nil
	}
	out := make([]string, 0, len(errs))
	for _, fe := range errs {
		switch fe.Tag() {
		case "required", "notblank":
			out = append(out, fe.Field()+" is required")
		case "gte":
			out = append(out, fe.Field()+" must be at least "+fe.Param())
		case "lte":
			out = append(out, fe.Field()+" must be at most "+fe.Param())
		default:
			out = append(out, fe.Field()+" is invalid")
		}
	}
	return out
}

func (s *CatalogService) List(ctx context.Context, q ProductQuery) (*ProductPage, error) {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}

	products, total, err := s.products.ListProducts(ctx, store.ProductFilter{
		Search:   strings.TrimSpace(q.Search),
		Category: q.Category,
		Brand:    q.Brand,
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
		Skip:     (q.Page - 1) * q.Limit,
		Limit:    q.Limit,
	})
	if err != nil {
		return nil, Internal("Unable to fetch products", err)
	}

	return &ProductPage{
		Total:    total,
		Page:     q.Page,
		Pages:    int(math.Ceil(float64(total) / float64(q.Limit))),
		Products: products,
	}, nil
}

// ListAll returns every product, newest first.
func (s *CatalogService) ListAll(ctx context.Context) ([]models.Product, error) {
	products, _, err := s.products.ListProducts(ctx, store.ProductFilter{})
	if err != nil {
		return nil, Internal("Unable to fetch products", err)
	}
	return products, nil
}

func (s *CatalogService) Get(ctx context.Context, id string) (*models.Product, error) {
	if !store.ValidID(id) {
		return nil, NotFound(msgProductNotFound)
	}
	product, err := s.products.FindProductByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFound(msgProductNotFound)
	}
	if err != nil {
		return nil, Internal("Unable to retrieve product", err)
	}
	return product, nil
}

func (s *CatalogService) newProduct(in ProductInput) *models.Product {
	now := s.now()
	colors := in.Colors
	if colors == nil {
		colors = []string{}
	}
	images := in.Images
	if images == nil {
		images = models.ImageList{}
	}
	return &models.Product{
		ID:          store.NewID(),
		Title:       strings.TrimSpace(in.Title),
		Price:       *in.Price,
		Colors:      datatypes.NewJSONSlice(colors),
		Description: in.Description,
		Images:      images,
		Category:    in.Category,
		Stock:       in.Stock,
		Rating:      in.Rating,
		Brand:       in.Brand,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (s *CatalogService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if errs := describeProductErrors(&in); errs != nil {
		return nil, Validation(productValidationMessage(errs))
	}
	product := s.newProduct(in)
	if err := s.products.CreateProduct(ctx, product); err != nil {
		return nil, Internal("Failed to create product", err)
	}
	s.log.Info("product created", zap.String("product_id", product.ID))
	return product, nil
}

func (s *CatalogService) BulkInsert(ctx context.Context, inputs []ProductInput) ([]*models.Product, error) {
	if len(inputs) == 0 {
		return nil, Validation("Request body must be a non-empty array of products")
	}

	products := make([]*models.Product, 0, len(inputs))
	for i := range inputs {
		if errs := describeProductErrors(&inputs[i]); errs != nil {
			return nil, Validation(fmt.Sprintf("Product at index %d is invalid: %s", i, strings.Join(errs, ", ")))
		}
		products = append(products, s.newProduct(inputs[i]))
	}

	if err := s.products.InsertProducts(ctx, products); err != nil {
		return nil, Internal("Failed to add products", err)
	}
	s.log.Info("products inserted", zap.Int("count", len(products)))
	return products, nil
}

func (s *CatalogService) Update(ctx context.Context, id string, patch ProductPatch) (*models.Product, error) {
	if errs := describeProductErrors(&patch); errs != nil {
		return nil, Validation(productValidationMessage(errs))
	}

	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		product.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.Colors != nil {
		product.Colors = datatypes.NewJSONSlice(*patch.Colors)
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Images != nil {
		product.Images = *patch.Images
	}
	if patch.Category != nil {
		product.Category = *patch.Category
	}
	if patch.Stock != nil {
		product.Stock = *patch.Stock
	}
	if patch.Rating != nil {
		product.Rating = *patch.Rating
	}
	if patch.Brand != nil {
		product.Brand = *patch.Brand
	}
	product.UpdatedAt = s.now()

	if err := s.products.UpdateProduct(ctx, product); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NotFound(msgProductNotFound)
		}
		return nil, Internal("Failed to update product", err)
	}
	return product, nil
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if !store.ValidID(id) {
		return NotFound(msgProductNotFound)
	}
	err := s.products.DeleteProduct(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return NotFound(msgProductNotFound)
	}
	if err != nil {
		return Internal("Failed to delete product", err)
	}
	s.log.Info("product deleted", zap.String("product_id", id))
	return nil
}

func (s *CatalogService) DeleteAll(ctx context.Context) (int64, error) {
	deleted, err := s.products.DeleteAllProducts(ctx)
	if err != nil {
		return 0, Internal("Failed to delete products", err)
	}
	s.log.Warn("all products deleted", zap.Int64("count", deleted))
	return deleted, nil
}

func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.products.DistinctCategories(ctx)
	if err != nil {
		return nil, Internal("Unable to fetch categories", err)
	}
	return categories, nil
}

// UploadResult reports which files were stored and which failed.
type UploadResult struct {
	Product *models.Product `json:"product"`
	URLs    []string        `json:"urls"`
	Failed  []string        `json:"failed,omitempty"`
}

// UploadImages stores the files and appends their public URLs to the
// product's image list. Individual upload failures are reported, not fatal.
func (s *CatalogService) UploadImages(ctx context.Context, id string, files []ImageUpload) (*UploadResult, error) {
	if s.uploader == nil {
		return nil, Internal("Image storage is not configured", nil)
	}
	if len(files) == 0 {
		return nil, Validation("No files uploaded")
	}

	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	result := &UploadResult{URLs: []string{}}
	for _, f := range files {
		url, err := s.uploader.Upload(ctx, s.keyFunc(product.ID, f.Filename), f.ContentType, f.Body)
		if err != nil {
			s.log.Error("image upload failed", zap.String("product_id", product.ID), zap.String("file", f.Filename), zap.Error(err))
			result.Failed = append(result.Failed, f.Filename)
			continue
		}
		result.URLs = append(result.URLs, url)
	}

	if len(result.URLs) > 0 {
		product.Images = append(product.Images, result.URLs...)
		product.UpdatedAt = s.now()
		if err := s.products.UpdateProduct(ctx, product); err != nil {
			return nil, Internal("Failed to save product images", err)
		}
	}
	result.Product = product
	return result, nil
}
