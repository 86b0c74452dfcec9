package sqlstore

import (
	"context"
	"strings"

	"github.com/shopfront/ecommerce-api/models"
	"github.com/shopfront/ecommerce-api/store"
	"gorm.io/gorm"
)

func (s *Store) filteredProducts(ctx context.Context, f store.ProductFilter) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Product{})
	if f.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(f.Search)) + "%"
		query = query.Where("(LOWER(title) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!')", pattern, pattern)
	}
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if f.Brand != "" {
		query = query.Where("brand = ?", f.Brand)
	}
	if f.MinPrice != nil {
		query = query.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		query = query.Where("price <= ?", *f.MaxPrice)
	}
	return query
}

func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}

func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	return translate(s.db.WithContext(ctx).Create(product).Error)
}

func (s *Store) InsertProducts(ctx context.Context, products []*models.Product) error {
	if len(products) == 0 {
		return nil
	}
	return translate(s.db.WithContext(ctx).Create(products).Error)
}

func (s *Store) FindProductByID(ctx context.Context, id string) (*models.Product, error) {
	return first[models.Product](ctx, s.db, "id = ?", id)
}

func (s *Store) FindProductsByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	products := []models.Product{}
	if len(ids) == 0 {
		return products, nil
	}
	err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	return products, err
}

func (s *Store) ListProducts(ctx context.Context, f store.ProductFilter) ([]models.Product, int64, error) {
	var total int64
	if err := s.filteredProducts(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := s.filteredProducts(ctx, f).Order("created_at DESC").Offset(f.Skip)
	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}

	products := []models.Product{}
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (s *Store) UpdateProduct(ctx context.Context, product *models.Product) error {
	return updateExisting(ctx, s.db, product.ID, product)
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteAllProducts(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Product{})
	return result.RowsAffected, result.Error
}

func (s *Store) DistinctCategories(ctx context.Context) ([]string, error) {
	categories := []string{}
	err := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("category <> ''").
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error
	return categories, err
}
