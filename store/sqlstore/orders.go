package sqlstore

import (
	"context"

	"github.com/shopfront/ecommerce-api/models"
)

func (s *Store) FindCartByUser(ctx context.Context, userID string) (*models.Cart, error) {
	return first[models.Cart](ctx, s.db, "user_id = ?", userID)
}

// SaveCart inserts or updates the cart. Callers reuse the id of a loaded cart
// so the unique user index is never violated.
func (s *Store) SaveCart(ctx context.Context, cart *models.Cart) error {
	return translate(s.db.WithContext(ctx).Save(cart).Error)
}

func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	return translate(s.db.WithContext(ctx).Create(order).Error)
}

func (s *Store) FindOrderByID(ctx context.Context, id string) (*models.Order, error) {
	return first[models.Order](ctx, s.db, "id = ?", id)
}

func (s *Store) ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("order_date DESC").Find(&orders).Error
	return orders, err
}

func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.WithContext(ctx).Order("order_date DESC").Find(&orders).Error
	return orders, err
}

func (s *Store) UpdateOrder(ctx context.Context, order *models.Order) error {
	return updateExisting(ctx, s.db, order.ID, order)
}

func (s *Store) AddWishlistEntry(ctx context.Context, entry *models.WishlistEntry) error {
	return translate(s.db.WithContext(ctx).Create(entry).Error)
}

func (s *Store) FindWishlistEntry(ctx context.Context, userID, productID string) (*models.WishlistEntry, error) {
	return first[models.WishlistEntry](ctx, s.db, "user_id = ? AND product_id = ?", userID, productID)
}

func (s *Store) ListWishlist(ctx context.Context, userID string) ([]models.WishlistEntry, error) {
	entries := []models.WishlistEntry{}
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&entries).Error
	return entries, err
}

func (s *Store) DeleteWishlistEntry(ctx context.Context, userID, productID string) (*models.WishlistEntry, error) {
	var entry models.WishlistEntry
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Limit(1).
		Find(&entry)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	if err := s.db.WithContext(ctx).Delete(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}
