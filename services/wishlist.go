package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopfront/ecommerce-api/models"
	"github.com/shopfront/ecommerce-api/store"
	"go.uber.org/zap"
)

const msgAlreadyInWishlist = "Already in wishlist"

// WishlistItem is a wishlist entry with its product attached. Product is nil
// when the product has since been deleted.
type WishlistItem struct {
	ID        string          `json:"_id"`
	UserID    string          `json:"userId"`
	Product   *models.Product `json:"productId"`
	CreatedAt time.Time       `json:"createdAt"`
}

type WishlistService struct {
	wishlist store.WishlistStore
	products store.ProductStore
	log      *zap.Logger
	now      func() time.Time
}

func NewWishlistService(wishlist store.WishlistStore, products store.ProductStore, log *zap.Logger) *WishlistService {
	return &WishlistService{wishlist: wishlist, products: products, log: log.Named("wishlist"), now: time.Now}
}

func (s *WishlistService) Add(ctx context.Context, userID, productID string) (*models.WishlistEntry, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, Validation(msgProductIDRequired)
	}
	if !store.ValidID(productID) {
		return nil, NotFound(msgProductNotFound)
	}
	if _, err := s.products.FindProductByID(ctx, productID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, NotFound(msgProductNotFound)
		}
		return nil, Internal("Error adding to wishlist", err)
	}

	if _, err := s.wishlist.FindWishlistEntry(ctx, userID, productID); err == nil {
		return nil, Conflict(msgAlreadyInWishlist)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, Internal("Error adding to wishlist", err)
	}

	entry := &models.WishlistEntry{
		ID:        store.NewID(),
		UserID:    userID,
		ProductID: productID,
		CreatedAt: s.now(),
	}
	if err := s.wishlist.AddWishlistEntry(ctx, entry); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, Conflict(msgAlreadyInWishlist)
		}
		return nil, Internal("Error adding to wishlist", err)
	}
	return entry, nil
}

func (s *WishlistService) List(ctx context.Context, userID string) ([]WishlistItem, error) {
	entries, err := s.wishlist.ListWishlist(ctx, userID)
	if err != nil {
		return nil, Internal("Error fetching wishlist", err)
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ProductID)
	}
	index, err := productIndex(ctx, s.products, ids)
	if err != nil {
		return nil, Internal("Error fetching wishlist", err)
	}

	items := make([]WishlistItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, WishlistItem{
			ID:        e.ID,
			UserID:    e.UserID,
			Product:   index[e.ProductID],
			CreatedAt: e.CreatedAt,
		})
	}
	return items, nil
}

// Remove deletes the (user, product) pair. The removed entry is nil when the
// pair was not in the wishlist.
func (s *WishlistService) Remove(ctx context.Context, userID, productID string) (*models.WishlistEntry, error) {
	entry, err := s.wishlist.DeleteWishlistEntry(ctx, userID, strings.TrimSpace(productID))
	if err != nil {
		return nil, Internal("Error removing from wishlist", err)
	}
	if entry != nil {
		s.log.Debug("wishlist entry removed", zap.String("user_id", userID), zap.String("product_id", entry.ProductID))
	}
	return entry, nil
}
