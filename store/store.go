// Package store defines the persistence contracts used by the services and
// the sentinel errors every backend translates its driver errors into.
package store

import (
	"context"
	"errors"

	"github.com/shopfront/ecommerce-api/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = errors.New("store: record not found")
	ErrDuplicate = errors.New("store: duplicate key")
)

// NewID returns a fresh 24 character hex identifier. Both backends use the
// same id format so clients never see a difference.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ValidID reports whether id has the shape produced by NewID.
func ValidID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}

type ProductFilter struct {
	Search   string
	Category string
	Brand    string
	MinPrice *float64
	MaxPrice *float64
	Skip     int
	Limit    int
}

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUsersByIDs(ctx context.Context, ids []string) ([]models.User, error)
	SetAdmin(ctx context.Context, id string, isAdmin bool) error
	ReplaceAddresses(ctx context.Context, userID string, addresses []models.Address) error
	ReplacePaymentMethods(ctx context.Context, userID string, methods []models.PaymentMethod) error
}

type ProductStore interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	InsertProducts(ctx context.Context, products []*models.Product) error
	FindProductByID(ctx context.Context, id string) (*models.Product, error)
	FindProductsByIDs(ctx context.Context, ids []string) ([]models.Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id string) error
	DeleteAllProducts(ctx context.Context) (int64, error)
	DistinctCategories(ctx context.Context) ([]string, error)
}

type CartStore interface {
	FindCartByUser(ctx context.Context, userID string) (*models.Cart, error)
	SaveCart(ctx context.Context, cart *models.Cart) error
}

type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	FindOrderByID(ctx context.Context, id string) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	UpdateOrder(ctx context.Context, order *models.Order) error
}

type WishlistStore interface {
	AddWishlistEntry(ctx context.Context, entry *models.WishlistEntry) error
	FindWishlistEntry(ctx context.Context, userID, productID string) (*models.WishlistEntry, error)
	ListWishlist(ctx context.Context, userID string) ([]models.WishlistEntry, error)
	// DeleteWishlistEntry returns the removed entry, or nil when none existed.
	DeleteWishlistEntry(ctx context.Context, userID, productID string) (*models.WishlistEntry, error)
}

type Store interface {
	UserStore
	ProductStore
	CartStore
	OrderStore
	WishlistStore

	EnsureSchema(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
