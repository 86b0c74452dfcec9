package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopfront/ecommerce-api/models"
	"github.com/shopfront/ecommerce-api/store"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const (
	msgCartNotFound       = "Cart not found"
	msgItemNotInCart      = "Item not found in cart"
	msgNotEnoughStock     = "Not enough stock available"
	msgQuantityAtLeastOne = "Quantity must be at least 1"
	msgProductIDRequired  = "Product ID is required"
	unknownProductName    = "Unknown Product"
)

type AddCartItemInput struct {
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity"`
	Color     string `json:"color"`
}

type CartItemView struct {
	MongoID  string  `json:"_id"`
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image"`
	Color    string  `json:"color"`
}

type CartView struct {
	Items []CartItemView `json:"items"`
	Total float64        `json:"total"`
}

func emptyCartView() *CartView {
	return &CartView{Items: []CartItemView{}, Total: 0}
}

type CartService struct {
	carts    store.CartStore
	products store.ProductStore
	log      *zap.Logger
	now      func() time.Time
}

func NewCartService(carts store.CartStore, products store.ProductStore, log *zap.Logger) *CartService {
	return &CartService{carts: carts, products: products, log: log.Named("cart"), now: time.Now}
}

// productIndex loads the products referenced by ids keyed by id.
func productIndex(ctx context.Context, products store.ProductStore, ids []string) (map[string]*models.Product, error) {
	index := make(map[string]*models.Product, len(ids))
	if len(ids) == 0 {
		return index, nil
	}
	found, err := products.FindProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range found {
		index[found[i].ID] = &found[i]
	}
	return index, nil
}

// ShapeCart turns a stored cart into the display form. Products that no
// longer exist are shown as "Unknown Product" with the placeholder image.
func ShapeCart(cart *models.Cart, products map[string]*models.Product) *CartView {
	view := emptyCartView()
	if cart == nil {
		return view
	}
	total := decimal.Zero
	for _, item := range cart.Items {
		line := CartItemView{
			MongoID:  item.ProductID,
			ID:       item.ProductID,
			Name:     unknownProductName,
			Price:    item.Price,
			Quantity: item.Quantity,
			Image:    models.PlaceholderImage,
			Color:    item.Color,
		}
		if p, ok := products[item.ProductID]; ok {
			line.Name = p.Title
			line.Image = p.DisplayImage()
		}
		view.Items = append(view.Items, line)
		total = total.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	view.Total = total.InexactFloat64()
	return view
}

func (s *CartService) shape(ctx context.Context, cart *models.Cart) (*CartView, error) {
	index, err := productIndex(ctx, s.products, cart.ProductIDs())
	if err != nil {
		return nil, Internal("Error fetching cart", err)
	}
	return ShapeCart(cart, index), nil
}

func (s *CartService) loadCart(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.carts.FindCartByUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFound(msgCartNotFound)
	}
	if err != nil {
		return nil, Internal("Error fetching cart", err)
	}
	return cart, nil
}

func (s *CartService) loadProduct(ctx context.Context, productID string) (*models.Product, error) {
	if !store.ValidID(productID) {
		return nil, NotFound(msgProductNotFound)
	}
	product, err := s.products.FindProductByID(ctx, productID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFound(msgProductNotFound)
	}
	if err != nil {
		return nil, Internal("Error fetching product", err)
	}
	return product, nil
}

func (s *CartService) save(ctx context.Context, cart *models.Cart) error {
	cart.UpdatedAt = s.now()
	if err := s.carts.SaveCart(ctx, cart); err != nil {
		return Internal("Error saving cart", err)
	}
	return nil
}

func (s *CartService) Get(ctx context.Context, userID string) (*CartView, error) {
	cart, err := s.carts.FindCartByUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return emptyCartView(), nil
	}
	if err != nil {
		return nil, Internal("Error fetching cart", err)
	}
	return s.shape(ctx, cart)
}

func (s *CartService) AddItem(ctx context.Context, userID string, in AddCartItemInput) (*CartView, error) {
	productID := strings.TrimSpace(in.ProductID)
	if productID == "" {
		return nil, Validation(msgProductIDRequired)
	}
	quantity := 1
	if in.Quantity != nil {
		quantity = *in.Quantity
	}
	if quantity < 1 {
		return nil, Validation(msgQuantityAtLeastOne)
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if quantity > product.Stock {
		return nil, BusinessRule(msgNotEnoughStock)
	}

	cart, err := s.carts.FindCartByUser(ctx, userID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		now := s.now()
		cart = &models.Cart{
			ID:        store.NewID(),
			UserID:    userID,
			Items:     datatypes.JSONSlice[models.CartItem]{},
			CreatedAt: now,
		}
	case err != nil:
		return nil, Internal("Error fetching cart", err)
	}

	cart.AddItem(product.ID, quantity, product.Price, in.Color)
	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return s.shape(ctx, cart)
}

func (s *CartService) UpdateItem(ctx context.Context, userID, productID string, quantity int) (*CartView, error) {
	if quantity < 1 {
		return nil, Validation(msgQuantityAtLeastOne)
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if quantity > product.Stock {
		return nil, BusinessRule(msgNotEnoughStock)
	}

	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !cart.SetQuantity(product.ID, quantity, product.Price) {
		return nil, NotFound(msgItemNotInCart)
	}
	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return s.shape(ctx, cart)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*CartView, error) {
	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.RemoveItem(productID)
	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return s.shape(ctx, cart)
}

func (s *CartService) Clear(ctx context.Context, userID string) (*CartView, error) {
	cart, err := s.loadCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart.Clear()
	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	return emptyCartView(), nil
}
