package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopfront/ecommerce-api/models"
	"github.com/shopfront/ecommerce-api/payments"
	"github.com/shopfront/ecommerce-api/store"
	"github.com/shopfront/ecommerce-api/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const (
	msgOrderNotFound         = "Order not found"
	msgAccessDenied          = "Access denied"
	msgCheckoutFields        = "Missing required fields: name, address, email"
	msgCartEmpty             = "Cart is empty"
	msgProductsUnavailable   = "Some products in your cart are no longer available"
	msgOnlyPendingCancel     = "Only pending orders can be cancelled"
	msgInvalidStatus         = "Invalid status value"
	msgPaymentNotVerified    = "Payment could not be verified"
	defaultPaymentMethod     = "paypal"
	defaultTransactionID     = "N/A"
	defaultDirectPayStatus   = "completed"
	defaultCheckoutPayStatus = "pending"
	defaultCurrency          = "USD"
)

// adminStatuses are the values accepted by the admin status update.
var adminStatuses = []string{
	models.OrderStatusConfirmed,
	models.OrderStatusShipped,
	models.OrderStatusOutForDelivery,
	models.OrderStatusDelivered,
}

type PaymentVerifier interface {
	Verify(ctx context.Context, orderID string) (*payments.Verification, error)
}

type OrderNotifier interface {
	SendOrderConfirmation(ctx context.Context, confirmation utils.OrderConfirmation) error
}

type CheckoutInput struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Email   string `json:"email"`
}

type DirectOrderItem struct {
	Product  string  `json:"product" validate:"required"`
	Quantity int     `json:"quantity" validate:"gte=1"`
	Price    float64 `json:"price" validate:"gte=0"`
}

type PaymentInfoInput struct {
	Method        string         `json:"method"`
	TransactionID string         `json:"transactionId"`
	Status        string         `json:"status"`
	Currency      string         `json:"currency"`
	Details       map[string]any `json:"details"`
}

type DirectOrderInput struct {
	Items           []DirectOrderItem       `json:"items" validate:"dive"`
	ShippingAddress *models.ShippingAddress `json:"shippingAddress"`
	PaymentInfo     *PaymentInfoInput       `json:"paymentInfo"`
	// TotalAmount is kept untyped so a non-numeric value can be reported
	// with a precise message instead of a decode failure.
	TotalAmount any `json:"totalAmount"`
}

type StatusUpdateInput struct {
	Status            string     `json:"status"`
	TrackingNumber    string     `json:"trackingNumber"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery"`
}

// ProductSummary is the product shown next to an order line.
type ProductSummary struct {
	ID     string           `json:"_id"`
	Title  string           `json:"title"`
	Price  float64          `json:"price"`
	Images models.ImageList `json:"images"`
}

type OrderLineView struct {
	ProductID string          `json:"productId"`
	Product   *ProductSummary `json:"product"`
	Quantity  int             `json:"quantity"`
	Price     float64         `json:"price"`
}

// OrderView is an order with its line items resolved to products.
type OrderView struct {
	*models.Order
	Items []OrderLineView `json:"items"`
}

type AdminOrderView struct {
	OrderView
	User *models.UserSummary `json:"user"`
}

type OrderService struct {
	orders   store.OrderStore
	carts    store.CartStore
	products store.ProductStore
	users    store.UserStore
	payments PaymentVerifier
	notifier OrderNotifier
	log      *zap.Logger
	now      func() time.Time
}

// NewOrderService builds the order service. verifier and notifier are
// optional.
func NewOrderService(
	orders store.OrderStore,
	carts store.CartStore,
	products store.ProductStore,
	users store.UserStore,
	verifier PaymentVerifier,
	notifier OrderNotifier,
	log *zap.Logger,
) *OrderService {
	return &OrderService{
		orders:   orders,
		carts:    carts,
		products: products,
		users:    users,
		payments: verifier,
		notifier: notifier,
		log:      log.Named("orders"),
		now:      time.Now,
	}
}

// Checkout turns the user's cart into a pending order priced at the current
// product prices and empties the cart.
func (s *OrderService) Checkout(ctx context.Context, userID string, in CheckoutInput) (*models.Order, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" || in.Address == "" || in.Email == "" {
		return nil, Validation(msgCheckoutFields)
	}

	cart, err := s.carts.FindCartByUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, Validation(msgCartEmpty)
	}
	if err != nil {
		return nil, Internal("Error processing order", err)
	}
	if len(cart.Items) == 0 {
		return nil, Validation(msgCartEmpty)
	}

	index, err := productIndex(ctx, s.products, cart.ProductIDs())
	if err != nil {
		return nil, Internal("Error processing order", err)
	}

	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		product, ok := index[line.ProductID]
		if !ok {
			return nil, BusinessRule(msgProductsUnavailable)
		}
		price := decimal.NewFromFloat(product.Price)
		total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		items = append(items, models.OrderItem{ProductID: product.ID, Quantity: line.Quantity, Price: product.Price})
	}

	now := s.now()
	amount := total.InexactFloat64()
	order := &models.Order{
		ID:              store.NewID(),
		UserID:          userID,
		Items:           datatypes.NewJSONSlice(items),
		TotalAmount:     amount,
		ShippingAddress: models.ShippingAddress{Name: in.Name, Address: in.Address, Email: in.Email},
		PaymentInfo: models.PaymentInfo{
			Method:        defaultPaymentMethod,
			TransactionID: defaultTransactionID,
			Status:        defaultCheckoutPayStatus,
			Amount:        amount,
			Currency:      defaultCurrency,
			Details:       datatypes.JSONMap{},
		},
		Status:    models.OrderStatusPending,
		OrderDate: now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, Internal("Error processing order", err)
	}

	cart.Clear()
	cart.UpdatedAt = now
	if err := s.carts.SaveCart(ctx, cart); err != nil {
		// the order exists; a stale cart is recoverable by the user
		s.log.Error("failed to clear cart after checkout", zap.String("order_id", order.ID), zap.Error(err))
	}

	s.log.Info("order placed", zap.String("order_id", order.ID), zap.String("user_id", userID), zap.Float64("total", amount))
	s.notify(order, index)
	return order, nil
}

func detailString(details map[string]any, key string) string {
	switch v := details[key].(type) {
	case string:
		return v
	case float64:
		if v != 0 {
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// BuildPaymentInfo applies the fallbacks used for client supplied payment
// data: explicit fields win, then the provider details, then fixed defaults.
func BuildPaymentInfo(in *PaymentInfoInput, total float64) models.PaymentInfo {
	details := in.Details
	if details == nil {
		details = map[string]any{}
	}
	return models.PaymentInfo{
		Method:        firstNonEmpty(in.Method, defaultPaymentMethod),
		TransactionID: firstNonEmpty(in.TransactionID, detailString(details, "transactionId"), detailString(details, "id"), defaultTransactionID),
		Status:        firstNonEmpty(in.Status, detailString(details, "status"), defaultDirectPayStatus),
		Amount:        total,
		Currency:      firstNonEmpty(in.Currency, detailString(details, "currency"), defaultCurrency),
		Details:       datatypes.JSONMap(details),
	}
}

func (s *OrderService) CreateDirect(ctx context.Context, userID string, in DirectOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, Validation("Order items are required")
	}
	if in.ShippingAddress == nil {
		return nil, Validation("Shipping address is required")
	}
	if in.PaymentInfo == nil {
		return nil, Validation("Payment info is required")
	}
	total, ok := in.TotalAmount.(float64)
	if !ok || total == 0 {
		return nil, Validation("Total amount is required and must be a number")
	}
	if errs := fieldErrors(&in); errs != nil {
		fe := errs[0]
		return nil, Validation(fmt.Sprintf("Validation error: %s failed on %s", fe.Namespace(), fe.Tag()))
	}

	payment := BuildPaymentInfo(in.PaymentInfo, total)
	if !slices.Contains(models.PaymentMethods, payment.Method) {
		return nil, Validation("Invalid payment method")
	}
	if !slices.Contains(models.PaymentStatuses, payment.Status) {
		return nil, Validation("Invalid payment status")
	}
	if err := s.verifyPayment(ctx, &payment); err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(in.Items))
	for _, item := range in.Items {
		items = append(items, models.OrderItem{ProductID: item.Product, Quantity: item.Quantity, Price: item.Price})
	}

	now := s.now()
	order := &models.Order{
		ID:              store.NewID(),
		UserID:          userID,
		Items:           datatypes.NewJSONSlice(items),
		TotalAmount:     total,
		ShippingAddress: *in.ShippingAddress,
		PaymentInfo:     payment,
		Status:          models.OrderStatusPending,
		OrderDate:       now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, Internal("Error creating order", err)
	}

	s.log.Info("order created", zap.String("order_id", order.ID), zap.String("user_id", userID), zap.String("payment_method", payment.Method))
	if index, err := productIndex(ctx, s.products, productIDs(order)); err == nil {
		s.notify(order, index)
	}
	return order, nil
}

// verifyPayment confirms PayPal transactions with PayPal when a verifier is
// configured. The captured amount and currency must match the order; the
// status PayPal reports is recorded.
func (s *OrderService) verifyPayment(ctx context.Context, payment *models.PaymentInfo) error {
	if s.payments == nil || payment.Method != "paypal" || payment.TransactionID == defaultTransactionID {
		return nil
	}
	v, err := s.payments.Verify(ctx, payment.TransactionID)
	if err != nil {
		s.log.Warn("payment verification failed", zap.String("transaction_id", payment.TransactionID), zap.Error(err))
		return Validation(msgPaymentNotVerified)
	}
	if !paymentMatches(v, payment) {
		s.log.Warn("payment does not match order",
			zap.String("transaction_id", payment.TransactionID),
			zap.Float64("paid", v.Amount), zap.String("paid_currency", v.Currency),
			zap.Float64("total", payment.Amount), zap.String("currency", payment.Currency),
		)
		return Validation(msgPaymentNotVerified)
	}
	payment.Status = v.Status
	return nil
}

// paymentMatches reports whether PayPal's record covers the order: same
// transaction, same currency and the same amount to the cent.
func paymentMatches(v *payments.Verification, payment *models.PaymentInfo) bool {
	if v.OrderID != "" && v.OrderID != payment.TransactionID {
		return false
	}
	if !strings.EqualFold(v.Currency, payment.Currency) {
		return false
	}
	paid := decimal.NewFromFloat(v.Amount).Round(2)
	return paid.Equal(decimal.NewFromFloat(payment.Amount).Round(2))
}

func productIDs(order *models.Order) []string {
	ids := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		ids = append(ids, item.ProductID)
	}
	return ids
}

func (s *OrderService) notify(order *models.Order, index map[string]*models.Product) {
	if s.notifier == nil || order.ShippingAddress.Email == "" {
		return
	}
	confirmation := utils.OrderConfirmation{
		To:      order.ShippingAddress.Email,
		Name:    order.ShippingAddress.Name,
		OrderID: order.ID,
		Total:   decimal.NewFromFloat(order.TotalAmount).StringFixed(2),
	}
	for _, item := range order.Items {
		name := unknownProductName
		if p, ok := index[item.ProductID]; ok {
			name = p.Title
		}
		confirmation.Lines = append(confirmation.Lines, utils.OrderConfirmationLine{
			Name:     name,
			Quantity: item.Quantity,
			Price:    decimal.NewFromFloat(item.Price).StringFixed(2),
		})
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.notifier.SendOrderConfirmation(ctx, confirmation); err != nil {
			s.log.Warn("order confirmation email failed", zap.String("order_id", order.ID), zap.Error(err))
		}
	}()
}

func (s *OrderService) resolve(ctx context.Context, orders []models.Order) ([]OrderView, error) {
	ids := []string{}
	for i := range orders {
		ids = append(ids, productIDs(&orders[i])...)
	}
	index, err := productIndex(ctx, s.products, ids)
	if err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(orders))
	for i := range orders {
		order := &orders[i]
		view := OrderView{Order: order, Items: make([]OrderLineView, 0, len(order.Items))}
		for _, item := range order.Items {
			line := OrderLineView{ProductID: item.ProductID, Quantity: item.Quantity, Price: item.Price}
			if p, ok := index[item.ProductID]; ok {
				line.Product = &ProductSummary{ID: p.ID, Title: p.Title, Price: p.Price, Images: p.Images}
			}
			view.Items = append(view.Items, line)
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *OrderService) ListForUser(ctx context.Context, userID string) ([]OrderView, error) {
	orders, err := s.orders.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, Internal("Error fetching orders", err)
	}
	views, err := s.resolve(ctx, orders)
	if err != nil {
		return nil, Internal("Error fetching orders", err)
	}
	return views, nil
}

func (s *OrderService) load(ctx context.Context, orderID string) (*models.Order, error) {
	if !store.ValidID(orderID) {
		return nil, NotFound(msgOrderNotFound)
	}
	order, err := s.orders.FindOrderByID(ctx, orderID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFound(msgOrderNotFound)
	}
	if err != nil {
		return nil, Internal("Error fetching order details", err)
	}
	return order, nil
}

func (s *OrderService) Get(ctx context.Context, userID, orderID string) (*OrderView, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, Forbidden(msgAccessDenied)
	}
	views, err := s.resolve(ctx, []models.Order{*order})
	if err != nil {
		return nil, Internal("Error fetching order details", err)
	}
	return &views[0], nil
}

func (s *OrderService) save(ctx context.Context, order *models.Order, failure string) error {
	order.UpdatedAt = s.now()
	if err := s.orders.UpdateOrder(ctx, order); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NotFound(msgOrderNotFound)
		}
		return Internal(failure, err)
	}
	return nil
}

// Cancel lets the owner cancel an order that is still pending.
func (s *OrderService) Cancel(ctx context.Context, userID, orderID string) (*models.Order, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, NotFound(msgOrderNotFound)
	}
	if order.Status != models.OrderStatusPending {
		return nil, BusinessRule(msgOnlyPendingCancel)
	}
	order.Status = models.OrderStatusCancelled
	if err := s.save(ctx, order, "Error cancelling order"); err != nil {
		return nil, err
	}
	s.log.Info("order cancelled", zap.String("order_id", order.ID), zap.String("by", "owner"))
	return order, nil
}

// CanAdvance reports whether an admin may move an order from one status to
// another. Moves go forward only; steps may be skipped; a status may be
// re-applied to update tracking data. Delivered and cancelled are final.
func CanAdvance(from, to string) bool {
	if from == models.OrderStatusDelivered || from == models.OrderStatusCancelled {
		return false
	}
	fromRank, toRank := models.StatusRank(from), models.StatusRank(to)
	return fromRank >= 0 && toRank >= fromRank
}

func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, in StatusUpdateInput) (*models.Order, error) {
	if !slices.Contains(adminStatuses, in.Status) {
		return nil, Validation(msgInvalidStatus)
	}
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !CanAdvance(order.Status, in.Status) {
		return nil, BusinessRule(fmt.Sprintf("Cannot change order status from %s to %s", order.Status, in.Status))
	}

	order.Status = in.Status
	if tn := strings.TrimSpace(in.TrackingNumber); tn != "" {
		order.TrackingNumber = &tn
	}
	if in.EstimatedDelivery != nil {
		order.EstimatedDelivery = in.EstimatedDelivery
	}
	if err := s.save(ctx, order, "Error updating order status"); err != nil {
		return nil, err
	}
	s.log.Info("order status updated", zap.String("order_id", order.ID), zap.String("status", order.Status))
	return order, nil
}

// Confirm moves a pending order to confirmed.
func (s *OrderService) Confirm(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusPending {
		return nil, BusinessRule("Only pending orders can be confirmed")
	}
	order.Status = models.OrderStatusConfirmed
	if err := s.save(ctx, order, "Error confirming order"); err != nil {
		return nil, err
	}
	s.log.Info("order confirmed", zap.String("order_id", order.ID))
	return order, nil
}

// AdminCancel cancels an order that has not shipped yet.
func (s *OrderService) AdminCancel(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusPending && order.Status != models.OrderStatusConfirmed {
		return nil, BusinessRule("Only pending or confirmed orders can be cancelled")
	}
	order.Status = models.OrderStatusCancelled
	if err := s.save(ctx, order, "Error cancelling order"); err != nil {
		return nil, err
	}
	s.log.Info("order cancelled", zap.String("order_id", order.ID), zap.String("by", "admin"))
	return order, nil
}

// ListAll returns every order with products and the owning user resolved.
func (s *OrderService) ListAll(ctx context.Context) ([]AdminOrderView, error) {
	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		return nil, Internal("Error fetching orders", err)
	}
	views, err := s.resolve(ctx, orders)
	if err != nil {
		return nil, Internal("Error fetching orders", err)
	}

	userIDs := make([]string, 0, len(orders))
	seen := map[string]bool{}
	for _, o := range orders {
		if !seen[o.UserID] {
			seen[o.UserID] = true
			userIDs = append(userIDs, o.UserID)
		}
	}
	users, err := s.users.FindUsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, Internal("Error fetching orders", err)
	}
	byID := make(map[string]models.UserSummary, len(users))
	for i := range users {
		byID[users[i].ID] = users[i].Summary()
	}

	out := make([]AdminOrderView, 0, len(views))
	for _, v := range views {
		av := AdminOrderView{OrderView: v}
		if u, ok := byID[v.UserID]; ok {
			av.User = &u
		}
		out = append(out, av)
	}
	return out, nil
}
