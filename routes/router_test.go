package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopfront/ecommerce-api/initializers"
	"github.com/shopfront/ecommerce-api/store/sqlstore"
	"github.com/shopfront/ecommerce-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testAdminPIN = "424242"

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	st, err := sqlstore.Open("sqlite", "file::memory:", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, st.EnsureSchema(context.Background()))
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	cfg := &initializers.Config{
		Env:      "test",
		AdminPIN: testAdminPIN,
		CORS:     []string{"http://localhost:4200"},
	}
	return NewRouter(Dependencies{
		Config:  cfg,
		Store:   st,
		Log:     zap.NewNop(),
		Tokens:  utils.NewTokenManager("test-secret", time.Hour),
		Revoker: utils.NewMemoryTokenRevoker(),
	})
}

func do(t *testing.T, srv http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// signup registers a user and returns a bearer token for it.
func signup(t *testing.T, srv http.Handler, username string) string {
	t.Helper()
	email := username + "@example.com"
	rec := do(t, srv, http.MethodPost, "/api/users/register", "", gin.H{
		"username": username, "email": email, "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, srv, http.MethodPost, "/api/users/login", "", gin.H{"email": email, "password": "secret123"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[map[string]any](t, rec)["token"].(string)
}

func signupAdmin(t *testing.T, srv http.Handler, username string) string {
	t.Helper()
	token := signup(t, srv, username)
	rec := do(t, srv, http.MethodPost, "/api/users/upgrade-to-admin", token, gin.H{"pin": testAdminPIN})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return token
}

func createProduct(t *testing.T, srv http.Handler, adminToken string, title string, price float64, stock int) string {
	t.Helper()
	rec := do(t, srv, http.MethodPost, "/api/products", adminToken, gin.H{
		"title": title, "price": price, "stock": stock, "category": "shoes",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[map[string]any](t, rec)["_id"].(string)
}

func TestHomeAndHealth(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Welcome")

	rec = do(t, srv, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]any](t, rec)["status"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/users/register", "", gin.H{
		"username": "alice", "email": "alice@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "User registered successfully", body["message"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "alice", user["username"])
	assert.NotContains(t, user, "password")

	rec = do(t, srv, http.MethodPost, "/api/users/register", "", gin.H{
		"username": "alice2", "email": "alice@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already registered. Please use a different email or login.", decode[map[string]any](t, rec)["message"])
}

func TestLogoutRevokesToken(t *testing.T) {
	srv := newTestServer(t)
	token := signup(t, srv, "bobby")

	rec := do(t, srv, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bobby", decode[map[string]any](t, rec)["username"])

	rec = do(t, srv, http.MethodPost, "/api/users/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthGuards(t *testing.T) {
	srv := newTestServer(t)
	token := signup(t, srv, "carol")

	tests := []struct {
		name    string
		method  string
		path    string
		token   string
		status  int
		message string
	}{
		{"cart without token", http.MethodGet, "/api/cart", "", http.StatusUnauthorized, "Authentication required"},
		{"cart with garbage token", http.MethodGet, "/api/cart", "not-a-jwt", http.StatusUnauthorized, "Invalid token"},
		{"product create as customer", http.MethodPost, "/api/products", token, http.StatusForbidden, "Admin access required"},
		{"admin orders as customer", http.MethodGet, "/api/admin/orders", token, http.StatusForbidden, "Admin access required"},
		{"admin orders without token", http.MethodGet, "/api/admin/orders", "", http.StatusUnauthorized, "Authentication required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, tt.method, tt.path, tt.token, gin.H{"title": "x", "price": 1})
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.message, decode[map[string]any](t, rec)["message"])
		})
	}

	rec := do(t, srv, http.MethodPost, "/api/users/upgrade-to-admin", token, gin.H{"pin": "000000"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestProductCatalog(t *testing.T) {
	srv := newTestServer(t)
	admin := signupAdmin(t, srv, "admin")
	id := createProduct(t, srv, admin, "Runner", 80, 5)
	createProduct(t, srv, admin, "Walker", 40, 5)

	rec := do(t, srv, http.MethodGet, "/api/products?limit=1&page=2", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[map[string]any](t, rec)
	assert.EqualValues(t, 2, page["total"])
	assert.EqualValues(t, 2, page["pages"])
	assert.Len(t, page["products"], 1)

	rec = do(t, srv, http.MethodGet, "/api/products?minPrice=NaN&maxPrice=Inf", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, decode[map[string]any](t, rec)["total"])

	rec = do(t, srv, http.MethodGet, "/api/products/categories", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"shoes"}, decode[[]any](t, rec))

	rec = do(t, srv, http.MethodPut, "/api/products/"+id, admin, gin.H{"price": 75})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 75, decode[map[string]any](t, rec)["price"])

	rec = do(t, srv, http.MethodGet, "/api/products/not-an-id", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodDelete, "/api/products/"+id, admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, srv, http.MethodGet, "/api/products/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartAndCheckout(t *testing.T) {
	srv := newTestServer(t)
	admin := signupAdmin(t, srv, "admin")
	productID := createProduct(t, srv, admin, "Sandal", 12.5, 10)
	token := signup(t, srv, "dave")

	for range 2 {
		rec := do(t, srv, http.MethodPost, "/api/cart", token, gin.H{"productId": productID, "quantity": 2})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec := do(t, srv, http.MethodGet, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decode[map[string]any](t, rec)
	items := cart["items"].([]any)
	require.Len(t, items, 1)
	assert.EqualValues(t, 4, items[0].(map[string]any)["quantity"])
	assert.EqualValues(t, 50, cart["total"])

	rec = do(t, srv, http.MethodPost, "/api/cart", token, gin.H{"productId": productID, "quantity": 11})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Not enough stock available", decode[map[string]any](t, rec)["message"])

	rec = do(t, srv, http.MethodPost, "/api/checkout", token, gin.H{"name": "Dave"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, decode[map[string]any](t, rec)["success"])

	rec = do(t, srv, http.MethodPost, "/api/checkout", token, gin.H{
		"name": "Dave", "address": "1 Main St", "email": "dave@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	placed := decode[map[string]any](t, rec)
	assert.Equal(t, true, placed["success"])
	orderID := placed["orderId"].(string)
	require.NotEmpty(t, orderID)

	rec = do(t, srv, http.MethodGet, "/api/cart", token, nil)
	assert.Empty(t, decode[map[string]any](t, rec)["items"])

	rec = do(t, srv, http.MethodGet, "/api/orders", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	orders := decode[[]map[string]any](t, rec)
	require.Len(t, orders, 1)
	assert.EqualValues(t, 50, orders[0]["totalAmount"])
	assert.Equal(t, "pending", orders[0]["status"])

	other := signup(t, srv, "erin")
	rec = do(t, srv, http.MethodGet, "/api/orders/"+orderID, other, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, srv, http.MethodPut, "/api/admin/orders/"+orderID+"/confirm", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, srv, http.MethodPost, "/api/orders/"+orderID+"/cancel", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Only pending orders can be cancelled", decode[map[string]any](t, rec)["message"])

	rec = do(t, srv, http.MethodPut, "/api/orders/"+orderID+"/status", admin, gin.H{"status": "shipped", "trackingNumber": "TRK1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/api/orders/"+orderID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	order := decode[map[string]any](t, rec)
	assert.Equal(t, "shipped", order["status"])
	assert.Equal(t, "TRK1", order["trackingNumber"])
}

func TestWishlistAndProfile(t *testing.T) {
	srv := newTestServer(t)
	admin := signupAdmin(t, srv, "admin")
	productID := createProduct(t, srv, admin, "Boot", 99, 3)
	token := signup(t, srv, "frank")

	rec := do(t, srv, http.MethodPost, "/api/wishlist", token, gin.H{"productId": productID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = do(t, srv, http.MethodPost, "/api/wishlist", token, gin.H{"productId": productID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Already in wishlist", decode[map[string]any](t, rec)["message"])

	rec = do(t, srv, http.MethodGet, "/api/wishlist", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]any](t, rec), 1)

	rec = do(t, srv, http.MethodDelete, "/api/wishlist/"+productID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Removed", decode[map[string]any](t, rec)["message"])

	rec = do(t, srv, http.MethodPost, "/api/users/me/addresses", token, gin.H{
		"street": "1 Main St", "city": "Springfield", "state": "IL", "postalCode": "62701", "country": "US", "isDefault": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, srv, http.MethodPost, "/api/users/me/payment-methods", token, gin.H{
		"cardType": "visa", "last4Digits": "12a4", "expiryDate": "12/30",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid card number format", decode[map[string]any](t, rec)["message"])

	rec = do(t, srv, http.MethodGet, "/api/users/me/addresses", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	addresses := decode[[]map[string]any](t, rec)
	require.Len(t, addresses, 1)
	assert.Equal(t, true, addresses[0]["isDefault"])
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	req.Header.Set("Origin", "http://localhost:4200")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:4200", rec.Header().Get("Access-Control-Allow-Origin"))
}
