package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopfront/ecommerce-api/models"
	"github.com/shopfront/ecommerce-api/store"
	"github.com/shopfront/ecommerce-api/store/sqlstore"
	"github.com/shopfront/ecommerce-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/datatypes"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type failingRevoker struct{}

func (failingRevoker) Revoke(context.Context, string, time.Duration) error { return nil }
func (failingRevoker) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func newUser(isAdmin bool) *models.User {
	now := time.Now()
	return &models.User{
		ID:             store.NewID(),
		Username:       "user" + store.NewID()[18:],
		Email:          store.NewID() + "@example.com",
		Password:       "hash",
		IsAdmin:        isAdmin,
		Addresses:      datatypes.JSONSlice[models.Address]{},
		PaymentMethods: datatypes.JSONSlice[models.PaymentMethod]{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestRequireAuth(t *testing.T) {
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	revoker := utils.NewMemoryTokenRevoker()
	user := newUser(false)

	valid, err := tokens.Issue(user)
	require.NoError(t, err)
	revoked, err := tokens.Issue(user)
	require.NoError(t, err)
	claims, err := tokens.Parse(revoked)
	require.NoError(t, err)
	require.NoError(t, revoker.Revoke(context.Background(), claims.ID, time.Hour))
	foreign, err := utils.NewTokenManager("other-secret", time.Hour).Issue(user)
	require.NoError(t, err)

	engine := gin.New()
	engine.GET("/private", RequireAuth(tokens, revoker, zap.NewNop()), func(ctx *gin.Context) {
		ctx.String(http.StatusOK, GetUserID(ctx)+"|"+GetClaims(ctx).Username)
	})

	tests := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"missing header", "", http.StatusUnauthorized, `{"message":"Authentication required"}`},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized, `{"message":"Authentication required"}`},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, `{"message":"Authentication required"}`},
		{"foreign signature", "Bearer " + foreign, http.StatusUnauthorized, `{"message":"Invalid token"}`},
		{"revoked", "Bearer " + revoked, http.StatusUnauthorized, `{"message":"Invalid token"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := serve(engine, req)
			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, tt.message, rec.Body.String())
		})
	}

	t.Run("valid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/private", nil)
		req.Header.Set("Authorization", "Bearer "+valid)
		rec := serve(engine, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, user.ID+"|"+user.Username, rec.Body.String())
	})
}

func TestRequireAuthFailsOpenWhenRevokerErrors(t *testing.T) {
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	token, err := tokens.Issue(newUser(false))
	require.NoError(t, err)

	core, logs := observer.New(zap.ErrorLevel)
	engine := gin.New()
	engine.GET("/private", RequireAuth(tokens, failingRevoker{}, zap.New(core)), func(ctx *gin.Context) {
		ctx.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := serve(engine, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, logs.FilterMessage("token revocation check failed").Len())
}

func TestRequireAdmin(t *testing.T) {
	st, err := sqlstore.Open("sqlite", "file::memory:", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, st.EnsureSchema(context.Background()))
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	admin := newUser(true)
	customer := newUser(false)
	require.NoError(t, st.CreateUser(context.Background(), admin))
	require.NoError(t, st.CreateUser(context.Background(), customer))

	withUser := func(id string) gin.HandlerFunc {
		return func(ctx *gin.Context) {
			if id != "" {
				ctx.Set(UserIDKey, id)
			}
		}
	}

	tests := []struct {
		name   string
		userID string
		status int
	}{
		{"admin", admin.ID, http.StatusOK},
		{"customer", customer.ID, http.StatusForbidden},
		{"deleted user", store.NewID(), http.StatusForbidden},
		{"anonymous", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := gin.New()
			engine.GET("/admin", withUser(tt.userID), RequireAdmin(st), func(ctx *gin.Context) {
				ctx.Status(http.StatusOK)
			})
			rec := serve(engine, httptest.NewRequest(http.MethodGet, "/admin", nil))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestRequestID(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, ctx.GetString(RequestIDKey))
	})

	rec := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := rec.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = serve(engine, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestRequestLoggerLevels(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	engine := gin.New()
	engine.Use(RequestID(), RequestLogger(zap.New(core)))
	engine.GET("/ok", func(ctx *gin.Context) {
		assert.NotNil(t, Logger(ctx, nil))
		ctx.Status(http.StatusOK)
	})
	engine.GET("/missing", func(ctx *gin.Context) { ctx.Status(http.StatusNotFound) })
	engine.GET("/broken", func(ctx *gin.Context) { ctx.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/ok", "/missing", "/broken"} {
		serve(engine, httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
	assert.Equal(t, zap.ErrorLevel, entries[2].Level)
	assert.Equal(t, "/broken", entries[2].ContextMap()["path"])
}

func TestRecovery(t *testing.T) {
	for _, expose := range []bool{true, false} {
		engine := gin.New()
		engine.Use(Recovery(zap.NewNop(), expose))
		engine.GET("/panic", func(*gin.Context) { panic("boom") })

		rec := serve(engine, httptest.NewRequest(http.MethodGet, "/panic", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), `"message":"Something broke!"`)
		assert.Contains(t, rec.Body.String(), `"error":"boom"`)
		if expose {
			assert.Contains(t, rec.Body.String(), `"stack"`)
		} else {
			assert.NotContains(t, rec.Body.String(), `"stack"`)
		}
	}
}
