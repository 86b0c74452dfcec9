package utils

import (
	"context"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopfront/ecommerce-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)
	assert.True(t, CheckPassword(hash, "secret123"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	user := &models.User{ID: "64b000000000000000000001", Username: "alice", Email: "a@x.com", IsAdmin: true}

	token, err := m.Issue(user)
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.True(t, claims.IsAdmin)
	assert.NotEmpty(t, claims.ID)
	assert.InDelta(t, time.Hour.Seconds(), claims.RemainingTTL(time.Now()).Seconds(), 5)
}

func TestTokenManager_Rejects(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	user := &models.User{ID: "64b000000000000000000001"}

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Parse("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other secret", func(t *testing.T) {
		token, err := NewTokenManager("other-secret", time.Hour).Issue(user)
		require.NoError(t, err)
		_, err = m.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		past := NewTokenManager("test-secret", time.Hour)
		past.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, err := past.Issue(user)
		require.NoError(t, err)
		_, err = m.Parse(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("none algorithm", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: user.ID}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = m.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestMemoryTokenRevoker(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	r := NewMemoryTokenRevoker()
	r.now = func() time.Time { return now }

	require.NoError(t, r.Revoke(ctx, "jti-1", time.Minute))
	require.NoError(t, r.Revoke(ctx, "jti-2", 0))

	revoked, err := r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = r.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, err = r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("abc", "Photo.JPG")
	assert.True(t, strings.HasPrefix(key, "products/abc/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.NotEqual(t, key, ObjectKey("abc", "Photo.JPG"))
}

func TestMailer_SendOrderConfirmation(t *testing.T) {
	dir := t.TempDir()
	tmpl := `<p>{{.Name}} {{.OrderID}}{{range .Lines}} {{.Name}}x{{.Quantity}}{{end}} {{.Total}}</p>`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "order_confirmation.html"), []byte(tmpl), 0o600))

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	m := NewMailer(MailConfig{From: "shop@x.com", SMTPHost: "smtp.x.com", SMTPAddress: "smtp.x.com:587", TemplateDir: dir})
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	err := m.SendOrderConfirmation(context.Background(), OrderConfirmation{
		To:      "buyer@x.com",
		Name:    "Bob",
		OrderID: "o1",
		Lines:   []OrderConfirmationLine{{Name: "Lamp", Quantity: 2, Price: "10.00"}},
		Total:   "20.00",
	})
	require.NoError(t, err)

	assert.Equal(t, "smtp.x.com:587", gotAddr)
	assert.Equal(t, "shop@x.com", gotFrom)
	assert.Equal(t, []string{"buyer@x.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Order confirmation #o1")
	assert.Contains(t, string(gotMsg), "<p>Bob o1 Lampx2 20.00</p>")
}

func TestMailConfig_Enabled(t *testing.T) {
	assert.False(t, MailConfig{}.Enabled())
	assert.True(t, MailConfig{From: "a@x.com", SMTPAddress: "smtp:25"}.Enabled())
}
