package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func queryContext(rawQuery string) *gin.Context {
	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx.Request = httptest.NewRequest(http.MethodGet, "/api/products?"+rawQuery, nil)
	return ctx
}

func TestFloatQuery(t *testing.T) {
	tests := []struct {
		query string
		want  *float64
	}{
		{"minPrice=12.5", floatPtr(12.5)},
		{"minPrice=0", floatPtr(0)},
		{"minPrice=", nil},
		{"minPrice=abc", nil},
		{"minPrice=NaN", nil},
		{"minPrice=nan", nil},
		{"minPrice=Inf", nil},
		{"minPrice=-Inf", nil},
		{"other=1", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := floatQuery(queryContext(tt.query), "minPrice")
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestPositiveIntQuery(t *testing.T) {
	assert.Equal(t, 3, positiveIntQuery(queryContext("page=3"), "page", 1))
	assert.Equal(t, 1, positiveIntQuery(queryContext("page=0"), "page", 1))
	assert.Equal(t, 1, positiveIntQuery(queryContext("page=x"), "page", 1))
	assert.Equal(t, 12, positiveIntQuery(queryContext(""), "limit", 12))
}

func floatPtr(v float64) *float64 { return &v }
