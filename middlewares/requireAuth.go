package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopfront/ecommerce-api/utils"
	"go.uber.org/zap"
)

const (
	UserIDKey = "userId"
	ClaimsKey = "claims"

	bearerPrefix = "Bearer "
)

// TokenParser validates a bearer token and returns its claims.
type TokenParser interface {
	Parse(token string) (*utils.Claims, error)
}

func RequireAuth(tokens TokenParser, revoker utils.TokenRevoker, log *zap.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) || strings.TrimSpace(header[len(bearerPrefix):]) == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
			return
		}

		claims, err := tokens.Parse(strings.TrimSpace(header[len(bearerPrefix):]))
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}

		if revoker != nil && claims.ID != "" {
			revoked, err := revoker.IsRevoked(ctx.Request.Context(), claims.ID)
			if err != nil {
				// fail open when the revocation store is unreachable
				log.Error("token revocation check failed", zap.String("jti", claims.ID), zap.Error(err))
			} else if revoked {
				ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
				return
			}
		}

		ctx.Set(UserIDKey, claims.UserID)
		ctx.Set(ClaimsKey, claims)
		ctx.Next()
	}
}

func GetUserID(ctx *gin.Context) string {
	return ctx.GetString(UserIDKey)
}

func GetClaims(ctx *gin.Context) *utils.Claims {
	if v, ok := ctx.Get(ClaimsKey); ok {
		if claims, ok := v.(*utils.Claims); ok {
			return claims
		}
	}
	return nil
}
