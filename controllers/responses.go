package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopfront/ecommerce-api/middlewares"
	"github.com/shopfront/ecommerce-api/services"
	"go.uber.org/zap"
)

const msgInvalidBody = "Invalid request body"

func sendJSONResponse(ctx *gin.Context, status int, data gin.H) {
	ctx.JSON(status, data)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"message": message})
}

// Common error response helper
func respondWithError(ctx *gin.Context, statusCode int, message string, err error) {
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	ctx.JSON(statusCode, gin.H{
		"message": message,
		"error":   errMsg,
	})
}

func statusForKind(kind services.ErrorKind) int {
	switch kind {
	case services.KindValidation, services.KindConflict, services.KindBusinessRule:
		return http.StatusBadRequest
	case services.KindUnauthorized:
		return http.StatusUnauthorized
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// handleServiceError writes the response for a failed service call. Only
// internal failures carry the underlying cause.
func handleServiceError(ctx *gin.Context, err error) {
	_ = ctx.Error(err)
	if services.KindOf(err) == services.KindInternal {
		middlewares.Logger(ctx, zap.NewNop()).Error("request failed", zap.Error(err))
	}

	var serr *services.Error
	if !errors.As(err, &serr) {
		respondWithError(ctx, http.StatusInternalServerError, "Server error", err)
		return
	}
	status := statusForKind(serr.Kind)
	if status == http.StatusInternalServerError {
		respondWithError(ctx, status, serr.Message, serr.Err)
		return
	}
	sendErrorResponse(ctx, status, serr.Message)
}
