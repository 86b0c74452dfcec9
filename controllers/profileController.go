package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopfront/ecommerce-api/middlewares"
	"github.com/shopfront/ecommerce-api/services"
)

type ProfileController struct {
	profile *services.ProfileService
}

func NewProfileController(profile *services.ProfileService) *ProfileController {
	return &ProfileController{profile: profile}
}

func (c *ProfileController) GetUserProfile(ctx *gin.Context) {
	user, err := c.profile.Profile(ctx.Request.Context(), middlewares.GetUserID(ctx))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, user)
}

func (c *ProfileController) GetAllAddresses(ctx *gin.Context) {
	addresses, err := c.profile.Addresses(ctx.Request.Context(), middlewares.GetUserID(ctx))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, addresses)
}

func (c *ProfileController) GetAddressByID(ctx *gin.Context) {
	address, err := c.profile.Address(ctx.Request.Context(), middlewares.GetUserID(ctx), ctx.Param("id"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, address)
}

func (c *ProfileController) AddAddress(ctx *gin.Context) {
	var input services.AddressInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidBody, err)
		return
	}

	addresses, err := c.profile.AddAddress(ctx.Request.Context(), middlewares.GetUserID(ctx), input)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, gin.H{"message": "Address added successfully", "addresses": addresses})
}

func (c *ProfileController) UpdateAddress(ctx *gin.Context) {
	var patch services.AddressPatch
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidBody, err)
		return
	}

	addresses, err := c.profile.UpdateAddress(ctx.Request.Context(), middlewares.GetUserID(ctx), ctx.Param("id"), patch)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Address updated successfully", "addresses": addresses})
}

func (c *ProfileController) RemoveAddress(ctx *gin.Context) {
	addresses, err := c.profile.RemoveAddress(ctx.Request.Context(), middlewares.GetUserID(ctx), ctx.Param("id"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Address removed successfully", "addresses": addresses})
}

func (c *ProfileController) GetAllPaymentMethods(ctx *gin.Context) {
	methods, err := c.profile.PaymentMethods(ctx.Request.Context(), middlewares.GetUserID(ctx))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, methods)
}

func (c *ProfileController) GetPaymentMethodByID(ctx *gin.Context) {
	method, err := c.profile.PaymentMethod(ctx.Request.Context(), middlewares.GetUserID(ctx), ctx.Param("id"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, method)
}

func (c *ProfileController) AddPaymentMethod(ctx *gin.Context) {
	var input services.PaymentMethodInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidBody, err)
		return
	}

	methods, err := c.profile.AddPaymentMethod(ctx.Request.Context(), middlewares.GetUserID(ctx), input)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, gin.H{"message": "Payment method added successfully", "paymentMethods": methods})
}

func (c *ProfileController) UpdatePaymentMethod(ctx *gin.Context) {
	var patch services.PaymentMethodPatch
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidBody, err)
		return
	}

	methods, err := c.profile.UpdatePaymentMethod(ctx.Request.Context(), middlewares.GetUserID(ctx), ctx.Param("id"), patch)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Payment method updated successfully", "paymentMethods": methods})
}

func (c *ProfileController) RemovePaymentMethod(ctx *gin.Context) {
	methods, err := c.profile.RemovePaymentMethod(ctx.Request.Context(), middlewares.GetUserID(ctx), ctx.Param("id"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Payment method removed successfully", "paymentMethods": methods})
}
