package services

import (
	"context"
	"testing"

	"github.com/shopfront/ecommerce-api/models"
	"github.com/shopfront/ecommerce-api/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func boolPtr(v bool) *bool    { return &v }
func strPtr(v string) *string { return &v }

func countDefaultAddresses(addresses []models.Address) int {
	n := 0
	for _, a := range addresses {
		if a.IsDefault {
			n++
		}
	}
	return n
}

func countDefaultMethods(methods []models.PaymentMethod) int {
	n := 0
	for _, m := range methods {
		if m.IsDefault {
			n++
		}
	}
	return n
}

func address(street string, isDefault bool) AddressInput {
	return AddressInput{Street: street, City: "Riyadh", State: "RY", PostalCode: "12345", Country: "SA", IsDefault: isDefault}
}

func TestProfileService_SingleDefaultAddress(t *testing.T) {
	st := setupStore(t)
	svc := NewProfileService(st, zap.NewNop())
	ctx := context.Background()
	user := seedUser(t, st, "profiled")

	addresses, err := svc.AddAddress(ctx, user.ID, address("1 First St", true))
	require.NoError(t, err)
	require.Len(t, addresses, 1)
	assert.True(t, addresses[0].IsDefault)

	addresses, err = svc.AddAddress(ctx, user.ID, address("2 Second St", true))
	require.NoError(t, err)
	require.Len(t, addresses, 2)
	assert.Equal(t, 1, countDefaultAddresses(addresses))
	assert.True(t, addresses[1].IsDefault)

	addresses, err = svc.UpdateAddress(ctx, user.ID, addresses[0].ID, AddressPatch{IsDefault: boolPtr(true), City: strPtr("Jeddah")})
	require.NoError(t, err)
	assert.Equal(t, 1, countDefaultAddresses(addresses))
	assert.True(t, addresses[0].IsDefault)
	assert.Equal(t, "Jeddah", addresses[0].City)
	assert.Equal(t, "1 First St", addresses[0].Street)

	stored, err := svc.Addresses(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, addresses, stored)
}

func TestProfileService_AddressErrors(t *testing.T) {
	st := setupStore(t)
	svc := NewProfileService(st, zap.NewNop())
	ctx := context.Background()
	user := seedUser(t, st, "profiled")

	in := address("1 First St", false)
	in.Country = ""
	_, err := svc.AddAddress(ctx, user.ID, in)
	assertKind(t, err, KindValidation, msgAddressFieldsRequired)

	_, err = svc.Address(ctx, user.ID, store.NewID())
	assertKind(t, err, KindNotFound, msgAddressNotFound)

	_, err = svc.RemoveAddress(ctx, user.ID, store.NewID())
	assertKind(t, err, KindNotFound, msgAddressNotFound)

	_, err = svc.Addresses(ctx, store.NewID())
	assertKind(t, err, KindNotFound, msgUserNotFound)

	addresses, err := svc.AddAddress(ctx, user.ID, address("1 First St", false))
	require.NoError(t, err)
	_, err = svc.UpdateAddress(ctx, user.ID, addresses[0].ID, AddressPatch{Street: strPtr("  ")})
	assertKind(t, err, KindValidation, msgAddressFieldsRequired)

	remaining, err := svc.RemoveAddress(ctx, user.ID, addresses[0].ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestProfileService_PaymentMethods(t *testing.T) {
	st := setupStore(t)
	svc := NewProfileService(st, zap.NewNop())
	ctx := context.Background()
	user := seedUser(t, st, "profiled")

	_, err := svc.AddPaymentMethod(ctx, user.ID, PaymentMethodInput{CardType: "visa", ExpiryDate: "12/30"})
	assertKind(t, err, KindValidation, msgPaymentFieldsRequired)

	_, err = svc.AddPaymentMethod(ctx, user.ID, PaymentMethodInput{CardType: "visa", Last4Digits: "12a4", ExpiryDate: "12/30"})
	assertKind(t, err, KindValidation, msgInvalidCardNumber)

	_, err = svc.AddPaymentMethod(ctx, user.ID, PaymentMethodInput{CardType: "visa", Last4Digits: "12345", ExpiryDate: "12/30"})
	assertKind(t, err, KindValidation, msgInvalidCardNumber)

	methods, err := svc.AddPaymentMethod(ctx, user.ID, PaymentMethodInput{CardType: "visa", Last4Digits: "4242", ExpiryDate: "12/30", IsDefault: true})
	require.NoError(t, err)
	methods, err = svc.AddPaymentMethod(ctx, user.ID, PaymentMethodInput{CardType: "mada", Last4Digits: "1111", ExpiryDate: "01/29", IsDefault: true})
	require.NoError(t, err)
	require.Len(t, methods, 2)
	assert.Equal(t, 1, countDefaultMethods(methods))
	assert.True(t, methods[1].IsDefault)

	methods, err = svc.UpdatePaymentMethod(ctx, user.ID, methods[0].ID, PaymentMethodPatch{IsDefault: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, 1, countDefaultMethods(methods))
	assert.True(t, methods[0].IsDefault)

	_, err = svc.UpdatePaymentMethod(ctx, user.ID, methods[0].ID, PaymentMethodPatch{Last4Digits: strPtr("abcd")})
	assertKind(t, err, KindValidation, msgInvalidCardNumber)

	method, err := svc.PaymentMethod(ctx, user.ID, methods[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "mada", method.CardType)

	methods, err = svc.RemovePaymentMethod(ctx, user.ID, methods[0].ID)
	require.NoError(t, err)
	require.Len(t, methods, 1)
	assert.Equal(t, "mada", methods[0].CardType)

	_, err = svc.PaymentMethod(ctx, user.ID, store.NewID())
	assertKind(t, err, KindNotFound, msgPaymentNotFound)
}

func TestProfileService_Profile(t *testing.T) {
	st := setupStore(t)
	svc := NewProfileService(st, zap.NewNop())
	user := seedUser(t, st, "profiled")

	profile, err := svc.Profile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "profiled", profile.Username)
	assert.NotNil(t, profile.Addresses)
	assert.NotNil(t, profile.PaymentMethods)
}
