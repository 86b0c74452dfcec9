package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shopfront/ecommerce-api/models"
	"github.com/shopfront/ecommerce-api/store"
	"go.uber.org/zap"
)

const (
	msgAddressFieldsRequired = "All address fields are required"
	msgAddressNotFound       = "Address not found"
	msgPaymentFieldsRequired = "All payment fields are required"
	msgInvalidCardNumber     = "Invalid card number format"
	msgPaymentNotFound       = "Payment method not found"
)

type AddressInput struct {
	Street     string `json:"street" validate:"notblank"`
	City       string `json:"city" validate:"notblank"`
	State      string `json:"state" validate:"notblank"`
	PostalCode string `json:"postalCode" validate:"notblank"`
	Country    string `json:"country" validate:"notblank"`
	IsDefault  bool   `json:"isDefault"`
}

type AddressPatch struct {
	Street     *string `json:"street"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	PostalCode *string `json:"postalCode"`
	Country    *string `json:"country"`
	IsDefault  *bool   `json:"isDefault"`
}

type PaymentMethodInput struct {
	CardType    string `json:"cardType" validate:"notblank"`
	Last4Digits string `json:"last4Digits" validate:"notblank,last4"`
	ExpiryDate  string `json:"expiryDate" validate:"notblank"`
	IsDefault   bool   `json:"isDefault"`
}

type PaymentMethodPatch struct {
	CardType    *string `json:"cardType"`
	Last4Digits *string `json:"last4Digits"`
	ExpiryDate  *string `json:"expiryDate"`
	IsDefault   *bool   `json:"isDefault"`
}

type ProfileService struct {
	users store.UserStore
	log   *zap.Logger
}

func NewProfileService(users store.UserStore, log *zap.Logger) *ProfileService {
	return &ProfileService{users: users, log: log.Named("profile")}
}

// setDefault makes items[target] the only default entry when makeDefault is
// true. The caller persists the whole list in one write.
func setDefault[T any](items []T, target int, makeDefault bool, flag func(*T) *bool) {
	if makeDefault {
		for i := range items {
			*flag(&items[i]) = false
		}
	}
	*flag(&items[target]) = makeDefault
}

func addressFlag(a *models.Address) *bool       { return &a.IsDefault }
func paymentFlag(p *models.PaymentMethod) *bool { return &p.IsDefault }

func indexByID[T any](items []T, id string, idOf func(*T) string) int {
	for i := range items {
		if idOf(&items[i]) == id {
			return i
		}
	}
	return -1
}

func idOfAddress(a *models.Address) string       { return a.ID }
func idOfPayment(p *models.PaymentMethod) string { return p.ID }

func (s *ProfileService) loadUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFound(msgUserNotFound)
	}
	if err != nil {
		return nil, Internal("Error fetching user profile", err)
	}
	if user.Addresses == nil {
		user.Addresses = []models.Address{}
	}
	if user.PaymentMethods == nil {
		user.PaymentMethods = []models.PaymentMethod{}
	}
	return user, nil
}

func (s *ProfileService) Profile(ctx context.Context, userID string) (*models.User, error) {
	return s.loadUser(ctx, userID)
}

func (s *ProfileService) Addresses(ctx context.Context, userID string) ([]models.Address, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Addresses, nil
}

func (s *ProfileService) Address(ctx context.Context, userID, addressID string) (*models.Address, error) {
	addresses, err := s.Addresses(ctx, userID)
	if err != nil {
		return nil, err
	}
	i := indexByID(addresses, addressID, idOfAddress)
	if i < 0 {
		return nil, NotFound(msgAddressNotFound)
	}
	return &addresses[i], nil
}

func (s *ProfileService) saveAddresses(ctx context.Context, userID string, addresses []models.Address, failure string) error {
	err := s.users.ReplaceAddresses(ctx, userID, addresses)
	if errors.Is(err, store.ErrNotFound) {
		return NotFound(msgUserNotFound)
	}
	if err != nil {
		return Internal(failure, err)
	}
	return nil
}

func (s *ProfileService) AddAddress(ctx context.Context, userID string, in AddressInput) ([]models.Address, error) {
	if fieldErrors(&in) != nil {
		return nil, Validation(msgAddressFieldsRequired)
	}
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	addresses := append([]models.Address{}, user.Addresses...)
	addresses = append(addresses, models.Address{
		ID:         store.NewID(),
		Street:     strings.TrimSpace(in.Street),
		City:       strings.TrimSpace(in.City),
		State:      strings.TrimSpace(in.State),
		PostalCode: strings.TrimSpace(in.PostalCode),
		Country:    strings.TrimSpace(in.Country),
	})
	setDefault(addresses, len(addresses)-1, in.IsDefault, addressFlag)

	if err := s.saveAddresses(ctx, userID, addresses, "Error adding address"); err != nil {
		return nil, err
	}
	return addresses, nil
}

func (s *ProfileService) UpdateAddress(ctx context.Context, userID, addressID string, patch AddressPatch) ([]models.Address, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	addresses := append([]models.Address{}, user.Addresses...)
	i := indexByID(addresses, addressID, idOfAddress)
	if i < 0 {
		return nil, NotFound(msgAddressNotFound)
	}

	a := &addresses[i]
	applyString(&a.Street, patch.Street)
	applyString(&a.City, patch.City)
	applyString(&a.State, patch.State)
	applyString(&a.PostalCode, patch.PostalCode)
	applyString(&a.Country, patch.Country)
	check := AddressInput{Street: a.Street, City: a.City, State: a.State, PostalCode: a.PostalCode, Country: a.Country}
	if fieldErrors(&check) != nil {
		return nil, Validation(msgAddressFieldsRequired)
	}
	if patch.IsDefault != nil {
		setDefault(addresses, i, *patch.IsDefault, addressFlag)
	}

	if err := s.saveAddresses(ctx, userID, addresses, "Error updating address"); err != nil {
		return nil, err
	}
	return addresses, nil
}

func (s *ProfileService) RemoveAddress(ctx context.Context, userID, addressID string) ([]models.Address, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	i := indexByID(user.Addresses, addressID, idOfAddress)
	if i < 0 {
		return nil, NotFound(msgAddressNotFound)
	}
	addresses := append(append([]models.Address{}, user.Addresses[:i]...), user.Addresses[i+1:]...)
	if err := s.saveAddresses(ctx, userID, addresses, "Error removing address"); err != nil {
		return nil, err
	}
	return addresses, nil
}

func paymentValidationMessage(v any) string {
	errs := fieldErrors(v)
	if errs == nil {
		return ""
	}
	if firstMatching(errs, "notblank") != nil {
		return msgPaymentFieldsRequired
	}
	return msgInvalidCardNumber
}

func (s *ProfileService) PaymentMethods(ctx context.Context, userID string) ([]models.PaymentMethod, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.PaymentMethods, nil
}

func (s *ProfileService) PaymentMethod(ctx context.Context, userID, methodID string) (*models.PaymentMethod, error) {
	methods, err := s.PaymentMethods(ctx, userID)
	if err != nil {
		return nil, err
	}
	i := indexByID(methods, methodID, idOfPayment)
	if i < 0 {
		return nil, NotFound(msgPaymentNotFound)
	}
	return &methods[i], nil
}

func (s *ProfileService) savePaymentMethods(ctx context.Context, userID string, methods []models.PaymentMethod, failure string) error {
	err := s.users.ReplacePaymentMethods(ctx, userID, methods)
	if errors.Is(err, store.ErrNotFound) {
		return NotFound(msgUserNotFound)
	}
	if err != nil {
		return Internal(failure, err)
	}
	return nil
}

func (s *ProfileService) AddPaymentMethod(ctx context.Context, userID string, in PaymentMethodInput) ([]models.PaymentMethod, error) {
	in.CardType = strings.TrimSpace(in.CardType)
	in.Last4Digits = strings.TrimSpace(in.Last4Digits)
	in.ExpiryDate = strings.TrimSpace(in.ExpiryDate)
	if msg := paymentValidationMessage(&in); msg != "" {
		return nil, Validation(msg)
	}
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	methods := append([]models.PaymentMethod{}, user.PaymentMethods...)
	methods = append(methods, models.PaymentMethod{
		ID:          store.NewID(),
		CardType:    in.CardType,
		Last4Digits: in.Last4Digits,
		ExpiryDate:  in.ExpiryDate,
	})
	setDefault(methods, len(methods)-1, in.IsDefault, paymentFlag)

	if err := s.savePaymentMethods(ctx, userID, methods, "Error adding payment method"); err != nil {
		return nil, err
	}
	return methods, nil
}

func (s *ProfileService) UpdatePaymentMethod(ctx context.Context, userID, methodID string, patch PaymentMethodPatch) ([]models.PaymentMethod, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	methods := append([]models.PaymentMethod{}, user.PaymentMethods...)
	i := indexByID(methods, methodID, idOfPayment)
	if i < 0 {
		return nil, NotFound(msgPaymentNotFound)
	}

	m := &methods[i]
	applyString(&m.CardType, patch.CardType)
	applyString(&m.Last4Digits, patch.Last4Digits)
	applyString(&m.ExpiryDate, patch.ExpiryDate)
	check := PaymentMethodInput{CardType: m.CardType, Last4Digits: m.Last4Digits, ExpiryDate: m.ExpiryDate}
	if msg := paymentValidationMessage(&check); msg != "" {
		return nil, Validation(msg)
	}
	if patch.IsDefault != nil {
		setDefault(methods, i, *patch.IsDefault, paymentFlag)
	}

	if err := s.savePaymentMethods(ctx, userID, methods, "Error updating payment method"); err != nil {
		return nil, err
	}
	return methods, nil
}

func (s *ProfileService) RemovePaymentMethod(ctx context.Context, userID, methodID string) ([]models.PaymentMethod, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	i := indexByID(user.PaymentMethods, methodID, idOfPayment)
	if i < 0 {
		return nil, NotFound(msgPaymentNotFound)
	}
	methods := append(append([]models.PaymentMethod{}, user.PaymentMethods[:i]...), user.PaymentMethods[i+1:]...)
	if err := s.savePaymentMethods(ctx, userID, methods, "Error removing payment method"); err != nil {
		return nil, err
	}
	return methods, nil
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
