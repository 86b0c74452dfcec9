package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/shopfront/ecommerce-api/models"
	"github.com/shopfront/ecommerce-api/store"
	"github.com/shopfront/ecommerce-api/utils"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const (
	msgRegisterFieldsRequired = "Username, email, and password are required"
	msgUsernameTooShort       = "Username must be at least 4 characters long"
	msgUsernameDigitPrefix    = "Username must not start with a number."
	msgPasswordTooShort       = "Password must be at least 6 characters long"
	msgUsernameTaken          = "Username already exists. Please choose a different username."
	msgEmailTaken             = "Email already registered. Please use a different email or login."
	msgLoginFieldsRequired    = "Email and password are required"
	msgUserNotFound           = "User not found"
	msgWrongPassword          = "Wrong password"
	msgInvalidAdminPIN        = "Invalid admin PIN"
)

type TokenIssuer interface {
	Issue(user *models.User) (string, error)
}

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=4,notdigitprefix"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token string             `json:"token"`
	User  models.UserSummary `json:"user"`
}

type AuthService struct {
	users    store.UserStore
	tokens   TokenIssuer
	revoker  utils.TokenRevoker
	adminPIN string
	log      *zap.Logger
	now      func() time.Time
}

func NewAuthService(users store.UserStore, tokens TokenIssuer, revoker utils.TokenRevoker, adminPIN string, log *zap.Logger) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		revoker:  revoker,
		adminPIN: adminPIN,
		log:      log.Named("auth"),
		now:      time.Now,
	}
}

func registerValidationMessage(in *RegisterInput) string {
	errs := fieldErrors(in)
	if errs == nil {
		return ""
	}
	if firstMatching(errs, "required") != nil {
		return msgRegisterFieldsRequired
	}
	for _, fe := range errs {
		switch {
		case fe.Field() == "username" && fe.Tag() == "min":
			return msgUsernameTooShort
		case fe.Field() == "username" && fe.Tag() == "notdigitprefix":
			return msgUsernameDigitPrefix
		case fe.Field() == "password" && fe.Tag() == "min":
			return msgPasswordTooShort
		}
	}
	return msgRegisterFieldsRequired
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.Password = strings.TrimSpace(in.Password)

	if msg := registerValidationMessage(&in); msg != "" {
		return nil, Validation(msg)
	}

	if _, err := s.users.FindUserByUsername(ctx, in.Username); err == nil {
		return nil, Conflict(msgUsernameTaken)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, Internal("Server error during registration. Please try again.", err)
	}
	if _, err := s.users.FindUserByEmail(ctx, in.Email); err == nil {
		return nil, Conflict(msgEmailTaken)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, Internal("Server error during registration. Please try again.", err)
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, Internal("Server error during registration. Please try again.", err)
	}

	now := s.now()
	user := &models.User{
		ID:             store.NewID(),
		Username:       in.Username,
		Email:          in.Email,
		Password:       hash,
		Addresses:      datatypes.JSONSlice[models.Address]{},
		PaymentMethods: datatypes.JSONSlice[models.PaymentMethod]{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			// lost a race with a concurrent registration
			return nil, Conflict(msgEmailTaken)
		}
		return nil, Internal("Server error during registration. Please try again.", err)
	}

	s.log.Info("user registered", zap.String("user_id", user.ID))
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	email := strings.TrimSpace(in.Email)
	password := strings.TrimSpace(in.Password)
	if email == "" || password == "" {
		return nil, Validation(msgLoginFieldsRequired)
	}

	user, err := s.users.FindUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFound(msgUserNotFound)
	}
	if err != nil {
		return nil, Internal("Error during login", err)
	}

	if !utils.CheckPassword(user.Password, password) {
		return nil, Unauthorized(msgWrongPassword)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, Internal("Error during login", err)
	}
	return &LoginResult{Token: token, User: user.Summary()}, nil
}

// Logout revokes the token identified by jti until it would have expired.
func (s *AuthService) Logout(ctx context.Context, claims *utils.Claims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.RemainingTTL(s.now())); err != nil {
		return Internal("Error during logout", err)
	}
	return nil
}

func (s *AuthService) UpgradeToAdmin(ctx context.Context, userID, pin string) error {
	if s.adminPIN == "" || subtle.ConstantTimeCompare([]byte(pin), []byte(s.adminPIN)) != 1 {
		return Forbidden(msgInvalidAdminPIN)
	}
	err := s.users.SetAdmin(ctx, userID, true)
	if errors.Is(err, store.ErrNotFound) {
		return NotFound(msgUserNotFound)
	}
	if err != nil {
		return Internal("Server error", err)
	}
	s.log.Info("user upgraded to admin", zap.String("user_id", userID))
	return nil
}
