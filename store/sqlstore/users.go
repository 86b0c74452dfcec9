package sqlstore

import (
	"context"
	"time"

	"github.com/shopfront/ecommerce-api/models"
	"github.com/shopfront/ecommerce-api/store"
	"gorm.io/datatypes"
)

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	return translate(s.db.WithContext(ctx).Create(user).Error)
}

func (s *Store) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	return first[models.User](ctx, s.db, "id = ?", id)
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return first[models.User](ctx, s.db, "email = ?", email)
}

func (s *Store) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return first[models.User](ctx, s.db, "username = ?", username)
}

func (s *Store) FindUsersByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	users := []models.User{}
	if len(ids) == 0 {
		return users, nil
	}
	err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (s *Store) SetAdmin(ctx context.Context, id string, isAdmin bool) error {
	return s.updateUser(ctx, id, map[string]any{"is_admin": isAdmin})
}

// ReplaceAddresses writes the whole list in one UPDATE so default flags never
// disagree between concurrent readers.
func (s *Store) ReplaceAddresses(ctx context.Context, userID string, addresses []models.Address) error {
	return s.updateUser(ctx, userID, map[string]any{"addresses": datatypes.NewJSONSlice(addresses)})
}

func (s *Store) ReplacePaymentMethods(ctx context.Context, userID string, methods []models.PaymentMethod) error {
	return s.updateUser(ctx, userID, map[string]any{"payment_methods": datatypes.NewJSONSlice(methods)})
}

func (s *Store) updateUser(ctx context.Context, id string, fields map[string]any) error {
	fields["updated_at"] = time.Now()
	result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
