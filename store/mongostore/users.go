package mongostore

import (
	"context"

	"github.com/shopfront/ecommerce-api/models"
	"github.com/shopfront/ecommerce-api/store"
	"go.mongodb.org/mongo-driver/bson"
)

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.db.Collection(usersCollection).InsertOne(ctx, user)
	return translate(err)
}

func (s *Store) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	return findOne[models.User](ctx, s.db.Collection(usersCollection), bson.M{"_id": id})
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, s.db.Collection(usersCollection), bson.M{"email": email})
}

func (s *Store) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return findOne[models.User](ctx, s.db.Collection(usersCollection), bson.M{"username": username})
}

func (s *Store) FindUsersByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	return findAll[models.User](ctx, s.db.Collection(usersCollection), bson.M{"_id": bson.M{"$in": ids}})
}

func (s *Store) SetAdmin(ctx context.Context, id string, isAdmin bool) error {
	return s.setUserFields(ctx, id, bson.M{"isAdmin": isAdmin})
}

// ReplaceAddresses writes the whole list in a single update so default flags
// never disagree between concurrent readers.
func (s *Store) ReplaceAddresses(ctx context.Context, userID string, addresses []models.Address) error {
	return s.setUserFields(ctx, userID, bson.M{"addresses": addresses})
}

func (s *Store) ReplacePaymentMethods(ctx context.Context, userID string, methods []models.PaymentMethod) error {
	return s.setUserFields(ctx, userID, bson.M{"paymentMethods": methods})
}

func (s *Store) setUserFields(ctx context.Context, id string, fields bson.M) error {
	fields["updatedAt"] = s.now()
	result, err := s.db.Collection(usersCollection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
