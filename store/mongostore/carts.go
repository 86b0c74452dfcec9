package mongostore

import (
	"context"

	"github.com/shopfront/ecommerce-api/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Store) FindCartByUser(ctx context.Context, userID string) (*models.Cart, error) {
	return findOne[models.Cart](ctx, s.db.Collection(cartsCollection), bson.M{"user": userID})
}

// SaveCart upserts the cart keyed by its owner.
func (s *Store) SaveCart(ctx context.Context, cart *models.Cart) error {
	_, err := s.db.Collection(cartsCollection).ReplaceOne(ctx,
		bson.M{"user": cart.UserID},
		cart,
		options.Replace().SetUpsert(true),
	)
	return translate(err)
}
