package mongostore

import (
	"context"

	"github.com/shopfront/ecommerce-api/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	_, err := s.db.Collection(ordersCollection).InsertOne(ctx, order)
	return translate(err)
}

func (s *Store) FindOrderByID(ctx context.Context, id string) (*models.Order, error) {
	return findOne[models.Order](ctx, s.db.Collection(ordersCollection), bson.M{"_id": id})
}

func (s *Store) ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return findAll[models.Order](ctx, s.db.Collection(ordersCollection), bson.M{"user": userID}, newestFirst("orderDate"))
}

func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	return findAll[models.Order](ctx, s.db.Collection(ordersCollection), bson.M{}, newestFirst("orderDate"))
}

func (s *Store) UpdateOrder(ctx context.Context, order *models.Order) error {
	return replaceByID(ctx, s.db.Collection(ordersCollection), order.ID, order)
}

func newestFirst(field string) *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: field, Value: -1}})
}
