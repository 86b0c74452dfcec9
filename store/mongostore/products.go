package mongostore

import (
	"context"
	"regexp"
	"sort"

	"github.com/shopfront/ecommerce-api/models"
	"github.com/shopfront/ecommerce-api/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// productFilter builds the query document for a product listing. Search is a
// case-insensitive substring match on title or description.
func productFilter(f store.ProductFilter) bson.M {
	filter := bson.M{}
	if f.Search != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(f.Search), "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
		}
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Brand != "" {
		filter["brand"] = f.Brand
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			price["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			price["$lte"] = *f.MaxPrice
		}
		filter["price"] = price
	}
	return filter
}

func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	_, err := s.db.Collection(productsCollection).InsertOne(ctx, product)
	return translate(err)
}

func (s *Store) InsertProducts(ctx context.Context, products []*models.Product) error {
	docs := make([]any, 0, len(products))
	for _, p := range products {
		docs = append(docs, p)
	}
	_, err := s.db.Collection(productsCollection).InsertMany(ctx, docs)
	return translate(err)
}

func (s *Store) FindProductByID(ctx context.Context, id string) (*models.Product, error) {
	return findOne[models.Product](ctx, s.db.Collection(productsCollection), bson.M{"_id": id})
}

func (s *Store) FindProductsByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	return findAll[models.Product](ctx, s.db.Collection(productsCollection), bson.M{"_id": bson.M{"$in": ids}})
}

func (s *Store) ListProducts(ctx context.Context, f store.ProductFilter) ([]models.Product, int64, error) {
	coll := s.db.Collection(productsCollection)
	filter := productFilter(f)

	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(f.Skip))
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}

	products, err := findAll[models.Product](ctx, coll, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (s *Store) UpdateProduct(ctx context.Context, product *models.Product) error {
	return replaceByID(ctx, s.db.Collection(productsCollection), product.ID, product)
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	result, err := s.db.Collection(productsCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteAllProducts(ctx context.Context) (int64, error) {
	result, err := s.db.Collection(productsCollection).DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (s *Store) DistinctCategories(ctx context.Context) ([]string, error) {
	values, err := s.db.Collection(productsCollection).Distinct(ctx, "category", bson.M{})
	if err != nil {
		return nil, err
	}
	categories := make([]string, 0, len(values))
	for _, v := range values {
		if c, ok := v.(string); ok && c != "" {
			categories = append(categories, c)
		}
	}
	sort.Strings(categories)
	return categories, nil
}
