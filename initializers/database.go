package initializers

import (
	"context"

	"github.com/shopfront/ecommerce-api/store"
	"github.com/shopfront/ecommerce-api/store/mongostore"
	"github.com/shopfront/ecommerce-api/store/sqlstore"
	"go.uber.org/zap"
)

// ConnectToDB opens the store selected by DB_DRIVER.
func ConnectToDB(ctx context.Context, cfg DatabaseConfig, log *zap.Logger) (store.Store, error) {
	if cfg.Driver == "mongodb" {
		st, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, log.Named("mongo"))
		if err != nil {
			return nil, err
		}
		return st, nil
	}

	st, err := sqlstore.Open(cfg.Driver, cfg.DSN, log.Named("sql"))
	if err != nil {
		return nil, err
	}
	return st, nil
}
