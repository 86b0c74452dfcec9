package initializers

import (
	"context"
	"fmt"

	"github.com/shopfront/ecommerce-api/store"
	"go.uber.org/zap"
)

// SyncDatabase creates the tables or indexes the store relies on.
func SyncDatabase(ctx context.Context, st store.Store, log *zap.Logger) error {
	if err := st.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("sync database: %w", err)
	}
	log.Info("database synced successfully")
	return nil
}
