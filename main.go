package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopfront/ecommerce-api/initializers"
	"github.com/shopfront/ecommerce-api/payments"
	"github.com/shopfront/ecommerce-api/routes"
	"github.com/shopfront/ecommerce-api/utils"
	"go.uber.org/zap"
)

func main() {
	initializers.LoadEnv()

	cfg, err := initializers.LoadConfig()
	if err != nil {
		// logger config is not known yet
		zap.NewExample().Fatal("invalid configuration", zap.Error(err))
	}

	log := initializers.NewLogger(cfg.Log)
	defer func() { _ = log.Sync() }()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *initializers.Config, log *zap.Logger) error {
	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	st, err := initializers.ConnectToDB(connectCtx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			log.Warn("closing database", zap.Error(err))
		}
	}()

	if err := initializers.SyncDatabase(connectCtx, st, log); err != nil {
		return err
	}

	deps := routes.Dependencies{
		Config: cfg,
		Store:  st,
		Log:    log,
		Tokens: utils.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Expiration),
	}

	if cfg.Redis.Addr != "" {
		revoker, err := utils.NewRedisTokenRevoker(connectCtx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer func() { _ = revoker.Close() }()
		deps.Revoker = revoker
		log.Info("token revocation backed by redis", zap.String("addr", cfg.Redis.Addr))
	} else {
		deps.Revoker = utils.NewMemoryTokenRevoker()
		log.Info("token revocation kept in memory")
	}

	if cfg.S3.Enabled() {
		images, err := utils.NewS3ImageStorage(connectCtx, cfg.S3)
		if err != nil {
			return err
		}
		deps.Images = images
	} else {
		log.Info("image uploads disabled, S3_BUCKET not set")
	}

	if cfg.PayPal.Enabled() {
		deps.Payments = payments.NewPayPalClient(cfg.PayPal, log.Named("paypal"))
	} else {
		log.Info("paypal verification disabled")
	}

	if cfg.Mail.Enabled() {
		deps.Notifier = utils.NewMailer(cfg.Mail)
	} else {
		log.Info("order confirmation emails disabled")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
