package initializers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopfront/ecommerce-api/payments"
	"github.com/shopfront/ecommerce-api/utils"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DefaultAdminPIN  = "123456"
	defaultJWTSecret = "your-secret-key"
)

type Config struct {
	Env      string
	Port     string
	Database DatabaseConfig
	JWT      JWTConfig
	AdminPIN string
	CORS     []string
	Log      LogConfig
	Redis    RedisConfig
	S3       utils.S3Config
	PayPal   payments.PayPalConfig
	Mail     utils.MailConfig
}

type DatabaseConfig struct {
	Driver        string // mongodb, mysql, postgres or sqlite
	MongoURI      string
	MongoDatabase string
	DSN           string
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

type LogConfig struct {
	Level  string
	Format string // console or json
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// LoadEnv reads a .env file when one exists. Variables already set in the
// environment win.
func LoadEnv() {
	_ = godotenv.Load()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", EnvDevelopment)
	v.SetDefault("port", "3000")
	v.SetDefault("db_driver", "mongodb")
	v.SetDefault("mongo_uri", "mongodb://127.0.0.1:27017")
	v.SetDefault("mongo_database", "ecommerce")
	v.SetDefault("database_dsn", "ecommerce.db")
	v.SetDefault("jwt_expiration", "24h")
	v.SetDefault("cors_allow_origins", "http://localhost:4200,http://127.0.0.1:4200")
	v.SetDefault("log_level", "info")
	v.SetDefault("smtp_address", "")
	v.SetDefault("template_dir", "templates")
	v.SetDefault("redis_db", 0)
	v.SetDefault("s3_region", "us-east-1")
}

// LoadConfig builds the configuration from the environment.
func LoadConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Env:  strings.ToLower(v.GetString("app_env")),
		Port: v.GetString("port"),
		Database: DatabaseConfig{
			Driver:        strings.ToLower(v.GetString("db_driver")),
			MongoURI:      v.GetString("mongo_uri"),
			MongoDatabase: v.GetString("mongo_database"),
			DSN:           v.GetString("database_dsn"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("jwt_secret"),
			Expiration: v.GetDuration("jwt_expiration"),
		},
		AdminPIN: v.GetString("admin_pin"),
		CORS:     splitList(v.GetString("cors_allow_origins")),
		Log: LogConfig{
			Level:  v.GetString("log_level"),
			Format: v.GetString("log_format"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis_addr"),
			Password: v.GetString("redis_password"),
			DB:       v.GetInt("redis_db"),
		},
		S3: utils.S3Config{
			Bucket:        v.GetString("s3_bucket"),
			Region:        v.GetString("s3_region"),
			Endpoint:      v.GetString("s3_endpoint"),
			AccessKey:     v.GetString("s3_access_key"),
			SecretKey:     v.GetString("s3_secret_key"),
			UsePathStyle:  v.GetBool("s3_use_path_style"),
			PublicBaseURL: v.GetString("s3_public_base_url"),
		},
		PayPal: payments.PayPalConfig{
			ClientID:     v.GetString("paypal_client_id"),
			ClientSecret: v.GetString("paypal_client_secret"),
			BaseURL:      v.GetString("paypal_base_url"),
		},
		Mail: utils.MailConfig{
			From:        v.GetString("from_email"),
			Password:    v.GetString("from_email_password"),
			SMTPHost:    v.GetString("from_email_smtp"),
			SMTPAddress: v.GetString("smtp_address"),
			TemplateDir: v.GetString("template_dir"),
		},
	}
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Env != EnvProduction {
		if cfg.JWT.Secret == "" {
			cfg.JWT.Secret = defaultJWTSecret
		}
		if cfg.AdminPIN == "" {
			cfg.AdminPIN = DefaultAdminPIN
		}
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
		if cfg.Env == EnvProduction {
			cfg.Log.Format = "json"
		}
	}
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "mongodb":
		if c.Database.MongoURI == "" {
			return errors.New("MONGO_URI is required when DB_DRIVER=mongodb")
		}
	case "mysql", "postgres", "sqlite":
		if c.Database.DSN == "" {
			return fmt.Errorf("DATABASE_DSN is required when DB_DRIVER=%s", c.Database.Driver)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.JWT.Expiration <= 0 {
		return errors.New("JWT_EXPIRATION must be positive")
	}

	if c.Env == EnvProduction {
		if len(c.JWT.Secret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.AdminPIN == "" || c.AdminPIN == DefaultAdminPIN {
			return errors.New("ADMIN_PIN must be set to a non-default value in production")
		}
		for _, origin := range c.CORS {
			if origin == "*" {
				return errors.New("CORS_ALLOW_ORIGINS cannot be '*' in production")
			}
		}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
