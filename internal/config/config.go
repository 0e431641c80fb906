package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string   `mapstructure:"PORT"`
	Env         string   `mapstructure:"ENV"`
	DatabaseURL string   `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32    `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	AuthSecret      string `mapstructure:"AUTH_SECRET"`
	AuthIssuer      string `mapstructure:"AUTH_ISSUER"`
	TokenTTLMinutes int    `mapstructure:"TOKEN_TTL_MINUTES"`

	BlobBackend   string `mapstructure:"BLOB_BACKEND"`
	UploadDir     string `mapstructure:"UPLOAD_DIR"`
	S3Endpoint    string `mapstructure:"S3_ENDPOINT"`
	S3AccessKey   string `mapstructure:"S3_ACCESS_KEY"`
	S3SecretKey   string `mapstructure:"S3_SECRET_KEY"`
	S3Bucket      string `mapstructure:"S3_BUCKET"`
	S3UseSSL      bool   `mapstructure:"S3_USE_SSL"`
	MaxUploadSize string `mapstructure:"MAX_UPLOAD_SIZE"`

	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("AUTH_ISSUER", "medrec")
	v.SetDefault("TOKEN_TTL_MINUTES", 60)
	v.SetDefault("BLOB_BACKEND", "dir")
	v.SetDefault("UPLOAD_DIR", "./uploads")
	// Must exceed the 20 MiB file cap so multipart framing does not push a
	// maximum-size file over the request body limit.
	v.SetDefault("MAX_UPLOAD_SIZE", "21M")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("AUTH_SECRET")
	v.BindEnv("AUTH_ISSUER")
	v.BindEnv("TOKEN_TTL_MINUTES")
	v.BindEnv("BLOB_BACKEND")
	v.BindEnv("UPLOAD_DIR")
	v.BindEnv("S3_ENDPOINT")
	v.BindEnv("S3_ACCESS_KEY")
	v.BindEnv("S3_SECRET_KEY")
	v.BindEnv("S3_BUCKET")
	v.BindEnv("S3_USE_SSL")
	v.BindEnv("MAX_UPLOAD_SIZE")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() {
		log.Println("WARNING: ============================================================")
		log.Println("WARNING: Server is running in DEVELOPMENT mode (ENV=development).")
		log.Println("WARNING: The dev auth middleware is active: all requests get admin access.")
		log.Println("WARNING: Do NOT use this configuration in production.")
		log.Println("WARNING: Set ENV=production and configure AUTH_SECRET for production.")
		log.Println("WARNING: ============================================================")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. Outside development
// mode AUTH_SECRET must be set so that real token authentication is enforced,
// and the blob backend selection must be complete.
func (c *Config) Validate() error {
	if !c.IsDev() {
		if c.AuthSecret == "" {
			return fmt.Errorf(
				"AUTH_SECRET must be set when ENV is %q. "+
					"Refusing to start without authentication configuration", c.Env)
		}
		if len(c.AuthSecret) < 32 {
			return fmt.Errorf("AUTH_SECRET must be at least 32 bytes, got %d", len(c.AuthSecret))
		}
	}

	switch c.BlobBackend {
	case "dir":
		if c.UploadDir == "" {
			return fmt.Errorf("UPLOAD_DIR is required when BLOB_BACKEND is \"dir\"")
		}
	case "s3":
		if c.S3Endpoint == "" || c.S3Bucket == "" {
			return fmt.Errorf("S3_ENDPOINT and S3_BUCKET are required when BLOB_BACKEND is \"s3\"")
		}
		if c.S3AccessKey == "" || c.S3SecretKey == "" {
			return fmt.Errorf("S3_ACCESS_KEY and S3_SECRET_KEY are required when BLOB_BACKEND is \"s3\"")
		}
	default:
		return fmt.Errorf("BLOB_BACKEND must be \"dir\" or \"s3\", got %q", c.BlobBackend)
	}

	return nil
}
