package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Auth providers accepted in AUTH_PROVIDER.
const (
	AuthProviderJWT      = "jwt"
	AuthProviderFirebase = "firebase"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string

	MongoURI        string
	MongoDatabase   string
	PostgresConnStr string

	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	AuthorCacheTTL time.Duration

	StoreTimeout      time.Duration
	EnrichConcurrency int

	AuthProvider            string
	JWTSecret               string
	FirebaseCredentialsPath string

	MetricsEnabled bool
}

// Load reads configuration from the environment, after merging an optional
// .env file from the working directory.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, using process environment")
	}
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MONGO_DATABASE", "microblog")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("AUTHOR_CACHE_TTL", "5m")
	v.SetDefault("STORE_TIMEOUT", "5s")
	v.SetDefault("ENRICH_CONCURRENCY", 8)
	v.SetDefault("AUTH_PROVIDER", AuthProviderJWT)
	v.SetDefault("METRICS_ENABLED", true)

	cfg := &Config{
		Port:                    v.GetString("PORT"),
		Env:                     v.GetString("ENV"),
		LogLevel:                v.GetString("LOG_LEVEL"),
		MongoURI:                v.GetString("MONGO_URI"),
		MongoDatabase:           v.GetString("MONGO_DATABASE"),
		PostgresConnStr:         v.GetString("POSTGRES_CONN_STR"),
		RedisAddr:               v.GetString("REDIS_ADDR"),
		RedisPassword:           v.GetString("REDIS_PASSWORD"),
		RedisDB:                 v.GetInt("REDIS_DB"),
		AuthorCacheTTL:          v.GetDuration("AUTHOR_CACHE_TTL"),
		StoreTimeout:            v.GetDuration("STORE_TIMEOUT"),
		EnrichConcurrency:       v.GetInt("ENRICH_CONCURRENCY"),
		AuthProvider:            strings.ToLower(v.GetString("AUTH_PROVIDER")),
		JWTSecret:               v.GetString("JWT_SECRET"),
		FirebaseCredentialsPath: v.GetString("FIREBASE_CREDENTIALS_PATH"),
		MetricsEnabled:          v.GetBool("METRICS_ENABLED"),
	}
	return cfg, cfg.Validate()
}

// Validate reports the first missing or inconsistent setting.
func (c *Config) Validate() error {
	switch {
	case c.MongoURI == "":
		return errors.New("MONGO_URI is not set")
	case c.PostgresConnStr == "":
		return errors.New("POSTGRES_CONN_STR is not set")
	case c.StoreTimeout <= 0:
		return errors.Errorf("STORE_TIMEOUT must be positive, got %s", c.StoreTimeout)
	}
	switch c.AuthProvider {
	case AuthProviderJWT:
		if c.JWTSecret == "" {
			return errors.New("JWT_SECRET is required when AUTH_PROVIDER=jwt")
		}
	case AuthProviderFirebase:
		if c.FirebaseCredentialsPath == "" {
			return errors.New("FIREBASE_CREDENTIALS_PATH is required when AUTH_PROVIDER=firebase")
		}
	default:
		return errors.Errorf("unknown AUTH_PROVIDER %q", c.AuthProvider)
	}
	return nil
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}
