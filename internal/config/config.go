package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	Logger   LoggerConfig   `yaml:"logger"`
	Auth     AuthConfig     `yaml:"auth"`
	Sequence SequenceConfig `yaml:"sequence"`
	Photos   PhotoConfig    `yaml:"photos"`
	Seed     SeedConfig     `yaml:"seed"`
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string `yaml:"name" env:"APP_NAME" env-default:"student-management-service"`
	Env                   string `yaml:"env" env:"APP_ENV" env-default:"development"`
	Host                  string `yaml:"host" env:"APP_HOST" env-default:"0.0.0.0"`
	Port                  string `yaml:"port" env:"APP_PORT" env-default:"8080"`
	Version               string `yaml:"version" env:"APP_VERSION" env-default:"dev"`
	BasePath              string `yaml:"base_path" env:"API_BASE_PATH" env-default:"/synchrony"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds" env:"HTTP_REQUEST_TIMEOUT_SECONDS" env-default:"30"`
	BodyLimitBytes        int    `yaml:"body_limit_bytes" env:"HTTP_BODY_LIMIT_BYTES" env-default:"8388608"`
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string `yaml:"dsn" env:"POSTGRES_DSN"`
	MaxConns       int32  `yaml:"max_conns" env:"POSTGRES_MAX_CONNS" env-default:"10"`
	MinConns       int32  `yaml:"min_conns" env:"POSTGRES_MIN_CONNS" env-default:"2"`
	RunMigrations  bool   `yaml:"run_migrations" env:"POSTGRES_RUN_MIGRATIONS" env-default:"true"`
	ConnMaxIdleSec int32  `yaml:"conn_max_idle_seconds" env:"POSTGRES_CONN_MAX_IDLE_SECONDS" env-default:"30"`
	ConnMaxLifeSec int32  `yaml:"conn_max_life_seconds" env:"POSTGRES_CONN_MAX_LIFE_SECONDS" env-default:"300"`
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// AuthConfig defines authentication parameters. Token validities are minutes.
type AuthConfig struct {
	JWTSecret              string `yaml:"jwt_secret" env:"JWT_SECRET"`
	TokenValidityMinutes   int    `yaml:"jwt_token_validity" env:"JWT_TOKEN_VALIDITY" env-default:"20"`
	RefreshValidityMinutes int    `yaml:"jwt_refresh_token_validity" env:"JWT_REFRESH_TOKEN_VALIDITY" env-default:"1440"`
	CookieName             string `yaml:"jwt_cookie_name" env:"JWT_COOKIE_NAME" env-default:"synchrony-jwt"`
	RefreshCookieName      string `yaml:"jwt_refresh_cookie_name" env:"JWT_REFRESH_COOKIE_NAME" env-default:"synchrony-jwt-refresh"`
	CookiePath             string `yaml:"jwt_cookie_path" env:"JWT_COOKIE_PATH" env-default:"/synchrony"`
	CookieSecure           bool   `yaml:"jwt_cookie_secure" env:"JWT_COOKIE_SECURE" env-default:"true"`
	BcryptCost             int    `yaml:"bcrypt_cost" env:"AUTH_BCRYPT_COST" env-default:"12"`
}

// SequenceConfig selects the identifier sequence backend ("memory" or "redis").
type SequenceConfig struct {
	Backend   string `yaml:"backend" env:"SEQUENCE_BACKEND" env-default:"memory"`
	KeyPrefix string `yaml:"key_prefix" env:"SEQUENCE_KEY_PREFIX" env-default:"sms:seq:"`
}

// PhotoConfig configures profile photo storage. An empty endpoint keeps photos in memory.
type PhotoConfig struct {
	Endpoint            string   `yaml:"endpoint" env:"PHOTOS_S3_ENDPOINT"`
	AccessKey           string   `yaml:"access_key" env:"PHOTOS_S3_ACCESS_KEY"`
	SecretKey           string   `yaml:"secret_key" env:"PHOTOS_S3_SECRET_KEY"`
	Bucket              string   `yaml:"bucket" env:"PHOTOS_S3_BUCKET" env-default:"profile-photos"`
	MaxSizeBytes        int64    `yaml:"max_size_bytes" env:"PHOTOS_MAX_SIZE_BYTES" env-default:"2097152"`
	AllowedContentTypes []string `yaml:"allowed_content_types" env:"PHOTOS_ALLOWED_CONTENT_TYPES" env-default:"image/jpeg,image/png,image/webp"`
}

// SeedConfig controls creation of the default accounts on an empty database.
type SeedConfig struct {
	Enabled         bool   `yaml:"enabled" env:"SEED_DEFAULT_USERS" env-default:"true"`
	AdminPassword   string `yaml:"admin_password" env:"SEED_ADMIN_PASSWORD" env-default:"Admin@12345"`
	StudentPassword string `yaml:"student_password" env:"SEED_STUDENT_PASSWORD" env-default:"Student@123"`
}

// Load reads configuration from an optional .env file, an optional YAML file pointed to by
// CONFIG_PATH and the process environment, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks invariants that defaults cannot provide.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.Auth.TokenValidityMinutes <= 0 {
		return fmt.Errorf("invalid JWT_TOKEN_VALIDITY: %d", c.Auth.TokenValidityMinutes)
	}
	if c.Auth.RefreshValidityMinutes <= 0 {
		return fmt.Errorf("invalid JWT_REFRESH_TOKEN_VALIDITY: %d", c.Auth.RefreshValidityMinutes)
	}
	switch c.Sequence.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("invalid SEQUENCE_BACKEND: %q", c.Sequence.Backend)
	}
	if c.Sequence.Backend == "redis" && c.Redis.Addr == "" {
		return errors.New("SEQUENCE_BACKEND=redis requires REDIS_ADDR")
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// AccessTTL returns the access token lifetime.
func (a AuthConfig) AccessTTL() time.Duration {
	return time.Duration(a.TokenValidityMinutes) * time.Minute
}

// RefreshTTL returns the refresh token lifetime.
func (a AuthConfig) RefreshTTL() time.Duration {
	return time.Duration(a.RefreshValidityMinutes) * time.Minute
}
