package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/wb-go/wbf/retry"
)

type Config struct {
	Server struct {
		Addr            string        `env:"SERVER_ADDR" env-default:"8080"`
		ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" env-default:"15s"`
		WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" env-default:"30s"`
		IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" env-default:"60s"`
		ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	}

	HTTP struct {
		// BaseURI is the public prefix of asset descriptor URIs.
		BaseURI      string `env:"BASE_URI" env-default:"http://localhost/" validate:"required,uri"`
		SecretHeader string `env:"SECRET_HEADER" env-default:"X-Pictiato-Secret" validate:"required"`
	}

	DB struct {
		Host            string        `env:"DB_HOST" env-default:"localhost"`
		Port            string        `env:"DB_PORT" env-default:"5432"`
		User            string        `env:"DB_USER" env-default:"pictiato"`
		Password        string        `env:"DB_PASSWORD" env-default:"pictiato"`
		Name            string        `env:"DB_NAME" env-default:"pictiato"`
		SSLMode         string        `env:"DB_SSLMODE" env-default:"disable"`
		MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" env-default:"10"`
		MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" env-default:"5"`
		ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"5m"`
	}

	Minio struct {
		Endpoint  string `env:"MINIO_ENDPOINT" env-default:"localhost:9000"`
		AccessKey string `env:"MINIO_ACCESS_KEY" env-default:"minioadmin"`
		SecretKey string `env:"MINIO_SECRET_KEY" env-default:"minioadmin"`
		Bucket    string `env:"MINIO_BUCKET" env-default:"pictiato"`
		UseSSL    bool   `env:"MINIO_USE_SSL" env-default:"false"`
	}

	Redis struct {
		Addr     string `env:"REDIS_ADDR" env-default:"localhost:6379"`
		Password string `env:"REDIS_PASSWORD" env-default:""`
		DB       int    `env:"REDIS_DB" env-default:"0"`
	}

	Kafka struct {
		// Brokers empty means lifecycle events are disabled.
		Brokers     []string `env:"KAFKA_BROKERS" env-separator:","`
		EventsTopic string   `env:"KAFKA_EVENTS_TOPIC" env-default:"asset-events"`
		GroupID     string   `env:"KAFKA_GROUP_ID" env-default:"pictiato-auditor"`
	}

	Auditor struct {
		Concurrency int `env:"AUDITOR_CONCURRENCY" env-default:"2" validate:"gte=1"`
	}

	Cache struct {
		DefaultTTL time.Duration `env:"CACHE_DEFAULT_TTL" env-default:"168h" validate:"gt=0"`
	}

	Transform struct {
		// Crop alignment fractions, 0=start, 1=end, 0.5=center.
		AlignX float64 `env:"CROP_ALIGN_X" env-default:"0.5" validate:"gte=0,lte=1"`
		AlignY float64 `env:"CROP_ALIGN_Y" env-default:"0.5" validate:"gte=0,lte=1"`
	}

	TenantsFile string `env:"TENANTS_FILE" env-default:"tenants.yaml"`

	// Tenants is loaded from TenantsFile, never from the environment,
	// and is immutable after MustLoad returns.
	Tenants Tenants `env:"-"`
}

// Tenants is the static secret→domain table plus optional per-domain
// watermark texts, keyed by domain.
type Tenants struct {
	Secrets    map[string]string `yaml:"secrets"`
	Watermarks map[string]string `yaml:"watermarks"`
}

func MustLoad() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cleanenv.ReadConfig(cfg.TenantsFile, &cfg.Tenants); err != nil {
		return nil, fmt.Errorf("failed to read tenants file %s: %w", cfg.TenantsFile, err)
	}
	if len(cfg.Tenants.Secrets) == 0 {
		return nil, fmt.Errorf("tenants file %s defines no secrets", cfg.TenantsFile)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) DBDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name, c.DB.SSLMode)
}

func (c *Config) DefaultRetryStrategy() retry.Strategy {
	return retry.Strategy{
		Attempts: 3,
		Delay:    500 * time.Millisecond,
		Backoff:  2,
	}
}

// EventsEnabled reports whether lifecycle event publishing is configured.
func (c *Config) EventsEnabled() bool {
	return len(c.Kafka.Brokers) > 0
}
