// Package config loads service configuration from config.yaml, .env and the
// environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Log      LogConfig      `mapstructure:"log"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Gemini   GeminiConfig   `mapstructure:"gemini"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
}

type AppConfig struct {
	Env             string        `mapstructure:"env"`
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type StorageConfig struct {
	Driver            string `mapstructure:"driver"`
	Dir               string `mapstructure:"dir"`
	CompressThreshold int    `mapstructure:"compress_threshold"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type RedisConfig struct {
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	LockKey  string        `mapstructure:"lock_key"`
	LockTTL  time.Duration `mapstructure:"lock_ttl"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Prefix    string `mapstructure:"prefix"`
}

type CatalogConfig struct {
	Items    []string `mapstructure:"items"`
	Campuses []string `mapstructure:"campuses"`
}

// Load reads .env (if present), then config.yaml from the working directory
// or ./configs, then environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	bindEnvVariables(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Catalog.Items = splitList(cfg.Catalog.Items)
	cfg.Catalog.Campuses = splitList(cfg.Catalog.Campuses)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.read_timeout", 15*time.Second)
	v.SetDefault("app.write_timeout", 60*time.Second)
	v.SetDefault("app.shutdown_timeout", 30*time.Second)
	v.SetDefault("app.max_upload_bytes", 20<<20)
	v.SetDefault("log.level", "info")
	v.SetDefault("storage.driver", DriverFile)
	v.SetDefault("storage.dir", "./data")
	v.SetDefault("storage.compress_threshold", 10*1024)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.prefix", "")
	v.SetDefault("redis.lock_key", "stationery.import.lock")
	v.SetDefault("redis.lock_ttl", 5*time.Minute)
	v.SetDefault("gemini.model", "gemini-1.5-flash")
	v.SetDefault("minio.prefix", "exports")
}

func bindEnvVariables(v *viper.Viper) {
	_ = v.BindEnv("app.env", "APP_ENV")
	_ = v.BindEnv("app.port", "APP_PORT")
	_ = v.BindEnv("log.level", "LOG_LEVEL")

	_ = v.BindEnv("storage.driver", "STORAGE_DRIVER")
	_ = v.BindEnv("storage.dir", "STORAGE_DIR")
	_ = v.BindEnv("database.url", "DATABASE_URL")

	_ = v.BindEnv("redis.address", "REDIS_ADDRESS")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("redis.db", "REDIS_DB")

	_ = v.BindEnv("gemini.api_key", "GEMINI_API_KEY")
	_ = v.BindEnv("gemini.model", "GEMINI_MODEL")

	_ = v.BindEnv("minio.endpoint", "MINIO_ENDPOINT")
	_ = v.BindEnv("minio.access_key", "MINIO_ACCESS_KEY")
	_ = v.BindEnv("minio.secret_key", "MINIO_SECRET_KEY")
	_ = v.BindEnv("minio.bucket", "MINIO_BUCKET")
	_ = v.BindEnv("minio.use_ssl", "MINIO_USE_SSL")

	_ = v.BindEnv("catalog.items", "CATALOG_ITEMS")
	_ = v.BindEnv("catalog.campuses", "CATALOG_CAMPUSES")
}

// Validate checks driver-specific requirements.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverFile:
		if c.Storage.Dir == "" {
			return errors.New("config: STORAGE_DIR is required for the file driver")
		}
	case DriverMemory:
	case DriverPostgres:
		if c.Database.URL == "" {
			return errors.New("config: DATABASE_URL is required for the postgres driver")
		}
	case DriverRedis:
		if c.Redis.Address == "" {
			return errors.New("config: REDIS_ADDRESS is required for the redis driver")
		}
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}
	if c.MinIO.Endpoint != "" && c.MinIO.Bucket == "" {
		return errors.New("config: MINIO_BUCKET is required when MINIO_ENDPOINT is set")
	}
	return nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "" || c.App.Env == "development"
}

// AIEnabled reports whether PDF import has a structuring service.
func (c *Config) AIEnabled() bool {
	return c.Gemini.APIKey != ""
}

// ArchiveEnabled reports whether exports are copied to object storage.
func (c *Config) ArchiveEnabled() bool {
	return c.MinIO.Endpoint != ""
}

// splitList accepts both YAML lists and comma-separated env values.
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
