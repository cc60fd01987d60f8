package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/ragdash-backend/internal/data/db"
	"github.com/yungbote/ragdash-backend/internal/observability"
	"github.com/yungbote/ragdash-backend/internal/platform/envutil"
	"github.com/yungbote/ragdash-backend/internal/platform/logger"
	"github.com/yungbote/ragdash-backend/internal/platform/objectstore"
	"github.com/yungbote/ragdash-backend/internal/platform/ragserver"
)

type PostgresSettings struct {
	DSN          string `yaml:"dsn"`
	Host         string `yaml:"host"`
	Port         string `yaml:"port"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	Name         string `yaml:"name"`
	SSLMode      string `yaml:"ssl_mode"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

type StorageSettings struct {
	Mode           string `yaml:"mode"`
	Bucket         string `yaml:"bucket"`
	EmulatorHost   string `yaml:"emulator_host"`
	MinIOEndpoint  string `yaml:"minio_endpoint"`
	MinIOAccessKey string `yaml:"minio_access_key"`
	MinIOSecretKey string `yaml:"minio_secret_key"`
	MinIOUseSSL    bool   `yaml:"minio_use_ssl"`
	MinIORegion    string `yaml:"minio_region"`
}

type OtelSettings struct {
	Enabled     bool    `yaml:"enabled"`
	ServiceName string  `yaml:"service_name"`
	Endpoint    string  `yaml:"endpoint"`
	Headers     string  `yaml:"headers"`
	Insecure    bool    `yaml:"insecure"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

type Config struct {
	Env      string `yaml:"env"`
	Port     string `yaml:"port"`
	LogMode  string `yaml:"log_mode"`
	LogLevel string `yaml:"log_level"`

	DBDriver     string           `yaml:"db_driver"`
	Postgres     PostgresSettings `yaml:"postgres"`
	SQLitePath   string           `yaml:"sqlite_path"`
	VectorColumn bool             `yaml:"vector_column"`
	VectorDims   int              `yaml:"vector_dims"`

	RAGServerURL      string `yaml:"rag_server_url"`
	ProcessingURL     string `yaml:"processing_url"`
	ChatURL           string `yaml:"chat_url"`
	RAGTimeoutSeconds int    `yaml:"rag_timeout_seconds"`

	Storage StorageSettings `yaml:"storage"`

	RedisAddr    string `yaml:"redis_addr"`
	RedisChannel string `yaml:"redis_channel"`

	Otel OtelSettings `yaml:"otel"`

	AllowedOrigins         []string `yaml:"cors_allowed_origins"`
	MaxUploadMB            int      `yaml:"max_upload_mb"`
	IngestionCallbackToken string   `yaml:"ingestion_callback_token"`
	FeedbackConcurrency    int      `yaml:"feedback_concurrency"`
	ShutdownTimeoutSeconds int      `yaml:"shutdown_timeout_seconds"`
}

func defaultConfig() Config {
	return Config{
		Env:      "development",
		Port:     "8080",
		LogMode:  "development",
		LogLevel: "debug",
		DBDriver: db.DialectPostgres,
		Postgres: PostgresSettings{
			Host:         "localhost",
			Port:         "5432",
			User:         "postgres",
			Name:         "ragdash",
			SSLMode:      "disable",
			MaxOpenConns: 20,
			MaxIdleConns: 5,
		},
		SQLitePath:   "ragdash.db",
		VectorColumn: true,
		VectorDims:   1536,
		RAGServerURL: ragserver.DefaultBaseURL,
		Storage: StorageSettings{
			Bucket: "source-files",
		},
		RedisChannel:           "ragdash.sources",
		Otel:                   OtelSettings{ServiceName: "ragdash", SampleRatio: 1},
		MaxUploadMB:            32,
		FeedbackConcurrency:    8,
		ShutdownTimeoutSeconds: 15,
	}
}

// LoadConfig layers built-in defaults, an optional YAML file (CONFIG_FILE),
// .env files and the process environment, in increasing precedence.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := defaultConfig()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := mergeYAML(&cfg, path); err != nil {
			return Config{}, err
		}
		log.Info("Loaded config file", "path", path)
	}

	for _, f := range []string{".env.local", ".env"} {
		if err := godotenv.Load(f); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				log.Warn("Could not load env file", "file", f, "error", err)
			}
			continue
		}
		log.Debug("Loaded env file", "file", f)
	}

	applyEnv(&cfg)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func mergeYAML(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %q: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config file %q: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Env = envutil.String("APP_ENV", cfg.Env)
	cfg.Port = envutil.String("PORT", cfg.Port)
	cfg.LogMode = envutil.String("LOG_MODE", cfg.LogMode)
	cfg.LogLevel = envutil.String("LOG_LEVEL", cfg.LogLevel)

	cfg.DBDriver = envutil.String("DB_DRIVER", cfg.DBDriver)
	cfg.Postgres.DSN = envutil.String("DATABASE_URL", cfg.Postgres.DSN)
	cfg.Postgres.Host = envutil.String("POSTGRES_HOST", cfg.Postgres.Host)
	cfg.Postgres.Port = envutil.String("POSTGRES_PORT", cfg.Postgres.Port)
	cfg.Postgres.User = envutil.String("POSTGRES_USER", cfg.Postgres.User)
	cfg.Postgres.Password = envutil.String("POSTGRES_PASSWORD", cfg.Postgres.Password)
	cfg.Postgres.Name = envutil.String("POSTGRES_NAME", cfg.Postgres.Name)
	cfg.Postgres.SSLMode = envutil.String("POSTGRES_SSLMODE", cfg.Postgres.SSLMode)
	cfg.Postgres.MaxOpenConns = envutil.Int("POSTGRES_MAX_OPEN_CONNS", cfg.Postgres.MaxOpenConns)
	cfg.Postgres.MaxIdleConns = envutil.Int("POSTGRES_MAX_IDLE_CONNS", cfg.Postgres.MaxIdleConns)
	cfg.SQLitePath = envutil.String("SQLITE_PATH", cfg.SQLitePath)
	cfg.VectorColumn = envutil.Bool("DB_VECTOR_COLUMN", cfg.VectorColumn)
	cfg.VectorDims = envutil.Int("DB_VECTOR_DIMS", cfg.VectorDims)

	cfg.RAGServerURL = envutil.String("RAG_SERVER_URL", cfg.RAGServerURL)
	cfg.ProcessingURL = envutil.String("PROCESSING_URL", cfg.ProcessingURL)
	cfg.ChatURL = envutil.String("CHAT_URL", cfg.ChatURL)
	cfg.RAGTimeoutSeconds = envutil.Int("RAG_SERVER_TIMEOUT_SECONDS", cfg.RAGTimeoutSeconds)

	cfg.Storage.Mode = envutil.String("OBJECT_STORAGE_MODE", cfg.Storage.Mode)
	cfg.Storage.Bucket = envutil.String("SOURCE_FILES_BUCKET", cfg.Storage.Bucket)
	cfg.Storage.EmulatorHost = envutil.String("STORAGE_EMULATOR_HOST", cfg.Storage.EmulatorHost)
	cfg.Storage.MinIOEndpoint = envutil.String("MINIO_ENDPOINT", cfg.Storage.MinIOEndpoint)
	cfg.Storage.MinIOAccessKey = envutil.String("MINIO_ACCESS_KEY", cfg.Storage.MinIOAccessKey)
	cfg.Storage.MinIOSecretKey = envutil.String("MINIO_SECRET_KEY", cfg.Storage.MinIOSecretKey)
	cfg.Storage.MinIOUseSSL = envutil.Bool("MINIO_USE_SSL", cfg.Storage.MinIOUseSSL)
	cfg.Storage.MinIORegion = envutil.String("MINIO_REGION", cfg.Storage.MinIORegion)

	cfg.RedisAddr = envutil.String("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisChannel = envutil.String("REDIS_CHANNEL", cfg.RedisChannel)

	cfg.Otel.Enabled = envutil.Bool("OTEL_ENABLED", cfg.Otel.Enabled)
	cfg.Otel.ServiceName = envutil.String("OTEL_SERVICE_NAME", cfg.Otel.ServiceName)
	cfg.Otel.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Otel.Endpoint)
	cfg.Otel.Headers = envutil.String("OTEL_EXPORTER_OTLP_HEADERS", cfg.Otel.Headers)
	cfg.Otel.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", cfg.Otel.Insecure)

	cfg.AllowedOrigins = envutil.List("CORS_ALLOWED_ORIGINS", cfg.AllowedOrigins)
	cfg.MaxUploadMB = envutil.Int("MAX_UPLOAD_MB", cfg.MaxUploadMB)
	cfg.IngestionCallbackToken = envutil.String("INGESTION_CALLBACK_TOKEN", cfg.IngestionCallbackToken)
	cfg.FeedbackConcurrency = envutil.Int("FEEDBACK_ENRICH_CONCURRENCY", cfg.FeedbackConcurrency)
	cfg.ShutdownTimeoutSeconds = envutil.Int("SHUTDOWN_TIMEOUT_SECONDS", cfg.ShutdownTimeoutSeconds)
}

func (c Config) validate() error {
	switch strings.ToLower(strings.TrimSpace(c.DBDriver)) {
	case db.DialectPostgres, db.DialectSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB)
	}
	if c.RAGTimeoutSeconds < 0 {
		return fmt.Errorf("RAG_SERVER_TIMEOUT_SECONDS must not be negative, got %d", c.RAGTimeoutSeconds)
	}
	return nil
}

func (c Config) PostgresConfig() db.PostgresConfig {
	return db.PostgresConfig{
		DSN:          c.Postgres.DSN,
		Host:         c.Postgres.Host,
		Port:         c.Postgres.Port,
		User:         c.Postgres.User,
		Password:     c.Postgres.Password,
		Name:         c.Postgres.Name,
		SSLMode:      c.Postgres.SSLMode,
		MaxOpenConns: c.Postgres.MaxOpenConns,
		MaxIdleConns: c.Postgres.MaxIdleConns,
	}
}

func (c Config) RAGConfig() ragserver.Config {
	processing := c.ProcessingURL
	if processing == "" {
		processing = c.RAGServerURL
	}
	return ragserver.Config{
		ProcessingURL: processing,
		ChatURL:       c.ChatURL,
		Timeout:       time.Duration(c.RAGTimeoutSeconds) * time.Second,
	}
}

// ObjectStoreConfig resolves the storage mode. An unset mode is inferred
// from the emulator host or MinIO endpoint.
func (c Config) ObjectStoreConfig() (objectstore.Config, error) {
	mode, fallback, err := objectstore.ResolveMode(c.Storage.Mode, c.Storage.EmulatorHost, c.Storage.MinIOEndpoint)
	if err != nil {
		return objectstore.Config{}, err
	}
	return objectstore.Config{
		Mode:         mode,
		Bucket:       c.Storage.Bucket,
		EmulatorHost: c.Storage.EmulatorHost,
		MinIO: objectstore.MinIOConfig{
			Endpoint:  c.Storage.MinIOEndpoint,
			AccessKey: c.Storage.MinIOAccessKey,
			SecretKey: c.Storage.MinIOSecretKey,
			UseSSL:    c.Storage.MinIOUseSSL,
			Region:    c.Storage.MinIORegion,
		},
		CompatibilityFallback: fallback,
	}, nil
}

func (c Config) OtelConfig() observability.OtelConfig {
	return observability.OtelConfig{
		Enabled:     c.Otel.Enabled,
		ServiceName: c.Otel.ServiceName,
		Environment: c.Env,
		Endpoint:    c.Otel.Endpoint,
		Headers:     observability.ParseOTLPHeaders(c.Otel.Headers),
		Insecure:    c.Otel.Insecure,
		SampleRatio: c.Otel.SampleRatio,
	}
}

func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

func (c Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}
