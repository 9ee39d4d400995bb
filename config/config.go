package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App       AppConfig
	Server    ServerConfig
	Store     StoreConfig
	Database  DatabaseConfig
	AWS       AWSConfig
	Kafka     KafkaConfig
	Outbox    OutboxConfig
	Booking   BookingConfig
	Reminder  ReminderConfig
	JWT       JWTConfig
	Log       LogConfig
	Tracing   TracingConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Seed      SeedConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Version     string
}

type ServerConfig struct {
	Host            string
	Port            int
	MetricsPort     int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	TLSCertFile     string
	TLSKeyFile      string
	TLSClientCAFile string
}

func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (s ServerConfig) MetricsAddress() string {
	return fmt.Sprintf("%s:%d", s.Host, s.MetricsPort)
}

func (s ServerConfig) TLSEnabled() bool {
	return s.TLSCertFile != "" && s.TLSKeyFile != ""
}

// Store drivers
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverS3       = "s3"
)

type StoreConfig struct {
	Driver     string
	SQLitePath string
	S3Prefix   string
}

type DatabaseConfig struct {
	Host               string
	Port               int
	Name               string
	User               string
	Password           string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetime    time.Duration
	ConnMaxIdleTime    time.Duration
	SlowQueryThreshold time.Duration
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=UTC",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

type AWSConfig struct {
	Region       string
	Endpoint     string // localstack / minio override
	S3Bucket     string
	SQSQueueURL  string
	JWTSecretARN string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Outbox drivers
const (
	OutboxLog   = "log"
	OutboxKafka = "kafka"
	OutboxSQS   = "sqs"
)

type OutboxConfig struct {
	Driver             string
	BreakerMaxFailures uint32
	BreakerOpenTimeout time.Duration
}

type BookingConfig struct {
	Rooms              []string
	PaymentSuccessRate float64
	PaymentDelay       time.Duration
}

type ReminderConfig struct {
	Enabled  bool
	Interval time.Duration
}

type JWTConfig struct {
	Secret          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	Issuer          string
}

type LogConfig struct {
	Level      string
	Format     string
	OutputPath string
}

type TracingConfig struct {
	Enabled     bool
	ServiceName string
	EndpointURL string
	SampleRate  float64
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         time.Duration
}

type RateLimitConfig struct {
	// Global Rate limit per IP
	RequestsPerSecond float64
	BurstSize         int
	// Auth endpoints have stricter limits
	AuthRequestsPerMinute int
}

type SeedConfig struct {
	Enabled     bool
	CatalogFile string
	DemoData    bool
}

func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "zentherapy-api"),
			Environment: getEnv("APP_ENV", "development"),
			Version:     getEnv("APP_VERSION", "0.0.0"),
		},
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvInt("SERVER_PORT", 8080),
			MetricsPort:     getEnvInt("METRICS_PORT", 9090),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			TLSCertFile:     getEnv("SERVER_TLS_CERT", ""),
			TLSKeyFile:      getEnv("SERVER_TLS_KEY", ""),
			TLSClientCAFile: getEnv("SERVER_TLS_CLIENT_CA", ""),
		},
		Store: StoreConfig{
			Driver:     getEnv("STORE_DRIVER", DriverMemory),
			SQLitePath: getEnv("STORE_SQLITE_PATH", "data/zentherapy.db"),
			S3Prefix:   getEnv("STORE_S3_PREFIX", "zentherapy/"),
		},
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			Name:               getEnv("DB_NAME", "zentherapy"),
			User:               getEnv("DB_USER", "zentherapy"),
			Password:           getEnv("DB_PASSWORD", ""),
			SSLMode:            getEnv("DB_SSLMODE", "require"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime:    getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime:    getEnvDuration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
			SlowQueryThreshold: getEnvDuration("DB_SLOW_QUERY_THRESHOLD", 200*time.Millisecond),
		},
		AWS: AWSConfig{
			Region:       getEnv("AWS_REGION", "ap-south-1"),
			Endpoint:     getEnv("AWS_ENDPOINT_URL", ""),
			S3Bucket:     getEnv("AWS_S3_BUCKET", ""),
			SQSQueueURL:  getEnv("AWS_SQS_QUEUE_URL", ""),
			JWTSecretARN: getEnv("JWT_SECRET_ARN", ""),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:   getEnv("KAFKA_TOPIC", "zentherapy.notifications"),
		},
		Outbox: OutboxConfig{
			Driver:             getEnv("OUTBOX_DRIVER", OutboxLog),
			BreakerMaxFailures: uint32(getEnvInt("OUTBOX_BREAKER_MAX_FAILURES", 5)),
			BreakerOpenTimeout: getEnvDuration("OUTBOX_BREAKER_OPEN_TIMEOUT", 30*time.Second),
		},
		Booking: BookingConfig{
			Rooms:              getEnvSlice("BOOKING_ROOMS", []string{"Room A", "Room B", "Room C", "Room D"}),
			PaymentSuccessRate: getEnvFloat("BOOKING_PAYMENT_SUCCESS_RATE", 0.9),
			PaymentDelay:       getEnvDuration("BOOKING_PAYMENT_DELAY", 2*time.Second),
		},
		Reminder: ReminderConfig{
			Enabled:  getEnvBool("REMINDER_ENABLED", true),
			Interval: getEnvDuration("REMINDER_INTERVAL", 5*time.Minute),
		},
		JWT: JWTConfig{
			Secret:          getEnv("JWT_SECRET", ""),
			AccessTokenTTL:  getEnvDuration("JWT_ACCESS_TTL", 15*time.Minute),
			RefreshTokenTTL: getEnvDuration("JWT_REFRESH_TTL", 7*24*time.Hour),
			Issuer:          getEnv("JWT_ISSUER", "zentherapy-api"),
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			OutputPath: getEnv("LOG_OUTPUT", "stdout"),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvBool("TRACING_ENABLED", false),
			ServiceName: getEnv("TRACING_SERVICE_NAME", "zentherapy-api"),
			EndpointURL: getEnv("OTLP_ENDPOINT", "http://otel-collector:4318/v1/traces"),
			SampleRate:  getEnvFloat("TRACING_SAMPLE_RATE", 0.1),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
			AllowedMethods: getEnvSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
			AllowedHeaders: getEnvSlice("CORS_ALLOWED_HEADERS", []string{"Authorization", "Content-Type", "X-Request-ID"}),
			MaxAge:         getEnvDuration("CORS_MAX_AGE", 12*time.Hour),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond:     getEnvFloat("RATE_LIMIT_RPS", 50),
			BurstSize:             getEnvInt("RATE_LIMIT_BURST", 100),
			AuthRequestsPerMinute: getEnvInt("RATE_LIMIT_AUTH_RPM", 10),
		},
		Seed: SeedConfig{
			Enabled:     getEnvBool("SEED_ENABLED", true),
			CatalogFile: getEnv("SEED_CATALOG_FILE", ""),
			DemoData:    getEnvBool("SEED_DEMO_DATA", true),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate enforces production security requirements and driver prerequisites.
func validate(cfg *Config) error {
	var errs []string

	if cfg.JWT.Secret == "" && cfg.AWS.JWTSecretARN == "" {
		errs = append(errs, "JWT_SECRET or JWT_SECRET_ARN is required")
	} else if cfg.JWT.Secret != "" && len(cfg.JWT.Secret) < 32 && cfg.App.Environment == "production" {
		errs = append(errs, "JWT_SECRET must be at least 32 characters in production")
	}

	switch cfg.Store.Driver {
	case DriverMemory:
		if cfg.App.Environment == "production" {
			errs = append(errs, "STORE_DRIVER=memory is not allowed in production")
		}
	case DriverSQLite:
		if cfg.Store.SQLitePath == "" {
			errs = append(errs, "STORE_SQLITE_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if cfg.Database.Password == "" && cfg.App.Environment != "development" {
			errs = append(errs, "DB_PASSWORD is required in non-development environments")
		}
		if cfg.Database.SSLMode == "disable" && cfg.App.Environment == "production" {
			errs = append(errs, "DB_SSLMODE=disable is not allowed in production")
		}
	case DriverS3:
		if cfg.AWS.S3Bucket == "" {
			errs = append(errs, "AWS_S3_BUCKET is required for the s3 driver")
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown STORE_DRIVER %q", cfg.Store.Driver))
	}

	switch cfg.Outbox.Driver {
	case OutboxLog:
	case OutboxKafka:
		if len(cfg.Kafka.Brokers) == 0 || cfg.Kafka.Topic == "" {
			errs = append(errs, "KAFKA_BROKERS and KAFKA_TOPIC are required for the kafka outbox")
		}
	case OutboxSQS:
		if cfg.AWS.SQSQueueURL == "" {
			errs = append(errs, "AWS_SQS_QUEUE_URL is required for the sqs outbox")
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown OUTBOX_DRIVER %q", cfg.Outbox.Driver))
	}

	if len(cfg.Booking.Rooms) == 0 {
		errs = append(errs, "BOOKING_ROOMS must list at least one room")
	}
	if cfg.Booking.PaymentSuccessRate < 0 || cfg.Booking.PaymentSuccessRate > 1 {
		errs = append(errs, "BOOKING_PAYMENT_SUCCESS_RATE must be between 0 and 1")
	}

	if cfg.App.Environment == "production" && slices.Contains(cfg.CORS.AllowedOrigins, "*") {
		errs = append(errs, "CORS_ALLOWED_ORIGINS=* is not allowed in production")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if v, ok := os.LookupEnv(key); ok {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if t := strings.TrimSpace(p); t != "" {
				result = append(result, t)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
