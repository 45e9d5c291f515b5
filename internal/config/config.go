package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the application configuration.
type Config struct {
	Env          string
	Server       ServerConfig
	Store        StoreConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Auth         AuthConfig
	Notification NotificationConfig
	Lock         LockConfig
	Cache        CacheConfig
	Worker       WorkerConfig
	Metrics      MetricsConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// StoreConfig selects the event store: "postgres" or "memory".
type StoreConfig struct {
	Driver string
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	MigrationsPath  string
	AutoMigrate     bool
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

// AuthConfig configures bearer token verification.
type AuthConfig struct {
	JWTSecret       string
	Issuer          string
	IdentityTimeout time.Duration
}

type NotificationConfig struct {
	ChannelPrefix  string
	PublishTimeout time.Duration
	Mail           MailConfig
}

type MailConfig struct {
	Provider           string
	FromAddress        string
	FromName           string
	SESRegion          string
	SESAccessKeyID     string
	SESSecretAccessKey string
	SESEndpoint        string
}

// LockConfig tunes the per-venue Redis lock.
type LockConfig struct {
	Enabled    bool
	TTL        time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

type CacheConfig struct {
	VenueTTL time.Duration
}

// WorkerConfig configures background jobs. A zero interval disables the job.
type WorkerConfig struct {
	CompletionSweepInterval time.Duration
}

// MetricsConfig protects /metrics with basic auth when both fields are set.
type MetricsConfig struct {
	User     string
	Password string
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads the configuration from the environment. Outside production a
// .env file in the working directory is loaded first; real environment
// variables take precedence over it.
func Load() *Config {
	env := getEnv("APP_ENV", "development")
	if env != "production" {
		_ = godotenv.Load()
	}

	cfg := &Config{
		Env: env,
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getEnv("STORE", "postgres")),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			DBName:          getEnv("DB_NAME", "event_management"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			MigrationsPath:  getEnv("MIGRATIONS_PATH", "migrations"),
			AutoMigrate:     getBoolEnv("DB_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			Enabled:  getBoolEnv("REDIS_ENABLED", true),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			JWTSecret:       getEnv("JWT_SECRET", ""),
			Issuer:          getEnv("JWT_ISSUER", ""),
			IdentityTimeout: getDurationEnv("IDENTITY_TIMEOUT", 5*time.Second),
		},
		Notification: NotificationConfig{
			ChannelPrefix:  getEnv("NOTIFICATION_CHANNEL_PREFIX", "ems:"),
			PublishTimeout: getDurationEnv("NOTIFICATION_TIMEOUT", 5*time.Second),
			Mail: MailConfig{
				Provider:           getEnv("MAIL_PROVIDER", "noop"),
				FromAddress:        getEnv("MAIL_FROM_ADDRESS", ""),
				FromName:           getEnv("MAIL_FROM_NAME", "Event Management"),
				SESRegion:          getEnv("AWS_REGION", "us-east-1"),
				SESAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
				SESSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
				SESEndpoint:        getEnv("SES_ENDPOINT", ""),
			},
		},
		Lock: LockConfig{
			Enabled:    getBoolEnv("VENUE_LOCK_ENABLED", true),
			TTL:        getDurationEnv("VENUE_LOCK_TTL", 10*time.Second),
			MaxRetries: getIntEnv("VENUE_LOCK_RETRIES", 20),
			RetryDelay: getDurationEnv("VENUE_LOCK_RETRY_DELAY", 50*time.Millisecond),
		},
		Cache: CacheConfig{
			VenueTTL: getDurationEnv("VENUE_CACHE_TTL", 5*time.Minute),
		},
		Worker: WorkerConfig{
			CompletionSweepInterval: getDurationEnv("COMPLETION_SWEEP_INTERVAL", 0),
		},
		Metrics: MetricsConfig{
			User:     getEnv("METRICS_USER", ""),
			Password: getEnv("METRICS_PASSWORD", ""),
		},
	}

	if raw := os.Getenv("DATABASE_URL"); raw != "" {
		applyDatabaseURL(&cfg.Database, raw)
	}
	if raw := os.Getenv("REDIS_URL"); raw != "" {
		applyRedisURL(&cfg.Redis, raw)
	}
	return cfg
}

// applyDatabaseURL overrides the discrete settings with a postgres:// URL.
// An unparsable URL leaves cfg untouched. Hosted databases require TLS, so
// sslmode defaults to require when the URL does not name one.
func applyDatabaseURL(cfg *DatabaseConfig, raw string) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return
	}
	cfg.Host = u.Hostname()
	if port := u.Port(); port != "" {
		cfg.Port = port
	}
	if u.User != nil {
		cfg.User = u.User.Username()
		if pw, ok := u.User.Password(); ok {
			cfg.Password = pw
		}
	}
	if name := strings.TrimPrefix(u.Path, "/"); name != "" {
		cfg.DBName = name
	}
	cfg.SSLMode = "require"
	if mode := u.Query().Get("sslmode"); mode != "" {
		cfg.SSLMode = mode
	}
}

// applyRedisURL overrides the discrete settings with a redis:// URL.
func applyRedisURL(cfg *RedisConfig, raw string) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return
	}
	cfg.Host = u.Hostname()
	if port := u.Port(); port != "" {
		cfg.Port = port
	}
	if u.User != nil {
		if pw, ok := u.User.Password(); ok {
			cfg.Password = pw
		}
	}
	if db, err := strconv.Atoi(strings.TrimPrefix(u.Path, "/")); err == nil {
		cfg.DB = db
	}
}

// DSN returns the lib/pq connection string.
func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" port=" + c.Port +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}

// Addr returns the Redis address.
func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
