package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	SessionStoreRedis  = "redis"
	SessionStoreCookie = "cookie"

	MailBackendLog   = "log"
	MailBackendSMTP  = "smtp"
	MailBackendRedis = "redis"
)

type Config struct {
	Port      string `env:"PORT, default=8080"`
	GinMode   string `env:"GIN_MODE, default=debug"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	SessionSecret string        `env:"SESSION_SECRET, default=default-secret-key-change-me"`
	SessionStore  string        `env:"SESSION_STORE, default=redis"`
	SessionMaxAge time.Duration `env:"SESSION_MAX_AGE, default=168h"`

	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`

	DisplayTimezone string `env:"DISPLAY_TIMEZONE, default=UTC"`

	DB    DBConfig
	Redis RedisConfig
	Mail  MailConfig
}

type DBConfig struct {
	Driver   string `env:"DB_DRIVER, default=mysql"`
	Host     string `env:"DB_HOST, default=localhost"`
	Port     string `env:"DB_PORT, default=3306"`
	User     string `env:"DB_USER, default=taskuser"`
	Password string `env:"DB_PASSWORD, default=taskpassword"`
	Name     string `env:"DB_NAME, default=task_tracker"`
	Path     string `env:"DB_PATH, default=task_tracker.db"`
	LogLevel string `env:"DB_LOG_LEVEL, default=warn"`
}

type RedisConfig struct {
	Host     string `env:"REDIS_HOST, default=localhost"`
	Port     string `env:"REDIS_PORT, default=6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
	PoolSize int    `env:"REDIS_POOL_SIZE, default=10"`
}

type MailConfig struct {
	Backend      string `env:"MAIL_BACKEND, default=log"`
	From         string `env:"MAIL_FROM, default=noreply@tasktracker.local"`
	SMTPHost     string `env:"SMTP_HOST, default=localhost"`
	SMTPPort     string `env:"SMTP_PORT, default=25"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	Stream       string `env:"MAIL_STREAM, default=notifications:email"`

	// SMTPTimeout caps a single relay conversation, NotifyTimeout the
	// whole completion notification a toggle waits for.
	SMTPTimeout   time.Duration `env:"SMTP_TIMEOUT, default=10s"`
	NotifyTimeout time.Duration `env:"MAIL_NOTIFY_TIMEOUT, default=5s"`
}

// Load reads configuration from environment variables.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = cfg.SessionSecret
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.DB.Driver)
	}
	switch c.SessionStore {
	case SessionStoreRedis, SessionStoreCookie:
	default:
		return fmt.Errorf("config: unsupported SESSION_STORE %q", c.SessionStore)
	}
	switch c.Mail.Backend {
	case MailBackendLog, MailBackendSMTP, MailBackendRedis:
	default:
		return fmt.Errorf("config: unsupported MAIL_BACKEND %q", c.Mail.Backend)
	}
	if _, err := time.LoadLocation(c.DisplayTimezone); err != nil {
		return fmt.Errorf("config: invalid DISPLAY_TIMEZONE %q: %w", c.DisplayTimezone, err)
	}
	return nil
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// Location returns the display timezone. validate guarantees it parses.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.DisplayTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// RedisAddr returns host:port for the Redis server.
func (c *Config) RedisAddr() string {
	return c.Redis.Host + ":" + c.Redis.Port
}

// UsesRedis reports whether any component needs a Redis connection.
func (c *Config) UsesRedis() bool {
	return c.SessionStore == SessionStoreRedis || c.Mail.Backend == MailBackendRedis
}
