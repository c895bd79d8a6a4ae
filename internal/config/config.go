package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"quizrunner"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Remote        Remote
	Redis         Redis
	Database      Database
	Security      Security
	Session       Session
	Catalog       Catalog
	Analytics     Analytics
	Notifications Notifications
	CORS          CORS
}

// Remote points at the learning platform REST API.
type Remote struct {
	BaseURL        string        `env:"REMOTE_BASE_URL" envDefault:"https://apshwp.ap.gov.in"`
	Timeout        time.Duration `env:"REMOTE_TIMEOUT" envDefault:"30s"`
	DefaultThemeID string        `env:"REMOTE_DEFAULT_THEME_ID" envDefault:"9"`
}

// Redis holds cache + pub/sub configuration.
type Redis struct {
	Addr     string `env:"REDIS_ADDR,notEmpty"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// Database configures the attempt history store.
type Database struct {
	Driver      string `env:"DB_DRIVER" envDefault:"sqlite"`
	DSN         string `env:"DB_DSN" envDefault:""`
	AutoMigrate bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`
}

// Security stores secrets for signing service tokens.
type Security struct {
	JWTSecret string        `env:"JWT_SECRET,notEmpty"`
	TokenTTL  time.Duration `env:"JWT_TOKEN_TTL" envDefault:"24h"`
}

// Session governs live quiz session behavior.
type Session struct {
	IdleTTL           time.Duration `env:"SESSION_IDLE_TTL" envDefault:"30m"`
	ReapInterval      time.Duration `env:"SESSION_REAP_INTERVAL" envDefault:"1m"`
	PersistEachAnswer bool          `env:"SESSION_PERSIST_EACH_ANSWER" envDefault:"false"`
	RequireAnswer     bool          `env:"SESSION_REQUIRE_ANSWER" envDefault:"true"`
	TrackNavigation   bool          `env:"SESSION_TRACK_NAVIGATION" envDefault:"false"`
	SubmitTimeout     time.Duration `env:"SESSION_SUBMIT_TIMEOUT" envDefault:"30s"`
	DefaultLimit      int           `env:"SESSION_DEFAULT_LIMIT" envDefault:"0"`
}

// Catalog configures quiz catalog caching and the offline bank.
type Catalog struct {
	CacheTTL        time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"5m"`
	ThemeCacheTTL   time.Duration `env:"THEME_CACHE_TTL" envDefault:"30m"`
	BankPath        string        `env:"QUIZ_BANK_PATH" envDefault:""`
	RefreshInterval time.Duration `env:"CATALOG_REFRESH_INTERVAL" envDefault:"0s"`
}

// Analytics configures event sinks.
type Analytics struct {
	Channel       string `env:"ANALYTICS_CHANNEL" envDefault:"analytics:events"`
	BufferSize    int    `env:"ANALYTICS_BUFFER_SIZE" envDefault:"256"`
	RemoteEnabled bool   `env:"ANALYTICS_REMOTE_ENABLED" envDefault:"false"`
}

// Notifications configures the warning fan-out channel.
type Notifications struct {
	Channel string `env:"NOTIFY_CHANNEL" envDefault:"quiz:notices"`
}

// CORS holds Cross-Origin Resource Sharing configuration.
type CORS struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://127.0.0.1:3000"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS" envSeparator:"," envDefault:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS" envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE" envDefault:"3600"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
