package config

import (
	"fmt"
	"log/slog"
	"net/url"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv string `env:"APP_ENV" default:"development"`
	Port   string `env:"PORT" default:"8080"`

	// APIBaseURL is the remote platform API handling authentication
	// (login, register, logout) and the economy endpoints.
	APIBaseURL string `env:"API_BASE_URL"`

	// StatePath is the JSON file the session survives restarts in.
	// Ignored when RedisURL is set.
	StatePath string `env:"STATE_PATH" default:"session-state.json"`
	RedisURL  string `env:"REDIS_URL"`

	// Fallback profile ids, one per broad role category. Applied when a login
	// response carries no profile id; downstream economy features (chat,
	// gifts, progress) need one to function.
	DefaultStreamerProfileID int `env:"DEFAULT_STREAMER_PROFILE_ID" default:"0"`
	DefaultViewerProfileID   int `env:"DEFAULT_VIEWER_PROFILE_ID" default:"0"`

	// LoginPath receives anonymous visitors denied by the role guard;
	// HomePath receives authenticated visitors with the wrong role.
	LoginPath string `env:"LOGIN_PATH" default:"/login"`
	HomePath  string `env:"HOME_PATH" default:"/"`

	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	// Auth endpoints are rate limited per client IP.
	LoginRatePerSecond float64 `env:"LOGIN_RATE_PER_SECOND" default:"1"`
	LoginRateBurst     int     `env:"LOGIN_RATE_BURST" default:"5"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute URL")
	}

	if cfg.RedisURL == "" && cfg.StatePath == "" {
		return fmt.Errorf("STATE_PATH is required when REDIS_URL is not set")
	}

	if cfg.DefaultStreamerProfileID < 0 || cfg.DefaultViewerProfileID < 0 {
		return fmt.Errorf("default profile ids must not be negative")
	}

	if cfg.LoginRatePerSecond <= 0 || cfg.LoginRateBurst <= 0 {
		return fmt.Errorf("login rate limit values must be positive")
	}

	return nil
}
