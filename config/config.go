// Package config provides configuration management for the task manager API.
// Values come from environment variables (optionally seeded from a `.env` file by
// main) and are parsed with struct tags by `caarlos0/env`. Validation problems are
// collected and reported together so an operator sees every mistake at once.
// In Nest.js, the `@nestjs/config` module serves a similar purpose.
package config

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Backend identifies which store implementation the DATABASE_URI points at.
type Backend string

const (
	BackendMongo    Backend = "mongo"
	BackendPostgres Backend = "postgres"
	BackendMemory   Backend = "memory"
)

// Environment names accepted in APP_ENV.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// DatabaseConfig holds the connection settings for the task and user store.
type DatabaseConfig struct {
	URI           string `env:"DATABASE_URI,required"`
	Name          string `env:"DB_NAME" envDefault:"TaskManagerDB"`
	MaxConns      int    `env:"DB_MAX_CONNS" envDefault:"10"`
	RunMigrations bool   `env:"RUN_MIGRATIONS" envDefault:"true"`
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	JWTSecret     string        `env:"JWT_SECRET_KEY,required"` // Secret key for signing JWTs
	TokenDuration time.Duration `env:"JWT_EXPIRE" envDefault:"7d"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Port is kept as a string because it's used directly in the listen address (":8080").
	Port string `env:"PORT" envDefault:"8080"`
	// FrontendURLs is the CORS allow-list.
	FrontendURLs []string `env:"FRONTEND_URL" envSeparator:"," envDefault:"http://localhost:5173"`
	Environment  string   `env:"APP_ENV" envDefault:"development"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// AppConfig is the top-level configuration structure for the application.
type AppConfig struct {
	Database DatabaseConfig
	Auth     AuthConfig
	Server   ServerConfig
	Log      LogConfig
}

// LoadConfig creates and returns an AppConfig by reading and validating environment variables.
func LoadConfig() (*AppConfig, error) {
	var cfg AppConfig
	opts := env.Options{
		// JWT_EXPIRE historically used the "7d" notation, which time.ParseDuration rejects.
		FuncMap: map[reflect.Type]env.ParserFunc{
			reflect.TypeOf(time.Duration(0)): func(v string) (interface{}, error) {
				return ParseDuration(v)
			},
		},
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("configuration errors:\n- %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field rules that struct tags can't express.
// It collects all errors encountered and returns a single error if any exist.
func (c *AppConfig) Validate() error {
	var errors []string

	if _, err := c.Database.Backend(); err != nil {
		errors = append(errors, err.Error())
	}
	if c.Database.MaxConns < 1 || c.Database.MaxConns > 100 {
		errors = append(errors, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 100, got %d", c.Database.MaxConns))
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		errors = append(errors, "JWT_SECRET_KEY must not be empty")
	}
	if c.Auth.TokenDuration <= 0 {
		errors = append(errors, fmt.Sprintf("JWT_EXPIRE must be positive, got %s", c.Auth.TokenDuration))
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid value for PORT: expected integer, got '%s'", c.Server.Port))
	}
	switch c.Server.Environment {
	case EnvDevelopment, EnvProduction:
	default:
		errors = append(errors, fmt.Sprintf("APP_ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.Server.Environment))
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be json or text, got %q", c.Log.Format))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration errors:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// IsProduction reports whether internal error details should be hidden from clients.
func (c *AppConfig) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// Addr returns the listen address for the HTTP server.
func (c ServerConfig) Addr() string {
	return ":" + c.Port
}

// Backend derives the store implementation from the URI scheme.
func (c DatabaseConfig) Backend() (Backend, error) {
	u, err := url.Parse(c.URI)
	if err != nil {
		return "", fmt.Errorf("invalid DATABASE_URI: %v", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "mongodb", "mongodb+srv":
		return BackendMongo, nil
	case "postgres", "postgresql":
		return BackendPostgres, nil
	case "memory":
		return BackendMemory, nil
	default:
		return "", fmt.Errorf("unsupported DATABASE_URI scheme %q", u.Scheme)
	}
}

// ParseDuration accepts everything time.ParseDuration does plus a whole-day
// suffix, e.g. "7d" or "30d".
func ParseDuration(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if days, ok := strings.CutSuffix(v, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid day duration %q: %w", v, err)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", v, err)
	}
	return d, nil
}
