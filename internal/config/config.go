// Package config assembles the runtime configuration of the ddata tools.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// DDATA_* environment variables. The result is checked by Validate.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Online-Ugyvitel/ddata-core/internal/common/pagination"
	"github.com/Online-Ugyvitel/ddata-core/internal/domain/model"
	"github.com/Online-Ugyvitel/ddata-core/internal/infra/db"
	"github.com/Online-Ugyvitel/ddata-core/internal/infra/restclient"
	envconfig "github.com/Online-Ugyvitel/ddata-core/pkg/config"
)

// Config holds the configuration of the CLI and the services it builds.
type Config struct {
	Store      StoreConfig      `yaml:"store"`
	API        APIConfig        `yaml:"api"`
	Log        LogConfig        `yaml:"log"`
	Pagination PaginationConfig `yaml:"pagination"`

	// Workers bounds concurrent record loads. Default: 4
	Workers int `yaml:"workers"`

	// UserID is the acting user passed to date helpers and constructors.
	UserID string `yaml:"user_id"`
}

// StoreConfig selects the local payload store.
type StoreConfig struct {
	// Driver is "sqlite" or "postgres". Default: sqlite
	Driver string `yaml:"driver"`
	// DSN is the sqlite file path or the postgres connection string. Default: ddata.db
	DSN string `yaml:"dsn"`
}

// APIConfig configures the REST transport.
type APIConfig struct {
	// BaseURL of the REST API. Empty disables the remote commands.
	BaseURL string `yaml:"base_url"`
	// Token is sent as a bearer token when set.
	Token string `yaml:"token"`
	// Timeout per HTTP attempt. Default: 15s
	Timeout time.Duration `yaml:"timeout"`
	// RateLimit in requests per second, 0 disables limiting. Default: 10
	RateLimit float64 `yaml:"rate_limit"`
	// Burst of the rate limiter. Default: 5
	Burst int `yaml:"burst"`
	// RetryAttempts including the first call. Default: 3
	RetryAttempts int `yaml:"retry_attempts"`
	// BreakerTimeout is how long the breaker stays open. Default: 30s
	BreakerTimeout time.Duration `yaml:"breaker_timeout"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	// Format is "json" or "text". Default: text
	Format string `yaml:"format"`
	// Level is debug, info, warn or error. Default: info
	Level string `yaml:"level"`
}

// PaginationConfig holds page size defaults.
type PaginationConfig struct {
	DefaultPerPage int `yaml:"default_per_page"`
	MaxPerPage     int `yaml:"max_per_page"`
}

// Default returns the built-in configuration.
func Default() *Config {
	p := pagination.DefaultConfig()
	rc := restclient.DefaultConfig("")
	return &Config{
		Store: StoreConfig{Driver: db.DriverSQLite, DSN: "ddata.db"},
		API: APIConfig{
			Timeout:        rc.Timeout,
			RateLimit:      rc.RequestsPerSecond,
			Burst:          rc.Burst,
			RetryAttempts:  rc.Retry.MaxAttempts,
			BreakerTimeout: rc.Breaker.Timeout,
		},
		Log:        LogConfig{Format: "text", Level: "info"},
		Pagination: PaginationConfig{DefaultPerPage: p.DefaultPerPage, MaxPerPage: p.MaxPerPage},
		Workers:    4,
	}
}

// Load reads path (when not empty) over the defaults, applies the
// environment and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Store.Driver = envconfig.GetEnvString("DDATA_STORE_DRIVER", c.Store.Driver)
	c.Store.DSN = envconfig.GetEnvString("DDATA_STORE_DSN", c.Store.DSN)

	c.API.BaseURL = envconfig.GetEnvString("DDATA_API_BASE_URL", c.API.BaseURL)
	c.API.Token = envconfig.GetEnvString("DDATA_API_TOKEN", c.API.Token)
	c.API.Timeout = envconfig.GetEnvDuration("DDATA_API_TIMEOUT", c.API.Timeout)
	c.API.RateLimit = envconfig.GetEnvFloat("DDATA_API_RATE_LIMIT", c.API.RateLimit)
	c.API.Burst = envconfig.GetEnvInt("DDATA_API_BURST", c.API.Burst)
	c.API.RetryAttempts = envconfig.GetEnvInt("DDATA_API_RETRY_ATTEMPTS", c.API.RetryAttempts)
	c.API.BreakerTimeout = envconfig.GetEnvDuration("DDATA_API_BREAKER_TIMEOUT", c.API.BreakerTimeout)

	c.Log.Format = envconfig.GetEnvString("DDATA_LOG_FORMAT", c.Log.Format)
	c.Log.Level = envconfig.GetEnvString("DDATA_LOG_LEVEL", c.Log.Level)

	c.Pagination.DefaultPerPage = envconfig.GetEnvInt("DDATA_PAGINATION_PER_PAGE", c.Pagination.DefaultPerPage)
	c.Pagination.MaxPerPage = envconfig.GetEnvInt("DDATA_PAGINATION_MAX_PER_PAGE", c.Pagination.MaxPerPage)

	c.Workers = envconfig.GetEnvInt("DDATA_WORKERS", c.Workers)
	c.UserID = envconfig.GetEnvString("DDATA_USER_ID", c.UserID)
}

// Validate checks configuration correctness and reports every problem found.
func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Driver {
	case db.DriverSQLite, db.DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("store.driver must be %q or %q, got %q", db.DriverSQLite, db.DriverPostgres, c.Store.Driver))
	}
	if c.Store.DSN == "" {
		errs = append(errs, errors.New("store.dsn is required"))
	}

	if c.API.BaseURL != "" && !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		errs = append(errs, fmt.Errorf("api.base_url must start with http:// or https://, got %q", c.API.BaseURL))
	}
	if err := envconfig.ValidateDurationRange(c.API.Timeout, 100*time.Millisecond, 5*time.Minute); err != nil {
		errs = append(errs, fmt.Errorf("api.timeout: %w", err))
	}
	if c.API.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("api.rate_limit must not be negative, got %v", c.API.RateLimit))
	}
	if err := envconfig.ValidateIntRange(c.API.Burst, 1, 1000); err != nil {
		errs = append(errs, fmt.Errorf("api.burst: %w", err))
	}
	if err := envconfig.ValidateIntRange(c.API.RetryAttempts, 1, 10); err != nil {
		errs = append(errs, fmt.Errorf("api.retry_attempts: %w", err))
	}
	if err := envconfig.ValidatePositiveDuration(c.API.BreakerTimeout); err != nil {
		errs = append(errs, fmt.Errorf("api.breaker_timeout: %w", err))
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or text, got %q", c.Log.Format))
	}

	if err := envconfig.ValidateIntRange(c.Pagination.MaxPerPage, 1, 10000); err != nil {
		errs = append(errs, fmt.Errorf("pagination.max_per_page: %w", err))
	}
	if err := envconfig.ValidateIntRange(c.Pagination.DefaultPerPage, 1, c.Pagination.MaxPerPage); err != nil {
		errs = append(errs, fmt.Errorf("pagination.default_per_page: %w", err))
	}
	if err := envconfig.ValidateIntRange(c.Workers, 1, 64); err != nil {
		errs = append(errs, fmt.Errorf("workers: %w", err))
	}

	return errors.Join(errs...)
}

// RESTClient returns the REST client configuration.
func (c *Config) RESTClient() restclient.Config {
	rc := restclient.DefaultConfig(c.API.BaseURL)
	rc.Timeout = c.API.Timeout
	rc.RequestsPerSecond = c.API.RateLimit
	rc.Burst = c.API.Burst
	rc.Retry.MaxAttempts = c.API.RetryAttempts
	rc.Breaker.Timeout = c.API.BreakerTimeout
	if c.API.Token != "" {
		rc.Headers = map[string]string{"Authorization": "Bearer " + c.API.Token}
	}
	return rc
}

// PaginationDefaults returns the pagination configuration.
func (c *Config) PaginationDefaults() pagination.Config {
	p := pagination.DefaultConfig()
	p.DefaultPerPage = c.Pagination.DefaultPerPage
	p.MaxPerPage = c.Pagination.MaxPerPage
	return p
}

// Ambient returns the acting user and the system clock.
func (c *Config) Ambient() model.Ambient {
	var user model.ID
	if n, err := strconv.ParseInt(c.UserID, 10, 64); err == nil {
		user = model.IntID(n)
	} else if c.UserID != "" {
		user = model.StringID(c.UserID)
	}
	return model.Ambient{UserID: user, Clock: model.SystemClock{}}
}
