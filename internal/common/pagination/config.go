// Package pagination holds the page/per_page arithmetic shared by the
// payload stores, the REST client and search results.
package pagination

import "github.com/Online-Ugyvitel/ddata-core/pkg/config"

// Config holds pagination configuration settings.
type Config struct {
	DefaultPage    int // Default page number (1)
	DefaultPerPage int // Default items per page (20)
	MaxPerPage     int // Maximum allowed items per page (100)
}

// DefaultConfig returns page=1, per_page=20, max=100.
func DefaultConfig() Config {
	return Config{
		DefaultPage:    1,
		DefaultPerPage: 20,
		MaxPerPage:     100,
	}
}

// LoadFromEnv loads pagination config from environment variables.
// Supported environment variables:
//   - DDATA_PAGINATION_DEFAULT_PAGE
//   - DDATA_PAGINATION_PER_PAGE
//   - DDATA_PAGINATION_MAX_PER_PAGE
//
// Unset or malformed values fall back to DefaultConfig().
func LoadFromEnv() Config {
	d := DefaultConfig()
	return Config{
		DefaultPage:    config.GetEnvInt("DDATA_PAGINATION_DEFAULT_PAGE", d.DefaultPage),
		DefaultPerPage: config.GetEnvInt("DDATA_PAGINATION_PER_PAGE", d.DefaultPerPage),
		MaxPerPage:     config.GetEnvInt("DDATA_PAGINATION_MAX_PER_PAGE", d.MaxPerPage),
	}
}
