package config

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/carehaven/carehome-admin/internal/pagination"
)

// BackendConfig locates the REST backend every page reads from.
type BackendConfig struct {
	// BaseURL is the API root, including any path prefix.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:9091/api"`

	// Timeout bounds each backend request.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

// Sanitize trims the base URL and restores a usable timeout.
func (b *BackendConfig) Sanitize() {
	b.BaseURL = strings.TrimRight(strings.TrimSpace(b.BaseURL), "/")
	if b.Timeout <= 0 {
		b.Timeout = 30 * time.Second
	}
}

// Validate checks the base URL is an absolute http(s) URL.
func (b *BackendConfig) Validate() error {
	u, err := url.Parse(b.BaseURL)
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("BACKEND_BASE_URL must be an absolute http(s) URL")
	}
	return nil
}

// PaginationConfig bounds list page sizes.
type PaginationConfig struct {
	DefaultLimit int   `env:"DEFAULT_LIMIT" envDefault:"10"`
	MinLimit     int   `env:"MIN_LIMIT"     envDefault:"1"`
	MaxLimit     int   `env:"MAX_LIMIT"     envDefault:"50"`
	PageSizes    []int `env:"PAGE_SIZES"    envDefault:"10,25,50" envSeparator:","`
}

// Sanitize keeps the bounds ordered and the default inside them.
func (p *PaginationConfig) Sanitize() {
	b := p.Bounds()
	p.MinLimit, p.MaxLimit, p.DefaultLimit = b.Min, b.Max, b.Default

	sizes := p.PageSizes[:0]
	for _, n := range p.PageSizes {
		if n >= b.Min && n <= b.Max {
			sizes = append(sizes, n)
		}
	}
	if len(sizes) == 0 {
		sizes = append(sizes, b.Default)
	}
	p.PageSizes = sizes
}

// Bounds returns the limits as pagination bounds.
func (p *PaginationConfig) Bounds() pagination.Bounds {
	return pagination.Bounds{Min: p.MinLimit, Max: p.MaxLimit, Default: p.DefaultLimit}.Sanitize()
}
