// Package config holds the process-wide settings read by the crawler:
// an optional forwarding proxy, the site's list-page size, and the HTTP
// timeout. Values come from the environment, with an optional .env file
// loaded first.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	// EnvProxyURL names the optional HTTP(S) forwarding proxy.
	EnvProxyURL = "KISCON_PROXY_URL"
	// EnvPageSize names the rows-per-list-page override. The site is not
	// explicit about its page size, so it stays configurable rather than
	// hardcoded at the call sites that derive page counts from record counts.
	EnvPageSize = "KISCON_PAGE_SIZE"
	// EnvTimeoutSeconds names the per-request timeout override.
	EnvTimeoutSeconds = "KISCON_TIMEOUT_SECONDS"

	// DefaultPageSize is the number of rows the site serves per list page.
	DefaultPageSize = 10
	// DefaultTimeout is deliberately long; the source site routinely takes
	// tens of seconds to answer date-range queries.
	DefaultTimeout = 120 * time.Second
)

// Config is read once at startup and treated as read-only afterwards.
type Config struct {
	ProxyURL *url.URL
	PageSize int
	Timeout  time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is honored when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		PageSize: DefaultPageSize,
		Timeout:  DefaultTimeout,
	}

	if raw := os.Getenv(EnvProxyURL); raw != "" {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", EnvProxyURL, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return nil, fmt.Errorf("%s must be an http(s) URL, got scheme %q", EnvProxyURL, u.Scheme)
		}
		cfg.ProxyURL = u
	}

	if raw := os.Getenv(EnvPageSize); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%s must be a positive integer, got %q", EnvPageSize, raw)
		}
		cfg.PageSize = n
	}

	if raw := os.Getenv(EnvTimeoutSeconds); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%s must be a positive integer, got %q", EnvTimeoutSeconds, raw)
		}
		cfg.Timeout = time.Duration(n) * time.Second
	}

	return cfg, nil
}

// RedactedProxy returns the proxy address with any credentials masked,
// safe for diagnostic output. Empty when no proxy is configured.
func (c *Config) RedactedProxy() string {
	if c.ProxyURL == nil {
		return ""
	}
	return c.ProxyURL.Redacted()
}
