package model

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config holds the application configuration
type Config struct {
	// APIBaseURL is the base URL of the doubleblind API
	APIBaseURL string `json:"api_base_url"`

	// SessionCookie is the session credential attached to every API call
	SessionCookie string `json:"session_cookie,omitempty"`

	// PageSize is the page size used when draining paged collections
	PageSize int `json:"page_size"`

	// DebounceMillis is the quiet window of the live search in milliseconds
	DebounceMillis int `json:"debounce_millis"`

	// SearchLimit caps search results when searching GitHub directly
	SearchLimit int `json:"search_limit"`

	// RequestTimeoutSeconds bounds every API round trip
	RequestTimeoutSeconds int `json:"request_timeout_seconds"`

	// RateLimit is the maximum number of API requests per second (0 = unlimited)
	RateLimit float64 `json:"rate_limit"`

	// RootDomain is the domain deployed projects are served under
	RootDomain string `json:"root_domain"`

	// SlackWebhook receives mutation notifications when set
	SlackWebhook string `json:"slack_webhook,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		APIBaseURL:            "https://api.science.tanneberger.me",
		PageSize:              100,
		DebounceMillis:        200,
		SearchLimit:           30,
		RequestTimeoutSeconds: 15,
		RootDomain:            "science.tanneberger.me",
	}
}

// Debounce returns the search quiet window.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMillis) * time.Millisecond
}

// RequestTimeout returns the per-request timeout.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return errors.New("api base url is required")
	}

	if _, err := url.Parse(c.APIBaseURL); err != nil {
		return fmt.Errorf("invalid api base url: %w", err)
	}

	if c.PageSize < 1 {
		return fmt.Errorf("page size must be at least 1, got %d", c.PageSize)
	}

	if c.DebounceMillis < 0 {
		return fmt.Errorf("debounce must not be negative, got %d", c.DebounceMillis)
	}

	if c.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("request timeout must not be negative, got %d", c.RequestTimeoutSeconds)
	}

	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative, got %v", c.RateLimit)
	}

	return nil
}
