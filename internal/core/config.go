package core

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/inovacc/doubleblind/internal/model"
)

// ConfigStore persists the application configuration.
type ConfigStore interface {
	GetConfig() (*model.Config, error)
	SaveConfig(cfg *model.Config) error
}

type apiSection struct {
	BaseURL   string  `ini:"base_url"`
	Session   string  `ini:"session"`
	Timeout   int     `ini:"timeout"`
	RateLimit float64 `ini:"rate_limit"`
	Domain    string  `ini:"root_domain"`
}

type syncSection struct {
	PageSize    int `ini:"page_size"`
	DebounceMS  int `ini:"debounce_ms"`
	SearchLimit int `ini:"search_limit"`
}

type notifySection struct {
	SlackWebhook string `ini:"slack_webhook"`
}

// LoadINI reads an INI file and overlays the keys it sets onto base.
// Keys missing from the file keep their value from base.
func LoadINI(source any, base model.Config) (model.Config, error) {
	file, err := ini.Load(source)
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load ini: %w", err)
	}

	apiSec := apiSection{
		BaseURL:   base.APIBaseURL,
		Session:   base.SessionCookie,
		Timeout:   base.RequestTimeoutSeconds,
		RateLimit: base.RateLimit,
		Domain:    base.RootDomain,
	}
	if err := file.Section("api").StrictMapTo(&apiSec); err != nil {
		return model.Config{}, fmt.Errorf("invalid [api] section: %w", err)
	}

	syncSec := syncSection{
		PageSize:    base.PageSize,
		DebounceMS:  base.DebounceMillis,
		SearchLimit: base.SearchLimit,
	}
	if err := file.Section("sync").StrictMapTo(&syncSec); err != nil {
		return model.Config{}, fmt.Errorf("invalid [sync] section: %w", err)
	}

	notifySec := notifySection{SlackWebhook: base.SlackWebhook}
	if err := file.Section("notify").StrictMapTo(&notifySec); err != nil {
		return model.Config{}, fmt.Errorf("invalid [notify] section: %w", err)
	}

	cfg := base
	cfg.APIBaseURL = apiSec.BaseURL
	cfg.SessionCookie = apiSec.Session
	cfg.RequestTimeoutSeconds = apiSec.Timeout
	cfg.RateLimit = apiSec.RateLimit
	cfg.RootDomain = apiSec.Domain
	cfg.PageSize = syncSec.PageSize
	cfg.DebounceMillis = syncSec.DebounceMS
	cfg.SearchLimit = syncSec.SearchLimit
	cfg.SlackWebhook = notifySec.SlackWebhook

	if err := cfg.Validate(); err != nil {
		return model.Config{}, err
	}

	return cfg, nil
}

// ImportConfig loads path over the stored configuration and saves the result.
func ImportConfig(store ConfigStore, path string) (*model.Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}

	current, err := store.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	cfg, err := LoadINI(path, *current)
	if err != nil {
		return nil, err
	}

	if err := store.SaveConfig(&cfg); err != nil {
		return nil, fmt.Errorf("failed to save configuration: %w", err)
	}

	return &cfg, nil
}

// SetConfigValue updates a single configuration key by name.
func SetConfigValue(store ConfigStore, key, value string) (*model.Config, error) {
	cfg, err := store.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	if err := applyConfigValue(cfg, key, value); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := store.SaveConfig(cfg); err != nil {
		return nil, fmt.Errorf("failed to save configuration: %w", err)
	}

	return cfg, nil
}

// ConfigKeys lists the names accepted by SetConfigValue.
var ConfigKeys = []string{
	"api_url", "session", "timeout", "rate_limit", "root_domain",
	"page_size", "debounce_ms", "search_limit", "slack_webhook",
}

func applyConfigValue(cfg *model.Config, key, value string) error {
	atoi := func() (int, error) {
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("%s must be an integer: %w", key, err)
		}
		return n, nil
	}

	switch strings.ToLower(key) {
	case "api_url":
		cfg.APIBaseURL = value
	case "session":
		cfg.SessionCookie = value
	case "root_domain":
		cfg.RootDomain = value
	case "slack_webhook":
		cfg.SlackWebhook = value
	case "timeout":
		n, err := atoi()
		if err != nil {
			return err
		}
		cfg.RequestTimeoutSeconds = n
	case "page_size":
		n, err := atoi()
		if err != nil {
			return err
		}
		cfg.PageSize = n
	case "debounce_ms":
		n, err := atoi()
		if err != nil {
			return err
		}
		cfg.DebounceMillis = n
	case "search_limit":
		n, err := atoi()
		if err != nil {
			return err
		}
		cfg.SearchLimit = n
	case "rate_limit":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("rate_limit must be a number: %w", err)
		}
		cfg.RateLimit = f
	default:
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(ConfigKeys, ", "))
	}

	return nil
}

// ShowConfig writes the configuration in a human-readable form. The session
// credential is masked.
func ShowConfig(w io.Writer, cfg *model.Config) {
	_, _ = fmt.Fprintln(w, "Current Configuration:")
	_, _ = fmt.Fprintln(w, "=====================")
	printConfig(w, cfg)
}

// ResetConfig stores the default configuration and returns it.
func ResetConfig(store ConfigStore) (*model.Config, error) {
	defaultCfg := model.DefaultConfig()

	if err := store.SaveConfig(&defaultCfg); err != nil {
		return nil, fmt.Errorf("failed to reset configuration: %w", err)
	}

	return &defaultCfg, nil
}

func printConfig(w io.Writer, cfg *model.Config) {
	_, _ = fmt.Fprintf(w, "API URL:          %s\n", cfg.APIBaseURL)
	_, _ = fmt.Fprintf(w, "Session:          %s\n", mask(cfg.SessionCookie))
	_, _ = fmt.Fprintf(w, "Request Timeout:  %d seconds\n", cfg.RequestTimeoutSeconds)
	_, _ = fmt.Fprintf(w, "Rate Limit:       %s\n", rateLimitString(cfg.RateLimit))
	_, _ = fmt.Fprintf(w, "Root Domain:      %s\n", cfg.RootDomain)
	_, _ = fmt.Fprintf(w, "Page Size:        %d\n", cfg.PageSize)
	_, _ = fmt.Fprintf(w, "Search Debounce:  %d ms\n", cfg.DebounceMillis)
	_, _ = fmt.Fprintf(w, "Search Limit:     %d\n", cfg.SearchLimit)
	_, _ = fmt.Fprintf(w, "Slack Webhook:    %s\n", orNone(cfg.SlackWebhook))
}

func mask(s string) string {
	if s == "" {
		return "(none)"
	}

	if len(s) <= 4 {
		return "****"
	}

	return s[:4] + strings.Repeat("*", 8)
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}

	return s
}

func rateLimitString(rps float64) string {
	if rps <= 0 {
		return "unlimited"
	}

	return strconv.FormatFloat(rps, 'f', -1, 64) + " req/s"
}
