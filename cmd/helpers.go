package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/inovacc/doubleblind/internal/api"
	"github.com/inovacc/doubleblind/internal/model"
	"github.com/inovacc/doubleblind/internal/notify"
)

// Environment overrides applied over the stored configuration.
const (
	envAPIURL  = "DOUBLEBLIND_API_URL"
	envSession = "DOUBLEBLIND_SESSION"
)

// resolveConfig layers environment variables and then explicitly set flags
// over the stored configuration.
func resolveConfig(stored model.Config, getenv func(string) string, flags *pflag.FlagSet) (model.Config, error) {
	cfg := stored

	if v := getenv(envAPIURL); v != "" {
		cfg.APIBaseURL = v
	}

	if v := getenv(envSession); v != "" {
		cfg.SessionCookie = v
	}

	if flags != nil {
		if f := flags.Lookup("api-url"); f != nil && f.Changed {
			cfg.APIBaseURL = f.Value.String()
		}

		if f := flags.Lookup("session"); f != nil && f.Changed {
			cfg.SessionCookie = f.Value.String()
		}
	}

	if err := cfg.Validate(); err != nil {
		return model.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// newLogger creates the process logger writing text records to w.
func newLogger(level string, w io.Writer) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: use debug, info, warn or error", level)
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// newAPIClient builds the doubleblind API client for cfg.
func newAPIClient(cfg model.Config, logger *slog.Logger) (*api.Client, error) {
	opts := []api.Option{
		api.WithLogger(logger),
		api.WithTimeout(cfg.RequestTimeout()),
	}

	if cfg.SessionCookie != "" {
		opts = append(opts, api.WithSessionCookie(cfg.SessionCookie))
	}

	if cfg.RateLimit > 0 {
		opts = append(opts, api.WithRateLimit(cfg.RateLimit, 1))
	}

	return api.New(cfg.APIBaseURL, opts...)
}

// newDispatcher registers the console sender and, when configured, Slack.
// Senders run concurrently; call Wait before the command returns.
func newDispatcher(cfg model.Config, out io.Writer, logger *slog.Logger) (*notify.Dispatcher, error) {
	d := notify.NewDispatcher(true, logger)
	d.Register(notify.NewConsoleSender(out))

	if cfg.SlackWebhook != "" {
		if err := notify.ValidateWebhookURL(cfg.SlackWebhook); err != nil {
			return nil, err
		}

		d.Register(notify.NewSlackSender(cfg.SlackWebhook))
	}

	return d, nil
}

// explain adds a hint to errors the user can fix themselves.
func explain(err error) error {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Unauthorized() {
		return fmt.Errorf("%w\n\nThe session is missing or expired. Sign in on the website and run:\n  doubleblind config set session <session_id cookie>", err)
	}

	return err
}

// isInteractive reports whether w is a terminal.
func isInteractive(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// outputJSON encodes data as indented JSON to w
func outputJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// printRepositories writes one row per repository.
func printRepositories(w io.Writer, repos []model.Repository, rootDomain string) {
	if len(repos) == 0 {
		_, _ = fmt.Fprintln(w, "No repositories found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tREPOSITORY\tBRANCH\tURL")

	for _, r := range repos {
		branch, site := "-", "-"
		if r.Deployed {
			if r.Branch != nil {
				branch = *r.Branch
			}

			site = r.SiteURL(rootDomain)
		}

		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", r.ID, r.FullName, branch, site)
	}

	_ = tw.Flush()
}

// printProjects writes one row per project.
func printProjects(w io.Writer, projects []model.Project, rootDomain string) {
	if len(projects) == 0 {
		_, _ = fmt.Fprintln(w, "No projects found.")
		_, _ = fmt.Fprintln(w, "Create one with: doubleblind projects create <name> <owner/repo>")

		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tREPOSITORY\tLAST UPDATE\tURL")

	for _, p := range projects {
		updated := "-"
		if !p.LastUpdate.IsZero() {
			updated = p.LastUpdate.Format("2006-01-02 15:04")
		}

		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Name, truncateString(p.Repo, 60), updated, model.SiteURL(p.Name, rootDomain))
	}

	_ = tw.Flush()
}

// truncateString truncates a string to the specified length with ellipsis
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}

	if maxLen <= 3 {
		return s[:maxLen]
	}

	return s[:maxLen-3] + "..."
}

// normalizeSource validates the --source flag value.
func normalizeSource(s string) (string, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "", sourceAPI:
		return sourceAPI, nil
	case sourceGitHub:
		return sourceGitHub, nil
	default:
		return "", fmt.Errorf("unknown source %q: use %s or %s", s, sourceAPI, sourceGitHub)
	}
}
