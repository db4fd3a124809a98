package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/inovacc/doubleblind/internal/application"
	"github.com/inovacc/doubleblind/internal/metrics"
	"github.com/inovacc/doubleblind/internal/model"
	"github.com/inovacc/doubleblind/internal/store"
)

// appState is built once per invocation by the root pre-run hook.
type appState struct {
	cfg     model.Config
	logger  *slog.Logger
	metrics *metrics.Collector
	db      store.Store
	server  *http.Server
}

var app appState

var rootCmd = &cobra.Command{
	Use:   application.AppName,
	Short: "Deploy research repositories for double-blind review",
	Long: `doubleblind lists, searches and deploys the GitHub repositories linked to
your doubleblind account. Deployed repositories are served anonymised under
https://<domain>.science.tanneberger.me for reviewers.

Authentication:
  Sign in on the website, then store the session_id cookie with
    doubleblind config set session <value>
  or pass it with --session / DOUBLEBLIND_SESSION.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setupApp,
	PersistentPostRunE: teardownApp,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		teardownOnError()
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("api-url", "", "doubleblind API base URL (default: stored config, "+envAPIURL+")")
	pf.String("session", "", "session cookie value (default: stored config, "+envSession+")")
	pf.String("log-level", "warn", "log level: debug, info, warn, error")
	pf.String("metrics-addr", "", "serve Prometheus metrics on this address while the command runs (e.g. :9090)")
}

func setupApp(cmd *cobra.Command, _ []string) error {
	level, _ := cmd.Flags().GetString("log-level")

	logger, err := newLogger(level, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	db, err := store.Open()
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("configuration store unavailable: %w", err)
	}

	stored, err := db.GetConfig()
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to read configuration: %w", err)
	}

	cfg, err := resolveConfig(*stored, os.Getenv, cmd.Flags())
	if err != nil {
		_ = db.Close()
		return err
	}

	app = appState{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics.New(),
		db:      db,
	}

	if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
		app.server = startMetricsServer(addr, app.metrics, logger)
	}

	return nil
}

func teardownApp(_ *cobra.Command, _ []string) error {
	var errs []error

	if app.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		errs = append(errs, app.server.Shutdown(ctx))
		app.server = nil
	}

	if app.db != nil {
		errs = append(errs, app.db.Close())
		app.db = nil
	}

	return errors.Join(errs...)
}

// teardownOnError releases resources when RunE failed and the post-run hook
// was skipped.
func teardownOnError() {
	_ = teardownApp(nil, nil)
}

func startMetricsServer(addr string, col *metrics.Collector, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", col.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("metrics server listening", slog.String("addr", addr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", slog.Any("error", err))
		}
	}()

	return srv
}
