package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/inovacc/doubleblind/internal/core"
	"github.com/inovacc/doubleblind/internal/github"
)

const (
	sourceAPI    = "api"
	sourceGitHub = "github"
)

// repoSource is implemented by both the API client and the GitHub source.
type repoSource interface {
	core.PageSource
	core.QuerySource
}

// SourceFlags holds the flags shared by the repos subcommands
type SourceFlags struct {
	Source string
	Token  string
	JSON   bool
}

// addSourceFlags adds flags common to the repos subcommands
func addSourceFlags(fs *pflag.FlagSet) {
	fs.String("source", sourceAPI, "where to read repositories from: api or github")
	fs.String("token", "", "GitHub token for --source github (default: auto-detect)")
	fs.Bool("json", false, "Output as JSON")
}

// extractSourceFlags extracts the shared flags from fs
func extractSourceFlags(fs *pflag.FlagSet) (SourceFlags, error) {
	src, _ := fs.GetString("source")
	token, _ := fs.GetString("token")
	jsonOut, _ := fs.GetBool("json")

	src, err := normalizeSource(src)
	if err != nil {
		return SourceFlags{}, err
	}

	return SourceFlags{Source: src, Token: token, JSON: jsonOut}, nil
}

// openSource returns the repository source selected by flags.
func openSource(ctx context.Context, flags SourceFlags) (repoSource, error) {
	if flags.Source == sourceGitHub {
		token, from, err := github.ResolveToken(flags.Token)
		if err != nil {
			return nil, err
		}

		app.logger.Debug("github token resolved", slog.String("source", string(from)))

		client := github.NewClient(ctx, token)

		owner, err := github.Login(ctx, client)
		if err != nil {
			return nil, err
		}

		return github.NewSource(client, github.Options{
			SearchLimit: app.cfg.SearchLimit,
			Owner:       owner,
			Logger:      app.logger,
		}), nil
	}

	return newAPIClient(app.cfg, app.logger)
}
