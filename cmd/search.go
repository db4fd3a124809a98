package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/inovacc/doubleblind/internal/cli"
	"github.com/inovacc/doubleblind/internal/core"
)

var reposSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search repositories",
	Long: `Search repositories as you type.

In a terminal an interactive search box opens: results refresh once you stop
typing for the configured debounce (debounce_ms, default 200ms) and only the
latest query's results are ever shown. ctrl+r clears the query.

With --query, or when output is not a terminal, a single search runs and the
results are printed. An empty --query is a real query.

Examples:
  doubleblind repos search
  doubleblind repos search --query paper
  doubleblind repos search --query paper --source github --json`,
	RunE: runReposSearch,
}

func init() {
	reposCmd.AddCommand(reposSearchCmd)

	addSourceFlags(reposSearchCmd.Flags())
	reposSearchCmd.Flags().String("query", "", "run one search for this term and print the results")
}

func runReposSearch(cmd *cobra.Command, _ []string) error {
	flags, err := extractSourceFlags(cmd.Flags())
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	src, err := openSource(ctx, flags)
	if err != nil {
		return err
	}

	pipeline := core.NewSearchPipeline(ctx, src, core.SearchOptions{
		Debounce: app.cfg.Debounce(),
		Logger:   app.logger,
		Metrics:  app.metrics,
	})
	defer pipeline.Close()

	out := cmd.OutOrStdout()
	queryFlag := cmd.Flags().Lookup("query")

	if queryFlag.Changed || flags.JSON || !isInteractive(out) {
		var query *string
		if queryFlag.Changed {
			q := queryFlag.Value.String()
			query = &q
		}

		if err := pipeline.Update(query); err != nil {
			return err
		}

		var result core.SearchResult

		select {
		case r, ok := <-pipeline.Results():
			if !ok {
				return ctx.Err()
			}

			result = r
		case <-ctx.Done():
			return ctx.Err()
		}

		if result.Err != nil {
			return explain(result.Err)
		}

		if flags.JSON {
			return outputJSON(out, result.Items)
		}

		if query == nil {
			_, _ = fmt.Fprintln(out, "No query given; use --query to search.")
			return nil
		}

		printRepositories(out, result.Items, app.cfg.RootDomain)

		return nil
	}

	final, err := tea.NewProgram(cli.NewSearchModel(pipeline, app.cfg.RootDomain), tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}

	if selected := final.(cli.SearchModel).Selected(); selected != nil {
		_, _ = fmt.Fprintln(out, cli.URLLine(*selected, app.cfg.RootDomain))
	}

	return nil
}
