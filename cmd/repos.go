package cmd

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/inovacc/doubleblind/internal/cli"
	"github.com/inovacc/doubleblind/internal/core"
	"github.com/inovacc/doubleblind/internal/model"
)

var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "List, search and inspect repositories",
	Long: `List and search the repositories available for deployment.

Available Commands:
  list      Fetch every repository page by page
  search    Live search (interactive) or one-shot search with --query
  linked    List the GitHub repositories linked to your account

Sources:
  --source api     the doubleblind API (default; shows deployment state)
  --source github  the GitHub API directly (token from --token, GITHUB_TOKEN,
                   GH_TOKEN or gh CLI)`,
}

var reposListCmd = &cobra.Command{
	Use:   "list",
	Short: "Fetch every repository page by page",
	Long: `Fetch all repositories, one page at a time, until the source returns an
empty page. If any page fails nothing is shown.

Examples:
  doubleblind repos list
  doubleblind repos list --per-page 50 --json
  doubleblind repos list --source github`,
	RunE: runReposList,
}

var reposLinkedCmd = &cobra.Command{
	Use:   "linked",
	Short: "List the GitHub repositories linked to your account",
	RunE:  runReposLinked,
}

func init() {
	rootCmd.AddCommand(reposCmd)
	reposCmd.AddCommand(reposListCmd, reposLinkedCmd)

	addSourceFlags(reposListCmd.Flags())
	reposListCmd.Flags().Int("per-page", 0, "page size (default: configured page_size)")

	reposLinkedCmd.Flags().Bool("json", false, "Output as JSON")
}

func runReposList(cmd *cobra.Command, _ []string) error {
	flags, err := extractSourceFlags(cmd.Flags())
	if err != nil {
		return err
	}

	perPage, _ := cmd.Flags().GetInt("per-page")
	if perPage == 0 {
		perPage = app.cfg.PageSize
	}

	ctx := cmd.Context()

	src, err := openSource(ctx, flags)
	if err != nil {
		return err
	}

	fetcher := core.NewPaginatedFetcher(src, core.FetcherOptions{
		Logger:  app.logger,
		Metrics: app.metrics,
	})

	out := cmd.OutOrStdout()

	if flags.JSON || !isInteractive(out) {
		repos, err := fetcher.FetchAll(ctx, perPage)
		if err != nil {
			return explain(err)
		}

		if flags.JSON {
			return outputJSON(out, repos)
		}

		printRepositories(out, repos, app.cfg.RootDomain)

		return nil
	}

	fm := cli.NewFetchModel(ctx, "Fetching repositories", func(ctx context.Context) ([]model.Repository, error) {
		return fetcher.FetchAll(ctx, perPage)
	})

	final, err := tea.NewProgram(fm).Run()
	if err != nil {
		return err
	}

	repos, err := final.(cli.FetchModel).Result()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}

		return explain(err)
	}

	list := cli.NewRepoList(fmt.Sprintf("Repositories (%d)", len(repos)), repos, app.cfg.RootDomain)

	final, err = tea.NewProgram(list, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}

	if selected := final.(cli.RepoListModel).GetSelectedRepo(); selected != nil {
		_, _ = fmt.Fprintln(out, cli.URLLine(*selected, app.cfg.RootDomain))
	}

	return nil
}

func runReposLinked(cmd *cobra.Command, _ []string) error {
	jsonOut, _ := cmd.Flags().GetBool("json")

	client, err := newAPIClient(app.cfg, app.logger)
	if err != nil {
		return err
	}

	repos, err := client.ListLinkedRepositories(cmd.Context())
	if err != nil {
		return explain(err)
	}

	if err := model.ValidateRepositories(repos); err != nil {
		return err
	}

	if jsonOut {
		return outputJSON(cmd.OutOrStdout(), repos)
	}

	printRepositories(cmd.OutOrStdout(), repos, app.cfg.RootDomain)

	return nil
}
