package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/inovacc/doubleblind/internal/core"
	"github.com/inovacc/doubleblind/internal/model"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Manage your projects",
	Long: `List and create doubleblind projects.

Available Commands:
  list      List your projects with their site URLs
  create    Create a project for one of your repositories`,
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your projects",
	RunE:  runProjectsList,
}

var projectsCreateCmd = &cobra.Command{
	Use:   "create <name> <owner/repo>",
	Short: "Create a project",
	Long: `Create a project for a GitHub repository. The name becomes the project's
subdomain and must be at least 6 characters long.

Examples:
  doubleblind projects create my-paper alice/paper-artifacts`,
	Args: cobra.ExactArgs(2),
	RunE: runProjectsCreate,
}

func init() {
	rootCmd.AddCommand(projectsCmd)
	projectsCmd.AddCommand(projectsListCmd, projectsCreateCmd)

	projectsListCmd.Flags().Bool("json", false, "Output as JSON")
}

func runProjectsList(cmd *cobra.Command, _ []string) error {
	jsonOut, _ := cmd.Flags().GetBool("json")

	client, err := newAPIClient(app.cfg, app.logger)
	if err != nil {
		return err
	}

	projects, err := client.ListProjects(cmd.Context())
	if err != nil {
		return explain(err)
	}

	if jsonOut {
		return outputJSON(cmd.OutOrStdout(), projects)
	}

	printProjects(cmd.OutOrStdout(), projects, app.cfg.RootDomain)

	return nil
}

func runProjectsCreate(cmd *cobra.Command, args []string) error {
	return submitMutation(cmd, model.CreateProject{Name: args[0], RepoIdentifier: args[1]})
}

// submitMutation runs req through the mutation gateway. The gateway has
// already told the user about remote failures, so those are returned without
// a second message.
func submitMutation(cmd *cobra.Command, req model.MutationRequest) error {
	client, err := newAPIClient(app.cfg, app.logger)
	if err != nil {
		return err
	}

	dispatcher, err := newDispatcher(app.cfg, cmd.OutOrStdout(), app.logger)
	if err != nil {
		return err
	}

	gateway := core.NewMutationGateway(client, dispatcher, core.GatewayOptions{
		Logger:  app.logger,
		Metrics: app.metrics,
	})

	err = gateway.Submit(cmd.Context(), req)
	dispatcher.Wait()

	var mutErr *core.MutationError
	if errors.As(err, &mutErr) {
		cmd.SilenceErrors = true
	}

	return err
}
