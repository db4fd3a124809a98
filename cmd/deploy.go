package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/inovacc/doubleblind/internal/model"
)

var deployCmd = &cobra.Command{
	Use:   "deploy <repository-id>",
	Short: "Deploy a repository branch on a subdomain",
	Long: `Deploy a linked repository. The chosen branch is served anonymised at
https://<domain>.science.tanneberger.me.

The repository id is shown by 'doubleblind repos list' and 'repos linked'.

Examples:
  doubleblind deploy 123456789 --domain my-paper --branch main`,
	Args: cobra.ExactArgs(1),
	RunE: runDeploy,
}

func init() {
	rootCmd.AddCommand(deployCmd)

	deployCmd.Flags().String("domain", "", "subdomain to serve the repository on (required)")
	deployCmd.Flags().String("branch", "main", "branch to deploy")
	_ = deployCmd.MarkFlagRequired("domain")
}

func runDeploy(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid repository id %q: %w", args[0], err)
	}

	domain, _ := cmd.Flags().GetString("domain")
	branch, _ := cmd.Flags().GetString("branch")

	return submitMutation(cmd, model.DeployRepository{
		Domain:       domain,
		Branch:       branch,
		RepositoryID: id,
	})
}
