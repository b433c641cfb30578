package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vzctl/github-helpers/internal/config"
)

func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "github-helpers",
		Short: "Catalog-driven helpers for GitHub Actions workflows",
		Long: `github-helpers reads the service catalog and produces the data our
workflows consume: the multisig ownership tree and the contract
validation matrix for a push or pull request.`,
	}

	ownersCmd := &cobra.Command{
		Use:   "owners",
		Short: "Build the system/component/deployment/signer ownership tree",
		RunE:  RunOwners,
	}
	ownersCmd.Flags().String("config", config.DefaultPath, "Path to config file")
	ownersCmd.Flags().String("catalog-url", "", "Catalog base URL (overrides config)")
	ownersCmd.Flags().String("type", "", "Deployment type to select (overrides config)")
	ownersCmd.Flags().String("output", "", "Write JSON to file instead of stdout")

	matrixCmd := &cobra.Command{
		Use:   "matrix",
		Short: "Build the validation matrix for changed contracts",
		RunE:  RunMatrix,
	}
	matrixCmd.Flags().String("config", config.DefaultPath, "Path to config file")
	matrixCmd.Flags().String("catalog-url", "", "Catalog base URL (overrides config)")
	matrixCmd.Flags().String("type", "", "Deployment type to select (overrides config)")
	matrixCmd.Flags().String("event", "pull_request", "Triggering event name: push|pull_request")
	matrixCmd.Flags().Int("pr", 0, "Pull request number (required for pull_request events)")
	matrixCmd.Flags().StringSlice("changed-file", []string{}, "Changed file path (repeatable; skips the GitHub API)")
	matrixCmd.Flags().String("marker", "", "Project root marker file (overrides config)")
	matrixCmd.Flags().String("output", "", "Write JSON to file instead of stdout")
	matrixCmd.Flags().String("github-output", "", "Append matrix=<json> to this file ($GITHUB_OUTPUT)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("github-helpers %s\n", version)
		},
	}

	rootCmd.AddCommand(
		ownersCmd,
		matrixCmd,
		versionCmd,
	)

	return rootCmd
}
