package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vzctl/github-helpers/internal/catalog"
	"github.com/vzctl/github-helpers/internal/config"
	"github.com/vzctl/github-helpers/internal/fileutil"
	"github.com/vzctl/github-helpers/internal/ghapi"
	"github.com/vzctl/github-helpers/internal/matrix"
)

func RunMatrix(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfigWithOverrides(cmd)
	if err != nil {
		return err
	}

	event, err := StringFlag(cmd, "event")
	if err != nil {
		return err
	}
	forceAll := forceAllForEvent(event)

	marker, err := StringFlag(cmd, "marker")
	if err != nil {
		return err
	}
	if marker != "" {
		cfg.MarkerFile = marker
	}

	client := catalog.NewClient(catalog.Config{
		BaseURL: cfg.Catalog.BaseURL,
		Token:   cfg.CatalogToken(),
	})
	filter := fmt.Sprintf("kind=api,spec.type=%s", cfg.DeploymentType)
	entities, err := client.FetchEntities(cmd.Context(), filter)
	if err != nil {
		return err
	}
	idx, err := catalog.NewIndex(entities)
	if err != nil {
		return err
	}
	candidates := idx.Filter(func(e catalog.Entity) bool {
		return e.Kind == catalog.KindAPI && e.Spec.Type == cfg.DeploymentType
	})

	changed, err := changedFiles(cmd, cfg, forceAll)
	if err != nil {
		return err
	}

	entries, err := matrix.Resolve(candidates, changed, matrix.Options{
		ForceAll:       forceAll,
		Marker:         cfg.MarkerFile,
		PrefixSegments: cfg.SourcePrefixSegments,
		Validate:       matrix.ExcludeTagPolicy(cfg.ExcludeTag),
	})
	if err != nil {
		return err
	}

	if err := writeGitHubOutput(cmd, entries); err != nil {
		return err
	}
	return writeResult(cmd, entries)
}

// forceAllForEvent reports whether the full candidate set must be validated.
// Only pull_request events carry a meaningful diff; anything else (push,
// workflow_dispatch, schedule) validates everything.
func forceAllForEvent(event string) bool {
	return event != "pull_request"
}

// changedFiles returns the changed paths for the run: the --changed-file
// values when given, otherwise the pull request's file list from the GitHub
// API. Force-all runs skip enumeration entirely.
func changedFiles(cmd *cobra.Command, cfg *config.Config, forceAll bool) ([]string, error) {
	fromFlags, err := cmd.Flags().GetStringSlice("changed-file")
	if err != nil {
		return nil, fmt.Errorf("failed to read --changed-file flag: %w", err)
	}
	if len(fromFlags) > 0 {
		return fileutil.DedupeStrings(fromFlags), nil
	}
	if forceAll {
		return nil, nil
	}

	prNumber, err := cmd.Flags().GetInt("pr")
	if err != nil {
		return nil, fmt.Errorf("failed to read --pr flag: %w", err)
	}
	if prNumber <= 0 {
		return nil, fmt.Errorf("--pr is required for pull_request events")
	}
	if cfg.Repo.Owner == "" || cfg.Repo.Name == "" {
		return nil, fmt.Errorf("repo owner/name are not configured")
	}

	gh := ghapi.NewClient(os.Getenv("GITHUB_TOKEN"))
	return gh.ChangedFiles(cmd.Context(), cfg.Repo.Owner, cfg.Repo.Name, prNumber)
}

// writeGitHubOutput appends matrix=<compact json> to the workflow output
// file when --github-output is set.
func writeGitHubOutput(cmd *cobra.Command, entries []matrix.Entry) error {
	outputPath, err := StringFlag(cmd, "github-output")
	if err != nil {
		return err
	}
	if outputPath == "" {
		return nil
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return fileutil.AppendLine(outputPath, "matrix="+string(data))
}
