package cli

import (
	"github.com/spf13/cobra"

	"github.com/vzctl/github-helpers/internal/catalog"
	"github.com/vzctl/github-helpers/internal/fileutil"
	"github.com/vzctl/github-helpers/internal/hierarchy"
)

func RunOwners(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfigWithOverrides(cmd)
	if err != nil {
		return err
	}

	client := catalog.NewClient(catalog.Config{
		BaseURL: cfg.Catalog.BaseURL,
		Token:   cfg.CatalogToken(),
	})
	entities, err := client.FetchEntities(cmd.Context(), "")
	if err != nil {
		return err
	}

	idx, err := catalog.NewIndex(entities)
	if err != nil {
		return err
	}
	groups, err := hierarchy.Aggregate(idx, hierarchy.Options{DeploymentType: cfg.DeploymentType})
	if err != nil {
		return err
	}

	return writeResult(cmd, groups)
}

// writeResult prints the value as JSON to stdout, or to the file named by
// --output when set.
func writeResult(cmd *cobra.Command, value any) error {
	outputPath, err := StringFlag(cmd, "output")
	if err != nil {
		return err
	}
	if outputPath == "" {
		return fileutil.PrintJSON(value)
	}
	data, err := fileutil.EncodeJSON(value)
	if err != nil {
		return err
	}
	return fileutil.WriteIfChanged(outputPath, data)
}
