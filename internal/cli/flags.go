package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vzctl/github-helpers/internal/config"
)

func StringFlag(cmd *cobra.Command, name string) (string, error) {
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return strings.TrimSpace(value), nil
}

// LoadConfigWithOverrides reads the config file named by --config and applies
// the shared flag overrides on top of it.
func LoadConfigWithOverrides(cmd *cobra.Command) (*config.Config, error) {
	configPath, err := StringFlag(cmd, "config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	catalogURL, err := StringFlag(cmd, "catalog-url")
	if err != nil {
		return nil, err
	}
	if catalogURL != "" {
		cfg.Catalog.BaseURL = catalogURL
	}

	deploymentType, err := StringFlag(cmd, "type")
	if err != nil {
		return nil, err
	}
	if deploymentType != "" {
		cfg.DeploymentType = deploymentType
	}

	if cfg.Catalog.BaseURL == "" {
		return nil, fmt.Errorf("catalog base URL is not set (use --catalog-url or %s)", config.DefaultPath)
	}
	return cfg, nil
}
