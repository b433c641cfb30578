package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/vzctl/github-helpers/internal/hierarchy"
	"github.com/vzctl/github-helpers/internal/matrix"
)

// DefaultPath is the config file looked up at the repository root.
const DefaultPath = ".github-helpers.yml"

const defaultTokenEnv = "CATALOG_TOKEN"

type Catalog struct {
	BaseURL  string `yaml:"base_url"`
	TokenEnv string `yaml:"token_env"`
}

type Repo struct {
	Owner string `yaml:"owner"`
	Name  string `yaml:"name"`
}

// Config is the file-backed tool configuration. CLI flags override any of
// these values.
type Config struct {
	Catalog              Catalog `yaml:"catalog"`
	Repo                 Repo    `yaml:"repo"`
	DeploymentType       string  `yaml:"deployment_type"`
	MarkerFile           string  `yaml:"marker_file"`
	SourcePrefixSegments int     `yaml:"source_prefix_segments"`
	ExcludeTag           string  `yaml:"exclude_tag"`
}

// Load reads the config file at path, filling defaults for anything unset. A
// missing file yields the pure-default config. A .env file next to the
// working directory is loaded first so token env vars resolve in local runs.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Catalog.TokenEnv == "" {
		c.Catalog.TokenEnv = defaultTokenEnv
	}
	if c.DeploymentType == "" {
		c.DeploymentType = hierarchy.DefaultDeploymentType
	}
	if c.MarkerFile == "" {
		c.MarkerFile = matrix.DefaultMarker
	}
	if c.SourcePrefixSegments == 0 {
		c.SourcePrefixSegments = matrix.DefaultPrefixSegments
	}
	if c.ExcludeTag == "" {
		c.ExcludeTag = matrix.DefaultExcludeTag
	}
}

// CatalogToken resolves the catalog bearer token from the configured
// environment variable.
func (c *Config) CatalogToken() string {
	return os.Getenv(c.Catalog.TokenEnv)
}
