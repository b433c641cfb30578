package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DeploymentType != "multisig-deployment" {
		t.Errorf("DeploymentType default = %q", cfg.DeploymentType)
	}
	if cfg.MarkerFile != "package.json" {
		t.Errorf("MarkerFile default = %q", cfg.MarkerFile)
	}
	if cfg.SourcePrefixSegments != 7 {
		t.Errorf("SourcePrefixSegments default = %d", cfg.SourcePrefixSegments)
	}
	if cfg.ExcludeTag != "skip-validation" {
		t.Errorf("ExcludeTag default = %q", cfg.ExcludeTag)
	}
	if cfg.Catalog.TokenEnv != "CATALOG_TOKEN" {
		t.Errorf("TokenEnv default = %q", cfg.Catalog.TokenEnv)
	}
}

func TestLoadParsesFileAndKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `
catalog:
  base_url: https://catalog.example.com
  token_env: MY_TOKEN
repo:
  owner: acme
  name: protocol
deployment_type: timelock-deployment
marker_file: foundry.toml
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Catalog.BaseURL != "https://catalog.example.com" {
		t.Errorf("BaseURL = %q", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.TokenEnv != "MY_TOKEN" {
		t.Errorf("TokenEnv = %q", cfg.Catalog.TokenEnv)
	}
	if cfg.Repo.Owner != "acme" || cfg.Repo.Name != "protocol" {
		t.Errorf("Repo = %+v", cfg.Repo)
	}
	if cfg.DeploymentType != "timelock-deployment" {
		t.Errorf("DeploymentType = %q", cfg.DeploymentType)
	}
	if cfg.MarkerFile != "foundry.toml" {
		t.Errorf("MarkerFile = %q", cfg.MarkerFile)
	}
	// Unset fields keep their defaults.
	if cfg.SourcePrefixSegments != 7 {
		t.Errorf("SourcePrefixSegments = %d", cfg.SourcePrefixSegments)
	}
}

func TestCatalogTokenReadsConfiguredEnv(t *testing.T) {
	cfg := &Config{Catalog: Catalog{TokenEnv: "TEST_CATALOG_TOKEN"}}
	t.Setenv("TEST_CATALOG_TOKEN", "secret")
	if got := cfg.CatalogToken(); got != "secret" {
		t.Fatalf("CatalogToken = %q", got)
	}
}
