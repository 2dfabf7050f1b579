// Package config is Hermes's layered configuration: built-in defaults,
// overridden by an optional YAML file, overridden by environment
// variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is Hermes's complete runtime configuration.
type Config struct {
	ProjectRoot      string `yaml:"project_root" json:"project_root"`
	DBPath           string `yaml:"db_path" json:"db_path"`
	ReindexInterval  int    `yaml:"reindex_interval_seconds" json:"reindex_interval_seconds"` // 0 disables
	EmbedEndpoint    string `yaml:"embed_endpoint" json:"embed_endpoint"`
	EmbedModel       string `yaml:"embed_model" json:"embed_model"`
	EmbedAPIKey      string `yaml:"embed_api_key" json:"embed_api_key"`
	LogLevel         string `yaml:"log_level" json:"log_level"`
}

// Default returns Hermes's built-in defaults, rooted at the current
// working directory.
func Default() Config {
	root, err := os.Getwd()
	if err != nil {
		root = "."
	}
	return Config{
		ProjectRoot:     root,
		DBPath:          filepath.Join(root, ".hermes", "hermes.db"),
		ReindexInterval: 0,
		LogLevel:        "info",
	}
}

// projectConfigName is the per-project override file, read from the
// project root.
const projectConfigName = ".hermes.yaml"

// UserConfigPath returns the path to the user-level config file.
func UserConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "hermes", "config.yaml")
}

// Load builds the effective configuration for projectRoot: defaults,
// then the user config file, then the project's ".hermes.yaml", then
// environment variables, each layer overriding only the fields it sets.
func Load(projectRoot string) (Config, error) {
	cfg := Default()
	if projectRoot != "" {
		cfg.ProjectRoot = projectRoot
		cfg.DBPath = filepath.Join(projectRoot, ".hermes", "hermes.db")
	}

	if err := mergeFile(&cfg, UserConfigPath()); err != nil {
		return cfg, err
	}
	if cfg.ProjectRoot != "" {
		if err := mergeFile(&cfg, filepath.Join(cfg.ProjectRoot, projectConfigName)); err != nil {
			return cfg, err
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

// mergeFile overlays the YAML at path onto cfg. A missing file is not an
// error; only zero-value fields in the file's struct are left as-is since
// yaml.Unmarshal only sets fields present in the document.
func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides cfg with HERMES_* environment variables, when set.
func applyEnv(cfg *Config) {
	if v := os.Getenv("HERMES_PROJECT_ROOT"); v != "" {
		cfg.ProjectRoot = v
	}
	if v := os.Getenv("HERMES_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("HERMES_REINDEX_INTERVAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ReindexInterval = n
		}
	}
	if v := os.Getenv("HERMES_EMBED_ENDPOINT"); v != "" {
		cfg.EmbedEndpoint = v
	}
	if v := os.Getenv("HERMES_EMBED_MODEL"); v != "" {
		cfg.EmbedModel = v
	}
	if v := os.Getenv("HERMES_EMBED_API_KEY"); v != "" {
		cfg.EmbedAPIKey = v
	}
	if v := os.Getenv("HERMES_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

// Marshal renders cfg as YAML, for "hermes config" to print or edit.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
