package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
)

// userConfigPath is where a per-user config lives, next to the notebook
// database.
func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".vocbuilder", "config.yaml")
}

// Load assembles the effective configuration. Environment variables
// override YAML values, which override the env-default tags.
//
// The YAML file comes from the first of:
//  1. CONFIG_PATH, when set; a missing file is then an error
//  2. ./config.yaml in the working directory
//  3. ~/.vocbuilder/config.yaml
//
// A notebook works with no file at all, so when neither candidate
// exists Load falls back to environment variables and defaults.
func Load() (*Config, error) {
	var cfg Config

	path, required := configFile()
	switch {
	case path != "":
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	case required:
		return nil, fmt.Errorf("config: file %s does not exist", os.Getenv("CONFIG_PATH"))
	default:
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

// configFile picks the YAML file to read. required reports that the
// user named a file explicitly, so its absence must not be papered over.
func configFile() (path string, required bool) {
	if explicit := os.Getenv("CONFIG_PATH"); explicit != "" {
		if fileExists(explicit) {
			return explicit, true
		}
		return "", true
	}
	for _, candidate := range []string{"./config.yaml", userConfigPath()} {
		if candidate != "" && fileExists(candidate) {
			return candidate, false
		}
	}
	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
