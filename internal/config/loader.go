package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads the configuration for a game and validates it.
// Search order: customPath -> ~/.arcade/configs/<id>.yaml -> ./configs/<id>.yaml -> embedded default
func Load(gameID, customPath string) (GameConfig, error) {
	base, ok := Default(gameID)
	if !ok {
		return GameConfig{}, fmt.Errorf("config: unknown game %q", gameID)
	}

	// Try custom path first; an explicit path must exist and parse.
	if customPath != "" {
		cfg, err := parseFile(customPath, base)
		if err != nil {
			return GameConfig{}, err
		}
		return cfg, cfg.Validate()
	}

	filename := gameID + ".yaml"
	candidates := []string{userConfigPath(filename), filepath.Join("configs", filename)}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		if cfg, err := parseFile(path, base); err == nil {
			return cfg, cfg.Validate()
		}
	}

	// Use embedded default YAML
	cfg := base
	if err := yaml.Unmarshal(GetDefaultYAML(gameID), &cfg); err != nil {
		return base, nil // Fallback to hardcoded if embed fails
	}
	return cfg, cfg.Validate()
}

// Parse decodes YAML on top of the defaults for a game, so partial files only
// need the keys they override.
func Parse(gameID string, data []byte) (GameConfig, error) {
	base, ok := Default(gameID)
	if !ok {
		return GameConfig{}, fmt.Errorf("config: unknown game %q", gameID)
	}
	if err := yaml.Unmarshal(data, &base); err != nil {
		return GameConfig{}, fmt.Errorf("config: failed to parse %s config: %w", gameID, err)
	}
	return base, base.Validate()
}

func parseFile(path string, base GameConfig) (GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return GameConfig{}, fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return GameConfig{}, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", "configs", filename)
}
