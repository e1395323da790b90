// Package config loads the classification rules vnext consumes using koanf.
// Values are layered with priority: environment variables (VNEXT_ prefix) >
// project config (.vnext.yml, legacy .vnext.json) > user config
// (~/.config/vnext/config.yml) > defaults. Invalid values here are
// recoverable by design: downstream consumers substitute built-in defaults
// rather than aborting the run.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ariel-frischer/vnext/internal/bump"
	"github.com/ariel-frischer/vnext/internal/commit"
)

// Config holds the resolved classification rules for one run.
type Config struct {
	// Parser selects the message grammar: "conventional" or "patterns".
	Parser string `koanf:"parser"`

	// Extraction patterns for the pattern-set strategy. Empty values take
	// the built-in defaults.
	TypePattern     string `koanf:"type_pattern"`
	ScopePattern    string `koanf:"scope_pattern"`
	TitlePattern    string `koanf:"title_pattern"`
	BodyPattern     string `koanf:"body_pattern"`
	BreakingPattern string `koanf:"breaking_pattern"`

	// Comma-separated commit type tokens per severity. Types in no list
	// classify as patch.
	MajorTypes string `koanf:"major_types"`
	MinorTypes string `koanf:"minor_types"`
	NoopTypes  string `koanf:"noop_types"`

	// HeaderScaling demotes markdown headings inside commit bodies when
	// rendering the changelog.
	HeaderScaling bool `koanf:"header_scaling"`

	// EnrichAuthors fetches commit authors from the hosting API in
	// changelog mode.
	EnrichAuthors bool `koanf:"enrich_authors"`
}

// Defaults returns the built-in configuration values.
func Defaults() map[string]any {
	return map[string]any{
		"parser":         commit.StrategyConventional,
		"major_types":    "major",
		"minor_types":    "feat,minor",
		"noop_types":     "chore,noop",
		"header_scaling": true,
		"enrich_authors": true,
	}
}

// Default returns a Config carrying only the built-in values.
func Default() *Config {
	d := Defaults()
	return &Config{
		Parser:        d["parser"].(string),
		MajorTypes:    d["major_types"].(string),
		MinorTypes:    d["minor_types"].(string),
		NoopTypes:     d["noop_types"].(string),
		HeaderScaling: d["header_scaling"].(bool),
		EnrichAuthors: d["enrich_authors"].(bool),
	}
}

// Load resolves the configuration. projectPath overrides the project config
// location (used by tests); empty means ./.vnext.yml.
func Load(projectPath string) (*Config, error) {
	k := koanf.New(".")

	for key, value := range Defaults() {
		k.Set(key, value)
	}

	if err := loadUserConfig(k); err != nil {
		return nil, err
	}
	if err := loadProjectConfig(k, projectPath); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("VNEXT_", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("loading environment config: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// UserConfigPath returns the XDG-style user config location.
func UserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "vnext", "config.yml"), nil
}

// ProjectConfigPath returns the project config location relative to the
// working directory.
func ProjectConfigPath() string { return ".vnext.yml" }

// LegacyProjectConfigPath returns the deprecated JSON project config
// location, still loaded when no YAML config exists.
func LegacyProjectConfigPath() string { return ".vnext.json" }

func loadUserConfig(k *koanf.Koanf) error {
	path, err := UserConfigPath()
	if err != nil || !fileExists(path) {
		return nil
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("loading user config %s: %w", path, err)
	}
	return nil
}

func loadProjectConfig(k *koanf.Koanf, customPath string) error {
	path := ProjectConfigPath()
	if customPath != "" {
		path = customPath
	}

	if fileExists(path) {
		var parser koanf.Parser = yaml.Parser()
		if strings.HasSuffix(path, ".json") {
			parser = json.Parser()
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return fmt.Errorf("loading project config %s: %w", path, err)
		}
		return nil
	}

	if legacy := LegacyProjectConfigPath(); customPath == "" && fileExists(legacy) {
		if err := k.Load(file.Provider(legacy), json.Parser()); err != nil {
			return fmt.Errorf("loading legacy project config %s: %w", legacy, err)
		}
	}
	return nil
}

// envTransform converts VNEXT_MAJOR_TYPES to major_types.
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, "VNEXT_"))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Strategy translates the configuration into a parser strategy.
func (c *Config) Strategy() commit.Strategy {
	return commit.Strategy{
		Name: c.Parser,
		Patterns: commit.PatternSet{
			Type:     c.TypePattern,
			Scope:    c.ScopePattern,
			Title:    c.TitlePattern,
			Body:     c.BodyPattern,
			Breaking: c.BreakingPattern,
		},
	}
}

// Policy translates the configured type lists into a bump policy.
func (c *Config) Policy() bump.Policy {
	return bump.Policy{
		MajorTypes: bump.ParseTypeList(c.MajorTypes),
		MinorTypes: bump.ParseTypeList(c.MinorTypes),
		NoneTypes:  bump.ParseTypeList(c.NoopTypes),
	}
}
