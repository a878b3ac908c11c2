package config

import (
	"github.com/arthur-debert/featlink/pkg/features"
	"github.com/arthur-debert/featlink/pkg/staticlink"
)

// Config is the complete featlink configuration
type Config struct {
	Cache        Cache        `koanf:"cache"`
	Declarations Declarations `koanf:"declarations"`
	Probe        Probe        `koanf:"probe"`
	Rewrite      Rewrite      `koanf:"rewrite"`
}

// Cache locates the persisted build cache
type Cache struct {
	Path         string `koanf:"path" validate:"required"`
	BackupSuffix string `koanf:"backup_suffix" validate:"required"`
}

// Declarations locates feature declarations and user overrides
type Declarations struct {
	Path string `koanf:"path" validate:"required"`

	// Overrides maps a feature name to auto, enable or disable
	Overrides map[string]string `koanf:"overrides" validate:"dive,oneof=auto enable disable enabled disabled yes no on off"`
}

// Probe configures the built-in capability probes
type Probe struct {
	LibDirs []string `koanf:"lib_dirs"`
}

// SearchRoot mirrors staticlink.SearchRoot
type SearchRoot struct {
	Dir     string   `koanf:"dir" validate:"required"`
	Anchors []string `koanf:"anchors"`
}

// Rewrite configures the static link rewrite
type Rewrite struct {
	SearchRoots     []SearchRoot      `koanf:"search_roots" validate:"required,dive"`
	StaticPrefixes  []string          `koanf:"static_prefixes"`
	NeverStatic     []string          `koanf:"never_static"`
	Special         map[string]string `koanf:"special"`
	ExcludePatterns []string          `koanf:"exclude_patterns"`
	Sentinels       []string          `koanf:"sentinels"`
	StaticFormatKey string            `koanf:"static_format_key"`
	StaticFormat    string            `koanf:"static_format"`
}

// StaticLink converts the rewrite section for the rewriter
func (c *Config) StaticLink() staticlink.Config {
	roots := make([]staticlink.SearchRoot, len(c.Rewrite.SearchRoots))
	for i, r := range c.Rewrite.SearchRoots {
		roots[i] = staticlink.SearchRoot{Dir: r.Dir, Anchors: r.Anchors}
	}
	return staticlink.Config{
		SearchRoots:     roots,
		StaticPrefixes:  c.Rewrite.StaticPrefixes,
		NeverStatic:     c.Rewrite.NeverStatic,
		Special:         c.Rewrite.Special,
		ExcludePatterns: c.Rewrite.ExcludePatterns,
		Sentinels:       c.Rewrite.Sentinels,
		StaticFormatKey: c.Rewrite.StaticFormatKey,
		StaticFormat:    c.Rewrite.StaticFormat,
		BackupSuffix:    c.Cache.BackupSuffix,
	}
}

// FeatureOverrides parses the declared overrides. Values were validated on load.
func (c *Config) FeatureOverrides() map[string]features.Override {
	out := make(map[string]features.Override, len(c.Declarations.Overrides))
	for name, raw := range c.Declarations.Overrides {
		if o, ok := features.ParseOverride(raw); ok {
			out[name] = o
		}
	}
	return out
}
