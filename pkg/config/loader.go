package config

import (
	"os"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/featlink/pkg/errors"
	"github.com/arthur-debert/featlink/pkg/logging"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix marks environment overrides, e.g. FEATLINK_CACHE_PATH
	EnvPrefix = "FEATLINK_"

	// LocalFile is picked up from the working directory
	LocalFile = "featlink.toml"

	userFile = "featlink/featlink.toml"
)

// Options selects the layers Load reads
type Options struct {
	// ConfigPath is an explicit file that must exist. It replaces LocalFile.
	ConfigPath string

	// Overrides are applied last, keyed by dotted path
	Overrides map[string]interface{}

	// SkipUserConfig ignores the XDG user file
	SkipUserConfig bool
}

// Load builds the configuration from all layers and validates it
func Load(opts Options) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(defaultsProvider{}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load embedded defaults")
	}

	// 2. User file
	if !opts.SkipUserConfig {
		if path, err := xdg.SearchConfigFile(userFile); err == nil {
			if err := loadFile(k, path); err != nil {
				return nil, err
			}
			logger.Debug().Str("path", path).Msg("Loaded user config")
		}
	}

	// 3. Explicit or local file
	switch {
	case opts.ConfigPath != "":
		if err := loadFile(k, opts.ConfigPath); err != nil {
			return nil, err
		}
		logger.Debug().Str("path", opts.ConfigPath).Msg("Loaded config file")
	default:
		if _, err := os.Stat(LocalFile); err == nil {
			if err := loadFile(k, LocalFile); err != nil {
				return nil, err
			}
			logger.Debug().Str("path", LocalFile).Msg("Loaded local config")
		}
	}

	// 4. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	// 5. Programmatic overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	return decode(k)
}

func loadFile(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "config file %s not found", path).
			WithDetail("path", path)
	}
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "failed to parse config file %s", path).
			WithDetail("path", path)
	}
	return nil
}

// envKey maps FEATLINK_REWRITE_NEVER_STATIC to rewrite.never_static.
// The first underscore separates the section from the key.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, key, found := strings.Cut(s, "_")
	if !found {
		return section
	}
	return section + "." + key
}

func decode(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigValid, "invalid configuration")
	}

	return &cfg, nil
}
