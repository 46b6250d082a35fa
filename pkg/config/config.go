// Package config loads devenv's configuration: embedded defaults,
// then the user's devenv.toml, then DEVENV_* environment variables,
// each layer overriding the previous one.
package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/devenv/pkg/errors"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// ConfigFileName is the user-facing configuration file name.
const ConfigFileName = "devenv.toml"

// ResolverConfig configures how the external resolver is invoked.
type ResolverConfig struct {
	Command string        `koanf:"command"`
	Args    []string      `koanf:"args"`
	Timeout time.Duration `koanf:"timeout"`
}

// ActivationConfig tunes the activation machine's user-visible output.
type ActivationConfig struct {
	Quiet bool `koanf:"quiet"`
}

// StoreConfig overrides store placement.
type StoreConfig struct {
	Dir string `koanf:"dir"`
}

// Config is the fully merged configuration.
type Config struct {
	Resolver   ResolverConfig   `koanf:"resolver"`
	Activation ActivationConfig `koanf:"activation"`
	Store      StoreConfig      `koanf:"store"`
}

// Load builds the configuration from defaults, the user config file and
// environment variables.
func Load() (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(rawbytes.Provider(defaultConfig), toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load default config")
	}

	// 2. User config file, if present
	if path := userConfigPath(); path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path)
			}
		}
	}

	// 3. DEVENV_ env vars: DEVENV_RESOLVER_COMMAND -> resolver.command
	if err := k.Load(env.Provider("DEVENV_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "DEVENV_")), "_", ".")
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if cfg.Resolver.Command == "" {
		cfg.Resolver.Command = "pkgx"
	}
	if cfg.Resolver.Timeout <= 0 {
		cfg.Resolver.Timeout = 60 * time.Second
	}

	return &cfg, nil
}

// userConfigPath returns the devenv.toml location, honoring the
// DEVENV_CONFIG_DIR override used across the codebase.
func userConfigPath() string {
	if dir := os.Getenv("DEVENV_CONFIG_DIR"); dir != "" {
		return filepath.Join(dir, ConfigFileName)
	}
	return filepath.Join(xdg.ConfigHome, "devenv", ConfigFileName)
}
