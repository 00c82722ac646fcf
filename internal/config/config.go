// Package config loads settings for the command-line tools from defaults,
// an optional JSON or YAML file and RHMAP_ environment variables, in that
// order of increasing priority. Command-line flags are applied on top by
// the caller.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/theflywheel/rhmap/rawalloc"
)

// EnvPrefix is the prefix of environment variables read by Load.
// RHMAP_BACKING_PATH sets backing.path, RHMAP_LOG_LEVEL sets log.level.
const EnvPrefix = "RHMAP_"

// Config is the complete configuration of the tools.
type Config struct {
	Backing Backing `koanf:"backing"`
	Log     Log     `koanf:"log"`
	Bench   Bench   `koanf:"bench"`
}

// Backing configures where bucket memory is mapped from.
type Backing struct {
	// Path is the directory unnamed backing files are created in.
	Path string `koanf:"path"`
}

// Log configures the tools' logger.
type Log struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // text or json
}

// Bench configures the default workload of rhbench.
type Bench struct {
	Keys     int `koanf:"keys"`
	Capacity int `koanf:"capacity"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Backing: Backing{Path: rawalloc.DefaultPath()},
		Log:     Log{Level: "info", Format: "text"},
		Bench:   Bench{Keys: 1_000_000, Capacity: 0},
	}
}

// Load returns the default configuration overlaid with the file at path,
// if path is not empty, and then with the environment.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := loadFile(k, path); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps RHMAP_BENCH_KEYS to bench.keys.
func envKey(key, value string) (string, any) {
	key = strings.TrimPrefix(key, EnvPrefix)
	return strings.ToLower(strings.ReplaceAll(key, "_", ".")), value
}

func loadFile(k *koanf.Koanf, path string) error {
	var parser koanf.Parser
	switch filepath.Ext(path) {
	case ".json":
		parser = json.Parser()
	case ".yaml", ".yml", "":
		parser = yaml.Parser()
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	return k.Load(file.Provider(path), parser)
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.Bench.Keys < 0 {
		return fmt.Errorf("bench.keys must not be negative, got %d", c.Bench.Keys)
	}
	if c.Bench.Capacity < 0 {
		return fmt.Errorf("bench.capacity must not be negative, got %d", c.Bench.Capacity)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}
