package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/mbuehler/facezoom/pkg/errors"
	"github.com/mbuehler/facezoom/pkg/face"
	"github.com/mbuehler/facezoom/pkg/scale"
)

// Registry backend names accepted in the config file.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config is the on-disk configuration, read from
// $XDG_CONFIG_HOME/facezoom/config.toml.
//
// Example:
//
//	[scale]
//	factor = 1.2
//	min_height = 100
//	max_height = 1000
//	default_height = 180
//	excluded = ["mode-line", "minibuffer-prompt"]
//
//	[registry]
//	backend = "file"
//	path = "/home/me/.config/facezoom/faces.json"
type Config struct {
	Scale    scale.Config   `toml:"scale"`
	Registry RegistryConfig `toml:"registry"`
}

// RegistryConfig selects and configures the registry backend.
type RegistryConfig struct {
	// Backend is one of memory, file, redis, mongo. Empty means memory.
	Backend string `toml:"backend"`

	// Path is the faces.json location for the file backend.
	Path string `toml:"path"`

	Redis face.RedisConfig `toml:"redis"`
	Mongo face.MongoConfig `toml:"mongo"`
}

// defaultConfig returns the configuration used when no file exists.
func defaultConfig() Config {
	return Config{
		Scale:    scale.DefaultConfig(),
		Registry: RegistryConfig{Backend: BackendMemory},
	}
}

// loadConfig reads and validates the config file. A missing file at the
// default location yields defaults; a missing explicit --config path is an
// error.
func (c *CLI) loadConfig() (Config, error) {
	path := c.configPath
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return defaultConfig(), nil
		}
		path = filepath.Join(dir, "config.toml")
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if explicit {
			return Config{}, errors.New(errors.ErrCodeFileNotFound, "config file %s does not exist", path)
		}
		return defaultConfig(), nil
	}
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInternal, err, "read config %s", path)
	}

	cfg := Config{Registry: RegistryConfig{Backend: BackendMemory}}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}

	cfg.Scale.ApplyDefaults()
	if err := cfg.Scale.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
