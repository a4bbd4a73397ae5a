package s1l0

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultBatchSize is the Config.DefaultBatchSize value DefaultConfig sets,
// matching the upstream reference's batch_size default. File.BurstData does
// not read it: it hands a whole burst to the payload decoder as one batch.
const DefaultBatchSize = 256

// Config holds the tunables this decoder exposes beyond function parameters.
// A zero Config is invalid; use DefaultConfig or LoadConfig.
type Config struct {
	DefaultBatchSize int    `yaml:"default_batch_size"`
	Concurrency      int    `yaml:"concurrency"`
	CacheDir         string `yaml:"cache_dir"`
	StrictSync       bool   `yaml:"strict_sync"`
}

// DefaultConfig returns the hard-coded defaults applied when no config file
// is supplied to WithConfig/LoadConfig.
func DefaultConfig() Config {
	return Config{
		DefaultBatchSize: DefaultBatchSize,
	}
}

// LoadConfig reads a YAML config file, overlaying its fields onto
// DefaultConfig; a field absent from the file keeps its default value.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "s1l0: read config %q", path)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "s1l0: parse config %q", path)
	}
	return cfg, nil
}

// searchConfig tries each candidate path in order, returning the first one
// that loads successfully; it is not an error for none to exist.
func searchConfig(candidates []string) Config {
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if cfg, err := LoadConfig(path); err == nil {
			return cfg
		}
	}
	return DefaultConfig()
}
