package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"
)

//go:embed config.yaml
var configDefaults []byte

type (
	// LoaderConfig selects document loading policy.
	LoaderConfig struct {
		// strict aborts on the first malformed translation unit, lenient
		// skips such units and keeps going
		Policy string `yaml:"policy"`
		// generate tuids for units which do not have one
		AssignTUIDs bool `yaml:"assign_tuids"`
	}

	DocumentConfig struct {
		Loader LoaderConfig `yaml:"loader"`
	}

	Config struct {
		Version  int            `yaml:"version"`
		Document DocumentConfig `yaml:"document"`
		Logging  LoggingConfig  `yaml:"logging"`
	}
)

func unmarshalConfig(data []byte, cfg *Config) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported configuration version %d", cfg.Version)
	}
	switch cfg.Document.Loader.Policy {
	case "strict", "lenient":
	default:
		return fmt.Errorf("unknown loader policy %q (want strict or lenient)", cfg.Document.Loader.Policy)
	}
	for _, lc := range []struct {
		name string
		conf *LoggerConfig
	}{
		{"console", &cfg.Logging.ConsoleLogger},
		{"file", &cfg.Logging.FileLogger},
	} {
		switch lc.conf.Level {
		case "none", "normal", "debug":
		default:
			return fmt.Errorf("unknown %s log level %q (want none, normal or debug)", lc.name, lc.conf.Level)
		}
		switch lc.conf.Mode {
		case "", "append", "overwrite":
		default:
			return fmt.Errorf("unknown %s log mode %q (want append or overwrite)", lc.name, lc.conf.Mode)
		}
	}
	return nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposing its values on top of the embedded defaults, and validates the
// result. An empty path returns the defaults.
func LoadConfiguration(path string) (*Config, error) {
	cfg, err := unmarshalConfig(configDefaults, &Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to process default configuration: %w", err)
	}
	if len(path) != 0 {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if cfg, err = unmarshalConfig(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to process configuration file: %w", err)
		}
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Prepare returns the default configuration file content.
func Prepare() ([]byte, error) {
	return bytes.Clone(configDefaults), nil
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
