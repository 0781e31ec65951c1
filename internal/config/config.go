package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"fieldscope/internal/rationalize"
)

// Config is the server configuration, loaded from an optional YAML file
// with env/default fallbacks.
type Config struct {
	Port            string                 `yaml:"port"`
	DefinitionsFile string                 `yaml:"definitions_file"`
	DBSampleLimit   int                    `yaml:"db_sample_limit"`
	Rationalization rationalize.Thresholds `yaml:"rationalization"`
}

// Default returns the shipped configuration.
func Default() Config {
	return Config{
		Port:            "8001",
		DefinitionsFile: "./data/definitions.yaml",
		DBSampleLimit:   1000,
		Rationalization: rationalize.DefaultThresholds(),
	}
}

// Load reads the YAML config at path, applying defaults for anything
// unset. A missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return applyEnv(cfg), nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Port == "" {
		cfg.Port = Default().Port
	}
	if cfg.DBSampleLimit <= 0 {
		cfg.DBSampleLimit = Default().DBSampleLimit
	}
	if cfg.Rationalization.KeepUniqueness == 0 && cfg.Rationalization.MergeOverlap == 0 {
		cfg.Rationalization = rationalize.DefaultThresholds()
	}
	return applyEnv(cfg), nil
}

func applyEnv(cfg Config) Config {
	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}
	return cfg
}
