package config

import (
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/pkg/errors"
)

// Load reads configuration from a YAML file and environment variables,
// ENV over YAML over defaults. The file path comes from CONFIG_PATH
// (fallback "./mentorhub.yaml"); a missing fallback file is fine, a
// missing explicit file is an error.
func Load() (*Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	explicitPath := path != ""
	if !explicitPath {
		path = "./mentorhub.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, errors.Wrapf(err, "[config.Load] read %s", path)
		}
	} else if explicitPath {
		return nil, errors.Wrapf(err, "[config.Load] file %s", path)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, errors.Wrap(err, "[config.Load] read env")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "[config.Load] validate")
	}
	return &cfg, nil
}
