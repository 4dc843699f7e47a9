package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Config is everything the client needs to reach the backend and keep a
// session. Values come from a YAML file and/or environment variables,
// with ENV taking priority.
type Config struct {
	AppName     string        `yaml:"app_name" env:"APP_NAME" env-default:"MentorHub"`
	BackendURL  string        `yaml:"backend_url" env:"BACKEND_URL" env-default:"http://localhost:8080/api"`
	AuthURL     string        `yaml:"auth_url" env:"AUTH_URL" env-default:"http://localhost:8080/api/auth"`
	HTTPTimeout time.Duration `yaml:"http_timeout" env:"HTTP_TIMEOUT" env-default:"30s"`
	SessionFile string        `yaml:"session_file" env:"SESSION_FILE"` // empty resolves under the user config dir
	LogLevel    string        `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
}

func (c *Config) Validate() error {
	if !strings.HasPrefix(c.BackendURL, "http://") && !strings.HasPrefix(c.BackendURL, "https://") {
		return errors.Errorf("backend_url %q is not an http(s) URL", c.BackendURL)
	}
	if !strings.HasPrefix(c.AuthURL, "http://") && !strings.HasPrefix(c.AuthURL, "https://") {
		return errors.Errorf("auth_url %q is not an http(s) URL", c.AuthURL)
	}
	if c.HTTPTimeout <= 0 {
		return errors.New("http_timeout must be positive")
	}
	return nil
}
