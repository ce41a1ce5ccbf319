package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/taminomara/yuio-sub000/pkg/errors"
	"github.com/taminomara/yuio-sub000/pkg/ui/terminal"
)

// Load builds the configuration: defaults, then the file at path, then
// the environment. An empty path reads the user config file if there is
// one.
func Load(path string, env terminal.Env) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	} else if p := userConfigPath(); p != "" {
		if err := cfg.LoadFile(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading user config: %w", err)
		}
	}

	if err := cfg.ApplyEnv(env); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// LoadFile merges a YAML file into c. Keys missing from the file keep
// their current values; unknown keys are an error.
func (c *Config) LoadFile(path string) error {
	f, err := os.Open(expandHomeDir(path))
	if err != nil {
		return err
	}
	defer f.Close()

	if err := c.Load(f); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	c.files = append(c.files, path)
	return nil
}

// Load merges YAML from r into c.
func (c *Config) Load(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return apperrors.Wrap(err, apperrors.ErrCodeConfigInvalid, "failed to parse config")
	}
	c.Theme.Path = expandHomeDir(c.Theme.Path)
	c.Logging.Dir = expandHomeDir(c.Logging.Dir)
	return nil
}

func userConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return ""
	}
	return filepath.Join(dir, "yuio", "config.yaml")
}

func expandHomeDir(path string) string {
	path = strings.TrimSpace(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
