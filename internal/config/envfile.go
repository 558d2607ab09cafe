package config

import (
	"baguette/pkg/vm"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

var ErrUnknownEnvFormat = errors.New("unknown environment file format")

// LoadEnvFile reads a YAML (.yaml, .yml) or TOML (.toml) file into an
// environment-variable tree.
func LoadEnvFile(path string) (vm.Env, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	raw := map[string]any{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse error in %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse error in %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownEnvFormat, path)
	}

	env, err := vm.FromMap(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return env, nil
}
