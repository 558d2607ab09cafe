// Package config handles baguette.toml project configuration and environment files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file looked up by FindAndLoad.
const ManifestName = "baguette.toml"

// Manifest represents a baguette.toml project configuration.
type Manifest struct {
	Run   Run   `toml:"run"`
	Env   Env   `toml:"env"`
	State State `toml:"state"`
	Host  Host  `toml:"host"`

	// Dir is the directory containing the manifest (set at load time).
	Dir string `toml:"-"`
}

// Run configures the entry point.
type Run struct {
	Entry    string `toml:"entry"`
	MaxSteps int    `toml:"max-steps"`
}

// Env points at the initial environment-variable file.
type Env struct {
	File string `toml:"file"`
}

// State configures the SQLite state database.
type State struct {
	DB string `toml:"db"`
}

// Host lists environment functions that pause the VM after they complete.
type Host struct {
	Pause []string `toml:"pause"`
}

// LoadFile parses a manifest at path.
func LoadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}

	// Defaults
	if m.Run.Entry == "" {
		m.Run.Entry = "main"
	}

	return &m, nil
}

// Load parses baguette.toml from the given directory.
func Load(dir string) (*Manifest, error) {
	return LoadFile(filepath.Join(dir, ManifestName))
}

// FindAndLoad walks up from startDir to find a baguette.toml file.
// Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, ManifestName)); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// EnvFilePath returns the environment file resolved against the manifest directory.
func (m *Manifest) EnvFilePath() string {
	return m.resolve(m.Env.File)
}

// StateDBPath returns the state database resolved against the manifest directory.
func (m *Manifest) StateDBPath() string {
	if m.State.DB == ":memory:" {
		return m.State.DB
	}
	return m.resolve(m.State.DB)
}

// Pauses reports whether the named environment function should pause the VM.
func (m *Manifest) Pauses(name string) bool {
	return slices.Contains(m.Host.Pause, name)
}

func (m *Manifest) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Dir, p)
}
