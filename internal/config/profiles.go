package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"snowlens/internal/warehouse"
)

// Profiles represents ~/.snowlens/config.yaml: named connection sections
// plus the one selected by default.
type Profiles struct {
	CurrentProfile string             `yaml:"current-profile"`
	Profiles       map[string]Profile `yaml:"profiles"`
}

// Profile is a single named connection section.
type Profile struct {
	Account   string `yaml:"account"`
	User      string `yaml:"user"`
	Password  string `yaml:"password,omitempty"`
	Database  string `yaml:"database,omitempty"`
	Schema    string `yaml:"schema,omitempty"`
	Warehouse string `yaml:"warehouse,omitempty"`
	Role      string `yaml:"role,omitempty"`
	Model     string `yaml:"model,omitempty"`
}

// ConnectionParams converts the profile to warehouse connection parameters.
func (p Profile) ConnectionParams() warehouse.ConnectionParams {
	return warehouse.ConnectionParams{
		Account:   p.Account,
		User:      p.User,
		Password:  p.Password,
		Database:  p.Database,
		Schema:    p.Schema,
		Warehouse: p.Warehouse,
		Role:      p.Role,
	}
}

// Profile returns the named profile, or the current one when name is empty.
func (c *Profiles) Profile(name string) (Profile, bool) {
	if name == "" {
		name = c.CurrentProfile
	}
	p, ok := c.Profiles[name]
	return p, ok
}

// DefaultProfilesPath returns ~/.snowlens/config.yaml.
func DefaultProfilesPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".snowlens", "config.yaml")
}

// LoadProfiles reads a profiles file.
func LoadProfiles(path string) (*Profiles, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}
	var c Profiles
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse profiles: %w", err)
	}
	if c.Profiles == nil {
		c.Profiles = map[string]Profile{}
	}
	return &c, nil
}

// SaveProfiles writes a profiles file with owner-only permissions, since the
// sections carry credentials.
func SaveProfiles(path string, c *Profiles) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create profiles dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal profiles: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}
