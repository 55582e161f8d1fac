package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"chorely/internal/store/textstore"
)

// Config is persisted under ~/.chorely/config.yaml. Every field has a
// working default, so a missing file behaves like an empty one.
type Config struct {
	Theme    string    `yaml:"theme"` // dark | light | auto
	Clock    string    `yaml:"clock"` // 12 | 24
	File     string    `yaml:"file"`  // default task file
	Profiles []Profile `yaml:"profiles,omitempty"`
	PINHash  string    `yaml:"pin_sha256,omitempty"`
}

// Profile names a separate task file, so several people can share one
// machine without sharing one list.
type Profile struct {
	Name string `yaml:"name"`
	File string `yaml:"file"`
}

const (
	dirName  = ".chorely"
	fileName = "config.yaml"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Theme: "auto",
		Clock: "12",
		File:  textstore.DefaultFileName,
	}
}

// Path resolves the config file location. CHORELY_CONFIG wins over the
// home directory default.
func Path() (string, error) {
	if p := strings.TrimSpace(os.Getenv("CHORELY_CONFIG")); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, dirName, fileName), nil
}

// Load reads the config at path. A missing file yields defaults; the
// environment overrides file values; the result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Hand-edited configs may blank a field; fall back per field.
	if strings.TrimSpace(cfg.Theme) == "" {
		cfg.Theme = "auto"
	}
	if strings.TrimSpace(cfg.Clock) == "" {
		cfg.Clock = "12"
	}
	if strings.TrimSpace(cfg.File) == "" {
		cfg.File = textstore.DefaultFileName
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv("CHORELY_THEME")); v != "" {
		c.Theme = v
	}
	if v := strings.TrimSpace(os.Getenv("CHORELY_CLOCK")); v != "" {
		c.Clock = v
	}
	if v := strings.TrimSpace(os.Getenv("CHORELY_FILE")); v != "" {
		c.File = v
	}
}

// Validate rejects values the rest of the program is not prepared for.
func (c *Config) Validate() error {
	switch c.Theme {
	case "dark", "light", "auto":
	default:
		return fmt.Errorf("theme %q: want dark, light or auto", c.Theme)
	}
	switch c.Clock {
	case "12", "24":
	default:
		return fmt.Errorf("clock %q: want 12 or 24", c.Clock)
	}
	if strings.TrimSpace(c.File) == "" {
		return errors.New("file must not be empty")
	}
	seen := make(map[string]bool, len(c.Profiles))
	for _, p := range c.Profiles {
		if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.File) == "" {
			return errors.New("profiles need both name and file")
		}
		key := strings.ToLower(p.Name)
		if seen[key] {
			return fmt.Errorf("duplicate profile %q", p.Name)
		}
		seen[key] = true
	}
	if c.PINHash != "" && !isHexDigest(c.PINHash) {
		return errors.New("pin_sha256 must be a hex SHA-256 digest")
	}
	return nil
}

// Save writes the config file. The directory is owner-only and so is
// the file, since it carries the PIN hash.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// ResolveFile picks the task file: an explicit path wins, then a named
// profile, then the configured default.
func (c *Config) ResolveFile(explicit, profile string) (string, error) {
	if strings.TrimSpace(explicit) != "" {
		return explicit, nil
	}
	if strings.TrimSpace(profile) != "" {
		p, ok := c.FindProfile(profile)
		if !ok {
			return "", fmt.Errorf("unknown profile %q", profile)
		}
		return p.File, nil
	}
	return c.File, nil
}

// FindProfile looks a profile up by name, case-insensitively.
func (c *Config) FindProfile(name string) (Profile, bool) {
	for _, p := range c.Profiles {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Profile{}, false
}

// NextProfile returns the profile after the one owning the given file,
// wrapping around. The bool is false when there is nothing to cycle.
func (c *Config) NextProfile(file string) (Profile, bool) {
	if len(c.Profiles) < 2 {
		return Profile{}, false
	}
	for i, p := range c.Profiles {
		if p.File == file {
			return c.Profiles[(i+1)%len(c.Profiles)], true
		}
	}
	return c.Profiles[0], true
}

// ProfileFor names the profile owning the given file, or "" when the
// file is not a profile's.
func (c *Config) ProfileFor(file string) string {
	for _, p := range c.Profiles {
		if p.File == file {
			return p.Name
		}
	}
	return ""
}
