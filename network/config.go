package network

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ConfigFile is the name of the project configuration file.
const ConfigFile = "quill.toml"

// Config represents a quill.toml configuration.
type Config struct {
	Network Params      `toml:"network"`
	Store   StoreConfig `toml:"store"`

	// Dir is the directory containing the quill.toml file (set at load time).
	Dir string `toml:"-"`
}

// StoreConfig locates the content store.
type StoreConfig struct {
	Path string `toml:"path"`
}

// Load parses a quill.toml file from the given directory.
//
// A [network] table naming a built-in network inherits that network's
// constants for every key it leaves out. A table naming any other network
// must set max-array-entries.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var c Config
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return nil, fmt.Errorf("%w: unknown key %s in %s", ErrInvalidParams, keys[0], path)
	}

	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	// Defaults
	if !md.IsDefined("network") {
		c.Network = Testnet
	} else if known, ok := Known(c.Network.Name); ok {
		if !md.IsDefined("network", "id") {
			c.Network.ID = known.ID
		}
		if !md.IsDefined("network", "max-array-entries") {
			c.Network.MaxArrayEntries = known.MaxArrayEntries
		}
	}
	if err := c.Network.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if c.Store.Path != "" && !filepath.IsAbs(c.Store.Path) {
		c.Store.Path = filepath.Join(c.Dir, c.Store.Path)
	}

	return &c, nil
}

// FindAndLoad walks up from startDir to find a quill.toml file,
// then loads and returns the config. Returns nil if no config is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, ConfigFile)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}
