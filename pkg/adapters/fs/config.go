package fs

import (
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
)

// Config defines the configuration for the filesystem storage adapter
type Config struct {
	BaseDirectory string      `yaml:"base_directory"`
	Permissions   os.FileMode `yaml:"permissions,omitempty"`
}

// Validate resolves BaseDirectory to an absolute path and fills defaults
func (c *Config) Validate() error {
	if c.BaseDirectory == "" {
		return goerr.New("base directory is required")
	}

	absPath, err := filepath.Abs(c.BaseDirectory)
	if err != nil {
		return goerr.Wrap(err, "invalid base directory", goerr.V("base_directory", c.BaseDirectory))
	}
	c.BaseDirectory = absPath

	if c.Permissions == 0 {
		c.Permissions = 0750
	}

	return nil
}

// EnsureDirectory creates the base directory if it doesn't exist
func (c *Config) EnsureDirectory() error {
	if err := os.MkdirAll(c.BaseDirectory, c.Permissions); err != nil {
		return goerr.Wrap(err, "failed to create base directory", goerr.V("base_directory", c.BaseDirectory))
	}
	return nil
}
