// Package config loads and stores the user-level StegVault configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kalashnikxvxiii-collab/StegVault/internal/vault"
)

// KDF holds argon2id cost parameters.
type KDF struct {
	Time      uint32 `yaml:"time"`
	MemoryKiB uint32 `yaml:"memory_kib"`
	Threads   uint8  `yaml:"threads"`
}

// Config is the on-disk configuration.
type Config struct {
	// GalleryPath is the catalog database location.
	GalleryPath string `yaml:"gallery_path"`
	// GalleryKey optionally encrypts the catalog with SQLCipher.
	GalleryKey string `yaml:"gallery_key,omitempty"`
	// OutputFormat is the default stego image format, "png" or "bmp".
	OutputFormat string `yaml:"output_format"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	KDF      KDF    `yaml:"kdf"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	p := vault.DefaultKDFParams()
	return &Config{
		GalleryPath:  filepath.Join(baseDir(), "gallery.db"),
		OutputFormat: "png",
		LogLevel:     "info",
		KDF:          KDF{Time: p.Time, MemoryKiB: p.MemoryKiB, Threads: p.Threads},
	}
}

// DefaultPath returns the standard configuration file location.
func DefaultPath() string {
	return filepath.Join(baseDir(), "config.yaml")
}

func baseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".stegvault")
}

// Load reads the configuration at path. A missing file yields the defaults;
// fields absent from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// KDFParams converts the configured costs to the vault layer's parameter
// type.
func (c *Config) KDFParams() vault.KDFParams {
	return vault.KDFParams{Time: c.KDF.Time, MemoryKiB: c.KDF.MemoryKiB, Threads: c.KDF.Threads}
}
