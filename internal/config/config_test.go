package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotEmpty(t, cfg.GalleryPath)
	assert.Equal(t, "png", cfg.OutputFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NotZero(t, cfg.KDF.Time)
	assert.NotZero(t, cfg.KDF.MemoryKiB)
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().OutputFormat, cfg.OutputFormat)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := Default()
	cfg.OutputFormat = "bmp"
	cfg.LogLevel = "debug"
	cfg.KDF.Time = 5
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "bmp", got.OutputFormat)
	assert.Equal(t, "debug", got.LogLevel)
	assert.Equal(t, uint32(5), got.KDF.Time)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: warn\n"), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, Default().OutputFormat, cfg.OutputFormat)
	assert.Equal(t, Default().KDF.MemoryKiB, cfg.KDF.MemoryKiB)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("\t{bad yaml"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestKDFParams(t *testing.T) {
	cfg := Default()
	p := cfg.KDFParams()
	assert.Equal(t, cfg.KDF.Time, p.Time)
	assert.Equal(t, cfg.KDF.MemoryKiB, p.MemoryKiB)
	assert.Equal(t, cfg.KDF.Threads, p.Threads)
}
