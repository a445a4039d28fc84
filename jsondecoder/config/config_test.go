package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-appsec/jsondecoder/jsondecoder/decoder"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig("0.1.0")

	assert.Equal(t, "0.1.0", cfg.Version)
	assert.Equal(t, DefaultMCPPort, cfg.MCPPort)
	assert.Equal(t, decoder.DefaultRules(), cfg.Rules())
}

func TestLoadSaveRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.json")

	original := &Config{
		Version:      "0.1.0",
		ContentTypes: []string{"application/vnd.api+json"},
		MagicMarkers: []string{`{"`},
		MCPPort:      9999,
		SessionDir:   "/tmp/sessions",
	}

	require.NoError(t, original.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestLoadNotExist(t *testing.T) {
	t.Parallel()

	_, err := Load("/nonexistent/path/config.json")
	assert.True(t, os.IsNotExist(err))
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": "0.1.0"}`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultMCPPort, cfg.MCPPort)
	assert.Equal(t, []string{"application/json", "text/javascript"}, cfg.ContentTypes)
	assert.Equal(t, []string{`{"`, `["`, `[{`}, cfg.MagicMarkers)
}

func TestLoadInvalidJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	t.Parallel()

	t.Run("missing_file", func(t *testing.T) {
		cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.json"))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(Version), cfg)
	})

	t.Run("invalid_file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0644))

		_, err := LoadOrDefault(path)
		assert.Error(t, err)
	})
}

func TestSaveNilConfig(t *testing.T) {
	t.Parallel()

	var cfg *Config
	assert.Error(t, cfg.Save(filepath.Join(t.TempDir(), "config.json")))
}

func TestSaveAtomicity(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, DefaultConfig(Version).Save(path))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
