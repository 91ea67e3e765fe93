package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "RUB", cfg.Currency.Base)
	assert.NotEmpty(t, cfg.Currency.Rates)
	assert.Equal(t, 0.7, cfg.Resolver.DictionaryThreshold)
}

func TestLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "finbot.yaml")

	cfg := Default()
	cfg.Server.Addr = ":9090"
	cfg.Storage.Driver = "mysql"
	cfg.Storage.DSN = "user:pass@tcp(localhost:3306)/finbot?parseTime=True"
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", loaded.Server.Addr)
	assert.Equal(t, "mysql", loaded.Storage.Driver)
	assert.Equal(t, cfg.Storage.DSN, loaded.Storage.DSN)
	assert.Equal(t, cfg.Currency.Rates, loaded.Currency.Rates)
}

func TestLoadPartialFileGetsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "finbot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":7070\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, 15*time.Second, cfg.Classifier.Timeout)
	assert.Equal(t, 10, cfg.Resolver.MaxExamples)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/does/not/exist.yaml")
	assert.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "finbot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
