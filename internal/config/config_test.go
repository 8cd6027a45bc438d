package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "mongodb://localhost:27017", cfg.DB.URI)
	assert.Equal(t, 3, cfg.DB.MaxAttempts)
	assert.Equal(t, 100.0, cfg.Orders.FreeShippingThreshold)
	assert.Equal(t, 10.0, cfg.Orders.FlatShippingFee)
	assert.Equal(t, 0.05, cfg.Orders.TaxRate)
	assert.Equal(t, 50, cfg.Newsletter.BatchSize)
}

func TestLoadConfig_FileOverrides(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  addr: ":9090"
  mode: release
db:
  database: boutik_test
  maxAttempts: 5
orders:
  taxRate: 0.2
newsletter:
  batchDelay: 5s
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))
	chdir(t, dir)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "boutik_test", cfg.DB.Database)
	assert.Equal(t, 5, cfg.DB.MaxAttempts)
	assert.Equal(t, 0.2, cfg.Orders.TaxRate)
	assert.Equal(t, 5*time.Second, cfg.Newsletter.BatchDelay)
	// untouched keys keep their defaults
	assert.Equal(t, 100.0, cfg.Orders.FreeShippingThreshold)
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
