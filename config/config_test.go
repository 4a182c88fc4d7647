package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, name := range []string{"PORT", "CATALOG_DB_NAME", "CATALOG_DB_TYPE", "CATALOG_WORKDIR", "CATALOG_SEED_DATA", "CATALOG_SEED_IMAGE", "CATALOG_SEED_BACKGROUND"} {
		t.Setenv(name, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "productos.db", cfg.Database.Name)
	assert.Equal(t, 3000, cfg.Web.Port)
	assert.Equal(t, "0.0.0.0", cfg.Web.Host)
	assert.Equal(t, "data/resumen_productos.json", cfg.Seed.DataFile)
	assert.False(t, cfg.Seed.Background)
}

func TestLoadConfigFromFile(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()
	cfile := filepath.Join(tmpDir, "catalog.yml")

	content := `system:
  workdir: /var/lib/catalog
web:
  port: 8080
database:
  type: sqlite
  name: catalog.db
seed:
  data_file: seed/products.csv
  background: true
`
	require.NoError(t, os.WriteFile(cfile, []byte(content), 0o644))

	cfg, err := LoadConfig(cfile)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/catalog", cfg.System.Workdir)
	assert.Equal(t, 8080, cfg.Web.Port)
	assert.Equal(t, "catalog.db", cfg.Database.Name)
	assert.Equal(t, "seed/products.csv", cfg.Seed.DataFile)
	assert.True(t, cfg.Seed.Background)
	// untouched keys keep their defaults
	assert.Equal(t, "data/pagoQR.jpg", cfg.Seed.ImageFile)
	assert.Equal(t, "0.0.0.0", cfg.Web.Host)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Web.Port)
}

func TestLoadConfigMalformedFile(t *testing.T) {
	cfile := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(cfile, []byte("web: [port"), 0o644))

	_, err := LoadConfig(cfile)
	assert.Error(t, err)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "4100")
	t.Setenv("CATALOG_DB_NAME", "override.db")
	t.Setenv("CATALOG_SEED_BACKGROUND", "true")
	t.Setenv("CATALOG_SEED_IMAGE", "/tmp/qr.jpg")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 4100, cfg.Web.Port)
	assert.Equal(t, "override.db", cfg.Database.Name)
	assert.True(t, cfg.Seed.Background)
	assert.Equal(t, "/tmp/qr.jpg", cfg.Seed.ImageFile)
}

func TestLoadConfigBadPortEnv(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := *DefaultAppConfig
	assert.NoError(t, valid.Validate())

	badType := *DefaultAppConfig
	badType.Database.Type = "oracle"
	assert.Error(t, badType.Validate())

	noName := *DefaultAppConfig
	noName.Database.Name = " "
	assert.Error(t, noName.Validate())

	badPort := *DefaultAppConfig
	badPort.Web.Port = 70000
	assert.Error(t, badPort.Validate())
}

func TestResolvePath(t *testing.T) {
	cfg := *DefaultAppConfig
	cfg.System.Workdir = "/srv/catalog"

	assert.Equal(t, "/srv/catalog/data/x.json", cfg.ResolvePath("data/x.json"))
	assert.Equal(t, "/abs/x.json", cfg.ResolvePath("/abs/x.json"))
	assert.Equal(t, "", cfg.ResolvePath(""))
}
