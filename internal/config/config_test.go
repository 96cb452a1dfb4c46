package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Sources)
	assert.Zero(t, cfg.RefreshInterval)
	assert.Equal(t, 5*time.Minute, cfg.Redis.TTL)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Sources)
}

func TestLoad_FullFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atlas.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
sources:
  - name: claims
    url: http://example.com/claims.geojson
  - name: boundaries
    file: telangana_districts.geojson
refresh_interval: 10m
redis:
  addr: localhost:6379
  ttl: 1m
style_overrides:
  water_body:
    fill: "#123456"
boundaries:
  telangana: telangana_districts.geojson
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Sources, 2)
	assert.Equal(t, "claims", cfg.Sources[0].Name)
	assert.Equal(t, "http://example.com/claims.geojson", cfg.Sources[0].URL)
	assert.Equal(t, "telangana_districts.geojson", cfg.Sources[1].File)
	assert.Equal(t, 10*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, time.Minute, cfg.Redis.TTL)
	assert.Equal(t, "#123456", cfg.StyleOverrides["water_body"].Fill)
	assert.Equal(t, "telangana_districts.geojson", cfg.Boundaries["telangana"])
}

func TestLoad_MalformedFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sources: ["), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}
