package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
		"REDIS_ADDR", "REDIS_DB",
		"BUNDLE_THRESHOLD_SERVICE", "BUNDLE_THRESHOLD_ENDPOINT", "OUT_DIR", "DOT_BIN",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "mapscan", cfg.Database.Name)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Detect.ThresholdService)
	assert.Equal(t, 2, cfg.Detect.ThresholdEndpoint)
	assert.Equal(t, "out", cfg.Detect.OutDir)
	assert.Empty(t, cfg.Detect.DOTBin)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("BUNDLE_THRESHOLD_SERVICE", "3")
	t.Setenv("OUT_DIR", "/tmp/mapscan-out")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, 3, cfg.Detect.ThresholdService)
	assert.Equal(t, "/tmp/mapscan-out", cfg.Detect.OutDir)
}

func TestLoadInvalidIntFallsBack(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Server:   ServerConfig{Port: "8080"},
		Database: DatabaseConfig{Host: "localhost"},
		Detect:   DetectConfig{ThresholdService: 2, ThresholdEndpoint: 2},
	}
	require.NoError(t, cfg.Validate())

	bad := *cfg
	bad.Server.Port = ""
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Database.Host = ""
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Detect.ThresholdService = 0
	assert.Error(t, bad.Validate())
}
