package config

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("PTAGS_DB", "")
	t.Setenv("PTAGS_ADDRESS", "")
	t.Setenv("PTAGS_SEED", "")
	t.Setenv("PTAGS_GIN_MODE", "")

	cfg, err := New()
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.DBPath)
	assert.Equal(t, "0.0.0.0:7878", cfg.Address)
	assert.Empty(t, cfg.SeedFile)
	assert.Equal(t, gin.ReleaseMode, cfg.GinMode)
}

func TestNew_EnvOverrides(t *testing.T) {
	t.Setenv("PTAGS_DB", "/tmp/ptags-test.db")
	t.Setenv("PTAGS_ADDRESS", "127.0.0.1:9999")
	t.Setenv("PTAGS_SEED", "/tmp/seed.yaml")
	t.Setenv("PTAGS_GIN_MODE", gin.DebugMode)

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/ptags-test.db", cfg.DBPath)
	assert.Equal(t, "127.0.0.1:9999", cfg.Address)
	assert.Equal(t, "/tmp/seed.yaml", cfg.SeedFile)
	assert.Equal(t, gin.DebugMode, cfg.GinMode)
}
