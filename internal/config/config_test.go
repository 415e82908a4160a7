package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8501", c.HTTPAddr)
	assert.Equal(t, ":50051", c.GRPCAddr)
	assert.Equal(t, "agent1.db", c.DatabaseDSN)
	assert.Empty(t, c.SecretKey)
	assert.Equal(t, 24*time.Hour, c.TokenValidityDuration)
	assert.Equal(t, "http://127.0.0.1:11434", c.OllamaHost)
	assert.Equal(t, DefaultModel, c.DefaultModel)
	assert.Equal(t, []string{DefaultModel, "llama2", "mistral"}, c.FallbackModels)
	assert.Equal(t, "character_images", c.ImagesDir)
	assert.Equal(t, 10*time.Second, c.HealthCheckInterval)
	assert.Equal(t, "info", c.LogLevel)
	assert.False(t, c.UseS3())
}

func TestUseS3(t *testing.T) {
	c := Config{S3Bucket: "images"}
	assert.True(t, c.UseS3())
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	origDotEnv := dotEnvPath
	t.Cleanup(func() { dotEnvPath = origDotEnv })
	dotEnvPath = filepath.Join(t.TempDir(), "missing.env")

	t.Setenv("DEFAULT_MODEL", "")
	t.Setenv("OLLAMA_HOST", "")

	c := LoadConfig()
	require.NotNil(t, c, "LoadConfig must not return nil")

	assert.Equal(t, ":8501", c.HTTPAddr)
	assert.Equal(t, DefaultModel, c.DefaultModel)
	assert.Equal(t, "http://127.0.0.1:11434", c.OllamaHost)
	assert.Equal(t, 24*time.Hour, c.TokenValidityDuration)
}
