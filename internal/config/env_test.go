package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withDotEnv(t *testing.T, content string) {
	t.Helper()
	orig := dotEnvPath
	t.Cleanup(func() { dotEnvPath = orig })

	dotEnvPath = filepath.Join(t.TempDir(), ".env")
	if content != "" {
		require.NoError(t, os.WriteFile(dotEnvPath, []byte(content), 0o600))
	}
}

func TestParseEnv_ProcessVariables(t *testing.T) {
	withDotEnv(t, "")

	t.Setenv("DEFAULT_MODEL", "mistral")
	t.Setenv("OLLAMA_HOST", "http://ollama:11434")
	t.Setenv("AGENTCHAT_DATABASE_DSN", "postgres://u:p@db:5432/chat")
	t.Setenv("AGENTCHAT_LOG_LEVEL", "  debug ")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, "mistral", c.DefaultModel)
	assert.Equal(t, "http://ollama:11434", c.OllamaHost)
	assert.Equal(t, "postgres://u:p@db:5432/chat", c.DatabaseDSN)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, ":8501", c.HTTPAddr)
}

func TestParseEnv_BlankValueKeepsDefault(t *testing.T) {
	withDotEnv(t, "")
	t.Setenv("DEFAULT_MODEL", "   ")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, DefaultModel, c.DefaultModel)
}

func TestParseEnv_DotEnvFile(t *testing.T) {
	const key = "AGENTCHAT_IMAGES_DIR"
	_, had := os.LookupEnv(key)
	require.False(t, had, "test expects %s to be unset", key)
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	withDotEnv(t, key+"=/srv/images\n")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, "/srv/images", c.ImagesDir)
}

func TestParseEnv_ProcessWinsOverDotEnv(t *testing.T) {
	withDotEnv(t, "AGENTCHAT_HTTP_ADDR=:9000\n")
	t.Setenv("AGENTCHAT_HTTP_ADDR", ":7000")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, ":7000", c.HTTPAddr)
}

func TestParseEnv_MalformedDotEnvPanics(t *testing.T) {
	withDotEnv(t, "AGENTCHAT_BROKEN=\"unterminated\n")

	var c Config
	assert.Panics(t, func() { parseEnv(&c) })
}
