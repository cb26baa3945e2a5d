package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/angelofallars/rentbill/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{"HOST", "PORT", "LOG_LEVEL", "LOG_FORMAT", "CSRF_COOKIE_NAME", "STATIC_DIR"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	// no .env next to the tests, and the default file may be missing
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, uint(3000), cfg.Port)
	assert.Equal(t, "csrftoken", cfg.CSRFCookieName)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv does not override variables that are already set
	require.NoError(t, os.Unsetenv("PORT"))
	require.NoError(t, os.Unsetenv("LOG_FORMAT"))

	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte("PORT=8081\nLOG_FORMAT=json\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("PORT")
		os.Unsetenv("LOG_FORMAT")
	})

	cfg, err := config.Load(file)
	require.NoError(t, err)
	assert.Equal(t, uint(8081), cfg.Port)
	assert.Equal(t, "json", cfg.LogFormat)

	var buf bytes.Buffer
	cfg.Logger(&buf).Info("hello", "port", cfg.Port)
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"PORT", "eighty"},
		{"PORT", "70000"},
		{"LOG_LEVEL", "loud"},
		{"LOG_FORMAT", "xml"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	clearEnv(t)
	file := filepath.Join(t.TempDir(), "missing.env")

	_, err := config.Load(file)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), file)
}
