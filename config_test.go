package applogging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logging.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "system", cfg.Output)
	assert.Equal(t, DefaultMaxFileSizeBytes, cfg.MaxFileSizeBytes)
	assert.False(t, cfg.Rolling)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := writeConfigFile(t, `
level: debug
output: system|file
file_dir: /var/log/app
file_name: app.txt
max_file_size_bytes: 1024
categories:
  net: true
  netTrace: true
`)
	t.Setenv("APPLOG_LEVEL", "warn")
	t.Setenv("APPLOG_CATEGORIES_netTrace", "false")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Level, "environment overrides the file")
	assert.Equal(t, "system|file", cfg.Output)
	assert.Equal(t, "/var/log/app", cfg.FileDir)
	assert.Equal(t, "app.txt", cfg.FileName)
	assert.Equal(t, uint32(1024), cfg.MaxFileSizeBytes)
	assert.Equal(t, map[string]bool{"net": true, "netTrace": false}, cfg.Categories)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), errMsgConfigLoad)
	})

	tests := []struct {
		name string
		body string
	}{
		{name: "unknown level", body: "level: loud\n"},
		{name: "unknown output", body: "output: printer\n"},
		{name: "negative skip", body: "skip_frame_count: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfigFile(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), errMsgConfigInvalid)
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "level", envKey("APPLOG_LEVEL"))
	assert.Equal(t, "file_dir", envKey("APPLOG_FILE_DIR"))
	assert.Equal(t, "categories.netTrace", envKey("APPLOG_CATEGORIES_netTrace"))
	assert.Equal(t, "categories_", envKey("APPLOG_CATEGORIES_"))
}

func TestValidateConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, validateConfig(&cfg))

	cfg.FileName = string(make([]byte, 256))
	err := validateConfig(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), errMsgConfigInvalid)
}
