package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "directory.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, SourceFile, cfg.Source.Kind)
	assert.Equal(t, "companies.json", cfg.Source.Path)
	assert.Equal(t, 300*time.Millisecond, cfg.Client.Debounce)
	assert.Equal(t, 5, cfg.Client.PageSize)
	assert.False(t, cfg.Kafka.Enabled)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
  rate_limit: 5
source:
  kind: postgres
database:
  url: postgres://example/db
client:
  debounce: 150ms
  page_size: 10
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 5.0, cfg.Server.RateLimit)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout) // default kept
	assert.Equal(t, SourcePostgres, cfg.Source.Kind)
	assert.Equal(t, "postgres://example/db", cfg.Database.URL)
	assert.Equal(t, 150*time.Millisecond, cfg.Client.Debounce)
	assert.Equal(t, 10, cfg.Client.PageSize)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  addr: \":9090\"\n")
	t.Setenv("SERVER_ADDR", ":7070")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("DIRECTORY_URL", "http://example/companies.json")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "http://example/companies.json", cfg.Client.URL)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "invalid yaml",
			content: "server: [",
			wantErr: "parsing config",
		},
		{
			name:    "unknown source kind",
			content: "source:\n  kind: s3\n",
			wantErr: "invalid source kind: s3",
		},
		{
			name:    "file source without path",
			content: "source:\n  path: \"\"\n",
			wantErr: "source.path is required",
		},
		{
			name:    "bad kafka flag",
			env:     map[string]string{"KAFKA_ENABLED": "maybe"},
			wantErr: "KAFKA_ENABLED",
		},
		{
			name:    "negative rate limit",
			content: "server:\n  rate_limit: -1\n",
			wantErr: "rate_limit cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := writeConfig(t, tt.content)

			_, err := Load(path)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}
