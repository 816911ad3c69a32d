package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "salvo.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
target: http://localhost:9000
users: 10
ramp: 5s
iterations: 2
timeout: 10s
caching: false
resources:
  - name: home
    path: /
  - path: /etag
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000", cfg.Target)
	assert.Equal(t, 10, cfg.Users)
	assert.Equal(t, Duration(5*time.Second), cfg.Ramp)
	assert.Equal(t, 2, cfg.Iterations)
	assert.Equal(t, Duration(10*time.Second), cfg.Timeout)
	assert.False(t, cfg.CachingEnabled())
	require.Len(t, cfg.Resources, 2)
	assert.Equal(t, "home", cfg.Resources[0].Name)
	assert.Equal(t, "/etag", cfg.Resources[1].Name, "name defaults to path")
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
target: http://localhost:9000
resources:
  - path: /
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Users)
	assert.Equal(t, 1, cfg.Iterations)
	assert.Equal(t, Duration(30*time.Second), cfg.Timeout)
	assert.Equal(t, Duration(0), cfg.Ramp)
	assert.True(t, cfg.CachingEnabled(), "caching defaults to on")
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing target", "resources:\n  - path: /\n"},
		{"no resources", "target: http://localhost\n"},
		{"bad duration", "target: http://localhost\nramp: soon\nresources:\n  - path: /\n"},
		{"not yaml", "{{{{"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
