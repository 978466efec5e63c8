package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 58008, cfg.Host.Port)
	assert.Equal(t, 58008, cfg.Client.Port)
	assert.Equal(t, "tcp", cfg.Host.Transport)
	assert.Equal(t, "window", cfg.Client.Input)
	assert.Equal(t, "RemoteKeyboard", cfg.Client.WindowTitle)
	assert.True(t, cfg.History.Enabled)
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "nope", "config.toml"))
	require.NoError(t, err)
	require.NoError(t, m.Load())
	assert.Equal(t, *DefaultConfig(), m.Get())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[host]
port = 6000
transport = "ws"

[client]
input = "terminal"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	m, err := NewManager(path)
	require.NoError(t, err)
	require.NoError(t, m.Load())

	cfg := m.Get()
	assert.Equal(t, 6000, cfg.Host.Port)
	assert.Equal(t, "ws", cfg.Host.Transport)
	assert.Equal(t, "terminal", cfg.Client.Input)
	// untouched keys keep their defaults
	assert.Equal(t, "0.0.0.0", cfg.Host.Bind)
	assert.Equal(t, 58008, cfg.Client.Port)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"port":      "[host]\nport = 70000\n",
		"transport": "[client]\ntransport = \"udp\"\n",
		"input":     "[client]\ninput = \"mouse\"\n",
		"syntax":    "[host\n",
	}
	for name, data := range tests {
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte(data), 0644))

		m, err := NewManager(path)
		require.NoError(t, err)
		assert.Error(t, m.Load(), name)
		assert.Equal(t, *DefaultConfig(), m.Get(), name)
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	m, err := NewManager(path)
	require.NoError(t, err)

	cfg := m.Get()
	cfg.Host.Tray = true
	cfg.Client.WindowTitle = "Office PC"
	require.NoError(t, m.Set(cfg))
	require.NoError(t, m.Save())

	m2, err := NewManager(path)
	require.NoError(t, err)
	require.NoError(t, m2.Load())
	assert.True(t, m2.Get().Host.Tray)
	assert.Equal(t, "Office PC", m2.Get().Client.WindowTitle)
}

func TestSetValidates(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	cfg := m.Get()
	cfg.Host.Port = 0
	assert.Error(t, m.Set(cfg))
	assert.Equal(t, 58008, m.Get().Host.Port)
}

func TestHistoryPath(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "history.db"), m.HistoryPath())

	cfg := m.Get()
	cfg.History.Path = "/tmp/elsewhere.db"
	require.NoError(t, m.Set(cfg))
	assert.Equal(t, "/tmp/elsewhere.db", m.HistoryPath())
}

func TestDefaultPath(t *testing.T) {
	path, err := DefaultPath()
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "config.toml"), path)
	assert.Contains(t, path, "remotekb")
}

func TestEncode(t *testing.T) {
	data, err := Encode(DefaultConfig())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[host]")
	assert.Contains(t, string(data), "port = 58008")
}
