// Package config provides configuration management for remotekb.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/BurntSushi/toml"
)

// Config represents the application configuration
type Config struct {
	// Host contains settings for the machine being controlled
	Host HostConfig `toml:"host"`

	// Client contains settings for the machine doing the typing
	Client ClientConfig `toml:"client"`

	// History contains session history settings
	History HistoryConfig `toml:"history"`
}

// HostConfig contains host role settings
type HostConfig struct {
	// Bind is the address to listen on (default: all interfaces)
	Bind string `toml:"bind"`

	// Port is the port to listen on (default: 58008)
	Port int `toml:"port"`

	// Transport is "tcp" or "ws"
	Transport string `toml:"transport"`

	// Tray shows a system tray icon while hosting
	Tray bool `toml:"tray"`

	// FirewallRule makes sure an inbound rule exists for Port (Windows only)
	FirewallRule bool `toml:"firewall_rule"`
}

// ClientConfig contains client role settings
type ClientConfig struct {
	// Port is the port to connect to (default: 58008)
	Port int `toml:"port"`

	// Transport is "tcp" or "ws"; must match the host
	Transport string `toml:"transport"`

	// Input selects the capture source: "window" or "terminal"
	Input string `toml:"input"`

	// WindowTitle is the title of the capture window
	WindowTitle string `toml:"window_title"`
}

// HistoryConfig controls the session history database
type HistoryConfig struct {
	// Enabled records one row per finished session
	Enabled bool `toml:"enabled"`

	// Path is the database file; empty means history.db next to the config
	Path string `toml:"path"`
}

// DefaultConfig returns a new Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Host: HostConfig{
			Bind:         "0.0.0.0",
			Port:         58008,
			Transport:    "tcp",
			Tray:         false,
			FirewallRule: true,
		},
		Client: ClientConfig{
			Port:        58008,
			Transport:   "tcp",
			Input:       "window",
			WindowTitle: "RemoteKeyboard",
		},
		History: HistoryConfig{
			Enabled: true,
		},
	}
}

// Validate checks value ranges and enumerations
func (c *Config) Validate() error {
	if err := validPort(c.Host.Port); err != nil {
		return fmt.Errorf("host.port: %w", err)
	}
	if err := validPort(c.Client.Port); err != nil {
		return fmt.Errorf("client.port: %w", err)
	}
	if err := validTransport(c.Host.Transport); err != nil {
		return fmt.Errorf("host.transport: %w", err)
	}
	if err := validTransport(c.Client.Transport); err != nil {
		return fmt.Errorf("client.transport: %w", err)
	}
	switch c.Client.Input {
	case "window", "terminal":
	default:
		return fmt.Errorf("client.input: unknown input %q (want window or terminal)", c.Client.Input)
	}
	return nil
}

func validPort(p int) error {
	if p < 1 || p > 65535 {
		return fmt.Errorf("port %d out of range 1-65535", p)
	}
	return nil
}

func validTransport(t string) error {
	switch t {
	case "tcp", "ws":
		return nil
	}
	return fmt.Errorf("unknown transport %q (want tcp or ws)", t)
}

// Manager handles loading and saving configuration
type Manager struct {
	mu         sync.Mutex
	configPath string
	config     *Config
}

// NewManager creates a configuration manager for path. An empty path selects
// the per-user default location.
func NewManager(path string) (*Manager, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	return &Manager{
		configPath: path,
		config:     DefaultConfig(),
	}, nil
}

// Dir returns the per-user configuration directory
func Dir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, "Library", "Application Support", "remotekb")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		configDir = filepath.Join(appData, "remotekb")
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".config", "remotekb")
	}
	return configDir, nil
}

// DefaultPath returns the default path of the configuration file
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Path returns the file this manager reads and writes
func (m *Manager) Path() string {
	return m.configPath
}

// Load reads the configuration from disk. A missing file leaves the defaults.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(m.configPath, cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", m.configPath, err)
	}
	m.config = cfg
	return nil
}

// Save writes the configuration to disk
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := Encode(m.config)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(m.configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	log.Printf("Config: Saving configuration to %s (%d bytes)", m.configPath, len(data))
	return os.WriteFile(m.configPath, data, 0644)
}

// Get returns a copy of the current configuration
func (m *Manager) Get() Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.config
}

// Set replaces the configuration after validating it
func (m *Manager) Set(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	m.config = &cfg
	m.mu.Unlock()
	return nil
}

// HistoryPath returns the history database location
func (m *Manager) HistoryPath() string {
	cfg := m.Get()
	if cfg.History.Path != "" {
		return cfg.History.Path
	}
	return filepath.Join(filepath.Dir(m.configPath), "history.db")
}

// Encode renders cfg as TOML
func Encode(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
