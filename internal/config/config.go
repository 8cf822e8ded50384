// Package config provides configuration management for tabsaver with Viper
// integration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// File permission constants
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Config is the complete host configuration.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database" toml:"database" json:"database"`
	Logging   LoggingConfig   `mapstructure:"logging" toml:"logging" json:"logging"`
	Bridge    BridgeConfig    `mapstructure:"bridge" toml:"bridge" json:"bridge"`
	Freeze    FreezeConfig    `mapstructure:"freeze" toml:"freeze" json:"freeze"`
	Bookmarks BookmarksConfig `mapstructure:"bookmarks" toml:"bookmarks" json:"bookmarks"`
}

// DatabaseConfig holds state database settings.
type DatabaseConfig struct {
	// Path to the SQLite file. Empty selects the XDG data directory.
	Path string `mapstructure:"path" toml:"path" json:"path"`
}

// LoggingConfig holds logging settings. Logs go to stderr; stdout belongs
// to the messaging channel.
type LoggingConfig struct {
	Level  string `mapstructure:"level" toml:"level" json:"level"`
	Format string `mapstructure:"format" toml:"format" json:"format"`
}

// BridgeConfig tunes the browser method-call client.
type BridgeConfig struct {
	CallTimeout time.Duration `mapstructure:"call_timeout" toml:"call_timeout" json:"call_timeout"`
}

// FreezeConfig tunes tab freezing and thawing.
type FreezeConfig struct {
	// PlaceholderURL overrides the extension-resolved placeholder page URL.
	// Normally empty; useful for testing against a fixed extension id.
	PlaceholderURL string `mapstructure:"placeholder_url" toml:"placeholder_url" json:"placeholder_url"`
	// SettleDelay is the pause between a thawed page finishing its load and
	// the scroll restore, giving late layout shifts time to settle.
	SettleDelay time.Duration `mapstructure:"settle_delay" toml:"settle_delay" json:"settle_delay"`
	// LoadTimeout caps how long a thaw waits for the page load event before
	// restoring scroll anyway.
	LoadTimeout time.Duration `mapstructure:"load_timeout" toml:"load_timeout" json:"load_timeout"`
}

// BookmarksConfig tunes archive folder handling.
type BookmarksConfig struct {
	// RootTitles are the folder titles accepted as the archive root, tried
	// in order during the tree search.
	RootTitles []string `mapstructure:"root_titles" toml:"root_titles" json:"root_titles"`
	// DefaultFolderLabel prefixes generated archive folder names.
	DefaultFolderLabel string `mapstructure:"default_folder_label" toml:"default_folder_label" json:"default_folder_label"`
}

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
}

// NewManager creates a new configuration manager.
func NewManager() (*Manager, error) {
	v := viper.New()

	v.SetConfigName("config")

	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}
	v.AddConfigPath(configDir)
	v.AddConfigPath(".") // Current directory for development

	v.SetEnvPrefix("TABSAVER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindings := map[string]string{
		"database.path":                  "DATABASE_PATH",
		"logging.level":                  "LOG_LEVEL",
		"logging.format":                 "LOG_FORMAT",
		"bridge.call_timeout":            "BRIDGE_CALL_TIMEOUT",
		"freeze.placeholder_url":         "FREEZE_PLACEHOLDER_URL",
		"freeze.settle_delay":            "FREEZE_SETTLE_DELAY",
		"freeze.load_timeout":            "FREEZE_LOAD_TIMEOUT",
		"bookmarks.default_folder_label": "BOOKMARKS_DEFAULT_FOLDER_LABEL",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, "TABSAVER_"+env); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable %s: %w", env, err)
		}
	}

	return &Manager{
		viper:     v,
		callbacks: make([]func(*Config), 0),
	}, nil
}

// Load reads the configuration from file and environment variables,
// creating a default config file on first run.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	m.setDefaults()

	if err := m.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			if err := m.createDefaultConfig(); err != nil {
				return fmt.Errorf("failed to create default config: %w", err)
			}
		} else {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return m.unmarshalLocked()
}

// unmarshalLocked decodes viper state into the config struct. Caller holds
// the write lock.
func (m *Manager) unmarshalLocked() error {
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Database.Path == "" {
		dbPath, err := GetDatabaseFile()
		if err != nil {
			return fmt.Errorf("failed to get database path: %w", err)
		}
		config.Database.Path = dbPath
	}

	if err := validateConfig(config); err != nil {
		return err
	}

	m.config = config
	return nil
}

// Get returns the current configuration (thread-safe).
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	configCopy := *m.config
	return &configCopy
}

// Watch starts watching the config file for changes and reloads
// automatically.
func (m *Manager) Watch() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.watching {
		return nil
	}

	m.viper.WatchConfig()
	m.viper.OnConfigChange(func(_ fsnotify.Event) {
		m.mu.Lock()
		err := m.reloadLocked()
		m.mu.Unlock()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to reload config: %v\n", err)
			return
		}

		m.mu.RLock()
		config := m.config
		callbacks := make([]func(*Config), len(m.callbacks))
		copy(callbacks, m.callbacks)
		m.mu.RUnlock()

		for _, callback := range callbacks {
			callback(config)
		}
	})

	m.watching = true
	return nil
}

// OnConfigChange registers a callback for configuration changes.
func (m *Manager) OnConfigChange(callback func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callbacks = append(m.callbacks, callback)
}

func (m *Manager) reloadLocked() error {
	if err := m.viper.ReadInConfig(); err != nil {
		return err
	}
	return m.unmarshalLocked()
}

// setDefaults sets default configuration values in Viper.
func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	m.viper.SetDefault("database.path", defaults.Database.Path)

	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)

	m.viper.SetDefault("bridge.call_timeout", defaults.Bridge.CallTimeout)

	m.viper.SetDefault("freeze.placeholder_url", defaults.Freeze.PlaceholderURL)
	m.viper.SetDefault("freeze.settle_delay", defaults.Freeze.SettleDelay)
	m.viper.SetDefault("freeze.load_timeout", defaults.Freeze.LoadTimeout)

	m.viper.SetDefault("bookmarks.root_titles", defaults.Bookmarks.RootTitles)
	m.viper.SetDefault("bookmarks.default_folder_label", defaults.Bookmarks.DefaultFolderLabel)
}

// createDefaultConfig writes the default configuration file and its JSON
// schema next to it.
func (m *Manager) createDefaultConfig() error {
	configFile, err := GetConfigFile()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configFile), dirPerm); err != nil {
		return err
	}

	configData, err := toml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}

	if err := os.WriteFile(configFile, configData, filePerm); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if err := GenerateSchemaFile(); err != nil {
		return err
	}
	return nil
}

// GetConfigFileUsed returns the path of the configuration file in use.
func (m *Manager) GetConfigFileUsed() string {
	return m.viper.ConfigFileUsed()
}

// Global configuration manager instance
var globalManager *Manager
var globalManagerOnce sync.Once

// Init initializes the global configuration manager.
func Init() error {
	var err error
	globalManagerOnce.Do(func() {
		globalManager, err = NewManager()
		if err != nil {
			return
		}
		err = globalManager.Load()
	})
	return err
}

// Get returns the global configuration.
func Get() *Config {
	if globalManager == nil {
		return DefaultConfig()
	}
	return globalManager.Get()
}

// Watch starts watching the global configuration for changes.
func Watch() error {
	if globalManager == nil {
		return fmt.Errorf("configuration not initialized")
	}
	return globalManager.Watch()
}

// OnConfigChange registers a callback for global configuration changes.
func OnConfigChange(callback func(*Config)) {
	if globalManager == nil {
		return
	}
	globalManager.OnConfigChange(callback)
}
