package config

import "time"

// DefaultConfig returns the configuration used when no file or environment
// overrides are present.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "", // resolved to the XDG data directory at load time
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "auto",
		},
		Bridge: BridgeConfig{
			CallTimeout: 10 * time.Second,
		},
		Freeze: FreezeConfig{
			PlaceholderURL: "",
			SettleDelay:    500 * time.Millisecond,
			LoadTimeout:    30 * time.Second,
		},
		Bookmarks: BookmarksConfig{
			RootTitles:         []string{"Other Bookmarks", "Other bookmarks"},
			DefaultFolderLabel: "Tabs",
		},
	}
}
