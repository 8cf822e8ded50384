package config

import (
	"fmt"
	"strings"
)

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true,
	"warn": true, "error": true, "fatal": true, "panic": true,
}

var validLogFormats = map[string]bool{
	"auto": true, "console": true, "json": true,
}

// validateConfig checks configuration values and reports every problem at
// once rather than failing on the first.
func validateConfig(config *Config) error {
	var validationErrors []string

	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		validationErrors = append(validationErrors,
			fmt.Sprintf("logging.level must be one of: trace, debug, info, warn, error, fatal, panic (got: %s)", config.Logging.Level))
	}
	if !validLogFormats[strings.ToLower(config.Logging.Format)] {
		validationErrors = append(validationErrors,
			fmt.Sprintf("logging.format must be one of: auto, console, json (got: %s)", config.Logging.Format))
	}

	if config.Bridge.CallTimeout <= 0 {
		validationErrors = append(validationErrors, "bridge.call_timeout must be positive")
	}

	if config.Freeze.SettleDelay < 0 {
		validationErrors = append(validationErrors, "freeze.settle_delay must be non-negative")
	}
	if config.Freeze.LoadTimeout <= 0 {
		validationErrors = append(validationErrors, "freeze.load_timeout must be positive")
	}
	if config.Freeze.PlaceholderURL != "" && !strings.Contains(config.Freeze.PlaceholderURL, "://") {
		validationErrors = append(validationErrors, "freeze.placeholder_url must be an absolute URL")
	}

	if len(config.Bookmarks.RootTitles) == 0 {
		validationErrors = append(validationErrors, "bookmarks.root_titles cannot be empty")
	}
	for _, title := range config.Bookmarks.RootTitles {
		if strings.TrimSpace(title) == "" {
			validationErrors = append(validationErrors, "bookmarks.root_titles entries cannot be blank")
			break
		}
	}

	if len(validationErrors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}
	return nil
}
