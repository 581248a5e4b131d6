// Package config provides configuration management for spddl.
//
// This package handles:
//   - Default configuration values
//   - Loading and saving settings from YAML files
//   - Validation and conversion to the values other packages consume
//
// A Settings value is built once per run and passed explicitly to the
// resolver, HTTP client and download manager; nothing here is global.
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// 3 attempts, 2 seconds apart
//	// strict URL matching
//	// cover art embedded, tags written
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/spddl.yaml")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Saving Settings
//
//	settings.OutputDir = "/music"
//	err := settings.Save("/path/to/spddl.yaml")
package config
