// Package config provides configuration management for poster-downloader.
//
// This package handles:
//   - Loading and saving settings from JSON or YAML files
//   - Default configuration values
//   - Conversion to option structs for other packages
//
// # Default Settings
//
// Use DefaultSettings() to get the defaults:
//
//	settings := config.DefaultSettings()
//	// Reads MovieGenre.csv, writes posters to poster_images/
//	// 500 concurrent requests, 10 second connect/read timeouts
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.yaml")
//	if err != nil {
//	    // A missing file yields the defaults; other errors are returned
//	}
//
// Files ending in .yaml or .yml are parsed as YAML, everything else as JSON.
//
// # Saving Settings
//
//	settings.ConcurrencyLimit = 100
//	err := settings.Save("/path/to/config.json")
package config
