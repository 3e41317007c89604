// Package config handles configuration loading and management for checkers.
//
// It provides functionality for:
//   - Loading configuration from .checkers.yaml, .checkers.yml or
//     .checkers.json files (JSON is read as YAML)
//   - Default configuration values
//   - Merging command line overrides on top of file settings
package config
