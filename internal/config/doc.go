// Package config holds the application configuration. The GUI keeps it in Fyne
// preferences (Settings), the CLI reads an optional TOML file plus flags
// (Load). Both produce the same immutable Config value that is passed
// explicitly into every operation.
package config
