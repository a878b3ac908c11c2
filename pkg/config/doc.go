// Package config loads featlink settings in layers: embedded defaults, an
// optional user file under the XDG config directory, featlink.toml in the
// working directory or an explicit --config file, then FEATLINK_ environment
// variables.
package config
