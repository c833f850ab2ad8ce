// Package config loads, normalizes, and validates relcheck configuration.
//
// Settings come from a TOML file: an explicit --config path, a project-local
// .relcheck.toml, or the user file under $XDG_CONFIG_HOME/relcheck. Missing files
// are not an error; defaults cover every key. Command-line options are applied on
// top by the caller.
package config
