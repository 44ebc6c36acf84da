// Package config loads the pillbox configuration from
// ~/.config/pillbox/config.toml. A missing file is not an error: every field
// has a sensible default so the client starts against a local server with no
// setup at all.
package config
