// Package config loads, parses and validates the service configuration from
// environment variables (prefix ITEMS_), an optional YAML file and command-line
// flags, exposing it as a typed Config so other packages never read the
// environment directly.
package config
