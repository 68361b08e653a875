// Package config loads a YAML chain-topology manifest: the event
// registry, the logging and engine runtime settings, and the chains and
// operator-backed elements to build at startup. Load reads the file,
// unmarshals it with yaml.v3 and runs Validate on the result.
package config
