// Package config handles loading and validation of configuration from YAML
// files and environment variables. It defines the listening address, the
// companion service the pinger keeps awake, the ping cadence and the log level.
// Defaults reproduce the fixed behaviour when nothing is configured.
package config
