// Package config defines the loghive server configuration.
//
//   - spec.go: ServerConfig struct definition
//   - default.go: default values
//   - verify.go: validation (ranges, backend selection, key format)
//   - sanitize.go: masking of secrets for logging
//   - bridge.go: translation into miner/masking/codec values
//
// Configuration is loaded via internal/infra/confloader from defaults,
// a YAML file, environment variables and CLI overrides.
package config
