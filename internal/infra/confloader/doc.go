// Package confloader loads configuration from layered sources using
// koanf.
//
// Sources, lowest to highest priority:
//
//  1. Default values (a map registered by the caller)
//  2. Configuration file (YAML)
//  3. Environment variables (LOGHIVE_ prefix)
//  4. CLI overrides (a map, typically built from flags)
//
// A later source overrides any key it shares with an earlier one. The
// package also ships a small fsnotify-based watcher so a running server
// can react to config file edits, e.g. adjusting the log level without a
// restart.
package confloader
