// Package output provides output formatting for loghive-cli.
//
// Commands build their results as Table values or plain structs and
// hand them to a Formatter:
//
//   - table: aligned columns for humans (default)
//   - json: indented JSON for scripting
//   - yaml: YAML for scripting
//
// The table formatter renders Table values directly and falls back to
// JSON for anything else, so every command works under every format.
package output
