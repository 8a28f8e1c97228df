// Package command provides CLI command definitions for loghive-cli.
//
// It uses urfave/cli/v2 for command parsing. Two kinds of commands
// exist:
//
//   - local: mine and snapshot run the mining engine in-process, with
//     no server involved
//   - remote: clusters and status query a running loghive-server over
//     its HTTP API
//
// All commands respect the global --output flag (table, json, yaml).
package command
