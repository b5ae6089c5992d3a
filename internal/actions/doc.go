// Package actions provides high-level business logic for CLI commands.
//
// Each action corresponds to a graft command (port, chain, runs) and
// orchestrates operations across the engine, git, journal, and tui packages.
//
// Key patterns:
//   - Actions accept runtime.Context which provides Engine, Splog, and other dependencies
//   - Actions are stateless - per-repository state lives in the journal and config files
//   - Actions handle user interaction through the tui package
package actions
