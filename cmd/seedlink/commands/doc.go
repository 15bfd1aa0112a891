// Package commands defines the seedlink CLI.
//
// Commands
//
//   - import      Pair with an owner application and hand over a seed phrase
//   - accept      Act as the owner: accept a pairing link and receive the phrase
//   - device-key  Print the owner device public key
//   - version     Print the build version
//
// # Implementation
//
// The root command loads configuration (flags, SEEDLINK_* environment, an
// optional config file) and builds the dependency graph before any
// subcommand runs.
package commands
