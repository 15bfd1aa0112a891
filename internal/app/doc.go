// Package app wires application dependencies for the binaries.
//
// LoadConfig reads settings from defaults, an optional config file, the
// environment (SEEDLINK_*) and bound command-line flags. NewWire turns a
// Config into the logger, HTTP client, sessions, owner service and relay
// server that commands use.
package app
