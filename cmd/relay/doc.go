// Package main runs the in-memory development relay for seedlink pairing.
//
// It serves the wallet endpoints (GET import/{channel}, POST
// import/{channel}/encrypted), the owner endpoint (POST
// import/{channel}/accept) and /metrics. All state is held in memory and lost
// on exit; channels expire after session_ttl. The relay only ever sees
// public keys, signatures and ciphertext.
//
// Configuration uses the same keys as the CLI (SEEDLINK_LISTEN,
// SEEDLINK_API_VERSION, SEEDLINK_SESSION_TTL, SEEDLINK_LOG_LEVEL, ...) or a
// config file passed with -config. The default listen address is :8080.
package main
