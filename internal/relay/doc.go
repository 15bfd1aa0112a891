// Package relay provides the signed HTTP client used to talk to the import
// relay.
//
// The relay is an untrusted store-and-forward service between the wallet
// and the owner application. This package offers:
//   - A request signer (Signer) that authenticates every outbound call with
//     an ECDSA signature over method, path, query, body and timestamp.
//   - A concrete HTTP client (HTTP) for the import endpoints:
//     GET import/{channel}, POST import/{channel}/encrypted and the
//     owner-facing POST import/{channel}/accept.
//
// All requests are JSON over HTTP and accept a context for cancellation and
// deadlines. Non-2xx statuses are returned as *StatusError so callers can
// tell transient failures (418, 5xx) from fatal ones.
package relay
