// Package store holds relay and owner state.
//
// It contains:
//   - ChannelMemoryStore, the relay's in-memory channel table with TTL
//   - DeviceKeyFileStore, the owner device key sealed on disk under a
//     passphrase (scrypt + ChaCha20-Poly1305)
package store
