// Package crypto exposes the minimal primitives used by seedlink.
//
// Contents
//
//   - NIST P-256 key generation and public-key codecs: raw uncompressed
//     points, bare X‖Y coordinates, compressed points, hex and Base58
//     (GenerateKeyPair, ParsePublicKey, MarshalPublicKey, PublicKeyBase58)
//   - ECDSA over SHA-256 signing and verification, accepting both ASN.1 DER
//     and raw r‖s signatures (Sign, Verify)
//   - KDF2 counter-mode key derivation (KDF2)
//   - ECIES encryption to a P-256 public key: ephemeral ECDH, KDF2-SHA256,
//     AES-128-GCM with a 16-byte IV (Encrypt, Decrypt)
//   - Channel identifiers derived from public keys (ChannelID)
//   - Best-effort memory wiping for sensitive byte slices (Wipe)
//
// # Notes
//
// The curve is fixed. Curve parameters come from the standard library and
// are process-wide immutable values, so there is nothing to initialise.
package crypto
