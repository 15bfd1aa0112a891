package crypto

import "crypto/sha256"

// ChannelID names a pairing channel on the relay: padded URL-safe base64 of
// SHA-256 over the channel key's X ‖ Y bytes.
func ChannelID(publicXY []byte) string {
	sum := sha256.Sum256(publicXY)
	return B64URL(sum[:])
}

// SHA256 returns the SHA-256 digest of b as a slice.
func SHA256(b []byte) []byte {
	sum := sha256.Sum256(b)
	return sum[:]
}
