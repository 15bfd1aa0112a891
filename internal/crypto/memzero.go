package crypto

import "runtime"

// Wipe zeroes key material such as ECDH secrets and KDF output once it is
// no longer needed.
//
//go:noinline
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(&b)
}
