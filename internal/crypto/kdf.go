package crypto

import (
	"encoding/binary"
	"hash"
)

// KDF2 derives length bytes from secret as in ISO 18033-2 KDF2:
//
//	T_i = H(secret ‖ I2OSP(i, 4) ‖ otherInfo), i = 1, 2, ...
//
// and returns the first length bytes of T_1 ‖ T_2 ‖ ...
func KDF2(newHash func() hash.Hash, secret, otherInfo []byte, length int) []byte {
	h := newHash()
	out := make([]byte, 0, length+h.Size())
	var counter [4]byte
	for i := uint32(1); len(out) < length; i++ {
		h.Reset()
		h.Write(secret)
		binary.BigEndian.PutUint32(counter[:], i)
		h.Write(counter[:])
		h.Write(otherInfo)
		out = h.Sum(out)
	}
	return out[:length]
}
