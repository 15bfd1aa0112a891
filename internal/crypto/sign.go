package crypto

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// RawSignatureSize is the length of an r ‖ s signature on P-256.
const RawSignatureSize = 2 * CoordinateSize

// ErrInvalidSignature is returned when a signature cannot be decoded.
var ErrInvalidSignature = errors.New("crypto: invalid signature encoding")

// Sign returns an ASN.1 DER ECDSA signature over SHA-256(data).
func Sign(priv *ecdsa.PrivateKey, data []byte) ([]byte, error) {
	digest := sha256.Sum256(data)
	sig, err := ecdsa.SignASN1(rand.Reader, priv, digest[:])
	if err != nil {
		return nil, fmt.Errorf("crypto: sign: %w", err)
	}
	return sig, nil
}

// Verify reports whether sig is a valid ECDSA signature over SHA-256(data)
// by pub. Both DER and raw r ‖ s encodings are accepted.
func Verify(pub *ecdsa.PublicKey, data, sig []byte) bool {
	if pub == nil {
		return false
	}
	if len(sig) == RawSignatureSize {
		der, err := RawToDER(sig)
		if err != nil {
			return false
		}
		sig = der
	}
	digest := sha256.Sum256(data)
	return ecdsa.VerifyASN1(pub, digest[:], sig)
}

// RawToDER converts an r ‖ s signature into ASN.1 DER.
func RawToDER(raw []byte) ([]byte, error) {
	if len(raw) != RawSignatureSize {
		return nil, fmt.Errorf("%w: raw length %d", ErrInvalidSignature, len(raw))
	}
	r := new(big.Int).SetBytes(raw[:CoordinateSize])
	s := new(big.Int).SetBytes(raw[CoordinateSize:])

	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1BigInt(r)
		b.AddASN1BigInt(s)
	})
	return b.Bytes()
}

// DERToRaw converts an ASN.1 DER signature into fixed-width r ‖ s.
func DERToRaw(der []byte) ([]byte, error) {
	var (
		r, s  = new(big.Int), new(big.Int)
		inner cryptobyte.String
	)
	input := cryptobyte.String(der)
	if !input.ReadASN1(&inner, cbasn1.SEQUENCE) ||
		!input.Empty() ||
		!inner.ReadASN1Integer(r) ||
		!inner.ReadASN1Integer(s) ||
		!inner.Empty() {
		return nil, ErrInvalidSignature
	}
	if r.Sign() <= 0 || s.Sign() <= 0 || r.BitLen() > 8*CoordinateSize || s.BitLen() > 8*CoordinateSize {
		return nil, ErrInvalidSignature
	}
	out := make([]byte, RawSignatureSize)
	r.FillBytes(out[:CoordinateSize])
	s.FillBytes(out[CoordinateSize:])
	return out, nil
}
