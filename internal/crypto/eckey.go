package crypto

import (
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcutil/base58"
)

const (
	// CoordinateSize is the byte length of one P-256 field element.
	CoordinateSize = 32
	// PublicKeySize is the length of an uncompressed point: 0x04 ‖ X ‖ Y.
	PublicKeySize = 1 + 2*CoordinateSize
	// CompressedPublicKeySize is the length of a compressed point: 0x02/0x03 ‖ X.
	CompressedPublicKeySize = 1 + CoordinateSize

	uncompressedPrefix = 0x04
)

// ErrInvalidKeyEncoding is returned when bytes or text do not describe a
// point on P-256.
var ErrInvalidKeyEncoding = errors.New("crypto: invalid public key encoding")

// Curve returns the curve every key in this package lives on.
func Curve() elliptic.Curve { return elliptic.P256() }

// KeyPair is an ephemeral P-256 key pair.
type KeyPair struct {
	priv *ecdsa.PrivateKey
}

// GenerateKeyPair returns a fresh P-256 key pair.
func GenerateKeyPair() (*KeyPair, error) {
	priv, err := ecdsa.GenerateKey(Curve(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("crypto: generate key pair: %w", err)
	}
	return &KeyPair{priv: priv}, nil
}

// NewKeyPair wraps an existing private key.
func NewKeyPair(priv *ecdsa.PrivateKey) *KeyPair { return &KeyPair{priv: priv} }

// Private returns the private key.
func (k *KeyPair) Private() *ecdsa.PrivateKey { return k.priv }

// Public returns the public key.
func (k *KeyPair) Public() *ecdsa.PublicKey { return &k.priv.PublicKey }

// PublicRaw returns the 65-byte uncompressed public point.
func (k *KeyPair) PublicRaw() []byte { return MarshalPublicKey(k.Public()) }

// PublicXY returns the 64-byte X ‖ Y form of the public point.
func (k *KeyPair) PublicXY() []byte { return MarshalPublicKeyXY(k.Public()) }

// Sign signs data with ECDSA over SHA-256.
func (k *KeyPair) Sign(data []byte) ([]byte, error) { return Sign(k.priv, data) }

// MarshalPublicKey encodes pub as 0x04 ‖ X ‖ Y.
func MarshalPublicKey(pub *ecdsa.PublicKey) []byte {
	out := make([]byte, PublicKeySize)
	out[0] = uncompressedPrefix
	pub.X.FillBytes(out[1 : 1+CoordinateSize])
	pub.Y.FillBytes(out[1+CoordinateSize:])
	return out
}

// MarshalPublicKeyXY encodes pub as X ‖ Y without the point prefix.
func MarshalPublicKeyXY(pub *ecdsa.PublicKey) []byte {
	return MarshalPublicKey(pub)[1:]
}

// MarshalCompressed encodes pub as a 33-byte compressed point.
func MarshalCompressed(pub *ecdsa.PublicKey) []byte {
	return elliptic.MarshalCompressed(Curve(), pub.X, pub.Y)
}

// ParsePublicKey decodes a P-256 public key from any of the accepted byte
// forms:
//
//	65 bytes  0x04 ‖ X ‖ Y
//	64 bytes  X ‖ Y
//	33 bytes  0x02|0x03 ‖ X
//	32 bytes  X, even Y assumed
func ParsePublicKey(b []byte) (*ecdsa.PublicKey, error) {
	var uncompressed []byte
	switch {
	case len(b) == PublicKeySize && b[0] == uncompressedPrefix:
		uncompressed = b
	case len(b) == 2*CoordinateSize:
		uncompressed = append([]byte{uncompressedPrefix}, b...)
	case len(b) == CompressedPublicKeySize:
		x, y := elliptic.UnmarshalCompressed(Curve(), b)
		if x == nil {
			return nil, ErrInvalidKeyEncoding
		}
		return &ecdsa.PublicKey{Curve: Curve(), X: x, Y: y}, nil
	case len(b) == CoordinateSize:
		return ParsePublicKey(append([]byte{0x02}, b...))
	default:
		return nil, fmt.Errorf("%w: unexpected length %d", ErrInvalidKeyEncoding, len(b))
	}

	// crypto/ecdh rejects off-curve points and the point at infinity.
	if _, err := ecdh.P256().NewPublicKey(uncompressed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyEncoding, err)
	}
	return &ecdsa.PublicKey{
		Curve: Curve(),
		X:     new(big.Int).SetBytes(uncompressed[1 : 1+CoordinateSize]),
		Y:     new(big.Int).SetBytes(uncompressed[1+CoordinateSize:]),
	}, nil
}

// PublicKeyHex returns the uncompressed point as lowercase hex.
func PublicKeyHex(pub *ecdsa.PublicKey) string {
	return hex.EncodeToString(MarshalPublicKey(pub))
}

// PublicKeyFromHex decodes a hex encoded public key in any ParsePublicKey form.
func PublicKeyFromHex(s string) (*ecdsa.PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyEncoding, err)
	}
	return ParsePublicKey(b)
}

// PublicKeyBase58 returns the uncompressed point as Base58 text.
func PublicKeyBase58(pub *ecdsa.PublicKey) string {
	return base58.Encode(MarshalPublicKey(pub))
}

// PublicKeyFromBase58 decodes a Base58 encoded public key in any
// ParsePublicKey form.
func PublicKeyFromBase58(s string) (*ecdsa.PublicKey, error) {
	b := base58.Decode(s)
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: not base58", ErrInvalidKeyEncoding)
	}
	return ParsePublicKey(b)
}

// ecdhPublic converts pub for use with crypto/ecdh.
func ecdhPublic(pub *ecdsa.PublicKey) (*ecdh.PublicKey, error) {
	k, err := pub.ECDH()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyEncoding, err)
	}
	return k, nil
}
