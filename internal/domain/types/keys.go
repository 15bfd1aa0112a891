package types

import (
	"crypto/ecdsa"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcutil/base58"

	"seedlink/internal/crypto"
)

// Base58PublicKey is a public key carried as Base58 text. Values built with
// NewBase58PublicKey or decoded from JSON always hold legal Base58.
type Base58PublicKey struct {
	value string
}

// NewBase58PublicKey validates s as Base58.
func NewBase58PublicKey(s string) (Base58PublicKey, error) {
	if s == "" || len(base58.Decode(s)) == 0 {
		return Base58PublicKey{}, fmt.Errorf("%w: %q", ErrInvalidBase58, s)
	}
	return Base58PublicKey{value: s}, nil
}

// Base58FromPublicKey encodes pub as an uncompressed point.
func Base58FromPublicKey(pub *ecdsa.PublicKey) Base58PublicKey {
	return Base58PublicKey{value: crypto.PublicKeyBase58(pub)}
}

// String returns the Base58 text.
func (k Base58PublicKey) String() string { return k.value }

// IsZero reports whether k holds no key.
func (k Base58PublicKey) IsZero() bool { return k.value == "" }

// PublicKey decodes the key as a P-256 point.
func (k Base58PublicKey) PublicKey() (*ecdsa.PublicKey, error) {
	return crypto.PublicKeyFromBase58(k.value)
}

// MarshalJSON encodes the key as a JSON string.
func (k Base58PublicKey) MarshalJSON() ([]byte, error) { return json.Marshal(k.value) }

// UnmarshalJSON validates the incoming text.
func (k *Base58PublicKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := NewBase58PublicKey(s)
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Base64Blob is an opaque byte buffer serialised as standard Base64.
type Base64Blob struct {
	value string
}

// EncodeBase64Blob wraps b.
func EncodeBase64Blob(b []byte) Base64Blob {
	return Base64Blob{value: base64.StdEncoding.EncodeToString(b)}
}

// ParseBase64Blob validates s as standard Base64.
func ParseBase64Blob(s string) (Base64Blob, error) {
	if _, err := base64.StdEncoding.DecodeString(s); err != nil {
		return Base64Blob{}, fmt.Errorf("%w: %v", ErrInvalidBase64, err)
	}
	return Base64Blob{value: s}, nil
}

// String returns the Base64 text.
func (b Base64Blob) String() string { return b.value }

// IsZero reports whether b holds no bytes.
func (b Base64Blob) IsZero() bool { return b.value == "" }

// Bytes returns the decoded buffer.
func (b Base64Blob) Bytes() []byte {
	out, _ := base64.StdEncoding.DecodeString(b.value)
	return out
}

// MarshalJSON encodes the blob as a JSON string.
func (b Base64Blob) MarshalJSON() ([]byte, error) { return json.Marshal(b.value) }

// UnmarshalJSON validates the incoming text.
func (b *Base64Blob) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseBase64Blob(s)
	if err != nil {
		return err
	}
	*b = v
	return nil
}
