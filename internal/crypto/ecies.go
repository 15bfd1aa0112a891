package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
)

const (
	// TagSize is the AES-GCM authentication tag length appended to the body.
	TagSize = 16

	kdfBytes   = 32
	aesKeySize = 16
	ivSize     = 16
)

var (
	// ErrMalformedCiphertext is returned when a blob is too short to hold the
	// ephemeral public key, or that key is not a valid point.
	ErrMalformedCiphertext = errors.New("ecies: malformed ciphertext")

	// ErrAuthenticationFailure is returned when the AEAD tag does not verify.
	ErrAuthenticationFailure = errors.New("ecies: authentication failure")
)

// Encrypt encrypts plaintext to the recipient public key given in any
// ParsePublicKey form.
//
// Output layout: ephemeralPublicKey(65) ‖ AES-128-GCM(plaintext) ‖ tag(16).
// Key and IV are the two halves of KDF2-SHA256(ECDH, ephemeralPublicKey).
func Encrypt(plaintext, recipientRaw []byte) ([]byte, error) {
	recipient, err := ParsePublicKey(recipientRaw)
	if err != nil {
		return nil, err
	}
	remote, err := ecdhPublic(recipient)
	if err != nil {
		return nil, err
	}

	ephemeral, err := ecdh.P256().GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("ecies: generate ephemeral key: %w", err)
	}
	shared, err := ephemeral.ECDH(remote)
	if err != nil {
		return nil, fmt.Errorf("ecies: key agreement: %w", err)
	}
	defer Wipe(shared)

	ephemeralPub := ephemeral.PublicKey().Bytes()
	aead, iv, err := newAEAD(shared, ephemeralPub)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, PublicKeySize+len(plaintext)+TagSize)
	out = append(out, ephemeralPub...)
	return aead.Seal(out, iv, plaintext, nil), nil
}

// Decrypt reverses Encrypt using the recipient private key.
func Decrypt(blob []byte, priv *ecdsa.PrivateKey) ([]byte, error) {
	if len(blob) < PublicKeySize {
		return nil, fmt.Errorf("%w: %d bytes", ErrMalformedCiphertext, len(blob))
	}
	ephemeralPub := blob[:PublicKeySize]
	remote, err := ecdh.P256().NewPublicKey(ephemeralPub)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCiphertext, err)
	}
	local, err := priv.ECDH()
	if err != nil {
		return nil, fmt.Errorf("ecies: private key: %w", err)
	}
	shared, err := local.ECDH(remote)
	if err != nil {
		return nil, fmt.Errorf("ecies: key agreement: %w", err)
	}
	defer Wipe(shared)

	aead, iv, err := newAEAD(shared, ephemeralPub)
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, iv, blob[PublicKeySize:], nil)
	if err != nil {
		return nil, ErrAuthenticationFailure
	}
	if plaintext == nil {
		plaintext = []byte{}
	}
	return plaintext, nil
}

func newAEAD(shared, ephemeralPub []byte) (cipher.AEAD, []byte, error) {
	derived := KDF2(sha256.New, shared, ephemeralPub, kdfBytes)
	defer Wipe(derived)

	block, err := aes.NewCipher(derived[:aesKeySize])
	if err != nil {
		return nil, nil, fmt.Errorf("ecies: cipher: %w", err)
	}
	aead, err := cipher.NewGCMWithNonceSize(block, ivSize)
	if err != nil {
		return nil, nil, fmt.Errorf("ecies: gcm: %w", err)
	}
	iv := make([]byte, ivSize)
	copy(iv, derived[aesKeySize:])
	return aead, iv, nil
}
