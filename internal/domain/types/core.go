package types

import "errors"

var (
	// ErrInvalidBase58 is returned when text is not legal Base58.
	ErrInvalidBase58 = errors.New("invalid device public key format")
	// ErrInvalidBase64 is returned when text is not legal standard Base64.
	ErrInvalidBase64 = errors.New("invalid encrypted data format")
	// ErrUnknownLanguage is returned for a word list id outside 1..10.
	ErrUnknownLanguage = errors.New("unknown wordlist language id")
	// ErrUnknownImportState is returned for an unrecognised import state type.
	ErrUnknownImportState = errors.New("unknown import state")
)

// Channel identifies a pairing channel on the relay.
type Channel string

// String returns the string form of the channel.
func (c Channel) String() string { return string(c) }
