package store

import "errors"

var (
	// ErrNotFound is returned for channels that were never read by a wallet.
	ErrNotFound = errors.New("store: channel not found")
	// ErrExpired is returned for channels older than the store TTL.
	ErrExpired = errors.New("store: channel expired")
	// ErrForbidden is returned when another wallet auth key owns the channel.
	ErrForbidden = errors.New("store: channel bound to another key")
	// ErrConflict is returned for state transitions the channel cannot make.
	ErrConflict = errors.New("store: invalid state transition")
	// ErrWrongPassphrase is returned when a sealed key does not open.
	ErrWrongPassphrase = errors.New("store: wrong passphrase or corrupted key file")
)
