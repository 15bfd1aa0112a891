// Package session drives one wallet-side pairing attempt.
//
// A Session owns two ephemeral P-256 key pairs: the channel key, whose hashed
// public point names the channel on the relay and is embedded in the pairing
// link, and the auth key, which signs every relay request. Connect returns
// the pairing link and starts a background poller; once the owner's proof
// verifies, Phrase encrypts the seed phrase to the owner device key and
// submits it once. Cancel, expiry, a failed proof or a fatal relay status
// end the session with failure.
//
// Each session is single-use and keeps nothing beyond process lifetime.
package session
