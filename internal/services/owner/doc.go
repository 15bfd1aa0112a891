// Package owner is the owner application's side of a pairing.
//
// It verifies a pairing link, proves possession of the owner device key by
// signing the channel key, and waits for the wallet's encrypted phrase.
package owner
