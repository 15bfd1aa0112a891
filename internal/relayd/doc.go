// Package relayd is an in-memory relay for development and tests.
//
// HTTP API (every import route requires the signed request headers)
//
//	GET  /{version}/import/{channel}
//	    Return {"importState": ...}. The first auth key to read a channel
//	    owns it; the accepted owner device key may read it too.
//
//	POST /{version}/import/{channel}/accept {ownerDeviceKey, ownerProof}
//	    Owner device claims an Initial channel. The signing key must be the
//	    ownerDeviceKey in the body.
//
//	POST /{version}/import/{channel}/encrypted {encryptedData}
//	    Wallet delivers the sealed phrase to an Accepted channel.
//
//	GET  /metrics
//	    Prometheus metrics.
//
// Status codes: 401 bad or stale signature, 403 channel owned by another
// key, 409 wrong state, 410 channel expired, 418 polling too fast.
package relayd
