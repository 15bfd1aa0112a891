// Package link builds and parses the out-of-band pairing link the wallet
// hands to the owner application:
//
//	{scheme}://import/{version}/{Base58(channelXY)}/{epochMillis}/{b64url(signature)}/{b64url(appName)}
//
// The signature is the channel key's ECDSA signature over
// epochMillisText ‖ SHA-256(appName).
package link

import (
	"crypto/ecdsa"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/btcsuite/btcutil/base58"

	"seedlink/internal/crypto"
	"seedlink/internal/domain"
)

const importHost = "import"

var (
	// ErrMalformedLink is returned by Parse for text that is not a pairing link.
	ErrMalformedLink = errors.New("link: malformed pairing link")
	// ErrLinkSignature is returned by Verify when the link signature is invalid.
	ErrLinkSignature = errors.New("link: signature does not verify")
)

// Link is a decoded pairing link.
type Link struct {
	Scheme     string
	Version    string
	ChannelKey *ecdsa.PublicKey
	CreatedAt  time.Time // millisecond precision
	Signature  []byte
	AppName    string
}

// SignedData returns the bytes the channel key signs for a link created at
// millis by appName.
func SignedData(millis int64, appName string) []byte {
	data := []byte(strconv.FormatInt(millis, 10))
	return append(data, crypto.SHA256([]byte(appName))...)
}

// String renders the link.
func (l Link) String() string {
	return fmt.Sprintf("%s://%s/%s/%s/%d/%s/%s",
		l.Scheme,
		importHost,
		l.Version,
		base58.Encode(crypto.MarshalPublicKeyXY(l.ChannelKey)),
		l.CreatedAt.UnixMilli(),
		base64.URLEncoding.EncodeToString(l.Signature),
		base64.URLEncoding.EncodeToString([]byte(l.AppName)),
	)
}

// Channel returns the relay channel the link refers to.
func (l Link) Channel() domain.Channel {
	return domain.Channel(crypto.ChannelID(l.ChannelKeyXY()))
}

// ChannelKeyXY returns the X ‖ Y bytes the owner proof must sign.
func (l Link) ChannelKeyXY() []byte { return crypto.MarshalPublicKeyXY(l.ChannelKey) }

// Verify checks the link signature against the embedded channel key.
func (l Link) Verify() error {
	if !crypto.Verify(l.ChannelKey, SignedData(l.CreatedAt.UnixMilli(), l.AppName), l.Signature) {
		return ErrLinkSignature
	}
	return nil
}

// Parse decodes s. It does not verify the signature.
func Parse(s string) (Link, error) {
	scheme, rest, ok := strings.Cut(strings.TrimSpace(s), "://")
	if !ok || scheme == "" {
		return Link{}, fmt.Errorf("%w: missing scheme", ErrMalformedLink)
	}
	parts := strings.Split(rest, "/")
	if len(parts) != 6 || parts[0] != importHost {
		return Link{}, fmt.Errorf("%w: want 6 segments under %q", ErrMalformedLink, importHost)
	}

	key, err := crypto.PublicKeyFromBase58(parts[2])
	if err != nil {
		return Link{}, fmt.Errorf("%w: channel key: %v", ErrMalformedLink, err)
	}
	millis, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		return Link{}, fmt.Errorf("%w: timestamp: %v", ErrMalformedLink, err)
	}
	sig, err := base64.URLEncoding.DecodeString(parts[4])
	if err != nil {
		return Link{}, fmt.Errorf("%w: signature: %v", ErrMalformedLink, err)
	}
	name, err := base64.URLEncoding.DecodeString(parts[5])
	if err != nil {
		return Link{}, fmt.Errorf("%w: app name: %v", ErrMalformedLink, err)
	}

	return Link{
		Scheme:     scheme,
		Version:    parts[1],
		ChannelKey: key,
		CreatedAt:  time.UnixMilli(millis),
		Signature:  sig,
		AppName:    string(name),
	}, nil
}
