package relay

import (
	"net/http"
	"time"

	"seedlink/internal/crypto"
)

// DefaultTimeout bounds a single relay call.
const DefaultTimeout = 180 * time.Second

// New returns an HTTP client whose every request is signed with key.
// base is the versioned API root. If client is nil a client with
// DefaultTimeout is used; otherwise its transport is wrapped.
func New(base string, key *crypto.KeyPair, client *http.Client) *HTTP {
	signed := &http.Client{Timeout: DefaultTimeout}
	if client != nil {
		*signed = *client
	}
	signed.Transport = &Signer{Key: key, Base: signed.Transport}
	return NewHTTP(base, signed)
}

// BaseURL joins an API URL and version into the root used by New.
func BaseURL(apiURL, apiVersion string) string {
	for len(apiURL) > 0 && apiURL[len(apiURL)-1] == '/' {
		apiURL = apiURL[:len(apiURL)-1]
	}
	return apiURL + "/" + apiVersion + "/"
}
