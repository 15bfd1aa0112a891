package relay

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/btcsuite/btcutil/base58"

	"seedlink/internal/crypto"
)

// Header names carried by every signed request.
const (
	AuthorizationHeader   = "Authorization"
	DevicePublicKeyHeader = "X-Censo-Device-Public-Key"
	TimestampHeader       = "X-Censo-Timestamp"

	authorizationScheme = "signature "
)

// DataToSign builds the byte string a request signature covers:
//
//	method ‖ path ‖ ("?" ‖ query) ‖ Base64(body) ‖ timestamp
func DataToSign(method, path, query string, body []byte, timestamp string) []byte {
	var b bytes.Buffer
	b.WriteString(method)
	b.WriteString(path)
	if query != "" {
		b.WriteByte('?')
		b.WriteString(query)
	}
	b.WriteString(base64.StdEncoding.EncodeToString(body))
	b.WriteString(timestamp)
	return b.Bytes()
}

// FormatTimestamp renders t as the ISO-8601 text placed in TimestampHeader.
func FormatTimestamp(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

// ParseTimestamp parses a TimestampHeader value.
func ParseTimestamp(s string) (time.Time, error) { return time.Parse(time.RFC3339Nano, s) }

// AuthorizationValue renders a signature as an Authorization header value.
func AuthorizationValue(sig []byte) string {
	return authorizationScheme + base64.StdEncoding.EncodeToString(sig)
}

// ParseAuthorization extracts the signature from an Authorization header.
func ParseAuthorization(v string) ([]byte, error) {
	if len(v) <= len(authorizationScheme) || v[:len(authorizationScheme)] != authorizationScheme {
		return nil, fmt.Errorf("relay: unsupported authorization %q", v)
	}
	return base64.StdEncoding.DecodeString(v[len(authorizationScheme):])
}

// Signer is an http.RoundTripper that signs each request with Key before
// handing it to Base.
type Signer struct {
	Key  *crypto.KeyPair
	Base http.RoundTripper
	Now  func() time.Time
}

// RoundTrip implements http.RoundTripper.
func (s *Signer) RoundTrip(req *http.Request) (*http.Response, error) {
	body, err := drainBody(req)
	if err != nil {
		return nil, err
	}

	ts := FormatTimestamp(s.now())
	sig, err := s.Key.Sign(DataToSign(req.Method, req.URL.EscapedPath(), req.URL.RawQuery, body, ts))
	if err != nil {
		return nil, err
	}

	out := req.Clone(req.Context())
	if body != nil {
		out.Body = io.NopCloser(bytes.NewReader(body))
		out.GetBody = func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(body)), nil }
		out.ContentLength = int64(len(body))
	}
	out.Header.Set(AuthorizationHeader, AuthorizationValue(sig))
	out.Header.Set(DevicePublicKeyHeader, base58.Encode(s.Key.PublicXY()))
	out.Header.Set(TimestampHeader, ts)
	return s.base().RoundTrip(out)
}

func (s *Signer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Signer) base() http.RoundTripper {
	if s.Base != nil {
		return s.Base
	}
	return http.DefaultTransport
}

func drainBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	defer req.Body.Close()
	b, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("relay: read request body: %w", err)
	}
	return b, nil
}
