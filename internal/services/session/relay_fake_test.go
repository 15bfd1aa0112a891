package session_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seedlink/internal/crypto"
	"seedlink/internal/domain"
	"seedlink/internal/relay"
)

type reply struct {
	status int
	body   string
}

type recorded struct {
	method string
	path   string
	body   []byte
}

// fakeRelay serves scripted GET replies (Initial once the script runs out)
// and a fixed reply for POSTs, recording every request it sees.
type fakeRelay struct {
	t *testing.T

	mu       sync.Mutex
	gets     []reply
	post     reply
	block    chan struct{}
	requests []recorded
}

func newFakeRelay(t *testing.T, gets ...reply) (*fakeRelay, *httptest.Server) {
	f := &fakeRelay{t: t, gets: gets, post: reply{status: http.StatusOK}}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeRelay) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	sig, err := relay.ParseAuthorization(r.Header.Get(relay.AuthorizationHeader))
	assert.NoError(f.t, err)
	key, err := crypto.PublicKeyFromBase58(r.Header.Get(relay.DevicePublicKeyHeader))
	if assert.NoError(f.t, err) {
		data := relay.DataToSign(r.Method, r.URL.EscapedPath(), r.URL.RawQuery, body, r.Header.Get(relay.TimestampHeader))
		assert.True(f.t, crypto.Verify(key, data, sig), "request signature")
	}

	f.mu.Lock()
	f.requests = append(f.requests, recorded{r.Method, r.URL.EscapedPath(), body})
	block := f.block
	var rep reply
	switch {
	case r.Method == http.MethodPost:
		rep = f.post
	case len(f.gets) > 0:
		rep = f.gets[0]
		f.gets = f.gets[1:]
	default:
		rep = initialReply()
	}
	f.mu.Unlock()

	if block != nil && r.Method == http.MethodGet {
		select {
		case <-block:
		case <-r.Context().Done():
			return
		}
	}
	w.WriteHeader(rep.status)
	_, _ = io.WriteString(w, rep.body)
}

func (f *fakeRelay) snapshot() []recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recorded(nil), f.requests...)
}

func (f *fakeRelay) count(method string) int {
	n := 0
	for _, r := range f.snapshot() {
		if r.method == method {
			n++
		}
	}
	return n
}

func initialReply() reply {
	return reply{status: http.StatusOK, body: `{"importState":{"type":"Initial"}}`}
}

func statusReply(code int) reply { return reply{status: code} }

// acceptedReply returns an Accepted state whose proof is owner's signature
// over signed.
func acceptedReply(t *testing.T, owner *crypto.KeyPair, signed []byte) reply {
	t.Helper()
	body, err := json.Marshal(domain.GetImportDataResponse{ImportState: acceptedState(t, owner, signed)})
	require.NoError(t, err)
	return reply{status: http.StatusOK, body: string(body)}
}

// outcomes records onFinished invocations.
type outcomes struct {
	mu    sync.Mutex
	calls []bool
}

func (o *outcomes) record(ok bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, ok)
}

func (o *outcomes) get() []bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]bool(nil), o.calls...)
}

func importPath(channel domain.Channel) string { return "/v1/import/" + channel.String() }

func requirePaths(t *testing.T, f *fakeRelay, want ...string) {
	t.Helper()
	var got []string
	for _, r := range f.snapshot() {
		got = append(got, r.method+" "+r.path)
	}
	require.Equal(t, want, got, strings.Join(got, "\n"))
}

// heldRelay answers every GET with an accepted state and holds each POST
// until release delivers its result.
type heldRelay struct {
	state   domain.ImportState
	posted  chan struct{}
	release chan error
}

func newHeldRelay(state domain.ImportState) *heldRelay {
	return &heldRelay{state: state, posted: make(chan struct{}, 1), release: make(chan error, 1)}
}

func (r *heldRelay) GetImportState(context.Context, domain.Channel) (domain.ImportState, error) {
	return r.state, nil
}

func (r *heldRelay) SetImportEncryptedData(ctx context.Context, _ domain.Channel, _ domain.Base64Blob) error {
	r.posted <- struct{}{}
	select {
	case err := <-r.release:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func acceptedState(t *testing.T, owner *crypto.KeyPair, signed []byte) domain.AcceptedState {
	t.Helper()
	proof, err := owner.Sign(signed)
	require.NoError(t, err)
	return domain.AcceptedState{
		OwnerDeviceKey: domain.Base58FromPublicKey(owner.Public()),
		OwnerProof:     domain.EncodeBase64Blob(proof),
		AcceptedAt:     time.Now().UTC(),
	}
}
