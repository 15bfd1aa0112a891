package relay_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/btcsuite/btcutil/base58"
	"github.com/stretchr/testify/require"

	"seedlink/internal/crypto"
	"seedlink/internal/domain"
	"seedlink/internal/relay"
)

func TestDataToSign_Layout(t *testing.T) {
	body := []byte(`{"a":1}`)
	got := relay.DataToSign("POST", "/v1/import/abc", "x=1", body, "2024-01-01T00:00:00Z")
	want := "POST/v1/import/abc?x=1" + base64.StdEncoding.EncodeToString(body) + "2024-01-01T00:00:00Z"
	require.Equal(t, want, string(got))

	require.Equal(t, "GET/p2024", string(relay.DataToSign("GET", "/p", "", nil, "2024")))
}

type seenRequest struct {
	method, path, query string
	body                []byte
	header              http.Header
}

func recordingServer(t *testing.T, status int, respBody string) (*httptest.Server, chan seenRequest) {
	t.Helper()
	seen := make(chan seenRequest, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		seen <- seenRequest{r.Method, r.URL.EscapedPath(), r.URL.RawQuery, b, r.Header.Clone()}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, respBody)
	}))
	t.Cleanup(srv.Close)
	return srv, seen
}

func verifySeen(t *testing.T, req seenRequest, key *crypto.KeyPair) {
	t.Helper()
	header := req.header.Get(relay.DevicePublicKeyHeader)
	require.Len(t, base58.Decode(header), 2*crypto.CoordinateSize)
	require.Equal(t, base58.Encode(key.PublicXY()), header)

	ts := req.header.Get(relay.TimestampHeader)
	parsed, err := relay.ParseTimestamp(ts)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now(), parsed, time.Minute)

	sig, err := relay.ParseAuthorization(req.header.Get(relay.AuthorizationHeader))
	require.NoError(t, err)
	data := relay.DataToSign(req.method, req.path, req.query, req.body, ts)
	require.True(t, crypto.Verify(key.Public(), data, sig))
}

func TestClient_SignsEveryRequest(t *testing.T) {
	key, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	srv, seen := recordingServer(t, http.StatusOK, `{"importState":{"type":"Initial"}}`)

	c := relay.New(relay.BaseURL(srv.URL, "v1"), key, nil)
	channel := domain.Channel(crypto.ChannelID(key.PublicXY()))

	state, err := c.GetImportState(context.Background(), channel)
	require.NoError(t, err)
	require.Equal(t, domain.StateInitial, state.Type())

	get := <-seen
	require.Equal(t, http.MethodGet, get.method)
	require.Equal(t, "/v1/import/"+channel.String(), get.path)
	verifySeen(t, get, key)

	blob := domain.EncodeBase64Blob([]byte("ciphertext"))
	require.NoError(t, c.SetImportEncryptedData(context.Background(), channel, blob))

	post := <-seen
	require.Equal(t, http.MethodPost, post.method)
	require.Equal(t, "/v1/import/"+channel.String()+"/encrypted", post.path)
	verifySeen(t, post, key)

	var sent domain.SetImportEncryptedDataRequest
	require.NoError(t, json.Unmarshal(post.body, &sent))
	require.Equal(t, []byte("ciphertext"), sent.EncryptedData.Bytes())
}

func TestClient_TamperedBodyFailsVerification(t *testing.T) {
	key, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	srv, seen := recordingServer(t, http.StatusOK, "")

	c := relay.New(relay.BaseURL(srv.URL, "v1"), key, nil)
	require.NoError(t, c.SetImportEncryptedData(context.Background(), "chan", domain.EncodeBase64Blob([]byte("a"))))

	req := <-seen
	sig, err := relay.ParseAuthorization(req.header.Get(relay.AuthorizationHeader))
	require.NoError(t, err)
	ts := req.header.Get(relay.TimestampHeader)

	require.False(t, crypto.Verify(key.Public(), relay.DataToSign(req.method, req.path, "", []byte("other"), ts), sig))
	require.False(t, crypto.Verify(key.Public(), relay.DataToSign(http.MethodGet, req.path, "", req.body, ts), sig))
	require.False(t, crypto.Verify(key.Public(), relay.DataToSign(req.method, "/v1/import/x", "", req.body, ts), sig))
}

func TestClient_StatusClassification(t *testing.T) {
	key, err := crypto.GenerateKeyPair()
	require.NoError(t, err)

	for code, transient := range map[int]bool{
		http.StatusTeapot:              true,
		http.StatusInternalServerError: true,
		http.StatusBadGateway:          true,
		http.StatusUnprocessableEntity: false,
		http.StatusNotFound:            false,
		http.StatusUnauthorized:        false,
	} {
		srv, _ := recordingServer(t, code, "")
		c := relay.New(relay.BaseURL(srv.URL, "v1"), key, nil)

		_, err := c.GetImportState(context.Background(), "chan")
		var se *relay.StatusError
		require.ErrorAs(t, err, &se)
		require.Equal(t, code, se.Code)
		require.Equal(t, transient, se.Transient(), "code %d", code)
		require.Equal(t, transient, relay.IsTransient(err), "code %d", code)
	}

	require.True(t, relay.IsTransient(context.DeadlineExceeded))
	require.False(t, relay.IsTransient(nil))
}

func TestParseAuthorization_RejectsOtherSchemes(t *testing.T) {
	_, err := relay.ParseAuthorization("Bearer abc")
	require.Error(t, err)
}
