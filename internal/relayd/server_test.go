package relayd_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/btcsuite/btcutil/base58"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seedlink/internal/crypto"
	"seedlink/internal/domain"
	"seedlink/internal/relay"
	"seedlink/internal/relayd"
	"seedlink/internal/store"
)

type harness struct {
	clock clockwork.FakeClock
	store *store.ChannelMemoryStore
	relay *relayd.Server
	srv   *httptest.Server
}

func newHarness(t *testing.T, opts ...relayd.Option) *harness {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Now())
	st := store.NewChannelMemoryStore(clock, time.Minute)
	rd := relayd.New(st, append([]relayd.Option{relayd.WithClock(clock)}, opts...)...)
	srv := httptest.NewServer(rd)
	t.Cleanup(srv.Close)
	return &harness{clock: clock, store: st, relay: rd, srv: srv}
}

func (h *harness) client(t *testing.T) (*relay.HTTP, *crypto.KeyPair) {
	t.Helper()
	key, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	return relay.New(relay.BaseURL(h.srv.URL, "v1"), key, nil), key
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var se *relay.StatusError
	require.ErrorAs(t, err, &se)
	return se.Code
}

func acceptFor(t *testing.T, owner *crypto.KeyPair, channelXY []byte) domain.AcceptImportRequest {
	t.Helper()
	proof, err := owner.Sign(channelXY)
	require.NoError(t, err)
	return domain.AcceptImportRequest{
		OwnerDeviceKey: domain.Base58FromPublicKey(owner.Public()),
		OwnerProof:     domain.EncodeBase64Blob(proof),
	}
}

func TestRelay_ImportLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	wallet, _ := h.client(t)
	owner, ownerKey := h.client(t)
	stranger, _ := h.client(t)

	channelKey, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	ch := domain.Channel(crypto.ChannelID(channelKey.PublicXY()))

	state, err := wallet.GetImportState(ctx, ch)
	require.NoError(t, err)
	assert.Equal(t, domain.StateInitial, state.Type())

	_, err = wallet.GetImportState(ctx, ch)
	assert.Equal(t, http.StatusTeapot, statusOf(t, err))
	assert.True(t, relay.IsTransient(err))

	_, err = stranger.GetImportState(ctx, ch)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	err = wallet.SetImportEncryptedData(ctx, ch, domain.EncodeBase64Blob([]byte("early")))
	assert.Equal(t, http.StatusConflict, statusOf(t, err))

	err = stranger.AcceptImport(ctx, ch, acceptFor(t, ownerKey, channelKey.PublicXY()))
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	require.NoError(t, owner.AcceptImport(ctx, ch, acceptFor(t, ownerKey, channelKey.PublicXY())))
	err = owner.AcceptImport(ctx, ch, acceptFor(t, ownerKey, channelKey.PublicXY()))
	assert.Equal(t, http.StatusConflict, statusOf(t, err))

	h.clock.Advance(relayd.DefaultMinPollInterval)
	state, err = wallet.GetImportState(ctx, ch)
	require.NoError(t, err)
	accepted, ok := state.(domain.AcceptedState)
	require.True(t, ok)
	pub, err := accepted.OwnerDeviceKey.PublicKey()
	require.NoError(t, err)
	assert.True(t, pub.Equal(ownerKey.Public()))
	assert.True(t, crypto.Verify(pub, channelKey.PublicXY(), accepted.OwnerProof.Bytes()))

	require.NoError(t, wallet.SetImportEncryptedData(ctx, ch, domain.EncodeBase64Blob([]byte("sealed"))))

	state, err = owner.GetImportState(ctx, ch)
	require.NoError(t, err)
	completed, ok := state.(domain.CompletedState)
	require.True(t, ok)
	assert.Equal(t, []byte("sealed"), completed.EncryptedData.Bytes())
}

func TestRelay_AcceptUnknownChannel(t *testing.T) {
	h := newHarness(t)
	owner, ownerKey := h.client(t)
	err := owner.AcceptImport(context.Background(), "nobody", acceptFor(t, ownerKey, []byte("x")))
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestRelay_RejectsUnsignedAndStale(t *testing.T) {
	h := newHarness(t)

	resp, err := http.Get(h.srv.URL + "/v1/import/abc")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	key, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	stale := &http.Client{Transport: &relay.Signer{
		Key: key,
		Now: func() time.Time { return time.Now().Add(-relayd.DefaultMaxSkew - time.Minute) },
	}}
	_, err = relay.NewHTTP(relay.BaseURL(h.srv.URL, "v1"), stale).GetImportState(context.Background(), "abc")
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
	assert.False(t, relay.IsTransient(err))
}

func TestRelay_RejectsForeignKeyHeader(t *testing.T) {
	h := newHarness(t)
	signer, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	other, err := crypto.GenerateKeyPair()
	require.NoError(t, err)

	ts := relay.FormatTimestamp(time.Now())
	sig, err := signer.Sign(relay.DataToSign(http.MethodGet, "/v1/import/abc", "", nil, ts))
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, h.srv.URL+"/v1/import/abc", nil)
	require.NoError(t, err)
	req.Header.Set(relay.AuthorizationHeader, relay.AuthorizationValue(sig))
	req.Header.Set(relay.DevicePublicKeyHeader, base58.Encode(other.PublicXY()))
	req.Header.Set(relay.TimestampHeader, ts)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(relayd.RequestIDHeader))
}

func TestRelay_ExpiryAndSweeper(t *testing.T) {
	h := newHarness(t)
	wallet, _ := h.client(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := wallet.GetImportState(ctx, "short-lived")
	require.NoError(t, err)

	h.clock.Advance(2 * time.Minute)
	_, err = wallet.GetImportState(ctx, "short-lived")
	assert.Equal(t, http.StatusGone, statusOf(t, err))

	_, err = wallet.GetImportState(ctx, "swept")
	require.NoError(t, err)
	require.Equal(t, 1, h.store.Len())

	go h.relay.RunSweeper(ctx, 30*time.Second)
	h.clock.BlockUntil(1)
	h.clock.Advance(2 * time.Minute)
	require.Eventually(t, func() bool { return h.store.Len() == 0 }, 2*time.Second, time.Millisecond)
}

func TestRelay_Metrics(t *testing.T) {
	h := newHarness(t)
	wallet, _ := h.client(t)
	_, err := wallet.GetImportState(context.Background(), "metered")
	require.NoError(t, err)

	resp, err := http.Get(h.srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, `seedlink_relay_requests_total{code="200",route="/v1/import/{channel}"} 1`)
	assert.Contains(t, text, "seedlink_relay_channels 1")
	assert.True(t, strings.Contains(text, "seedlink_relay_auth_failures_total 0"))
}
