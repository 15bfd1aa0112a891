package link_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"seedlink/internal/crypto"
	"seedlink/internal/link"
)

func signedLink(t *testing.T, appName string) (link.Link, *crypto.KeyPair) {
	t.Helper()
	kp, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	created := time.UnixMilli(1700000000123)
	sig, err := kp.Sign(link.SignedData(created.UnixMilli(), appName))
	require.NoError(t, err)
	return link.Link{
		Scheme:     "censo-main",
		Version:    "v1",
		ChannelKey: kp.Public(),
		CreatedAt:  created,
		Signature:  sig,
		AppName:    appName,
	}, kp
}

func TestLink_RoundTrip(t *testing.T) {
	l, kp := signedLink(t, "My Wallet ✓")
	s := l.String()
	require.True(t, strings.HasPrefix(s, "censo-main://import/v1/"))

	got, err := link.Parse(s)
	require.NoError(t, err)
	require.NoError(t, got.Verify())
	require.Equal(t, "My Wallet ✓", got.AppName)
	require.Equal(t, int64(1700000000123), got.CreatedAt.UnixMilli())
	require.True(t, got.ChannelKey.Equal(kp.Public()))
	require.Equal(t, crypto.ChannelID(kp.PublicXY()), got.Channel().String())
}

func TestLink_VerifyRejectsTampering(t *testing.T) {
	l, _ := signedLink(t, "wallet")

	renamed := l
	renamed.AppName = "evil"
	require.ErrorIs(t, renamed.Verify(), link.ErrLinkSignature)

	moved := l
	moved.CreatedAt = l.CreatedAt.Add(time.Millisecond)
	require.ErrorIs(t, moved.Verify(), link.ErrLinkSignature)
}

func TestParse_Malformed(t *testing.T) {
	l, _ := signedLink(t, "wallet")
	parts := strings.Split(l.String(), "/")

	for name, s := range map[string]string{
		"no scheme":   "import/v1/a/b/c/d",
		"short":       "x://import/v1/abc",
		"wrong host":  strings.Replace(l.String(), "://import/", "://export/", 1),
		"bad key":     strings.Replace(l.String(), parts[4], "0OIl", 1),
		"bad millis":  strings.Replace(l.String(), parts[5], "soon", 1),
		"bad sig b64": strings.Replace(l.String(), parts[6], "***", 1),
	} {
		_, err := link.Parse(s)
		require.ErrorIs(t, err, link.ErrMalformedLink, name)
	}
}
