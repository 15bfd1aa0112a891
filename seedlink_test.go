package seedlink_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seedlink"
	"seedlink/internal/link"
)

func TestInitiate_AppliesDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"importState":{"type":"Initial"}}`))
	}))
	defer srv.Close()

	s, err := seedlink.Integration{APIURL: srv.URL}.Initiate(nil, seedlink.WithPollInterval(time.Hour))
	require.NoError(t, err)
	defer s.Wait()
	defer s.Cancel()

	raw, err := s.Connect(nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(raw, "censo-main://import/v1/"))

	l, err := link.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, seedlink.DefaultAppName, l.AppName)
	require.NoError(t, l.Verify())
}

func TestInitiate_FreshKeysPerSession(t *testing.T) {
	a, err := seedlink.Integration{}.Initiate(nil)
	require.NoError(t, err)
	b, err := seedlink.Integration{}.Initiate(nil)
	require.NoError(t, err)
	assert.NotEqual(t, a.Channel(), b.Channel())
	a.Cancel()
	b.Cancel()
}
