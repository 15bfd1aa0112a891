package app

import (
	"io"
	"net/http"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"seedlink/internal/logging"
	"seedlink/internal/relay"
	"seedlink/internal/relayd"
	"seedlink/internal/services/owner"
	"seedlink/internal/services/session"
	"seedlink/internal/store"
)

// Wire bundles the shared logger and HTTP client with constructors for the
// services commands use.
type Wire struct {
	Config Config
	Log    zerolog.Logger
	HTTP   *http.Client
	Keys   *store.DeviceKeyFileStore
}

// NewWire constructs the dependency graph from cfg. Logs go to logOut.
func NewWire(cfg Config, service string, logOut io.Writer) (*Wire, error) {
	log, err := logging.New(logging.Options{
		Service: service,
		Level:   cfg.LogLevel,
		Console: cfg.LogConsole,
		Out:     logOut,
	})
	if err != nil {
		return nil, err
	}
	return &Wire{
		Config: cfg,
		Log:    log,
		HTTP:   &http.Client{Timeout: cfg.HTTPTimeout},
		Keys:   store.NewDeviceKeyFileStore(cfg.Home),
	}, nil
}

// SessionConfig maps the loaded settings onto a session configuration.
func (w *Wire) SessionConfig() session.Config {
	return session.Config{
		APIURL:      w.Config.APIURL,
		APIVersion:  w.Config.APIVersion,
		LinkScheme:  w.Config.LinkScheme,
		LinkVersion: w.Config.LinkVersion,
		AppName:     w.Config.AppName,
	}
}

// NewSession starts a fresh wallet-side pairing session.
func (w *Wire) NewSession(onFinished func(bool)) (*session.Session, error) {
	return session.New(w.SessionConfig(), onFinished,
		session.WithPollInterval(w.Config.PollInterval),
		session.WithTTL(w.Config.SessionTTL),
		session.WithHTTPClient(w.HTTP),
		session.WithLogger(w.Log),
	)
}

// OwnerService loads (or creates) the device key sealed under passphrase and
// returns an owner service signing with it.
func (w *Wire) OwnerService(passphrase string, opts ...owner.Option) (*owner.Service, error) {
	device, err := w.Keys.LoadOrCreate(passphrase)
	if err != nil {
		return nil, err
	}
	r := relay.New(relay.BaseURL(w.Config.APIURL, w.Config.APIVersion), device, w.HTTP)
	opts = append([]owner.Option{
		owner.WithLogger(w.Log),
		owner.WithMaxLinkAge(w.Config.SessionTTL),
	}, opts...)
	return owner.New(r, device, opts...), nil
}

// RelayServer builds the development relay with an in-memory store.
func (w *Wire) RelayServer() *relayd.Server {
	clock := clockwork.NewRealClock()
	return relayd.New(store.NewChannelMemoryStore(clock, w.Config.SessionTTL),
		relayd.WithClock(clock),
		relayd.WithLogger(w.Log),
		relayd.WithAPIVersion(w.Config.APIVersion),
	)
}
