package session

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"seedlink/internal/crypto"
	"seedlink/internal/domain"
	"seedlink/internal/link"
	"seedlink/internal/relay"
)

var (
	// ErrSignatureSelfCheckFailed means the session could not verify its own
	// fresh link signature; the crypto provider is broken.
	ErrSignatureSelfCheckFailed = errors.New("session: could not verify signature")
	// ErrNotConnected is returned by Phrase before the owner key is known.
	ErrNotConnected = errors.New("session: owner not connected")
	// ErrFinished is returned for operations on a terminated session.
	ErrFinished = errors.New("session: finished")
	// ErrAlreadyConnecting is returned by a second Connect.
	ErrAlreadyConnecting = errors.New("session: already connecting")
	// ErrPhraseSubmitted is returned by a second Phrase.
	ErrPhraseSubmitted = errors.New("session: phrase already submitted")
)

// Config names the relay and link parameters of a session.
type Config struct {
	APIURL      string
	APIVersion  string
	LinkScheme  string
	LinkVersion string
	AppName     string
}

// Session is one single-use pairing attempt. Its exported methods are safe
// to call from any goroutine, including from within the callbacks.
type Session struct {
	cfg        Config
	channelKey *crypto.KeyPair
	authKey    *crypto.KeyPair
	createdAt  time.Time
	channel    domain.Channel

	clock      clockwork.Clock
	interval   time.Duration
	ttl        time.Duration
	httpClient *http.Client
	relay      domain.ImportRelay
	log        zerolog.Logger

	ctx  context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup

	mu          sync.Mutex
	ownerKey    *ecdsa.PublicKey
	onConnected func()
	onFinished  func(bool)

	connecting atomic.Bool
	submitted  atomic.Bool
	finished   atomic.Bool
	succeeded  atomic.Bool

	connectedOnce sync.Once
	connected     chan struct{}
	done          chan struct{}
}

// New generates the channel and auth key pairs and prepares a session.
// onFinished is invoked exactly once with the terminal outcome, synchronously
// on whichever goroutine ends the session (a Cancel caller, the poller or the
// phrase submitter). It must not call Wait.
// onFinished is invoked exactly once with the terminal outcome.
func New(cfg Config, onFinished func(bool), opts ...Option) (*Session, error) {
	channelKey, err := crypto.GenerateKeyPair()
	if err != nil {
		return nil, fmt.Errorf("session: channel key: %w", err)
	}
	authKey, err := crypto.GenerateKeyPair()
	if err != nil {
		return nil, fmt.Errorf("session: auth key: %w", err)
	}

	s := &Session{
		cfg:        cfg,
		channelKey: channelKey,
		authKey:    authKey,
		channel:    domain.Channel(crypto.ChannelID(channelKey.PublicXY())),
		clock:      clockwork.NewRealClock(),
		interval:   DefaultPollInterval,
		ttl:        DefaultTTL,
		log:        zerolog.Nop(),
		onFinished: onFinished,
		connected:  make(chan struct{}),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.relay == nil {
		s.relay = relay.New(relay.BaseURL(cfg.APIURL, cfg.APIVersion), authKey, s.httpClient)
	}
	s.createdAt = s.clock.Now()
	s.ctx, s.stop = context.WithCancel(context.Background())
	s.log = s.log.With().Str("channel", s.channel.String()).Logger()
	return s, nil
}

// Channel returns the relay channel identifier.
func (s *Session) Channel() domain.Channel { return s.channel }

// ChannelKeyRaw returns the channel key's X ‖ Y bytes, the message the owner
// proof signs.
func (s *Session) ChannelKeyRaw() []byte { return s.channelKey.PublicXY() }

// AuthPublicKey returns the key relay requests are signed with.
func (s *Session) AuthPublicKey() *ecdsa.PublicKey { return s.authKey.Public() }

// CreatedAt is when the key pairs were generated.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// OwnerDeviceKey returns the verified owner key, or nil before connection.
func (s *Session) OwnerDeviceKey() *ecdsa.PublicKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ownerKey
}

// Connected is closed once the owner's proof has verified.
func (s *Session) Connected() <-chan struct{} { return s.connected }

// Done is closed once the session has terminated.
func (s *Session) Done() <-chan struct{} { return s.done }

// Finished reports whether the session has terminated.
func (s *Session) Finished() bool { return s.finished.Load() }

// Succeeded reports whether the session terminated with a delivered phrase.
func (s *Session) Succeeded() bool { return s.finished.Load() && s.succeeded.Load() }

// Wait blocks until every background goroutine of the session has exited.
// Calling it from onFinished or onConnected deadlocks.
func (s *Session) Wait() { s.wg.Wait() }

// Connect signs and returns the pairing link and starts polling the relay.
// onConnected runs at most once, on the polling goroutine, after the owner's
// proof verifies.
func (s *Session) Connect(onConnected func()) (string, error) {
	if s.finished.Load() {
		return "", ErrFinished
	}
	if !s.connecting.CompareAndSwap(false, true) {
		return "", ErrAlreadyConnecting
	}

	millis := s.createdAt.UnixMilli()
	data := link.SignedData(millis, s.cfg.AppName)
	sig, err := s.channelKey.Sign(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSignatureSelfCheckFailed, err)
	}
	if !crypto.Verify(s.channelKey.Public(), data, sig) {
		return "", ErrSignatureSelfCheckFailed
	}

	s.mu.Lock()
	s.onConnected = onConnected
	s.mu.Unlock()

	s.wg.Add(1)
	go s.poll()

	return link.Link{
		Scheme:     s.cfg.LinkScheme,
		Version:    s.cfg.LinkVersion,
		ChannelKey: s.channelKey.Public(),
		CreatedAt:  time.UnixMilli(millis),
		Signature:  sig,
		AppName:    s.cfg.AppName,
	}.String(), nil
}

// Phrase encrypts binaryPhrase to the owner device key and submits it once.
// The outcome is reported through the onFinished callback; the submit is not
// retried and is not aborted by Cancel.
func (s *Session) Phrase(binaryPhrase string, opts ...PhraseOption) error {
	owner := s.OwnerDeviceKey()
	if owner == nil {
		return ErrNotConnected
	}
	if s.finished.Load() {
		return ErrFinished
	}

	export := domain.PhraseExport{BinaryPhrase: binaryPhrase, Language: domain.English}
	for _, opt := range opts {
		opt(&export)
	}
	if !export.Language.Valid() {
		return fmt.Errorf("%w %d", domain.ErrUnknownLanguage, export.Language.ID())
	}
	if !s.submitted.CompareAndSwap(false, true) {
		return ErrPhraseSubmitted
	}

	plaintext, err := json.Marshal(export)
	if err != nil {
		return err
	}
	blob, err := crypto.Encrypt(plaintext, crypto.MarshalPublicKey(owner))
	crypto.Wipe(plaintext)
	if err != nil {
		return fmt.Errorf("session: encrypt phrase: %w", err)
	}

	ctx := context.WithoutCancel(s.ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		err := s.relay.SetImportEncryptedData(ctx, s.channel, domain.EncodeBase64Blob(blob))
		if err != nil {
			s.log.Error().Err(err).Msg("phrase submit failed")
		} else {
			s.log.Info().Msg("phrase submitted")
		}
		s.finish(err == nil)
	}()
	return nil
}

// Cancel terminates the session with failure, stops polling and aborts any
// in-flight poll request. Calling it after termination has no effect.
func (s *Session) Cancel() { s.finish(false) }

func (s *Session) finish(success bool) {
	if !s.finished.CompareAndSwap(false, true) {
		return
	}
	s.succeeded.Store(success)
	s.stop()

	s.mu.Lock()
	cb := s.onFinished
	s.mu.Unlock()
	if cb != nil {
		cb(success)
	}
	close(s.done)
}
