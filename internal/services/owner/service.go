package owner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"seedlink/internal/crypto"
	"seedlink/internal/domain"
	"seedlink/internal/link"
	"seedlink/internal/relay"
)

var (
	// ErrLinkExpired is returned by Accept for links older than the max age.
	ErrLinkExpired = errors.New("owner: pairing link expired")
	// ErrNotForUs is returned when the channel was accepted by another device.
	ErrNotForUs = errors.New("owner: channel accepted by another device")
)

// DefaultMaxLinkAge matches the wallet's session lifetime.
const DefaultMaxLinkAge = 10 * time.Minute

// Service accepts pairing links and collects phrases for one device key.
type Service struct {
	relay  domain.OwnerRelay
	device *crypto.KeyPair

	clock      clockwork.Clock
	log        zerolog.Logger
	maxLinkAge time.Duration
	rawProof   bool
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the wall clock.
func WithClock(c clockwork.Clock) Option { return func(s *Service) { s.clock = c } }

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option { return func(s *Service) { s.log = l } }

// WithMaxLinkAge rejects older links; zero disables the check.
func WithMaxLinkAge(d time.Duration) Option { return func(s *Service) { s.maxLinkAge = d } }

// WithRawProof sends the owner proof as raw r ‖ s instead of DER.
func WithRawProof() Option { return func(s *Service) { s.rawProof = true } }

// New returns a Service talking to r and signing with device.
func New(r domain.OwnerRelay, device *crypto.KeyPair, opts ...Option) *Service {
	s := &Service{
		relay:      r,
		device:     device,
		clock:      clockwork.NewRealClock(),
		log:        zerolog.Nop(),
		maxLinkAge: DefaultMaxLinkAge,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Accept verifies raw and claims its channel for the device key.
func (s *Service) Accept(ctx context.Context, raw string) (link.Link, error) {
	l, err := link.Parse(raw)
	if err != nil {
		return link.Link{}, err
	}
	if err := l.Verify(); err != nil {
		return link.Link{}, err
	}
	if s.maxLinkAge > 0 && s.clock.Since(l.CreatedAt) > s.maxLinkAge {
		return link.Link{}, fmt.Errorf("%w: created %s", ErrLinkExpired, l.CreatedAt.UTC().Format(time.RFC3339))
	}

	proof, err := s.device.Sign(l.ChannelKeyXY())
	if err != nil {
		return link.Link{}, err
	}
	if s.rawProof {
		if proof, err = crypto.DERToRaw(proof); err != nil {
			return link.Link{}, err
		}
	}

	req := domain.AcceptImportRequest{
		OwnerDeviceKey: domain.Base58FromPublicKey(s.device.Public()),
		OwnerProof:     domain.EncodeBase64Blob(proof),
	}
	if err := s.relay.AcceptImport(ctx, l.Channel(), req); err != nil {
		return link.Link{}, fmt.Errorf("owner: accept: %w", err)
	}
	s.log.Info().Str("channel", l.Channel().String()).Str("app", l.AppName).Msg("pairing accepted")
	return l, nil
}

// AwaitPhrase polls channel every interval until the wallet has delivered
// its phrase, then decrypts it with the device key.
func (s *Service) AwaitPhrase(ctx context.Context, channel domain.Channel, interval time.Duration) (domain.PhraseExport, error) {
	for {
		state, err := s.relay.GetImportState(ctx, channel)
		switch {
		case err == nil:
			if done, export, err := s.handle(state); done {
				return export, err
			}
		case ctx.Err() != nil:
			return domain.PhraseExport{}, ctx.Err()
		case relay.IsTransient(err):
			s.log.Debug().Err(err).Msg("import state unavailable, retrying")
		default:
			return domain.PhraseExport{}, fmt.Errorf("owner: poll: %w", err)
		}

		select {
		case <-ctx.Done():
			return domain.PhraseExport{}, ctx.Err()
		case <-s.clock.After(interval):
		}
	}
}

func (s *Service) handle(state domain.ImportState) (bool, domain.PhraseExport, error) {
	switch st := state.(type) {
	case domain.AcceptedState:
		key, err := st.OwnerDeviceKey.PublicKey()
		if err != nil || !key.Equal(s.device.Public()) {
			return true, domain.PhraseExport{}, ErrNotForUs
		}
		return false, domain.PhraseExport{}, nil
	case domain.CompletedState:
		export, err := s.Decrypt(st.EncryptedData)
		return true, export, err
	default:
		return false, domain.PhraseExport{}, nil
	}
}

// Decrypt opens an encrypted phrase addressed to the device key.
func (s *Service) Decrypt(blob domain.Base64Blob) (domain.PhraseExport, error) {
	plaintext, err := crypto.Decrypt(blob.Bytes(), s.device.Private())
	if err != nil {
		return domain.PhraseExport{}, fmt.Errorf("owner: decrypt phrase: %w", err)
	}
	defer crypto.Wipe(plaintext)

	var export domain.PhraseExport
	if err := json.Unmarshal(plaintext, &export); err != nil {
		return domain.PhraseExport{}, fmt.Errorf("owner: decode phrase: %w", err)
	}
	return export, nil
}
