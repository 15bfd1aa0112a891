package session

import (
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"seedlink/internal/domain"
)

const (
	// DefaultPollInterval is the delay between two relay polls.
	DefaultPollInterval = 2 * time.Second
	// DefaultTTL is how long after key generation a session may stay unpaired.
	DefaultTTL = 10 * time.Minute
)

// Option configures a Session.
type Option func(*Session)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c clockwork.Clock) Option { return func(s *Session) { s.clock = c } }

// WithPollInterval overrides DefaultPollInterval.
func WithPollInterval(d time.Duration) Option { return func(s *Session) { s.interval = d } }

// WithTTL overrides DefaultTTL.
func WithTTL(d time.Duration) Option { return func(s *Session) { s.ttl = d } }

// WithHTTPClient sets the client whose transport carries signed relay calls.
func WithHTTPClient(c *http.Client) Option { return func(s *Session) { s.httpClient = c } }

// WithRelay bypasses the built-in signed HTTP client.
func WithRelay(r domain.ImportRelay) Option { return func(s *Session) { s.relay = r } }

// WithLogger sets the logger; the default discards everything.
func WithLogger(l zerolog.Logger) Option { return func(s *Session) { s.log = l } }

// PhraseOption customises the exported phrase.
type PhraseOption func(*domain.PhraseExport)

// WithLanguage sets the word list language; English when omitted.
func WithLanguage(l domain.Language) PhraseOption {
	return func(p *domain.PhraseExport) { p.Language = l }
}

// WithLabel sets a human readable label; empty when omitted.
func WithLabel(label string) PhraseOption {
	return func(p *domain.PhraseExport) { p.Label = label }
}
