package relayd

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"seedlink/internal/domain"
	"seedlink/internal/store"
)

const (
	// DefaultMaxSkew bounds the distance between a request timestamp and
	// the relay clock.
	DefaultMaxSkew = 5 * time.Minute
	// DefaultMinPollInterval is the fastest a wallet may poll one channel.
	DefaultMinPollInterval = time.Second

	maxBodyBytes = 64 << 10

	channelVar = "channel"
)

// Server serves the import endpoints from a ChannelStore.
type Server struct {
	store   domain.ChannelStore
	clock   clockwork.Clock
	log     zerolog.Logger
	version string
	skew    time.Duration
	minPoll time.Duration
	metrics *Metrics
	router  *mux.Router
}

// Option configures a Server.
type Option func(*Server)

// WithClock replaces the wall clock.
func WithClock(c clockwork.Clock) Option { return func(s *Server) { s.clock = c } }

// WithLogger sets the access and error logger.
func WithLogger(l zerolog.Logger) Option { return func(s *Server) { s.log = l } }

// WithAPIVersion sets the leading path segment; "v1" by default.
func WithAPIVersion(v string) Option { return func(s *Server) { s.version = v } }

// WithMaxSkew overrides DefaultMaxSkew.
func WithMaxSkew(d time.Duration) Option { return func(s *Server) { s.skew = d } }

// WithMinPollInterval overrides DefaultMinPollInterval; zero disables 418s.
func WithMinPollInterval(d time.Duration) Option { return func(s *Server) { s.minPoll = d } }

// New builds a Server and its routes.
func New(st domain.ChannelStore, opts ...Option) *Server {
	s := &Server{
		store:   st,
		clock:   clockwork.NewRealClock(),
		log:     zerolog.Nop(),
		version: "v1",
		skew:    DefaultMaxSkew,
		minPoll: DefaultMinPollInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.metrics = newMetrics(st)

	r := mux.NewRouter()
	r.UseEncodedPath()
	r.Use(s.requestID, s.observe)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	imp := r.PathPrefix("/" + s.version + "/import").Subrouter()
	imp.Use(s.authenticate)
	imp.HandleFunc("/{"+channelVar+"}", s.getImport).Methods(http.MethodGet)
	imp.HandleFunc("/{"+channelVar+"}/accept", s.acceptImport).Methods(http.MethodPost)
	imp.HandleFunc("/{"+channelVar+"}/encrypted", s.setEncrypted).Methods(http.MethodPost)

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.router.ServeHTTP(w, r) }

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics { return s.metrics }

// RunSweeper drops expired channels every interval until ctx ends.
func (s *Server) RunSweeper(ctx context.Context, every time.Duration) {
	t := s.clock.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.Chan():
			if n := s.store.Sweep(); n > 0 {
				s.metrics.Swept.Add(float64(n))
				s.log.Info().Int("removed", n).Msg("expired channels swept")
			}
		}
	}
}

func (s *Server) getImport(w http.ResponseWriter, r *http.Request) {
	ch, ok := channelFrom(w, r)
	if !ok {
		return
	}
	key := authKeyFrom(r.Context())
	rec, err := s.store.Read(ch, key)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if s.minPoll > 0 && key == rec.ReaderKey && !rec.LastRead.IsZero() &&
		s.clock.Since(rec.LastRead) < s.minPoll {
		writeError(w, http.StatusTeapot, "polling too fast")
		return
	}
	writeJSON(w, http.StatusOK, domain.GetImportDataResponse{ImportState: rec.State})
}

func (s *Server) acceptImport(w http.ResponseWriter, r *http.Request) {
	ch, ok := channelFrom(w, r)
	if !ok {
		return
	}
	var req domain.AcceptImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OwnerProof.IsZero() {
		writeError(w, http.StatusBadRequest, "ownerDeviceKey and ownerProof are required")
		return
	}
	owner, err := req.OwnerDeviceKey.PublicKey()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !owner.Equal(authPublicKeyFrom(r.Context())) {
		writeError(w, http.StatusForbidden, "request not signed by owner device key")
		return
	}

	err = s.store.Accept(ch, domain.AcceptedState{
		OwnerDeviceKey: domain.Base58FromPublicKey(owner),
		OwnerProof:     req.OwnerProof,
		AcceptedAt:     s.clock.Now().UTC(),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) setEncrypted(w http.ResponseWriter, r *http.Request) {
	ch, ok := channelFrom(w, r)
	if !ok {
		return
	}
	var req domain.SetImportEncryptedDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EncryptedData.IsZero() {
		writeError(w, http.StatusBadRequest, "encryptedData is required")
		return
	}
	if err := s.store.Complete(ch, authKeyFrom(r.Context()), req.EncryptedData); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, store.ErrExpired):
		code = http.StatusGone
	case errors.Is(err, store.ErrForbidden):
		code = http.StatusForbidden
	case errors.Is(err, store.ErrConflict):
		code = http.StatusConflict
	}
	if code == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("store failure")
	}
	writeError(w, code, err.Error())
}

func channelFrom(w http.ResponseWriter, r *http.Request) (domain.Channel, bool) {
	raw, err := url.PathUnescape(mux.Vars(r)[channelVar])
	if err != nil || raw == "" {
		writeError(w, http.StatusBadRequest, "bad channel")
		return "", false
	}
	return domain.Channel(raw), true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
