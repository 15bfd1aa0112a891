package relayd

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"seedlink/internal/crypto"
	"seedlink/internal/relay"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

type authCtxKey struct{}

type authInfo struct {
	key    *ecdsa.PublicKey
	base58 string
}

// authKeyFrom returns the canonical Base58 key that signed the request.
func authKeyFrom(ctx context.Context) string {
	info, _ := ctx.Value(authCtxKey{}).(authInfo)
	return info.base58
}

func authPublicKeyFrom(ctx context.Context) *ecdsa.PublicKey {
	info, _ := ctx.Value(authCtxKey{}).(authInfo)
	return info.key
}

// requestID tags the request and its logger with an id, reusing a valid
// incoming one.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.Header.Get(RequestIDHeader))
		if err != nil {
			id = uuid.New()
		}
		w.Header().Set(RequestIDHeader, id.String())
		log := s.log.With().Str("request_id", id.String()).Logger()
		next.ServeHTTP(w, r.WithContext(log.WithContext(r.Context())))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	code  int
	bytes int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.code = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.code == 0 {
		sr.code = http.StatusOK
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += n
	return n, err
}

// observe writes the access log line and the request counter.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.code == 0 {
			rec.code = http.StatusOK
		}

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		s.metrics.Requests.WithLabelValues(route, strconv.Itoa(rec.code)).Inc()

		zerolog.Ctx(r.Context()).Debug().
			Str("method", r.Method).
			Str("route", route).
			Int("status", rec.code).
			Int("bytes", rec.bytes).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// authenticate checks the signed request headers and stores the signing
// key in the request context.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			writeError(w, http.StatusRequestEntityTooLarge, "body too large")
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		info, reason := s.verify(r, body)
		if reason != "" {
			s.metrics.AuthFailures.Inc()
			zerolog.Ctx(r.Context()).Warn().Str("reason", reason).Msg("unauthenticated request")
			writeError(w, http.StatusUnauthorized, reason)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), authCtxKey{}, info)))
	})
}

func (s *Server) verify(r *http.Request, body []byte) (authInfo, string) {
	tsText := r.Header.Get(relay.TimestampHeader)
	ts, err := relay.ParseTimestamp(tsText)
	if err != nil {
		return authInfo{}, "bad timestamp"
	}
	if skew := s.clock.Since(ts); skew > s.skew || skew < -s.skew {
		return authInfo{}, "stale timestamp"
	}
	key, err := crypto.PublicKeyFromBase58(r.Header.Get(relay.DevicePublicKeyHeader))
	if err != nil {
		return authInfo{}, "bad device key"
	}
	sig, err := relay.ParseAuthorization(r.Header.Get(relay.AuthorizationHeader))
	if err != nil {
		return authInfo{}, "bad authorization"
	}
	data := relay.DataToSign(r.Method, r.URL.EscapedPath(), r.URL.RawQuery, body, tsText)
	if !crypto.Verify(key, data, sig) {
		return authInfo{}, "signature mismatch"
	}
	return authInfo{key: key, base58: crypto.PublicKeyBase58(key)}, ""
}
