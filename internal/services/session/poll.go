package session

import (
	"context"
	"crypto/ecdsa"
	"errors"

	"seedlink/internal/crypto"
	"seedlink/internal/domain"
	"seedlink/internal/relay"
)

// poll runs the connection checker: one tick immediately, then one tick per
// interval after the previous tick has completed, until the session ends.
func (s *Session) poll() {
	defer s.wg.Done()
	for s.tick() {
		select {
		case <-s.ctx.Done():
			if !s.finished.Load() {
				s.log.Error().Msg("connection check stopped but session is not finished")
			}
			return
		case <-s.clock.After(s.interval):
		}
	}
}

// tick reports whether polling should continue.
func (s *Session) tick() bool {
	if s.finished.Load() {
		return false
	}
	// Once a phrase is submitted its outcome decides the session.
	if !s.submitted.Load() && s.clock.Since(s.createdAt) > s.ttl {
		s.log.Warn().Dur("ttl", s.ttl).Msg("session expired before completion")
		s.Cancel()
		return false
	}
	if s.OwnerDeviceKey() == nil {
		s.checkConnection()
	}
	return !s.finished.Load()
}

func (s *Session) checkConnection() {
	state, err := s.relay.GetImportState(s.ctx, s.channel)
	if s.finished.Load() || errors.Is(err, context.Canceled) {
		return
	}
	if err != nil {
		if relay.IsTransient(err) {
			s.log.Debug().Err(err).Msg("import state unavailable, retrying")
			return
		}
		s.log.Error().Err(err).Msg("connection to relay terminated")
		s.Cancel()
		return
	}

	accepted, ok := state.(domain.AcceptedState)
	if !ok {
		return
	}
	owner, err := accepted.OwnerDeviceKey.PublicKey()
	if err != nil {
		s.log.Error().Err(err).Msg("owner device key unusable")
		s.Cancel()
		return
	}
	if !crypto.Verify(owner, s.ChannelKeyRaw(), accepted.OwnerProof.Bytes()) {
		s.log.Error().Msg("could not verify owner proof")
		s.Cancel()
		return
	}
	s.setOwner(owner)
}

func (s *Session) setOwner(owner *ecdsa.PublicKey) {
	s.mu.Lock()
	if s.ownerKey != nil {
		s.mu.Unlock()
		return
	}
	s.ownerKey = owner
	cb := s.onConnected
	s.mu.Unlock()

	s.log.Info().Msg("owner connected")
	s.connectedOnce.Do(func() {
		close(s.connected)
		if cb != nil {
			cb()
		}
	})
}
