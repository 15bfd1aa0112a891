package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"seedlink/internal/domain"
)

// ChannelMemoryStore keeps channel records in memory. Records older than the
// TTL are treated as gone and removed by Sweep.
type ChannelMemoryStore struct {
	clock clockwork.Clock
	ttl   time.Duration

	mu       sync.Mutex
	channels map[domain.Channel]*domain.ChannelRecord
}

// NewChannelMemoryStore returns an empty store.
func NewChannelMemoryStore(clock clockwork.Clock, ttl time.Duration) *ChannelMemoryStore {
	return &ChannelMemoryStore{
		clock:    clock,
		ttl:      ttl,
		channels: make(map[domain.Channel]*domain.ChannelRecord),
	}
}

// Read returns a copy of the record with LastRead holding the previous read
// time, then stamps the current one. The owner key may read an accepted
// channel; any other key than the first reader is refused.
func (s *ChannelMemoryStore) Read(channel domain.Channel, authKey string) (domain.ChannelRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	rec, ok := s.channels[channel]
	if !ok {
		rec = &domain.ChannelRecord{
			Channel:   channel,
			State:     domain.InitialState{},
			ReaderKey: authKey,
			CreatedAt: now,
		}
		s.channels[channel] = rec
	}
	if s.expired(rec, now) {
		delete(s.channels, channel)
		return domain.ChannelRecord{}, ErrExpired
	}
	if authKey != rec.ReaderKey && authKey != rec.OwnerKey {
		return domain.ChannelRecord{}, ErrForbidden
	}

	out := *rec
	rec.LastRead = now
	return out, nil
}

// Accept moves an Initial channel to Accepted.
func (s *ChannelMemoryStore) Accept(channel domain.Channel, accepted domain.AcceptedState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.lookup(channel)
	if err != nil {
		return err
	}
	if rec.State.Type() != domain.StateInitial {
		return fmt.Errorf("%w: accept in state %s", ErrConflict, rec.State.Type())
	}
	rec.State = accepted
	rec.OwnerKey = accepted.OwnerDeviceKey.String()
	return nil
}

// Complete stores the encrypted phrase on an Accepted channel owned by
// authKey.
func (s *ChannelMemoryStore) Complete(channel domain.Channel, authKey string, data domain.Base64Blob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.lookup(channel)
	if err != nil {
		return err
	}
	if authKey != rec.ReaderKey {
		return ErrForbidden
	}
	if rec.State.Type() != domain.StateAccepted {
		return fmt.Errorf("%w: complete in state %s", ErrConflict, rec.State.Type())
	}
	rec.State = domain.CompletedState{EncryptedData: data}
	return nil
}

// Sweep removes expired channels.
func (s *ChannelMemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	n := 0
	for ch, rec := range s.channels {
		if s.expired(rec, now) {
			delete(s.channels, ch)
			n++
		}
	}
	return n
}

// Len returns the number of stored channels, expired ones included.
func (s *ChannelMemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.channels)
}

// lookup must be called with s.mu held.
func (s *ChannelMemoryStore) lookup(channel domain.Channel) (*domain.ChannelRecord, error) {
	rec, ok := s.channels[channel]
	if !ok {
		return nil, ErrNotFound
	}
	if s.expired(rec, s.clock.Now()) {
		delete(s.channels, channel)
		return nil, ErrExpired
	}
	return rec, nil
}

func (s *ChannelMemoryStore) expired(rec *domain.ChannelRecord, now time.Time) bool {
	return s.ttl > 0 && now.Sub(rec.CreatedAt) > s.ttl
}

var _ domain.ChannelStore = (*ChannelMemoryStore)(nil)
