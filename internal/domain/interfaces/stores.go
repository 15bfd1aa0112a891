package interfaces

import (
	"time"

	domaintypes "seedlink/internal/domain/types"
)

// ChannelRecord is the relay's view of one pairing channel.
type ChannelRecord struct {
	Channel   domaintypes.Channel
	State     domaintypes.ImportState
	ReaderKey string // Base58 auth key of the wallet bound on first read
	OwnerKey  string // Base58 owner device key once accepted
	CreatedAt time.Time
	LastRead  time.Time
}

// ChannelStore keeps relay-side channel state in memory.
type ChannelStore interface {
	// Read returns the channel state for authKey, creating an Initial record
	// on first access and binding the channel to that wallet auth key.
	Read(channel domaintypes.Channel, authKey string) (ChannelRecord, error)
	Accept(channel domaintypes.Channel, accepted domaintypes.AcceptedState) error
	Complete(channel domaintypes.Channel, authKey string, data domaintypes.Base64Blob) error
	// Sweep drops expired channels and returns how many were removed.
	Sweep() int
	Len() int
}
