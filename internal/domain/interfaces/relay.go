package interfaces

import (
	"context"

	domaintypes "seedlink/internal/domain/types"
)

// ImportRelay is how a wallet session talks to the relay, all with context.
type ImportRelay interface {
	GetImportState(ctx context.Context, channel domaintypes.Channel) (domaintypes.ImportState, error)
	SetImportEncryptedData(
		ctx context.Context,
		channel domaintypes.Channel,
		encrypted domaintypes.Base64Blob,
	) error
}

// OwnerRelay is how the owner application claims a channel and collects
// the encrypted phrase.
type OwnerRelay interface {
	GetImportState(ctx context.Context, channel domaintypes.Channel) (domaintypes.ImportState, error)
	AcceptImport(
		ctx context.Context,
		channel domaintypes.Channel,
		req domaintypes.AcceptImportRequest,
	) error
}
