package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// ImportStateType is the wire discriminant of an ImportState.
type ImportStateType string

const (
	StateInitial   ImportStateType = "Initial"
	StateAccepted  ImportStateType = "Accepted"
	StateCompleted ImportStateType = "Completed"
)

// ImportState is one of InitialState, AcceptedState or CompletedState.
type ImportState interface {
	Type() ImportStateType
	isImportState()
}

// InitialState means the owner has not acted yet.
type InitialState struct{}

// AcceptedState means the owner claimed the channel. OwnerProof is the
// owner device key's signature over the channel key's X ‖ Y bytes.
type AcceptedState struct {
	OwnerDeviceKey Base58PublicKey `json:"ownerDeviceKey"`
	OwnerProof     Base64Blob      `json:"ownerProof"`
	AcceptedAt     time.Time       `json:"acceptedAt"`
}

// CompletedState carries the ECIES ciphertext delivered by the wallet.
type CompletedState struct {
	EncryptedData Base64Blob `json:"encryptedData"`
}

func (InitialState) Type() ImportStateType   { return StateInitial }
func (AcceptedState) Type() ImportStateType  { return StateAccepted }
func (CompletedState) Type() ImportStateType { return StateCompleted }

func (InitialState) isImportState()   {}
func (AcceptedState) isImportState()  {}
func (CompletedState) isImportState() {}

// MarshalImportState encodes s with its "type" discriminant.
func MarshalImportState(s ImportState) ([]byte, error) {
	switch v := s.(type) {
	case InitialState:
		return json.Marshal(struct {
			Type ImportStateType `json:"type"`
		}{StateInitial})
	case AcceptedState:
		type alias AcceptedState
		return json.Marshal(struct {
			Type ImportStateType `json:"type"`
			alias
		}{StateAccepted, alias(v)})
	case CompletedState:
		type alias CompletedState
		return json.Marshal(struct {
			Type ImportStateType `json:"type"`
			alias
		}{StateCompleted, alias(v)})
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownImportState, s)
	}
}

// UnmarshalImportState decodes a discriminated ImportState. Unknown fields
// are ignored.
func UnmarshalImportState(data []byte) (ImportState, error) {
	var head struct {
		Type ImportStateType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	switch head.Type {
	case StateInitial:
		return InitialState{}, nil
	case StateAccepted:
		var v AcceptedState
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		if v.OwnerDeviceKey.IsZero() {
			return nil, fmt.Errorf("%w: accepted state without owner key", ErrInvalidBase58)
		}
		return v, nil
	case StateCompleted:
		var v CompletedState
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownImportState, head.Type)
	}
}
