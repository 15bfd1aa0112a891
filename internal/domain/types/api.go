package types

import (
	"encoding/json"
	"errors"
)

// GetImportDataResponse is the body of GET import/{channel}.
type GetImportDataResponse struct {
	ImportState ImportState
}

// MarshalJSON encodes the nested discriminated state.
func (r GetImportDataResponse) MarshalJSON() ([]byte, error) {
	state, err := MarshalImportState(r.ImportState)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		ImportState json.RawMessage `json:"importState"`
	}{state})
}

// UnmarshalJSON decodes the nested discriminated state.
func (r *GetImportDataResponse) UnmarshalJSON(data []byte) error {
	var aux struct {
		ImportState json.RawMessage `json:"importState"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.ImportState) == 0 {
		return errors.New("missing importState")
	}
	state, err := UnmarshalImportState(aux.ImportState)
	if err != nil {
		return err
	}
	r.ImportState = state
	return nil
}

// SetImportEncryptedDataRequest is the body of POST import/{channel}/encrypted.
type SetImportEncryptedDataRequest struct {
	EncryptedData Base64Blob `json:"encryptedData"`
}

// AcceptImportRequest is the body of POST import/{channel}/accept, sent by
// the owner application.
type AcceptImportRequest struct {
	OwnerDeviceKey Base58PublicKey `json:"ownerDeviceKey"`
	OwnerProof     Base64Blob      `json:"ownerProof"`
}
