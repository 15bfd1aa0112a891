package types_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"seedlink/internal/crypto"
	"seedlink/internal/domain/types"
)

func TestBase58PublicKey_Validation(t *testing.T) {
	_, err := types.NewBase58PublicKey("0OIl")
	require.ErrorIs(t, err, types.ErrInvalidBase58)

	_, err = types.NewBase58PublicKey("")
	require.ErrorIs(t, err, types.ErrInvalidBase58)

	kp, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	k := types.Base58FromPublicKey(kp.Public())
	pub, err := k.PublicKey()
	require.NoError(t, err)
	require.True(t, pub.Equal(kp.Public()))

	var decoded types.Base58PublicKey
	require.Error(t, json.Unmarshal([]byte(`"not base58!"`), &decoded))
}

func TestBase64Blob_Validation(t *testing.T) {
	_, err := types.ParseBase64Blob("%%%")
	require.ErrorIs(t, err, types.ErrInvalidBase64)

	b := types.EncodeBase64Blob([]byte{0, 1, 2, 250})
	require.Equal(t, []byte{0, 1, 2, 250}, b.Bytes())

	var decoded types.Base64Blob
	require.ErrorIs(t, json.Unmarshal([]byte(`"a"`), &decoded), types.ErrInvalidBase64)
}

func TestImportState_Decode(t *testing.T) {
	kp, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	key := crypto.PublicKeyBase58(kp.Public())

	var initial types.GetImportDataResponse
	require.NoError(t, json.Unmarshal([]byte(`{"importState":{"type":"Initial","extra":1},"other":true}`), &initial))
	require.Equal(t, types.StateInitial, initial.ImportState.Type())

	var accepted types.GetImportDataResponse
	body := `{"importState":{"type":"Accepted","ownerDeviceKey":"` + key +
		`","ownerProof":"AAEC","acceptedAt":"2024-01-02T03:04:05.123456Z"}}`
	require.NoError(t, json.Unmarshal([]byte(body), &accepted))
	st, ok := accepted.ImportState.(types.AcceptedState)
	require.True(t, ok)
	require.Equal(t, key, st.OwnerDeviceKey.String())
	require.Equal(t, []byte{0, 1, 2}, st.OwnerProof.Bytes())
	require.Equal(t, 2024, st.AcceptedAt.Year())

	var completed types.GetImportDataResponse
	require.NoError(t, json.Unmarshal([]byte(`{"importState":{"type":"Completed","encryptedData":"AAEC"}}`), &completed))
	require.Equal(t, types.StateCompleted, completed.ImportState.Type())

	var unknown types.GetImportDataResponse
	require.ErrorIs(t, json.Unmarshal([]byte(`{"importState":{"type":"Rejected"}}`), &unknown), types.ErrUnknownImportState)

	var badKey types.GetImportDataResponse
	require.ErrorIs(t,
		json.Unmarshal([]byte(`{"importState":{"type":"Accepted","ownerDeviceKey":"0OIl","ownerProof":""}}`), &badKey),
		types.ErrInvalidBase58)
}

func TestImportState_EncodeKeepsDiscriminant(t *testing.T) {
	kp, err := crypto.GenerateKeyPair()
	require.NoError(t, err)

	in := types.GetImportDataResponse{ImportState: types.AcceptedState{
		OwnerDeviceKey: types.Base58FromPublicKey(kp.Public()),
		OwnerProof:     types.EncodeBase64Blob([]byte("proof")),
		AcceptedAt:     time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}}
	b, err := json.Marshal(in)
	require.NoError(t, err)

	var generic map[string]map[string]any
	require.NoError(t, json.Unmarshal(b, &generic))
	require.Equal(t, "Accepted", generic["importState"]["type"])

	var out types.GetImportDataResponse
	require.NoError(t, json.Unmarshal(b, &out))
	require.Equal(t, in, out)
}

func TestPhraseExport_Language(t *testing.T) {
	b, err := json.Marshal(types.PhraseExport{BinaryPhrase: "00ff", Language: types.English})
	require.NoError(t, err)
	require.JSONEq(t, `{"binaryPhrase":"00ff","language":1,"label":""}`, string(b))

	var p types.PhraseExport
	require.NoError(t, json.Unmarshal([]byte(`{"binaryPhrase":"aa","language":10,"label":"x"}`), &p))
	require.Equal(t, types.ChineseSimplified, p.Language)

	for _, body := range []string{
		`{"binaryPhrase":"aa","language":0,"label":""}`,
		`{"binaryPhrase":"aa","language":11,"label":""}`,
		`{"binaryPhrase":"aa","language":"x","label":""}`,
	} {
		require.ErrorIs(t, json.Unmarshal([]byte(body), &p), types.ErrUnknownLanguage, body)
	}

	l, err := types.ParseLanguage("Korean")
	require.NoError(t, err)
	require.Equal(t, uint8(8), l.ID())
}
