package domain

import (
	interfaces "seedlink/internal/domain/interfaces"
	types "seedlink/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Channel                       = types.Channel
	Base58PublicKey               = types.Base58PublicKey
	Base64Blob                    = types.Base64Blob
	ImportStateType               = types.ImportStateType
	ImportState                   = types.ImportState
	InitialState                  = types.InitialState
	AcceptedState                 = types.AcceptedState
	CompletedState                = types.CompletedState
	GetImportDataResponse         = types.GetImportDataResponse
	SetImportEncryptedDataRequest = types.SetImportEncryptedDataRequest
	AcceptImportRequest           = types.AcceptImportRequest
	Language                      = types.Language
	PhraseExport                  = types.PhraseExport
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	ImportRelay   = interfaces.ImportRelay
	OwnerRelay    = interfaces.OwnerRelay
	ChannelStore  = interfaces.ChannelStore
	ChannelRecord = interfaces.ChannelRecord
)

// Languages re-exported for callers that only import domain.
const (
	English            = types.English
	Spanish            = types.Spanish
	French             = types.French
	Italian            = types.Italian
	Portuguese         = types.Portuguese
	Czech              = types.Czech
	Japanese           = types.Japanese
	Korean             = types.Korean
	ChineseTraditional = types.ChineseTraditional
	ChineseSimplified  = types.ChineseSimplified
)

// Import state discriminants.
const (
	StateInitial   = types.StateInitial
	StateAccepted  = types.StateAccepted
	StateCompleted = types.StateCompleted
)

// Sentinel errors.
var (
	ErrInvalidBase58      = types.ErrInvalidBase58
	ErrInvalidBase64      = types.ErrInvalidBase64
	ErrUnknownLanguage    = types.ErrUnknownLanguage
	ErrUnknownImportState = types.ErrUnknownImportState
)

// Constructors re-exported from the types subpackage.
var (
	NewBase58PublicKey   = types.NewBase58PublicKey
	Base58FromPublicKey  = types.Base58FromPublicKey
	EncodeBase64Blob     = types.EncodeBase64Blob
	ParseBase64Blob      = types.ParseBase64Blob
	LanguageFromID       = types.LanguageFromID
	ParseLanguage        = types.ParseLanguage
	MarshalImportState   = types.MarshalImportState
	UnmarshalImportState = types.UnmarshalImportState
)
