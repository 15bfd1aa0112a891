// Package seedlink lets a wallet hand a seed phrase to an owner application
// over an untrusted relay.
//
// A wallet calls Integration.Initiate for each pairing attempt, shows the
// link returned by Session.Connect to the user, and calls Session.Phrase
// once the owner has connected:
//
//	s, err := seedlink.Integration{AppName: "My Wallet"}.Initiate(func(ok bool) { ... })
//	link, err := s.Connect(func() { _ = s.Phrase(binaryPhrase) })
package seedlink

import (
	"seedlink/internal/domain"
	"seedlink/internal/services/session"
)

// Defaults applied to blank Integration fields.
const (
	DefaultAPIURL      = "https://api.censo.co"
	DefaultAPIVersion  = "v1"
	DefaultLinkScheme  = "censo-main"
	DefaultLinkVersion = "v1"
	DefaultAppName     = "UNKNOWN"
)

type (
	// Session is one single-use pairing attempt.
	Session = session.Session
	// Option configures a Session.
	Option = session.Option
	// PhraseOption customises the exported phrase.
	PhraseOption = session.PhraseOption
	// Language identifies the word list of a phrase.
	Language = domain.Language
)

// Phrase and session options.
var (
	WithLanguage     = session.WithLanguage
	WithLabel        = session.WithLabel
	WithPollInterval = session.WithPollInterval
	WithLogger       = session.WithLogger
	WithHTTPClient   = session.WithHTTPClient
)

// Supported word list languages.
const (
	English            = domain.English
	Spanish            = domain.Spanish
	French             = domain.French
	Italian            = domain.Italian
	Portuguese         = domain.Portuguese
	Czech              = domain.Czech
	Japanese           = domain.Japanese
	Korean             = domain.Korean
	ChineseTraditional = domain.ChineseTraditional
	ChineseSimplified  = domain.ChineseSimplified
)

// Integration describes the relay and link parameters of a host wallet.
type Integration struct {
	APIURL      string
	APIVersion  string
	LinkScheme  string
	LinkVersion string
	AppName     string
}

// withDefaults fills blank fields.
func (i Integration) withDefaults() Integration {
	if i.APIURL == "" {
		i.APIURL = DefaultAPIURL
	}
	if i.APIVersion == "" {
		i.APIVersion = DefaultAPIVersion
	}
	if i.LinkScheme == "" {
		i.LinkScheme = DefaultLinkScheme
	}
	if i.LinkVersion == "" {
		i.LinkVersion = DefaultLinkVersion
	}
	if i.AppName == "" {
		i.AppName = DefaultAppName
	}
	return i
}

// Initiate creates a fresh session with new key pairs. onFinished runs
// exactly once with the outcome; it may be nil.
func (i Integration) Initiate(onFinished func(bool), opts ...Option) (*Session, error) {
	i = i.withDefaults()
	return session.New(session.Config{
		APIURL:      i.APIURL,
		APIVersion:  i.APIVersion,
		LinkScheme:  i.LinkScheme,
		LinkVersion: i.LinkVersion,
		AppName:     i.AppName,
	}, onFinished, opts...)
}
