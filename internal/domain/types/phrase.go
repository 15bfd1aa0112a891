package types

import (
	"encoding/json"
	"fmt"
)

// Language is the word list a binary phrase maps onto.
type Language uint8

const (
	English Language = iota + 1
	Spanish
	French
	Italian
	Portuguese
	Czech
	Japanese
	Korean
	ChineseTraditional
	ChineseSimplified
)

var languageNames = [...]string{
	English:            "English",
	Spanish:            "Spanish",
	French:             "French",
	Italian:            "Italian",
	Portuguese:         "Portuguese",
	Czech:              "Czech",
	Japanese:           "Japanese",
	Korean:             "Korean",
	ChineseTraditional: "ChineseTraditional",
	ChineseSimplified:  "ChineseSimplified",
}

// LanguageFromID maps a wire id to a Language.
func LanguageFromID(id uint8) (Language, error) {
	l := Language(id)
	if !l.Valid() {
		return 0, fmt.Errorf("%w %d", ErrUnknownLanguage, id)
	}
	return l, nil
}

// ParseLanguage accepts a language name (case-sensitive) as printed by String.
func ParseLanguage(name string) (Language, error) {
	for id, n := range languageNames {
		if n != "" && n == name {
			return Language(id), nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownLanguage, name)
}

// ID returns the wire id.
func (l Language) ID() uint8 { return uint8(l) }

// Valid reports whether l is one of the ten known languages.
func (l Language) Valid() bool { return l >= English && l <= ChineseSimplified }

func (l Language) String() string {
	if !l.Valid() {
		return fmt.Sprintf("Language(%d)", uint8(l))
	}
	return languageNames[l]
}

// MarshalJSON encodes the wire id.
func (l Language) MarshalJSON() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w %d", ErrUnknownLanguage, uint8(l))
	}
	return json.Marshal(uint8(l))
}

// UnmarshalJSON rejects ids outside the known set.
func (l *Language) UnmarshalJSON(data []byte) error {
	var id uint8
	if err := json.Unmarshal(data, &id); err != nil {
		return fmt.Errorf("%w: %v", ErrUnknownLanguage, err)
	}
	v, err := LanguageFromID(id)
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// PhraseExport is the plaintext the wallet encrypts to the owner device.
type PhraseExport struct {
	BinaryPhrase string   `json:"binaryPhrase"`
	Language     Language `json:"language"`
	Label        string   `json:"label"`
}
