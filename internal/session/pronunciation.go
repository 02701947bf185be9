package session

import (
	"fmt"
	"strings"
)

// Pronunciation selects the spoken variant of a word.
type Pronunciation uint8

const (
	// AmericanEnglish is the default variant.
	AmericanEnglish Pronunciation = 0
	// BritishEnglish is the alternative variant.
	BritishEnglish Pronunciation = 1
)

// Pronunciations lists the variants in selector order.
var Pronunciations = []Pronunciation{AmericanEnglish, BritishEnglish}

// PronunciationFromCode maps a selector code to a variant. Anything but 0 is British.
func PronunciationFromCode(code uint8) Pronunciation {
	if code == uint8(AmericanEnglish) {
		return AmericanEnglish
	}
	return BritishEnglish
}

// ParsePronunciation accepts the short names used by the CLI and config file.
func ParsePronunciation(s string) (Pronunciation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "us", "ame", "american":
		return AmericanEnglish, nil
	case "uk", "gb", "bre", "british":
		return BritishEnglish, nil
	default:
		return AmericanEnglish, fmt.Errorf("unknown pronunciation %q (use us or uk)", s)
	}
}

// Code returns the selector code.
func (p Pronunciation) Code() uint8 {
	return uint8(p)
}

// Short returns the two-letter label.
func (p Pronunciation) Short() string {
	if p == BritishEnglish {
		return "UK"
	}
	return "US"
}

func (p Pronunciation) String() string {
	if p == BritishEnglish {
		return "British pronunciation"
	}
	return "American pronunciation"
}
