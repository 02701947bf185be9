// Package audio executes the sound intents produced by a typing session.
package audio

import (
	"context"

	"github.com/verte-zerg/keypress/internal/session"
)

// Tone is one of the short feedback sounds.
type Tone int

const (
	// ToneClick accompanies every accepted keystroke.
	ToneClick Tone = iota
	// ToneCorrect marks a completed word.
	ToneCorrect
	// ToneWrong marks a mistyped character.
	ToneWrong
)

func (t Tone) String() string {
	switch t {
	case ToneClick:
		return "click"
	case ToneCorrect:
		return "correct"
	case ToneWrong:
		return "wrong"
	default:
		return "unknown"
	}
}

// Player plays sounds. Implementations may block until playback ends.
type Player interface {
	PlayTone(ctx context.Context, tone Tone) error
	PlayWord(ctx context.Context, word string, variant session.Pronunciation) error
}

// Nop is a Player that plays nothing.
type Nop struct{}

// PlayTone implements Player.
func (Nop) PlayTone(context.Context, Tone) error { return nil }

// PlayWord implements Player.
func (Nop) PlayWord(context.Context, string, session.Pronunciation) error { return nil }
