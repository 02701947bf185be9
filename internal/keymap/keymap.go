// Package keymap translates terminal key presses into session events.
package keymap

import (
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"

	"github.com/verte-zerg/keypress/internal/session"
)

// KeyMap holds the control bindings. Keys not bound here are typed characters.
type KeyMap struct {
	Submit        key.Binding
	Next          key.Binding
	Prev          key.Binding
	NextChapter   key.Binding
	PrevChapter   key.Binding
	NextLevel     key.Binding
	PrevLevel     key.Binding
	Pronunciation key.Binding
	Quit          key.Binding
}

// Default returns the standard bindings.
func Default() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "start/pause"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "ctrl+n"),
			key.WithHelp("→", "next word"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left", "ctrl+p"),
			key.WithHelp("←", "prev word"),
		),
		NextChapter: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "next chapter"),
		),
		PrevChapter: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "prev chapter"),
		),
		NextLevel: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next level"),
		),
		PrevLevel: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev level"),
		),
		Pronunciation: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "US/UK"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Prev, k.Next, k.NextLevel, k.Pronunciation, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Prev, k.Next},
		{k.PrevChapter, k.NextChapter},
		{k.PrevLevel, k.NextLevel, k.Pronunciation},
		{k.Quit},
	}
}

// Translate maps a key press to an event. The second result is false for keys
// that carry no meaning for the session, including quit.
func (k KeyMap) Translate(msg tea.KeyMsg, s session.State) (session.Event, bool) {
	switch {
	case key.Matches(msg, k.Quit):
		return nil, false
	case key.Matches(msg, k.Submit):
		return session.Submit{}, true
	case key.Matches(msg, k.Next):
		return session.NextOrPrev{Direction: session.DirectionNext}, true
	case key.Matches(msg, k.Prev):
		return session.NextOrPrev{Direction: session.DirectionPrev}, true
	case key.Matches(msg, k.NextChapter):
		return session.SelectChapter{Chapter: s.Chapter() + 1}, true
	case key.Matches(msg, k.PrevChapter):
		return session.SelectChapter{Chapter: s.Chapter() - 1}, true
	case key.Matches(msg, k.NextLevel):
		return session.SelectLevel{Level: adjacentLevel(s.Levels(), s.Level(), 1)}, true
	case key.Matches(msg, k.PrevLevel):
		return session.SelectLevel{Level: adjacentLevel(s.Levels(), s.Level(), -1)}, true
	case key.Matches(msg, k.Pronunciation):
		next := session.BritishEnglish
		if s.Pronunciation() == session.BritishEnglish {
			next = session.AmericanEnglish
		}
		return session.SelectPronunciation{Code: next.Code()}, true
	}
	return Character(msg)
}

// Character maps a printable ASCII key press to a Character event.
func Character(msg tea.KeyMsg) (session.Event, bool) {
	switch msg.Type {
	case tea.KeySpace:
		return session.Character{Key: " "}, true
	case tea.KeyRunes:
		if msg.Alt || msg.Paste || len(msg.Runes) != 1 {
			return nil, false
		}
		if r := msg.Runes[0]; r > unicode.MaxASCII || !unicode.IsPrint(r) {
			return nil, false
		}
		return session.Character{Key: string(msg.Runes)}, true
	default:
		return nil, false
	}
}

func adjacentLevel(levels []string, current string, step int) string {
	if len(levels) == 0 {
		return current
	}
	idx := lo.IndexOf(levels, current)
	if idx < 0 {
		return levels[0]
	}
	n := len(levels)
	return levels[((idx+step)%n+n)%n]
}
