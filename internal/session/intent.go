package session

import "fmt"

// Intent describes a side effect requested by a transition. Intents are returned
// in emission order and executed by collaborators, never by the session.
type Intent interface {
	isIntent()
}

// PlayClick requests the keystroke sound.
type PlayClick struct{}

// PlayCorrect requests the word-completed sound.
type PlayCorrect struct{}

// PlayWrong requests the mistake sound.
type PlayWrong struct{}

// PlayPronunciation requests the spoken form of a word.
type PlayPronunciation struct {
	Word    string
	Variant Pronunciation
}

// Log is a diagnostic line for the console or log file.
type Log struct {
	Message string
}

func (PlayClick) isIntent()         {}
func (PlayCorrect) isIntent()       {}
func (PlayWrong) isIntent()         {}
func (PlayPronunciation) isIntent() {}
func (Log) isIntent()               {}

func (PlayClick) String() string   { return "PlayClick" }
func (PlayCorrect) String() string { return "PlayCorrect" }
func (PlayWrong) String() string   { return "PlayWrong" }

func (p PlayPronunciation) String() string {
	return fmt.Sprintf("PlayPronunciation(%s, %s)", p.Word, p.Variant.Short())
}

func (l Log) String() string {
	return "Log(" + l.Message + ")"
}

func logf(format string, args ...any) Log {
	return Log{Message: fmt.Sprintf(format, args...)}
}
