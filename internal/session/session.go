// Package session implements the typing-practice state machine.
//
// A State is a value; Reduce never mutates its argument and returns the next
// state together with the side effects the host should perform.
package session

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/keypress/internal/vocab"
)

// Vocabulary resolves level keys to word lists.
type Vocabulary interface {
	Levels() []string
	Words(level string) ([]vocab.WordEntry, error)
}

// Status gates character input.
type Status int

const (
	// Stopped ignores characters and navigation.
	Stopped Status = iota
	// Running interprets characters and navigation.
	Running
)

func (s Status) String() string {
	if s == Running {
		return "Running"
	}
	return "Stopped"
}

// State is the observable session state.
type State struct {
	vocab         Vocabulary
	level         string
	words         []vocab.WordEntry
	index         int
	chapter       int
	input         string
	status        Status
	pronunciation Pronunciation
}

// Option customizes the initial state.
type Option func(*options)

type options struct {
	level         string
	pronunciation Pronunciation
}

// WithLevel starts on the given level instead of the first one.
func WithLevel(level string) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithPronunciation sets the initial pronunciation variant.
func WithPronunciation(p Pronunciation) Option {
	return func(o *options) {
		o.pronunciation = p
	}
}

// New returns a Stopped session positioned on the first word of the first level.
func New(v Vocabulary, opts ...Option) (State, error) {
	levels := v.Levels()
	if len(levels) == 0 {
		return State{}, fmt.Errorf("vocabulary has no levels")
	}
	o := options{level: levels[0], pronunciation: AmericanEnglish}
	for _, opt := range opts {
		opt(&o)
	}
	words, err := v.Words(o.level)
	if err != nil {
		return State{}, err
	}
	if len(words) == 0 {
		return State{}, fmt.Errorf("level %q has no words", o.level)
	}
	return State{
		vocab:         v,
		level:         o.level,
		words:         words,
		chapter:       vocab.ChapterOf(0),
		status:        Stopped,
		pronunciation: o.pronunciation,
	}, nil
}

// Reduce applies one event. On error the returned state equals s.
func Reduce(s State, ev Event) (State, []Intent, error) {
	switch ev := ev.(type) {
	case Submit:
		next, intents := s.toggle()
		return next, intents, nil
	case Character:
		next, intents := s.typeKey(ev.Key)
		return next, intents, nil
	case SelectPronunciation:
		next, intents := s.selectPronunciation(PronunciationFromCode(ev.Code))
		return next, intents, nil
	case SelectLevel:
		return s.selectLevel(ev.Level)
	case SelectChapter:
		next, intents := s.selectChapter(ev.Chapter)
		return next, intents, nil
	case NextOrPrev:
		next, intents := s.navigate(ev.Direction)
		return next, intents, nil
	default:
		return s, nil, nil
	}
}

func (s State) toggle() (State, []Intent) {
	if s.status == Running {
		s.status = Stopped
		return s, nil
	}
	s.status = Running
	return s, []Intent{s.pronounce()}
}

func (s State) typeKey(key string) (State, []Intent) {
	if s.status != Running || len(key) != 1 {
		return s, nil
	}
	intents := []Intent{PlayClick{}}
	candidate := s.input + key
	name := s.Current().Name
	if !strings.HasPrefix(name, candidate) {
		s.input = ""
		return s, append(intents, PlayWrong{})
	}
	if candidate != name {
		s.input = candidate
		return s, intents
	}
	s.input = ""
	s = s.moveTo((s.index + 1) % len(s.words))
	return s, append(intents, PlayCorrect{}, s.pronounce())
}

func (s State) selectPronunciation(p Pronunciation) (State, []Intent) {
	s.pronunciation = p
	return s, []Intent{logf("select pronunciation: %s", p), s.pronounce()}
}

func (s State) selectLevel(level string) (State, []Intent, error) {
	words, err := s.vocab.Words(level)
	if err != nil {
		return s, nil, err
	}
	if len(words) == 0 {
		return s, nil, fmt.Errorf("level %q has no words", level)
	}
	s.level = level
	s.words = words
	s.input = ""
	s = s.moveTo(0)
	return s, []Intent{logf("select level: %s", level)}, nil
}

// selectChapter clamps out-of-range chapters to the first or last one.
func (s State) selectChapter(chapter int) (State, []Intent) {
	count := vocab.ChapterCount(len(s.words))
	if chapter < 1 {
		chapter = 1
	}
	if chapter > count {
		chapter = count
	}
	s.input = ""
	s = s.moveTo(vocab.ChapterStart(chapter))
	return s, []Intent{logf("select chapter: %d", chapter)}
}

func (s State) navigate(direction string) (State, []Intent) {
	if s.status != Running {
		return s, nil
	}
	var index int
	switch direction {
	case DirectionNext:
		index = (s.index + 1) % len(s.words)
	case DirectionPrev:
		index = s.index - 1
		if index < 0 {
			index = len(s.words) - 1
		}
	default:
		return s, nil
	}
	s.input = ""
	s = s.moveTo(index)
	return s, []Intent{s.pronounce()}
}

func (s State) moveTo(index int) State {
	s.index = index
	s.chapter = vocab.ChapterOf(index)
	return s
}

func (s State) pronounce() PlayPronunciation {
	return PlayPronunciation{Word: s.Current().Name, Variant: s.pronunciation}
}

// Level returns the current level key.
func (s State) Level() string { return s.level }

// Levels returns the selectable level keys.
func (s State) Levels() []string { return s.vocab.Levels() }

// WordIndex returns the index of the current word within the level.
func (s State) WordIndex() int { return s.index }

// Chapter returns the 1-based chapter of the current word.
func (s State) Chapter() int { return s.chapter }

// ChapterCount returns the number of chapters in the current level.
func (s State) ChapterCount() int { return vocab.ChapterCount(len(s.words)) }

// Len returns the number of words in the current level.
func (s State) Len() int { return len(s.words) }

// Current returns the word being typed.
func (s State) Current() vocab.WordEntry { return s.words[s.index] }

// Input returns the correctly typed prefix of the current word.
func (s State) Input() string { return s.input }

// Remaining returns the untyped suffix of the current word.
func (s State) Remaining() string { return s.Current().Name[len(s.input):] }

// Status returns whether the session accepts characters.
func (s State) Status() Status { return s.status }

// Running reports whether the session accepts characters.
func (s State) Running() bool { return s.status == Running }

// Pronunciation returns the selected pronunciation variant.
func (s State) Pronunciation() Pronunciation { return s.pronunciation }
