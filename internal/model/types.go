// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	Level         string
	Pronunciation string
	DictDir       string
	Mute          bool
	Player        string
	AudioURL      string
	MaxConcurrent int
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Level string
	Since *time.Time
	Top   int
	Days  int
}

// AttemptKind distinguishes completed words from mistyped ones.
type AttemptKind string

const (
	// AttemptHit marks a word typed to completion.
	AttemptHit AttemptKind = "hit"
	// AttemptMiss marks a mismatching keystroke.
	AttemptMiss AttemptKind = "miss"
)

// Attempt is one recorded practice event.
type Attempt struct {
	RunID string
	Level string
	Word  string
	Kind  AttemptKind
	Typed string
	At    time.Time
}

// LevelAggregate summarizes attempts for a level.
type LevelAggregate struct {
	Level  string
	Hits   int
	Misses int
	Runs   int
}

// WordAggregate summarizes attempts for a single word.
type WordAggregate struct {
	Level  string
	Word   string
	Hits   int
	Misses int
}

// DailyCount is the number of completed words on a calendar day.
type DailyCount struct {
	Day  time.Time
	Hits int
}
