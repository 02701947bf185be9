package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/keypress/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "data", "keypress.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func seed(t *testing.T, st *Store, attempts ...model.Attempt) {
	t.Helper()
	for _, a := range attempts {
		_, err := st.InsertAttempt(context.Background(), a)
		require.NoError(t, err)
	}
}

func hit(run, level, word string, at time.Time) model.Attempt {
	return model.Attempt{RunID: run, Level: level, Word: word, Kind: model.AttemptHit, Typed: word, At: at}
}

func miss(run, level, word, typed string, at time.Time) model.Attempt {
	return model.Attempt{RunID: run, Level: level, Word: word, Kind: model.AttemptMiss, Typed: typed, At: at}
}

func TestInsertAttemptRejectsUnknownKind(t *testing.T) {
	st := openTestStore(t)
	_, err := st.InsertAttempt(context.Background(), model.Attempt{RunID: "r", Level: "CET4", Word: "go", Kind: "skip"})
	require.ErrorContains(t, err, "invalid attempt kind")
}

func TestInsertAttemptDefaultsTime(t *testing.T) {
	st := openTestStore(t)
	id, err := st.InsertAttempt(context.Background(), model.Attempt{RunID: "r", Level: "CET4", Word: "go", Kind: model.AttemptHit, Typed: "go"})
	require.NoError(t, err)
	require.Positive(t, id)

	days, err := st.ListDailyHits(context.Background(), model.StatsConfig{})
	require.NoError(t, err)
	require.Len(t, days, 1)
	require.Equal(t, time.Now().Format(dayLayout), days[0].Day.Format(dayLayout))
}

func TestListLevelAggregates(t *testing.T) {
	st := openTestStore(t)
	now := time.Now()
	seed(t, st,
		hit("r1", "CET4", "cancel", now),
		miss("r1", "CET4", "cancel", "cx", now),
		hit("r2", "CET4", "explain", now),
		miss("r2", "Programmer", "mutex", "mt", now),
	)

	aggs, err := st.ListLevelAggregates(context.Background(), model.StatsConfig{})
	require.NoError(t, err)
	require.Equal(t, []model.LevelAggregate{
		{Level: "CET4", Hits: 2, Misses: 1, Runs: 2},
		{Level: "Programmer", Hits: 0, Misses: 1, Runs: 1},
	}, aggs)

	aggs, err = st.ListLevelAggregates(context.Background(), model.StatsConfig{Level: "Programmer"})
	require.NoError(t, err)
	require.Len(t, aggs, 1)
	assert.Equal(t, "Programmer", aggs[0].Level)
}

func TestListHardWordsOrdering(t *testing.T) {
	st := openTestStore(t)
	now := time.Now()
	seed(t, st,
		miss("r", "CET4", "abandon", "ax", now),
		miss("r", "CET4", "abandon", "ab", now),
		hit("r", "CET4", "abandon", now),
		miss("r", "CET4", "ability", "ax", now),
		miss("r", "CET4", "ability", "ab", now),
		miss("r", "CET4", "absent", "ax", now),
		hit("r", "CET4", "absorb", now),
	)

	words, err := st.ListHardWords(context.Background(), model.StatsConfig{Top: 10})
	require.NoError(t, err)
	require.Len(t, words, 3)
	assert.Equal(t, "ability", words[0].Word)
	assert.Equal(t, 2, words[0].Misses)
	assert.Equal(t, "abandon", words[1].Word)
	assert.Equal(t, 1, words[1].Hits)
	assert.Equal(t, "absent", words[2].Word)

	words, err = st.ListHardWords(context.Background(), model.StatsConfig{Top: 1})
	require.NoError(t, err)
	require.Len(t, words, 1)

	words, err = st.ListHardWords(context.Background(), model.StatsConfig{})
	require.NoError(t, err)
	require.Nil(t, words)
}

func TestListDailyHitsHonorsSince(t *testing.T) {
	st := openTestStore(t)
	today := time.Now()
	old := today.AddDate(0, 0, -3)
	seed(t, st,
		hit("r1", "TOEFL", "arid", old),
		hit("r1", "TOEFL", "brisk", old),
		miss("r1", "TOEFL", "brisk", "bx", old),
		hit("r2", "TOEFL", "candid", today),
	)

	days, err := st.ListDailyHits(context.Background(), model.StatsConfig{})
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, 2, days[0].Hits)
	assert.Equal(t, 1, days[1].Hits)
	assert.True(t, days[0].Day.Before(days[1].Day))

	since := today.Add(-time.Hour)
	days, err = st.ListDailyHits(context.Background(), model.StatsConfig{Since: &since})
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, 1, days[0].Hits)
}

func TestOpenIsRepeatable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keypress.db")
	st, err := Open(path)
	require.NoError(t, err)
	seed(t, st, hit("r", "CET6", "dense", time.Now()))
	require.NoError(t, st.Close())

	st, err = Open(path)
	require.NoError(t, err)
	defer func() { _ = st.Close() }()
	aggs, err := st.ListLevelAggregates(context.Background(), model.StatsConfig{})
	require.NoError(t, err)
	require.Len(t, aggs, 1)
}
