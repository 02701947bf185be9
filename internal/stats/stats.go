// Package stats contains practice history calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/verte-zerg/keypress/internal/model"
)

var sparkRunes = []rune(" ▁▂▃▄▅▆▇█")

// Accuracy is the share of hits among all attempts, 0 when there are none.
func Accuracy(hits, misses int) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

// FillDays spreads daily counts over consecutive days ending at end.
// When days is not positive the range starts at the first recorded day.
func FillDays(daily []model.DailyCount, end time.Time, days int) []int {
	end = truncateDay(end)
	byDay := make(map[string]int, len(daily))
	for _, dc := range daily {
		byDay[dc.Day.Format(time.DateOnly)] += dc.Hits
	}
	if days <= 0 {
		if len(daily) == 0 {
			return nil
		}
		first := truncateDay(daily[0].Day)
		days = int(math.Round(end.Sub(first).Hours()/24)) + 1
		if days <= 0 {
			return nil
		}
	}
	out := make([]int, days)
	for i := 0; i < days; i++ {
		day := end.AddDate(0, 0, i-days+1)
		out[i] = byDay[day.Format(time.DateOnly)]
	}
	return out
}

func truncateDay(t time.Time) time.Time {
	t = t.Local()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// Sparkline renders counts as block characters scaled to the largest value.
// When width is positive only the most recent width values are drawn.
func Sparkline(values []int, width int) string {
	if width > 0 && len(values) > width {
		values = values[len(values)-width:]
	}
	if len(values) == 0 {
		return ""
	}
	maxVal := lo.Max(values)
	if maxVal <= 0 {
		return strings.Repeat(string(sparkRunes[0]), len(values))
	}
	top := len(sparkRunes) - 1
	var b strings.Builder
	for _, v := range values {
		idx := 0
		if v > 0 {
			idx = int(math.Ceil(float64(v) / float64(maxVal) * float64(top)))
		}
		b.WriteRune(sparkRunes[min(idx, top)])
	}
	return b.String()
}

// RenderLevels prints a per-level table with a total row.
func RenderLevels(w io.Writer, aggs []model.LevelAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No practice history found.")
		return err
	}
	rows := lo.Map(aggs, func(agg model.LevelAggregate, _ int) []string {
		return levelRow(agg.Level, agg.Hits, agg.Misses, strconv.Itoa(agg.Runs))
	})
	if len(aggs) > 1 {
		hits := lo.SumBy(aggs, func(agg model.LevelAggregate) int { return agg.Hits })
		misses := lo.SumBy(aggs, func(agg model.LevelAggregate) int { return agg.Misses })
		rows = append(rows, levelRow("Total", hits, misses, ""))
	}
	headers := []string{"Level", "Words", "Misses", "Accuracy", "Runs"}
	return writeSection(w, "Levels", formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true, 4: true}))
}

func levelRow(level string, hits, misses int, runs string) []string {
	return []string{
		level,
		strconv.Itoa(hits),
		strconv.Itoa(misses),
		fmt.Sprintf("%.2f%%", Accuracy(hits, misses)*100),
		runs,
	}
}

// RenderHardWords prints the most missed words.
func RenderHardWords(w io.Writer, words []model.WordAggregate) error {
	if len(words) == 0 {
		return nil
	}
	rows := lo.Map(words, func(agg model.WordAggregate, _ int) []string {
		return []string{agg.Word, agg.Level, strconv.Itoa(agg.Misses), strconv.Itoa(agg.Hits)}
	})
	headers := []string{"Word", "Level", "Misses", "Words"}
	return writeSection(w, "Hard Words", formatTable(headers, rows, map[int]bool{2: true, 3: true}))
}

// RenderDaily prints a sparkline of completed words per day.
func RenderDaily(w io.Writer, daily []model.DailyCount, end time.Time, days, width int) error {
	counts := FillDays(daily, end, days)
	if len(counts) == 0 {
		return nil
	}
	const label = "Words/day "
	spark := Sparkline(counts, width-len(label)-2)
	total := lo.Sum(counts)
	lines := []string{
		label + "|" + spark + "|",
		fmt.Sprintf("%d words over %d days, best day %d", total, len(counts), lo.Max(counts)),
	}
	return writeSection(w, "Daily", lines)
}

func writeSection(w io.Writer, title string, lines []string) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
