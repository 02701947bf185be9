package stats

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/verte-zerg/keypress/internal/model"
)

const terminalWidthBackup = 80

// Source reads aggregated practice history.
type Source interface {
	ListLevelAggregates(ctx context.Context, cfg model.StatsConfig) ([]model.LevelAggregate, error)
	ListHardWords(ctx context.Context, cfg model.StatsConfig) ([]model.WordAggregate, error)
	ListDailyHits(ctx context.Context, cfg model.StatsConfig) ([]model.DailyCount, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Levels    []model.LevelAggregate
	HardWords []model.WordAggregate
	Daily     []model.DailyCount
	Days      int
	End       time.Time
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, src Source, cfg model.StatsConfig) (Report, error) {
	levels, err := src.ListLevelAggregates(ctx, cfg)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load level stats: %w", err)
	}
	words, err := src.ListHardWords(ctx, cfg)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load hard words: %w", err)
	}
	daily, err := src.ListDailyHits(ctx, cfg)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load daily stats: %w", err)
	}
	return Report{
		Levels:    levels,
		HardWords: words,
		Daily:     daily,
		Days:      cfg.Days,
		End:       time.Now(),
	}, nil
}

// Render prints every report section sized to width columns.
func Render(w io.Writer, r Report, width int) error {
	if width <= 0 {
		width = TerminalWidth(w)
	}
	if err := RenderLevels(w, r.Levels); err != nil {
		return err
	}
	if len(r.Levels) == 0 {
		return nil
	}
	if err := RenderHardWords(w, r.HardWords); err != nil {
		return err
	}
	return RenderDaily(w, r.Daily, r.End, r.Days, width)
}

// TerminalWidth returns the width of w when it is a terminal.
func TerminalWidth(w io.Writer) int {
	file, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return terminalWidthBackup
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
