// Package main provides the CLI entrypoint for keypress.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/keypress/internal/audio"
	"github.com/verte-zerg/keypress/internal/config"
	"github.com/verte-zerg/keypress/internal/logging"
	"github.com/verte-zerg/keypress/internal/model"
	"github.com/verte-zerg/keypress/internal/session"
	"github.com/verte-zerg/keypress/internal/stats"
	"github.com/verte-zerg/keypress/internal/store"
	"github.com/verte-zerg/keypress/internal/tui"
	"github.com/verte-zerg/keypress/internal/vocab"
)

const (
	defaultPronunciation = "us"
	defaultLogLevel      = "info"
	defaultStatsTop      = 10
	defaultStatsDays     = 14
)

var (
	practiceLevel         string
	practicePronunciation string
	practiceMute          bool
	practicePlayer        string
	practiceDictDir       string

	statsLevel string
	statsSince string
	statsTop   int
	statsDays  int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "keypress",
		Short:         "TUI vocabulary typing trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceLevel, "level", "", "starting level (default: first level)")
	rootCmd.Flags().StringVar(&practicePronunciation, "pronunciation", defaultPronunciation, "pronunciation variant (us|uk)")
	rootCmd.Flags().BoolVar(&practiceMute, "mute", false, "disable all sounds")
	rootCmd.Flags().StringVar(&practicePlayer, "player", "", "audio player command (default: auto-detect)")
	rootCmd.PersistentFlags().StringVar(&practiceDictDir, "dict-dir", config.DefaultDictDir(), "directory with extra <Level>.json dictionaries")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLevelsCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg := resolvePracticeConfig(cmd, fileCfg)
	if err := validateConfig(cfg); err != nil {
		return err
	}
	pronunciation, err := session.ParsePronunciation(cfg.Pronunciation)
	if err != nil {
		return err
	}

	logPath := config.DefaultLogPath()
	logLevel := defaultLogLevel
	applyStringConfig(nil, "", &logPath, fileCfg.Log.File)
	applyStringConfig(nil, "", &logLevel, fileCfg.Log.Level)
	logger, err := logging.New(logPath, logLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() {
		if serr := logger.Sync(); serr != nil {
			// Best-effort flush.
			_ = serr
		}
	}()

	vocabulary, err := loadVocabulary(cfg.DictDir)
	if err != nil {
		return err
	}
	opts := []session.Option{session.WithPronunciation(pronunciation)}
	if cfg.Level != "" {
		opts = append(opts, session.WithLevel(cfg.Level))
	}
	state, err := session.New(vocabulary, opts...)
	if err != nil {
		if errors.Is(err, vocab.ErrUnknownLevel) {
			return fmt.Errorf("%w\nRun: keypress levels", err)
		}
		return fmt.Errorf("failed to start session: %w", err)
	}

	dispatcher := audio.NewDispatcher(newPlayer(cfg, logger), logger, cfg.MaxConcurrent)
	defer dispatcher.Close()

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	runID := uuid.NewString()
	logger.Info("practice started",
		zap.String("run_id", runID),
		zap.String("level", state.Level()),
		zap.String("pronunciation", pronunciation.Short()),
	)
	m := tui.NewModel(state, tui.Options{
		Dispatcher: dispatcher,
		Recorder:   st,
		Logger:     logger,
		RunID:      runID,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	logger.Info("practice finished", zap.String("run_id", runID))
	return nil
}

func resolvePracticeConfig(cmd *cobra.Command, fileCfg config.FileConfig) model.Config {
	applyStringConfig(cmd, "level", &practiceLevel, fileCfg.Practice.Level)
	applyStringConfig(cmd, "pronunciation", &practicePronunciation, fileCfg.Practice.Pronunciation)
	applyStringConfig(cmd, "dict-dir", &practiceDictDir, fileCfg.Practice.DictDir)
	applyStringConfig(cmd, "player", &practicePlayer, fileCfg.Audio.Player)
	if fileCfg.Audio.Enabled != nil {
		muted := !*fileCfg.Audio.Enabled
		applyBoolConfig(cmd, "mute", &practiceMute, &muted)
	}

	cfg := model.Config{
		Level:         practiceLevel,
		Pronunciation: practicePronunciation,
		DictDir:       practiceDictDir,
		Mute:          practiceMute,
		Player:        practicePlayer,
	}
	applyStringConfig(nil, "", &cfg.AudioURL, fileCfg.Audio.PronunciationURL)
	applyIntConfig(nil, "", &cfg.MaxConcurrent, fileCfg.Audio.MaxConcurrent)
	return cfg
}

func loadVocabulary(dictDir string) (*vocab.Store, error) {
	builtin, err := vocab.Default()
	if err != nil {
		return nil, fmt.Errorf("failed to load built-in dictionaries: %w", err)
	}
	v, err := builtin.WithDir(dictDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load dictionaries from %s: %w", dictDir, err)
	}
	return v, nil
}

func newPlayer(cfg model.Config, logger *zap.Logger) audio.Player {
	if cfg.Mute {
		return audio.Nop{}
	}
	command := strings.Fields(cfg.Player)
	if len(command) == 0 {
		command = audio.DetectCommand(exec.LookPath)
	}
	if len(command) == 0 {
		logger.Warn("no audio player found, sound disabled")
		return audio.Nop{}
	}
	player, err := audio.NewCommandPlayer(audio.CommandOptions{
		Command:          command,
		CacheDir:         config.DefaultAudioCacheDir(),
		PronunciationURL: cfg.AudioURL,
	})
	if err != nil {
		logger.Warn("audio player unavailable, sound disabled", zap.Error(err))
		return audio.Nop{}
	}
	logger.Debug("audio player ready", zap.Strings("command", command))
	return player
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := writeDefaultConfig(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// writeDefaultConfig creates the config file from the template unless it exists.
func writeDefaultConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func newLevelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "List available levels",
		Args:  cobra.NoArgs,
		RunE:  runLevelsCmd,
	}
}

func runLevelsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "dict-dir", &practiceDictDir, fileCfg.Practice.DictDir)
	vocabulary, err := loadVocabulary(practiceDictDir)
	if err != nil {
		return err
	}
	return writeLevels(cmd, vocabulary)
}

func writeLevels(cmd *cobra.Command, vocabulary *vocab.Store) error {
	for _, level := range vocabulary.Levels() {
		words, err := vocabulary.Words(level)
		if err != nil {
			return err
		}
		line := fmt.Sprintf("%-12s %5d words %4d chapters", level, len(words), vocab.ChapterCount(len(words)))
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show practice history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsLevel, "level", "", "level filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsTop, "top", defaultStatsTop, "number of hard words to show")
	cmd.Flags().IntVar(&statsDays, "days", defaultStatsDays, "days in the daily sparkline (0 = all)")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := statsConfig(statsLevel, statsSince, statsTop, statsDays)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	report, err := stats.BuildReport(context.Background(), st, cfg)
	if err != nil {
		return err
	}
	return stats.Render(cmd.OutOrStdout(), report, 0)
}

func statsConfig(level, since string, top, days int) (model.StatsConfig, error) {
	if top < 0 {
		return model.StatsConfig{}, fmt.Errorf("--top must be >= 0")
	}
	if days < 0 {
		return model.StatsConfig{}, fmt.Errorf("--days must be >= 0")
	}
	cfg := model.StatsConfig{Level: level, Top: top, Days: days}
	if since != "" {
		parsed, err := time.ParseInLocation(time.DateOnly, since, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}
	return cfg, nil
}

// applyStringConfig copies a file value into target unless the flag was set.
// A nil cmd applies the value unconditionally.
func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd != nil && cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd != nil && cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd != nil && cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# keypress configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# level = "Programmer"        # Starting level (see: keypress levels)
# pronunciation = %q          # us or uk
# dict-dir = %q               # Extra <Level>.json dictionaries

[audio]
# enabled = true              # false is the same as --mute
# player = "mpg123 -q"        # Player command (default: auto-detect)
# pronunciation-url = %q
# max-concurrent = %d          # Sounds playing at once, extra sounds are dropped

[log]
# level = %q                # debug, info, warn, error
# file = %q
`,
		defaultPronunciation,
		config.DefaultDictDir(),
		audio.DefaultPronunciationURL,
		audio.DefaultMaxConcurrent,
		defaultLogLevel,
		config.DefaultLogPath(),
	)
}

func validateConfig(cfg model.Config) error {
	if _, err := session.ParsePronunciation(cfg.Pronunciation); err != nil {
		return fmt.Errorf("--pronunciation must be us or uk")
	}
	if cfg.MaxConcurrent < 0 {
		return fmt.Errorf("audio.max-concurrent must be >= 0")
	}
	if cfg.AudioURL != "" && !strings.Contains(cfg.AudioURL, "{word}") {
		return fmt.Errorf("audio.pronunciation-url must contain {word}")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
