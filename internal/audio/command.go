package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/verte-zerg/keypress/internal/session"
)

// DefaultPronunciationURL is the word pronunciation service. {type} is 0 for
// American and 1 for British English.
const DefaultPronunciationURL = "http://dict.youdao.com/dictvoice?type={type}&audio={word}"

// Candidates are tried in order when no player command is configured.
var Candidates = [][]string{
	{"mpg123", "-q"},
	{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
	{"afplay"},
	{"paplay"},
}

// Runner executes a player command and waits for it.
type Runner func(ctx context.Context, name string, args ...string) error

func execRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	return cmd.Run()
}

// DetectCommand returns the first candidate whose binary is on PATH.
func DetectCommand(lookPath func(string) (string, error)) []string {
	for _, candidate := range Candidates {
		if _, err := lookPath(candidate[0]); err == nil {
			return append([]string(nil), candidate...)
		}
	}
	return nil
}

// CommandOptions configures a CommandPlayer.
type CommandOptions struct {
	Command          []string
	CacheDir         string
	PronunciationURL string
	Client           *http.Client
	Runner           Runner
}

// CommandPlayer plays files through an external command. Tones are synthesized
// into the cache directory; pronunciations are downloaded once and cached.
type CommandPlayer struct {
	command []string
	cache   string
	urlTmpl string
	client  *http.Client
	run     Runner

	tonesOnce sync.Once
	tonesErr  error

	downloads singleflight.Group
}

// NewCommandPlayer validates the options and returns a player.
func NewCommandPlayer(opts CommandOptions) (*CommandPlayer, error) {
	if len(opts.Command) == 0 || opts.Command[0] == "" {
		return nil, fmt.Errorf("player command is empty")
	}
	if opts.CacheDir == "" {
		return nil, fmt.Errorf("audio cache directory is required")
	}
	if opts.PronunciationURL == "" {
		opts.PronunciationURL = DefaultPronunciationURL
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 10 * time.Second}
	}
	if opts.Runner == nil {
		opts.Runner = execRunner
	}
	return &CommandPlayer{
		command: opts.Command,
		cache:   opts.CacheDir,
		urlTmpl: opts.PronunciationURL,
		client:  opts.Client,
		run:     opts.Runner,
	}, nil
}

// PlayTone implements Player.
func (p *CommandPlayer) PlayTone(ctx context.Context, tone Tone) error {
	p.tonesOnce.Do(func() {
		p.tonesErr = p.writeTones()
	})
	if p.tonesErr != nil {
		return p.tonesErr
	}
	return p.play(ctx, p.tonePath(tone))
}

// PlayWord implements Player.
func (p *CommandPlayer) PlayWord(ctx context.Context, word string, variant session.Pronunciation) error {
	path, err := p.fetchWord(ctx, word, variant)
	if err != nil {
		return err
	}
	return p.play(ctx, path)
}

func (p *CommandPlayer) play(ctx context.Context, path string) error {
	args := append(append([]string(nil), p.command[1:]...), path)
	if err := p.run(ctx, p.command[0], args...); err != nil {
		return fmt.Errorf("failed to run %s: %w", p.command[0], err)
	}
	return nil
}

func (p *CommandPlayer) tonePath(tone Tone) string {
	return filepath.Join(p.cache, "tones", tone.String()+".wav")
}

func (p *CommandPlayer) writeTones() error {
	dir := filepath.Join(p.cache, "tones")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create tone dir: %w", err)
	}
	for _, tone := range []Tone{ToneClick, ToneCorrect, ToneWrong} {
		if err := writeToneFile(p.tonePath(tone), tone); err != nil {
			return err
		}
	}
	return nil
}

func writeToneFile(path string, tone Tone) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s tone: %w", tone, err)
	}
	if err := writeWAV(f, tone); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s tone: %w", tone, err)
	}
	return nil
}

// WordPath returns the cache location of a pronunciation.
func (p *CommandPlayer) WordPath(word string, variant session.Pronunciation) string {
	return filepath.Join(p.cache, "words", strings.ToLower(variant.Short()), url.PathEscape(word)+".mp3")
}

// PronunciationURL expands the URL template for a word.
func (p *CommandPlayer) PronunciationURL(word string, variant session.Pronunciation) string {
	return strings.NewReplacer(
		"{type}", strconv.Itoa(int(variant.Code())),
		"{word}", url.QueryEscape(word),
	).Replace(p.urlTmpl)
}

func (p *CommandPlayer) fetchWord(ctx context.Context, word string, variant session.Pronunciation) (string, error) {
	dest := p.WordPath(word, variant)
	if _, err := os.Stat(dest); err == nil {
		return dest, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to stat cached pronunciation: %w", err)
	}

	// Concurrent requests for one word share a single download.
	_, err, _ := p.downloads.Do(dest, func() (any, error) {
		return nil, p.download(ctx, word, variant, dest)
	})
	if err != nil {
		return "", err
	}
	return dest, nil
}

func (p *CommandPlayer) download(ctx context.Context, word string, variant session.Pronunciation, dest string) error {
	if _, err := os.Stat(dest); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.PronunciationURL(word, variant), http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("pronunciation request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected pronunciation status: %s", resp.Status)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(dest), "word-*.mp3")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()
	n, err := io.Copy(tmpFile, resp.Body)
	if err != nil {
		return fmt.Errorf("failed to download pronunciation: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("empty pronunciation for %q", word)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("failed to move pronunciation into cache: %w", err)
	}
	return nil
}
