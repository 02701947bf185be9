// Package vocab holds the vocabulary levels available for practice.
package vocab

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed dicts/*.json
var builtinFS embed.FS

// ErrUnknownLevel is returned when a level key is not loaded.
var ErrUnknownLevel = errors.New("unknown level")

// WordEntry is a single vocabulary item.
type WordEntry struct {
	Name  string   `json:"name"`
	Trans []string `json:"trans"`
}

// Translation returns the first translation, which is the one shown to the user.
func (w WordEntry) Translation() string {
	if len(w.Trans) == 0 {
		return ""
	}
	return w.Trans[0]
}

// Source maps a level key to a dictionary file inside a filesystem.
type Source struct {
	Level string
	Path  string
}

// Builtin lists the compiled-in levels in display order.
var Builtin = []Source{
	{Level: "Programmer", Path: "dicts/it-words.json"},
	{Level: "CET4", Path: "dicts/CET4_T.json"},
	{Level: "CET6", Path: "dicts/CET6_T.json"},
	{Level: "TOEFL", Path: "dicts/TOEFL_T.json"},
}

// Store is an immutable set of levels.
type Store struct {
	order  []string
	levels map[string][]WordEntry
}

// Default loads the compiled-in dictionaries.
func Default() (*Store, error) {
	return Load(builtinFS, Builtin)
}

// MustDefault is Default for callers that treat broken built-in data as fatal.
func MustDefault() *Store {
	st, err := Default()
	if err != nil {
		panic(err)
	}
	return st
}

// Load parses every source from fsys, preserving the order of sources.
func Load(fsys fs.FS, sources []Source) (*Store, error) {
	st := &Store{levels: make(map[string][]WordEntry, len(sources))}
	for _, src := range sources {
		data, err := fs.ReadFile(fsys, src.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read dictionary %s: %w", src.Path, err)
		}
		if err := st.add(src.Level, src.Path, data); err != nil {
			return nil, err
		}
	}
	if len(st.order) == 0 {
		return nil, fmt.Errorf("no levels loaded")
	}
	return st, nil
}

// WithDir returns a store that also contains every <Level>.json found in dir.
// User levels follow the existing ones, sorted by file name. A missing dir is not an error.
func (s *Store) WithDir(dir string) (*Store, error) {
	if dir == "" {
		return s, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read dictionary directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	if len(names) == 0 {
		return s, nil
	}
	sort.Strings(names)

	out := s.clone()
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read dictionary %s: %w", path, err)
		}
		if err := out.add(strings.TrimSuffix(name, ".json"), path, data); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Levels returns level keys in display order.
func (s *Store) Levels() []string {
	return append([]string(nil), s.order...)
}

// Words returns the ordered entries of a level.
func (s *Store) Words(level string) ([]WordEntry, error) {
	words, ok := s.levels[level]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, level)
	}
	return words, nil
}

// Has reports whether the level is loaded.
func (s *Store) Has(level string) bool {
	_, ok := s.levels[level]
	return ok
}

func (s *Store) add(level, path string, data []byte) error {
	if strings.TrimSpace(level) == "" {
		return fmt.Errorf("dictionary %s: empty level name", path)
	}
	if _, ok := s.levels[level]; ok {
		return fmt.Errorf("dictionary %s: duplicate level %q", path, level)
	}
	var words []WordEntry
	if err := json.Unmarshal(data, &words); err != nil {
		return fmt.Errorf("dictionary %s: failed to decode: %w", path, err)
	}
	if err := validateLevel(words); err != nil {
		return fmt.Errorf("dictionary %s: %w", path, err)
	}
	s.levels[level] = words
	s.order = append(s.order, level)
	return nil
}

func (s *Store) clone() *Store {
	out := &Store{
		order:  append([]string(nil), s.order...),
		levels: make(map[string][]WordEntry, len(s.levels)),
	}
	for k, v := range s.levels {
		out.levels[k] = v
	}
	return out
}
