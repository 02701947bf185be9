package vocab

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestDefaultLevels(t *testing.T) {
	st, err := Default()
	require.NoError(t, err)
	require.Equal(t, []string{"Programmer", "CET4", "CET6", "TOEFL"}, st.Levels())

	for _, level := range st.Levels() {
		words, err := st.Words(level)
		require.NoError(t, err, level)
		require.NotEmpty(t, words, level)
		require.NotEmpty(t, words[0].Translation(), level)
	}
}

func TestLevelsReturnsCopy(t *testing.T) {
	st := MustDefault()
	levels := st.Levels()
	levels[0] = "mutated"
	require.Equal(t, "Programmer", st.Levels()[0])
}

func TestWordsUnknownLevel(t *testing.T) {
	st := MustDefault()
	_, err := st.Words("NotARealLevel")
	require.True(t, errors.Is(err, ErrUnknownLevel))
	require.Contains(t, err.Error(), "NotARealLevel")
	require.False(t, st.Has("NotARealLevel"))
	require.True(t, st.Has("CET4"))
}

func TestLoadRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"bad json":      `[{"name": "a"`,
		"empty level":   `[]`,
		"empty name":    `[{"name": "", "trans": ["x"]}]`,
		"non ascii":     `[{"name": "résumé", "trans": ["x"]}]`,
		"padded name":   `[{"name": " go", "trans": ["x"]}]`,
		"no trans":      `[{"name": "go", "trans": []}]`,
		"blank trans":   `[{"name": "go", "trans": [" "]}]`,
		"missing trans": `[{"name": "go"}]`,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			fsys := fstest.MapFS{"d.json": {Data: []byte(data)}}
			_, err := Load(fsys, []Source{{Level: "L", Path: "d.json"}})
			require.Error(t, err)
			require.Contains(t, err.Error(), "d.json")
		})
	}
}

func TestLoadRejectsDuplicateLevel(t *testing.T) {
	fsys := fstest.MapFS{"d.json": {Data: []byte(`[{"name": "go", "trans": ["x"]}]`)}}
	_, err := Load(fsys, []Source{{Level: "L", Path: "d.json"}, {Level: "L", Path: "d.json"}})
	require.ErrorContains(t, err, "duplicate level")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(fstest.MapFS{}, []Source{{Level: "L", Path: "missing.json"}})
	require.Error(t, err)
}

func TestWithDirAppendsSortedLevels(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Zeta.json"), []byte(`[{"name": "zz", "trans": ["z"]}]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Alpha.json"), []byte(`[{"name": "aa", "trans": ["a"]}]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	base := MustDefault()
	st, err := base.WithDir(dir)
	require.NoError(t, err)
	require.Equal(t, []string{"Programmer", "CET4", "CET6", "TOEFL", "Alpha", "Zeta"}, st.Levels())
	require.Len(t, base.Levels(), 4)

	words, err := st.Words("Alpha")
	require.NoError(t, err)
	require.Equal(t, "aa", words[0].Name)
}

func TestWithDirMissingAndMalformed(t *testing.T) {
	base := MustDefault()
	st, err := base.WithDir(filepath.Join(t.TempDir(), "none"))
	require.NoError(t, err)
	require.Same(t, base, st)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Broken.json"), []byte(`{`), 0o644))
	_, err = base.WithDir(dir)
	require.ErrorContains(t, err, "Broken.json")

	dup := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dup, "CET4.json"), []byte(`[{"name": "go", "trans": ["x"]}]`), 0o644))
	_, err = base.WithDir(dup)
	require.ErrorContains(t, err, "duplicate level")
}

func TestChapterMath(t *testing.T) {
	require.Equal(t, 1, ChapterOf(0))
	require.Equal(t, 1, ChapterOf(19))
	require.Equal(t, 2, ChapterOf(20))
	require.Equal(t, 5, ChapterOf(84))

	require.Equal(t, 0, ChapterCount(0))
	require.Equal(t, 1, ChapterCount(1))
	require.Equal(t, 1, ChapterCount(20))
	require.Equal(t, 2, ChapterCount(21))
	require.Equal(t, 5, ChapterCount(85))

	require.Equal(t, 0, ChapterStart(1))
	require.Equal(t, 40, ChapterStart(3))
	require.Equal(t, 0, ChapterStart(0))
}
