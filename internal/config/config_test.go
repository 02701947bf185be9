package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	require.Nil(t, cfg.Practice.Level)
	require.Nil(t, cfg.Audio.Enabled)
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[practice]
level = "CET6"
pronunciation = "uk"

[audio]
enabled = false
player = "mpg123 -q"
max-concurrent = 2

[log]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "CET6", *cfg.Practice.Level)
	require.Equal(t, "uk", *cfg.Practice.Pronunciation)
	require.False(t, *cfg.Audio.Enabled)
	require.Equal(t, "mpg123 -q", *cfg.Audio.Player)
	require.Equal(t, 2, *cfg.Audio.MaxConcurrent)
	require.Equal(t, "debug", *cfg.Log.Level)
	require.Nil(t, cfg.Log.File)
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[practice]\nlang = \"en\"\n"), 0o644))

	_, err := LoadConfig(path)
	require.ErrorContains(t, err, "practice.lang")
}

func TestLoadConfigEmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	require.Error(t, err)
}

func TestXDGOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_DATA_HOME", dir)
	t.Setenv("XDG_STATE_HOME", dir)
	t.Setenv("XDG_CACHE_HOME", dir)

	require.Equal(t, filepath.Join(dir, "keypress", "config.toml"), DefaultConfigPath())
	require.Equal(t, filepath.Join(dir, "keypress", "keypress.db"), DefaultDBPath())
	require.Equal(t, filepath.Join(dir, "keypress", "keypress.log"), DefaultLogPath())
	require.Equal(t, filepath.Join(dir, "keypress", "audio"), DefaultAudioCacheDir())
	require.Equal(t, filepath.Join(dir, "keypress", "dicts"), DefaultDictDir())
}
