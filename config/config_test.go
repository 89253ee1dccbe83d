package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenNoFiles(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "nope"))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadVaultFileWins(t *testing.T) {
	dir := t.TempDir()
	xdg := filepath.Join(dir, "xdg")
	t.Setenv("XDG_CONFIG_HOME", xdg)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".moxide.toml"),
		[]byte(`dailynote = "2006/01/02"`+"\n"+`hover = false`), 0o644))

	require.NoError(t, os.MkdirAll(filepath.Join(xdg, "moxide"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(xdg, "moxide", "settings.toml"),
		[]byte(`dailynote = "should not win"`+"\n"+`case_matching = "respect"`), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "2006/01/02", cfg.DailyNote)
	assert.False(t, cfg.Hover)
	// case_matching was unset in the vault file, so the user settings file
	// fills it in.
	assert.Equal(t, CaseRespect, cfg.CaseMatching)
}

func TestLoadMissingFilesNotAnError(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "does-not-exist")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "nope"))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestFindVaultRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "conf.py"), nil, 0o644))

	sub := filepath.Join(root, "docs", "guide")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	file := filepath.Join(sub, "page.md")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	found, ok := FindVaultRoot(file)
	require.True(t, ok)
	assert.Equal(t, root, found)
}

func TestFindVaultRootNotFound(t *testing.T) {
	dir := t.TempDir()
	_, ok := FindVaultRoot(filepath.Join(dir, "orphan.md"))
	assert.False(t, ok)
}
