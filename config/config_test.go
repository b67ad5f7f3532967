package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("nope.yaml")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "wikigen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
wiki:
  api: https://wiki.example/api.php
  user: Bot@gen
data:
  root: /srv/data
  region: CN
upload:
  max_edge: 256
dry_run: false
`), 0o644))

	t.Setenv("WIKIGEN_WIKI_PASSWORD", "secret")
	t.Setenv("WIKIGEN_DRY_RUN", "true")
	t.Setenv("WIKIGEN_DATA_LOCALE", "zh_CN")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://wiki.example/api.php", cfg.Wiki.API)
	assert.Equal(t, "Bot@gen", cfg.Wiki.User)
	assert.Equal(t, "secret", cfg.Wiki.Password)
	assert.Equal(t, "/srv/data", cfg.Data.Root)
	assert.Equal(t, "CN", cfg.Data.Region)
	assert.Equal(t, "zh_CN", cfg.Data.Locale)
	assert.Equal(t, 256, cfg.Upload.MaxEdge)
	assert.True(t, cfg.DryRun)
	// untouched defaults survive
	assert.Equal(t, "move", cfg.Upload.Duplicates)
	assert.Equal(t, 20, cfg.Workers)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("WIKIGEN_UPLOAD_DUPLICATES=redirect\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("WIKIGEN_UPLOAD_DUPLICATES") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "redirect", cfg.Upload.Duplicates)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "bad.yaml")

	require.NoError(t, os.WriteFile(path, []byte("wiki: [oops"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("upload:\n  duplicates: shred\n"), 0o644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "unknown policy")
}
