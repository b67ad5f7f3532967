package unpack

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {
	files := []string{"a", "b", "c", "d", "e"}
	out, err := Map(context.Background(), files, 2, func(_ context.Context, f string) ([]string, error) {
		if f == "c" {
			return nil, nil
		}
		return []string{f + "1", f + "2"}, nil
	})
	require.NoError(t, err)
	sort.Strings(out)
	assert.Equal(t, []string{"a1", "a2", "b1", "b2", "d1", "d2", "e1", "e2"}, out)
}

func TestMap_Error(t *testing.T) {
	boom := errors.New("boom")
	_, err := Map(context.Background(), []string{"a", "b"}, 0, func(_ context.Context, f string) ([]int, error) {
		if f == "b" {
			return nil, boom
		}
		return []int{1}, nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestExportLua(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	files := map[string]string{
		"game/ui/avguitext.lua": `return { SEX = { ["==SEX1=="] = {"he", "she"} }, Count = 2 }`,
		"game/broken.lua":       `return 1`,
		"readme.txt":            `ignored`,
	}
	for name, body := range files {
		path := filepath.Join(src, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}

	exported, err := ExportLua(context.Background(), src, dst, 2)
	require.NoError(t, err)
	require.Len(t, exported, 1)

	target := filepath.Join(dst, "game", "ui", "avguitext.json")
	assert.Equal(t, target, exported[0].Target)
	data, err := os.ReadFile(target)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, sonic.Unmarshal(data, &got))
	assert.Equal(t, 2.0, got["Count"])
	assert.Equal(t, map[string]any{"==SEX1==": []any{"he", "she"}}, got["SEX"])

	_, err = os.Stat(filepath.Join(dst, "game", "broken.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.lua", "a.LUA", "c.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	files, err := Find(dir, ".lua")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.LUA"), filepath.Join(dir, "b.lua")}, files)
}
