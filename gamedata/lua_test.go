package gamedata

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLuaTable(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"avguitext.lua": `
local t = {}
t.SEX = {
  ["==SEX1=="] = {"he", "she"},
}
t.Count = 3
t.Ratio = 0.5
t.Enabled = true
return t
`,
	})

	v, err := LoadLuaTable(filepath.Join(root, "avguitext.lua"))
	require.NoError(t, err)

	m, ok := v.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 3.0, m["Count"])
	assert.Equal(t, 0.5, m["Ratio"])
	assert.Equal(t, true, m["Enabled"])

	sex, ok := m["SEX"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"he", "she"}, sex["==SEX1=="])
}

func TestLoadLuaTable_NotATable(t *testing.T) {
	root := writeFiles(t, map[string]string{"x.lua": `return 42`})

	_, err := LoadLuaTable(filepath.Join(root, "x.lua"))
	require.Error(t, err)
}

func TestLoadLuaTable_SparseKeysStayMap(t *testing.T) {
	root := writeFiles(t, map[string]string{"x.lua": `return {[1] = "a", [3] = "c"}`})

	v, err := LoadLuaTable(filepath.Join(root, "x.lua"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"1": "a", "3": "c"}, v)
}
