package gamedata

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for path, content := range files {
		full := filepath.Join(dir, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return dir
}

func testLayout(root string) Layout {
	return Layout{Root: root, Region: "EN", Locale: "en_US"}
}

func TestStore_LoadLocalizesRecursively(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"EN/bin/Character.json": `{
			"103": {"Id": 103, "Name": "Character.103.1", "Info": {"Title": "Character.103.2", "Level": 3}, "Raw": "plain"}
		}`,
		"EN/language/en_US/Character.json": `{
			"Character.103.1": "  Amber\n",
			"Character.103.2": "Line one\nLine\vtwo"
		}`,
	})
	s := NewStore(testLayout(root))

	tbl, err := s.Load("Character")
	require.NoError(t, err)

	rec, ok := tbl.Get(103)
	require.True(t, ok)
	assert.Equal(t, "Amber", rec.StringOr("Name", ""))
	assert.Equal(t, "plain", rec.StringOr("Raw", ""))
	assert.Equal(t, 103, rec.IntOr("Id", 0))

	info, ok := rec.Record("Info")
	require.True(t, ok)
	assert.Equal(t, "Line one<br/>Line two", info.StringOr("Title", ""))
	assert.Equal(t, 3, info.IntOr("Level", 0))
}

func TestStore_RawIsNotLocalized(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"EN/bin/Character.json":            `{"1": {"Name": "Character.1.1"}}`,
		"EN/language/en_US/Character.json": `{"Character.1.1": "Tilia"}`,
	})
	s := NewStore(testLayout(root))

	_, err := s.Load("Character")
	require.NoError(t, err)
	raw, err := s.Raw("Character")
	require.NoError(t, err)
	assert.Equal(t, "Character.1.1", raw["1"].StringOr("Name", ""))
}

func TestStore_Memoizes(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"EN/bin/Item.json":            `{"1": {"Title": "Item.1"}}`,
		"EN/language/en_US/Item.json": `{"Item.1": "Dorra"}`,
	})
	s := NewStore(testLayout(root))

	first, err := s.Load("Item")
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(root, "EN/bin/Item.json")))
	second, err := s.Load("Item")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestStore_MissingTable(t *testing.T) {
	s := NewStore(testLayout(t.TempDir()))

	_, err := s.Load("Nope")
	var missing *MissingTableError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "Nope", missing.Name)

	_, err = s.Raw("Nope")
	require.True(t, errors.As(err, &missing))
}

func TestStore_MissingStringsIsMissingTable(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"EN/bin/Word.json": `{}`,
	})
	s := NewStore(testLayout(root))

	_, err := s.Load("Word")
	var missing *MissingTableError
	require.True(t, errors.As(err, &missing))
}

func TestStore_OtherLocaleStrings(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"CN/language/zh_CN/Character.json": `{"Character.103.1": "琥珀"}`,
	})
	s := NewStore(testLayout(root))

	m, err := s.Strings("CN", "zh_CN", "Character")
	require.NoError(t, err)
	assert.Equal(t, "琥珀", m["Character.103.1"])
}

func TestTable_KeysNumericOrder(t *testing.T) {
	tbl := Table{"10": {}, "9": {}, "100": {}, "a": {}}
	assert.Equal(t, []string{"9", "10", "100", "a"}, tbl.Keys())
}

func TestRecord_Ints(t *testing.T) {
	rec := Record{"Tags": []any{1.0, 2.0}, "Bad": []any{"x"}}
	v, ok := rec.Ints("Tags")
	require.True(t, ok)
	assert.Equal(t, []int{1, 2}, v)
	_, ok = rec.Ints("Bad")
	assert.False(t, ok)
}
