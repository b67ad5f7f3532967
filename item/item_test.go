package item

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellasorawiki/wikigen/gamedata"
)

func testItems(t *testing.T) Items {
	t.Helper()
	items, err := Load(gamedata.Tables{"Item": {
		"1":     {"Id": 1.0, "Title": "Dorra", "Type": 1.0, "Icon": "Icon/Item/item_1"},
		"30101": {"Id": 30101.0, "Title": "Sweet Rose", "Desc": "A gift.", "Rarity": 2.0, "Icon": "Icon/Item/Gift_01"},
	}})
	require.NoError(t, err)
	return items
}

func TestLoad(t *testing.T) {
	items := testItems(t)
	require.Len(t, items, 2)

	rose := items[30101]
	assert.Equal(t, "Sweet Rose", rose.Title)
	assert.Equal(t, 2, rose.Rarity)
	assert.Equal(t, "icon/item/gift_01", rose.Icon)
	assert.Equal(t, filepath.Join("assets", "icon", "item", "gift_01.png"), rose.FilePath("assets"))
	assert.Equal(t, "Icon sweet rose.png", rose.FilePage())
	assert.Equal(t, 0, items[GoldID].Rarity)
}

func TestLoad_MissingTable(t *testing.T) {
	_, err := Load(gamedata.Tables{})
	var missing *gamedata.MissingTableError
	assert.ErrorAs(t, err, &missing)
}

func TestTemplates(t *testing.T) {
	items := testItems(t)

	assert.Equal(t, "{{Item|Dorra|quantity=5000}}", items[GoldID].Ref(5000).String())
	assert.Equal(t, "{{Item|Sweet Rose}}", items[30101].Ref(1).String())

	want := "{{ItemData\n| id = 30101\n| name = Sweet Rose\n| icon = Icon sweet rose.png\n| rarity = 2\n| itemdesc = A gift.\n}}"
	assert.Equal(t, want, items[30101].DataTemplate().String())
	assert.Equal(t, want+"\n\n'''Sweet Rose''' is a [[gift]].", items[30101].PageText("is a [[gift]]."))
}
