package item

import (
	"path/filepath"
	"strings"

	"github.com/stellasorawiki/wikigen/gamedata"
	"github.com/stellasorawiki/wikigen/wikitext"
)

// GoldID - the Item row of the currency every upgrade costs
const GoldID = 1

// Item - a row of the Item table
type Item struct {
	ID       int
	Title    string
	Desc     string
	Literary string
	Type     int
	Rarity   int // 0 when the row has none
	Icon     string
}

// Items - all items by id
type Items map[int]*Item

// Load reads the localized Item table.
func Load(tables gamedata.Loader) (Items, error) {
	tbl, err := tables.Load("Item")
	if err != nil {
		return nil, err
	}
	items := make(Items, len(tbl))
	for _, rec := range tbl {
		it := &Item{
			ID:       rec.IntOr("Id", 0),
			Title:    rec.StringOr("Title", ""),
			Desc:     rec.StringOr("Desc", ""),
			Literary: rec.StringOr("Literary", ""),
			Type:     rec.IntOr("Type", 0),
			Rarity:   rec.IntOr("Rarity", 0),
			Icon:     strings.ToLower(rec.StringOr("Icon", "")),
		}
		items[it.ID] = it
	}
	return items, nil
}

// FilePath - the exported icon under the asset root
func (it *Item) FilePath(assetRoot string) string {
	return filepath.Join(assetRoot, filepath.FromSlash(it.Icon)+".png")
}

// FilePage - the wiki file name of the icon, without namespace
func (it *Item) FilePage() string {
	return "Icon " + strings.ToLower(it.Title) + ".png"
}

// DataTemplate is the infobox of an item page.
func (it *Item) DataTemplate() *wikitext.Template {
	t := wikitext.NewTemplate("ItemData")
	t.Set("id", it.ID)
	t.Set("name", it.Title)
	t.Set("icon", it.FilePage())
	if it.Rarity != 0 {
		t.Set("rarity", it.Rarity)
	}
	t.Set("itemdesc", it.Desc)
	return t
}

// Ref renders an inline {{Item}} reference with a quantity.
func (it *Item) Ref(quantity int) *wikitext.Template {
	t := wikitext.NewInline("Item", it.Title)
	if quantity != 1 {
		t.Set("quantity", quantity)
	}
	return t
}

// PageText is the initial text of a new item page.
func (it *Item) PageText(intro string) string {
	if intro == "" {
		intro = "is an item in [[Stella Sora]]."
	}
	return it.DataTemplate().String() + "\n\n'''" + it.Title + "''' " + intro
}
