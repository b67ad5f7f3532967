package character

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/stellasorawiki/wikigen/gamedata"
)

// Element - the EET value of characters and discs
type Element int

const (
	ElementUnknown Element = iota
	ElementAqua
	ElementIgnis
	ElementTerra
	ElementVentus
	ElementLux
	ElementUmbra
	ElementNeutral
)

var elementNames = [...]string{"unknown", "aqua", "ignis", "terra", "ventus", "lux", "umbra", "neutral"}

func (e Element) String() string {
	if e < 0 || int(e) >= len(elementNames) {
		return "element(" + strconv.Itoa(int(e)) + ")"
	}
	return elementNames[e]
}

var titleCaser = cases.Title(language.English)

// Title is the element as the wiki spells it, e.g. "Ignis".
func (e Element) Title() string {
	return titleCaser.String(e.String())
}

// ElementFromCommonName maps the everyday element names used in page text.
func ElementFromCommonName(name string) (Element, bool) {
	switch strings.ToLower(name) {
	case "water":
		return ElementAqua, true
	case "fire":
		return ElementIgnis, true
	case "earth":
		return ElementTerra, true
	case "wind":
		return ElementVentus, true
	case "light":
		return ElementLux, true
	case "dark":
		return ElementUmbra, true
	}
	return ElementUnknown, false
}

// Character - a playable trekker with the profile fields shown in the infobox
type Character struct {
	ID          int
	Name        string
	Rarity      int
	Element     Element
	Birthday    string
	Affiliation string
	Skills      string
	Address     string
	Experience  string
	Weapon      string
	Rate        string
}

const unknownText = "???"

// profileFields - CharacterArchiveBaseInfo key suffix per profile field
var profileFields = []struct {
	suffix string
	set    func(c *Character, v string)
}{
	{"02", func(c *Character, v string) { c.Birthday = v }},
	{"03", func(c *Character, v string) { c.Affiliation = v }},
	{"04", func(c *Character, v string) { c.Skills = v }},
	{"05", func(c *Character, v string) { c.Address = v }},
	{"06", func(c *Character, v string) { c.Experience = v }},
	{"07", func(c *Character, v string) { c.Weapon = v }},
	{"08", func(c *Character, v string) { c.Rate = v }},
}

// Load builds every released character, sorted by id. Placeholder entries
// named or affiliated "???" are skipped.
func Load(tables gamedata.Loader) ([]*Character, error) {
	chars, err := tables.Load("Character")
	if err != nil {
		return nil, err
	}
	baseInfo, err := tables.Load("CharacterArchiveBaseInfo")
	if err != nil {
		return nil, err
	}

	var result []*Character
	for _, k := range chars.Keys() {
		rec := chars[k]
		name := rec.StringOr("Name", "")
		if name == "" || name == unknownText {
			continue
		}
		c := &Character{
			ID:      rec.IntOr("Id", 0),
			Name:    name,
			Rarity:  rec.IntOr("Grade", 0),
			Element: Element(rec.IntOr("EET", 0)),
		}
		for _, f := range profileFields {
			key := strconv.Itoa(c.ID) + f.suffix
			if v := profileText(baseInfo[key], key); v != "" {
				f.set(c, v)
			}
		}
		if c.Affiliation == unknownText {
			log.Debug().Int("char_id", c.ID).Str("name", c.Name).Msg("[Character] unreleased, skipped")
			continue
		}
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// profileText returns the base info content, with the revised text appended
// when the field was changed after release. An untranslated revision still
// holds its own key and is ignored.
func profileText(rec gamedata.Record, key string) string {
	content := rec.StringOr("Content", "")
	if content == "" {
		return ""
	}
	updated := rec.StringOr("UpdateContent1", "")
	if updated == "" || strings.Contains(updated, key) {
		return content
	}
	return "Original: " + content + "\nUpdated: " + updated
}

// StringSource - strings tables of other regions
type StringSource interface {
	Strings(region, locale, name string) (map[string]string, error)
}

// NameLanguage - where a localized character name comes from and the
// infobox argument prefix it fills
type NameLanguage struct {
	Region string
	Locale string
	Key    string
}

var NameLanguages = []NameLanguage{
	{Region: "CN", Locale: "zh_CN", Key: "cn"},
	{Region: "JP", Locale: "ja_JP", Key: "jp"},
	{Region: "KR", Locale: "ko_KR", Key: "kr"},
}

// LocalizedNames returns the character name in every other region's language,
// keyed by NameLanguage.Key.
func LocalizedNames(src StringSource, charID int) (map[string]string, error) {
	result := make(map[string]string, len(NameLanguages))
	key := fmt.Sprintf("Character.%d.1", charID)
	for _, lang := range NameLanguages {
		strs, err := src.Strings(lang.Region, lang.Locale, "Character")
		if err != nil {
			return nil, err
		}
		name, ok := strs[key]
		if !ok {
			return nil, fmt.Errorf("no %s name for character %d", lang.Key, charID)
		}
		result[lang.Key] = name
	}
	return result, nil
}
