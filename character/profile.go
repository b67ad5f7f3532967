package character

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/stellasorawiki/wikigen/gamedata"
	"github.com/stellasorawiki/wikigen/item"
)

// Tag - a CharacterTag row; the first three tags of a character are its
// role, style and faction
type Tag struct {
	ID   int
	Name string
	Type int
}

// Tags returns the tags of a character in the order CharacterDes lists them.
func Tags(tables gamedata.Loader, charID int) ([]Tag, error) {
	des, err := tables.Load("CharacterDes")
	if err != nil {
		return nil, err
	}
	tagTable, err := tables.Load("CharacterTag")
	if err != nil {
		return nil, err
	}
	rec, ok := des.Get(charID)
	if !ok {
		return nil, fmt.Errorf("character %d has no CharacterDes row", charID)
	}
	ids, _ := rec.Ints("Tag")
	tags := make([]Tag, 0, len(ids))
	for _, id := range ids {
		t, ok := tagTable.Get(id)
		if !ok {
			return nil, fmt.Errorf("character %d: unknown tag %d", charID, id)
		}
		tags = append(tags, Tag{ID: id, Name: t.StringOr("Title", ""), Type: t.IntOr("TagType", 0)})
	}
	return tags, nil
}

// Gift - an AffinityGift row
type Gift struct {
	ID       int
	Affinity int
	Tags     []int
}

// Gifts returns every gift ordered by primary tag, then id.
func Gifts(tables gamedata.Loader) ([]Gift, error) {
	tbl, err := tables.Load("AffinityGift")
	if err != nil {
		return nil, err
	}
	gifts := make([]Gift, 0, len(tbl))
	for _, rec := range tbl {
		tags, _ := rec.Ints("Tags")
		if len(tags) == 0 {
			continue
		}
		gifts = append(gifts, Gift{ID: rec.IntOr("Id", 0), Affinity: rec.IntOr("BaseAffinity", 0), Tags: tags})
	}
	sort.Slice(gifts, func(i, j int) bool {
		if gifts[i].Tags[0] != gifts[j].Tags[0] {
			return gifts[i].Tags[0] < gifts[j].Tags[0]
		}
		return gifts[i].ID < gifts[j].ID
	})
	return gifts, nil
}

// minGiftRarity - rarity 1 gifts are not obtainable yet
const minGiftRarity = 2

// FavouriteGifts maps each character id to the gift items whose primary tag
// the character prefers.
func FavouriteGifts(tables gamedata.Loader, chars []*Character, items item.Items) (map[int][]*item.Item, error) {
	des, err := tables.Load("CharacterDes")
	if err != nil {
		return nil, err
	}
	gifts, err := Gifts(tables)
	if err != nil {
		return nil, err
	}
	result := make(map[int][]*item.Item, len(chars))
	for _, c := range chars {
		rec, ok := des.Get(c.ID)
		if !ok {
			continue
		}
		prefer, _ := rec.Ints("PreferTags")
		liked := make(map[int]bool, len(prefer))
		for _, t := range prefer {
			liked[t] = true
		}
		list := []*item.Item{}
		for _, g := range gifts {
			if !liked[g.Tags[0]] {
				continue
			}
			it, ok := items[g.ID]
			if !ok {
				log.Warn().Int("gift_id", g.ID).Msg("[Character] gift has no item")
				continue
			}
			if it.Rarity < minGiftRarity {
				continue
			}
			list = append(list, it)
		}
		result[c.ID] = list
	}
	return result, nil
}

// Archive - one entry of a character's affinity archive
type Archive struct {
	ID      int
	Title   string
	Content string
}

const (
	firstArchive = 3
	lastArchive  = 10
)

var spritePattern = regexp.MustCompile(`<sprite[^>]+>`)

// Archives returns the affinity archive of every character whose entries
// are all present.
func Archives(tables gamedata.Loader, chars []*Character) (map[int][]Archive, error) {
	tbl, err := tables.Load("CharacterArchiveContent")
	if err != nil {
		return nil, err
	}
	result := make(map[int][]Archive, len(chars))
	for _, c := range chars {
		list := make([]Archive, 0, lastArchive-firstArchive+1)
		for i := firstArchive; i <= lastArchive; i++ {
			rec, ok := tbl[fmt.Sprintf("%d%02d", c.ID, i)]
			if !ok {
				break
			}
			list = append(list, Archive{
				ID:      rec.IntOr("Id", 0),
				Title:   rec.StringOr("Title", ""),
				Content: archiveText(rec.StringOr("Content", "")),
			})
		}
		if len(list) != cap(list) {
			log.Debug().Int("char_id", c.ID).Int("entries", len(list)).Msg("[Character] archive incomplete, skipped")
			continue
		}
		result[c.ID] = list
	}
	return result, nil
}

func archiveText(s string) string {
	s = strings.ReplaceAll(s, "\n", "<br/>")
	s = strings.ReplaceAll(s, "==PLAYER_NAME==", "<player name>")
	return spritePattern.ReplaceAllString(s, "")
}

// ArchiveTabs renders archives as a <tabber> block.
func ArchiveTabs(archives []Archive) string {
	lines := make([]string, 0, 2*len(archives)+2)
	lines = append(lines, "<tabber>")
	for _, a := range archives {
		lines = append(lines, "|-|"+a.Title+"=", a.Content)
	}
	lines = append(lines, "</tabber>")
	return strings.Join(lines, "\n")
}

// CharIDFromGroup - talent and attribute groups start with the character id
func CharIDFromGroup(group int) (charID, rest int) {
	s := strconv.Itoa(group)
	if len(s) <= 3 {
		return group, 0
	}
	charID, _ = strconv.Atoi(s[:3])
	rest, _ = strconv.Atoi(s[3:])
	return charID, rest
}
