package character

import (
	"fmt"
	"strings"

	"github.com/stellasorawiki/wikigen/gamedata"
)

// AffinityLevel - one row of the affinity ladder shared by characters of a rarity
type AffinityLevel struct {
	Level int
	Exp   int
	Name  string
	Bonus StatBonus
}

// AffinityLevels groups AffinityLevel by rarity (TemplateId), in table order.
// Every level effect must be a stat bonus.
func AffinityLevels(tables gamedata.Loader, reader *BonusReader) (map[int][]AffinityLevel, error) {
	tbl, err := tables.Load("AffinityLevel")
	if err != nil {
		return nil, err
	}
	result := make(map[int][]AffinityLevel)
	for _, k := range tbl.Keys() {
		rec := tbl[k]
		ids, _ := rec.Ints("Effect")
		bonus, err := reader.Bonus(ids, true)
		if err != nil {
			return nil, fmt.Errorf("affinity level %s: %w", k, err)
		}
		rarity := rec.IntOr("TemplateId", 0)
		result[rarity] = append(result[rarity], AffinityLevel{
			Level: rec.IntOr("AffinityLevel", 1),
			Exp:   rec.IntOr("NeedExp", 0),
			Name:  rec.StringOr("AffinityLevelName", ""),
			Bonus: bonus,
		})
	}
	return result, nil
}

// AffinityQuest - a task that raises affinity with one character
type AffinityQuest struct {
	Desc string
	Exp  int
}

const maxQuestParams = 9

// AffinityQuests groups AffinityQuest by character id, in table order, with
// {N} in the description replaced by ParamN.
func AffinityQuests(tables gamedata.Loader) (map[int][]AffinityQuest, error) {
	tbl, err := tables.Load("AffinityQuest")
	if err != nil {
		return nil, err
	}
	result := make(map[int][]AffinityQuest)
	for _, k := range tbl.Keys() {
		rec := tbl[k]
		desc := rec.StringOr("Desc", "")
		for i := 1; i <= maxQuestParams; i++ {
			placeholder := fmt.Sprintf("{%d}", i)
			if !strings.Contains(desc, placeholder) {
				continue
			}
			desc = strings.ReplaceAll(desc, placeholder, paramText(rec, fmt.Sprintf("Param%d", i)))
		}
		charID := rec.IntOr("CharId", 0)
		result[charID] = append(result[charID], AffinityQuest{Desc: desc, Exp: rec.IntOr("AffinityExp", 0)})
	}
	return result, nil
}

func paramText(rec gamedata.Record, key string) string {
	if s, ok := rec.String(key); ok {
		return s
	}
	if n, ok := rec.Float(key); ok {
		return fmt.Sprint(n)
	}
	return ""
}
