package character

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/stellasorawiki/wikigen/gamedata"
	"github.com/stellasorawiki/wikigen/skilldesc"
)

// LevelStats - one Attribute row
type LevelStats struct {
	Level        int
	Breakthrough int
	Attack       int
	HP           int
	Defense      int
}

// Stats groups the Attribute table by character, in table order.
func Stats(tables gamedata.Loader) (map[int][]LevelStats, error) {
	tbl, err := tables.Load("Attribute")
	if err != nil {
		return nil, err
	}
	result := make(map[int][]LevelStats)
	for _, k := range tbl.Keys() {
		rec := tbl[k]
		group := rec.IntOr("GroupId", 0)
		result[group] = append(result[group], LevelStats{
			Level:        rec.IntOr("lvl", 0),
			Breakthrough: rec.IntOr("Break", 0),
			Attack:       rec.IntOr("Atk", 0),
			HP:           rec.IntOr("Hp", 0),
			Defense:      rec.IntOr("Def", 0),
		})
	}
	return result, nil
}

// StatBonus - flat and relative stat increases granted by effects
type StatBonus struct {
	HP        int
	Attack    int
	AttackPct float64
	Defense   int
	CritDmg   float64
}

func (b StatBonus) Add(o StatBonus) StatBonus {
	return StatBonus{
		HP:        b.HP + o.HP,
		Attack:    b.Attack + o.Attack,
		AttackPct: b.AttackPct + o.AttackPct,
		Defense:   b.Defense + o.Defense,
		CritDmg:   b.CritDmg + o.CritDmg,
	}
}

// UnknownEffectError - an effect that does not map to a displayed stat
type UnknownEffectError struct {
	EffectID int
	Desc     string
}

func (e *UnknownEffectError) Error() string {
	return fmt.Sprintf("effect %d (%s) is not a stat bonus", e.EffectID, e.Desc)
}

// BonusReader sums EffectValue rows into stat bonuses.
type BonusReader struct {
	values  gamedata.Table
	effects *skilldesc.EffectCatalog
}

func NewBonusReader(tables gamedata.Loader, effects *skilldesc.EffectCatalog) (*BonusReader, error) {
	values, err := tables.Load("EffectValue")
	if err != nil {
		return nil, err
	}
	return &BonusReader{values: values, effects: effects}, nil
}

// Bonus sums the given effects. In strict mode an effect that is not a stat
// is an *UnknownEffectError; otherwise it is ignored.
func (r *BonusReader) Bonus(effectIDs []int, strict bool) (StatBonus, error) {
	var b StatBonus
	for _, id := range effectIDs {
		rec, ok := r.values.Get(id)
		if !ok {
			return b, fmt.Errorf("effect value %d not found", id)
		}
		effect, err := r.effects.EffectOf(rec)
		if err != nil {
			return b, fmt.Errorf("effect value %d: %w", id, err)
		}
		val, ok := numberField(rec, "EffectTypeParam1")
		if !ok {
			return b, fmt.Errorf("effect value %d has no amount", id)
		}
		switch effect.Desc {
		case "Base HP":
			b.HP += int(val)
		case "Base ATK":
			b.Attack += int(val)
		case "ATK":
			b.AttackPct += val
		case "Base DEF":
			b.Defense += int(val)
		case "Crit DMG":
			b.CritDmg += val
		default:
			if strict {
				return b, &UnknownEffectError{EffectID: id, Desc: effect.Desc}
			}
		}
	}
	return b, nil
}

// numberField reads numbers that the tables sometimes store as strings.
func numberField(rec gamedata.Record, key string) (float64, bool) {
	if f, ok := rec.Float(key); ok {
		return f, true
	}
	s, ok := rec.String(key)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

// talentNodesPerHalf - the first five nodes of a talent group form its first half level
const talentNodesPerHalf = 5

// TalentBonuses returns, per character, the cumulative stat bonus at every
// half talent level starting from zero.
func TalentBonuses(tables gamedata.Loader, reader *BonusReader) (map[int][]StatBonus, error) {
	tbl, err := tables.Load("Talent")
	if err != nil {
		return nil, err
	}
	// char id -> half level -> effect ids
	groups := make(map[int]map[int][]int)
	for _, k := range tbl.Keys() {
		rec := tbl[k]
		charID, group := CharIDFromGroup(rec.IntOr("GroupId", 0))
		level := group * 2
		if rec.IntOr("Sort", 0) > talentNodesPerHalf {
			level++
		}
		if groups[charID] == nil {
			groups[charID] = make(map[int][]int)
		}
		ids, _ := rec.Ints("EffectId")
		groups[charID][level] = append(groups[charID][level], ids...)
	}

	result := make(map[int][]StatBonus, len(groups))
	for charID, byLevel := range groups {
		levels := make([]int, 0, len(byLevel))
		for l := range byLevel {
			levels = append(levels, l)
		}
		sort.Ints(levels)

		var current StatBonus
		list := []StatBonus{current}
		for _, l := range levels {
			b, err := reader.Bonus(byLevel[l], false)
			if err != nil {
				return nil, fmt.Errorf("talents of character %d: %w", charID, err)
			}
			current = current.Add(b)
			list = append(list, current)
		}
		result[charID] = list
	}
	log.Debug().Int("characters", len(result)).Msg("[Character] talent bonuses built")
	return result, nil
}

// ItemQuantity - an item id and how many are needed
type ItemQuantity struct {
	ItemID   int
	Quantity int
}

// AdvanceMaterial - the cost of one upgrade step
type AdvanceMaterial struct {
	Gold  int
	Items []ItemQuantity
}

// maxMaterialSlots - Tid1/Qty1 .. Tid9/Qty9
const maxMaterialSlots = 9

// Material tables
const (
	AdvanceTable      = "CharacterAdvance"
	SkillUpgradeTable = "CharacterSkillUpgrade"
)

// AdvanceMaterials reads an upgrade cost table grouped by character id, in
// table order. Rows without a gold cost are skipped.
func AdvanceMaterials(tables gamedata.Loader, name string) (map[int][]AdvanceMaterial, error) {
	tbl, err := tables.Load(name)
	if err != nil {
		return nil, err
	}
	result := make(map[int][]AdvanceMaterial)
	for _, k := range tbl.Keys() {
		rec := tbl[k]
		group := rec.IntOr("Group", 0)
		if _, ok := result[group]; !ok {
			result[group] = nil
		}
		gold, ok := rec.Int("GoldQty")
		if !ok {
			continue
		}
		m := AdvanceMaterial{Gold: gold}
		for i := 1; i <= maxMaterialSlots; i++ {
			id, ok := rec.Int(fmt.Sprintf("Tid%d", i))
			if !ok {
				break
			}
			m.Items = append(m.Items, ItemQuantity{ItemID: id, Quantity: rec.IntOr(fmt.Sprintf("Qty%d", i), 0)})
		}
		result[group] = append(result[group], m)
	}
	return result, nil
}
