package skill

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/stellasorawiki/wikigen/gamedata"
)

// Potential - a character potential; its name and rarity live on the Item table
type Potential struct {
	*Skill
	CharID     int
	Rarity     int
	Build      int
	BranchType int
}

// Potentials assembles the Potential table grouped by character id, each
// group sorted by potential id.
func (a *Assembler) Potentials(potentials, items gamedata.Table) (map[int][]Potential, error) {
	result := make(map[int][]Potential)
	for _, k := range potentials.Keys() {
		rec := potentials[k]
		id := rec.IntOr("Id", 0)
		item, ok := items.Get(id)
		if !ok {
			log.Warn().Int("potential_id", id).Msg("[Assembler] potential has no item, skipped")
			continue
		}

		merged := make(gamedata.Record, len(rec)+1)
		for field, v := range rec {
			merged[field] = v
		}
		merged["Title"] = item.StringOr("Title", "")

		s, err := a.Assemble(merged)
		if err != nil {
			return nil, fmt.Errorf("potential %d: %w", id, err)
		}
		charID := rec.IntOr("CharId", 0)
		result[charID] = append(result[charID], Potential{
			Skill:      s,
			CharID:     charID,
			Rarity:     item.IntOr("Rarity", 0),
			Build:      rec.IntOr("Build", 0),
			BranchType: rec.IntOr("BranchType", 0),
		})
	}
	for _, list := range result {
		sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	}
	return result, nil
}
