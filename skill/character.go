package skill

import (
	"fmt"
	"strconv"

	"github.com/stellasorawiki/wikigen/gamedata"
)

// Slot - a character skill slot, encoded as the suffix of the Skill table key
type Slot int

const (
	SlotAttack   Slot = 10000
	SlotMain     Slot = 31000
	SlotSupport  Slot = 32000
	SlotUltimate Slot = 40000
)

// Slots in page order.
var Slots = []Slot{SlotAttack, SlotMain, SlotSupport, SlotUltimate}

// Name is the value of the "type" argument on the wiki template.
func (s Slot) Name() string {
	switch s {
	case SlotAttack:
		return "auto"
	case SlotMain:
		return "main"
	case SlotSupport:
		return "support"
	case SlotUltimate:
		return "ultimate"
	}
	return strconv.Itoa(int(s))
}

// CharacterSkills - the four skills of one character
type CharacterSkills struct {
	CharID int
	Skills map[Slot]*Skill
}

// slotRecord finds "<char><slot>", falling back to "<char><slot+1>".
func slotRecord(tbl gamedata.Table, charID int, slot Slot) (gamedata.Record, bool) {
	prefix := strconv.Itoa(charID)
	if rec, ok := tbl[prefix+strconv.Itoa(int(slot))]; ok {
		return rec, true
	}
	rec, ok := tbl[prefix+strconv.Itoa(int(slot)+1)]
	return rec, ok
}

// ForCharacter assembles every slot of a character from the localized Skill
// table. A missing slot is an error for the whole character.
func (a *Assembler) ForCharacter(tbl gamedata.Table, charID int) (*CharacterSkills, error) {
	cs := &CharacterSkills{CharID: charID, Skills: make(map[Slot]*Skill, len(Slots))}
	for _, slot := range Slots {
		rec, ok := slotRecord(tbl, charID, slot)
		if !ok {
			return nil, fmt.Errorf("character %d has no %s skill", charID, slot.Name())
		}
		s, err := a.Assemble(rec)
		if err != nil {
			return nil, err
		}
		cs.Skills[slot] = s
	}
	return cs, nil
}
