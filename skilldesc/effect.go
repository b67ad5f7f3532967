package skilldesc

import (
	"fmt"

	"github.com/stellasorawiki/wikigen/gamedata"
)

// ConsistencyError - the data no longer matches what the resolver assumes
// about it. Never swallowed.
type ConsistencyError struct {
	Msg string
}

func (e *ConsistencyError) Error() string {
	return "consistency: " + e.Msg
}

// Effect - one entry of the effect catalog
type Effect struct {
	ID    int
	Type1 int
	Type2 int
	Desc  string
}

type effectPair struct{ type1, type2 int }

// EffectCatalog resolves (type1, type2) classification pairs to descriptions.
type EffectCatalog struct {
	byPair map[effectPair][]Effect
}

const effectTable = "EffectDesc"

// LoadEffectCatalog builds the catalog from the localized EffectDesc table.
func LoadEffectCatalog(store gamedata.Loader) (*EffectCatalog, error) {
	tbl, err := store.Load(effectTable)
	if err != nil {
		return nil, err
	}
	effects := make([]Effect, 0, len(tbl))
	for _, k := range tbl.Keys() {
		rec := tbl[k]
		effects = append(effects, Effect{
			ID:    rec.IntOr("Id", 0),
			Type1: rec.IntOr("EffectType", 0),
			Type2: rec.IntOr("EffectSubtype", 0),
			Desc:  rec.StringOr("Desc", ""),
		})
	}
	return NewEffectCatalog(effects), nil
}

func NewEffectCatalog(effects []Effect) *EffectCatalog {
	c := &EffectCatalog{byPair: make(map[effectPair][]Effect, len(effects))}
	for _, e := range effects {
		p := effectPair{e.Type1, e.Type2}
		c.byPair[p] = append(c.byPair[p], e)
	}
	return c
}

// Lookup returns the single effect for a pair. Zero or several matches is a
// *ConsistencyError.
func (c *EffectCatalog) Lookup(type1, type2 int) (Effect, error) {
	matches := c.byPair[effectPair{type1, type2}]
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return Effect{}, &ConsistencyError{Msg: fmt.Sprintf("no effect for pair (%d, %d)", type1, type2)}
	default:
		return Effect{}, &ConsistencyError{Msg: fmt.Sprintf("%d effects for pair (%d, %d)", len(matches), type1, type2)}
	}
}

// EffectOf resolves the pair stored on an EffectValue-shaped row.
func (c *EffectCatalog) EffectOf(rec gamedata.Record) (Effect, error) {
	t1, ok1 := rec.Int(hintEffectType)
	t2, ok2 := rec.Int(hintEffectType2)
	if !ok1 || !ok2 {
		return Effect{}, fmt.Errorf("row has no effect type pair")
	}
	return c.Lookup(t1, t2)
}
