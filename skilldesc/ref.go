package skilldesc

import (
	"fmt"
	"strings"
)

// Source - the closed set of tables a parameter reference may point into
type Source int

const (
	SourceSkill Source = iota + 1
	SourceShield
	SourceBuff
	SourceEffect
	SourceEffectValue
	SourceBuffValue
)

var sourceNames = map[string]Source{
	"Skill":       SourceSkill,
	"Shield":      SourceShield,
	"Buff":        SourceBuff,
	"Effect":      SourceEffect,
	"EffectValue": SourceEffectValue,
	"BuffValue":   SourceBuffValue,
}

func (s Source) String() string {
	for name, v := range sourceNames {
		if v == s {
			return name
		}
	}
	return fmt.Sprintf("Source(%d)", int(s))
}

// hasValueTable reports whether per-level values live in "<name>Value".
func (s Source) hasValueTable() bool {
	return s == SourceShield || s == SourceBuff || s == SourceEffect
}

const (
	defaultUnitHint = "10K"
	levelNone       = "NoLevel"
	hintTime        = "Time"
	hintEffectType  = "EffectTypeFirstSubtype"
	hintEffectType2 = "EffectTypeSecondSubtype"
	fieldEffectArg  = "EffectTypeParam1"
	fieldPercent    = "SkillPercentAmend"
	fieldLevelType  = "LevelTypeData"
)

// Ref - a parsed "<table>,<level>,<row>[,<field>][,<unit>]" reference
type Ref struct {
	Raw       string
	Table     string
	Source    Source
	Level     string
	RowID     string
	FieldHint string
	UnitHint  string
}

// ParseRef splits a reference. An unknown table name is an error.
func ParseRef(raw string) (Ref, error) {
	seg := strings.Split(raw, ",")
	if len(seg) < 3 {
		return Ref{}, fmt.Errorf("parameter %q: want at least 3 segments, got %d", raw, len(seg))
	}
	ref := Ref{
		Raw:      raw,
		Table:    seg[0],
		Level:    seg[1],
		RowID:    seg[2],
		UnitHint: defaultUnitHint,
	}
	if len(seg) > 3 {
		ref.FieldHint = seg[3]
	}
	if len(seg) > 4 {
		ref.UnitHint = seg[len(seg)-1]
	}
	src, ok := sourceNames[ref.Table]
	if !ok {
		return Ref{}, fmt.Errorf("parameter %q: unknown table %q", raw, ref.Table)
	}
	ref.Source = src
	return ref, nil
}

// defaultKind is used when the referenced row carries no LevelTypeData.
func (r Ref) defaultKind() Kind {
	if r.Level == levelNone {
		return KindNone
	}
	return KindSkillLevel
}
