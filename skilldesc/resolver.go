package skilldesc

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/stellasorawiki/wikigen/gamedata"
)

// TableSource - raw (unlocalized) table access
type TableSource interface {
	Raw(name string) (gamedata.Table, error)
}

// UnresolvedError - a single reference could not be resolved. The resolver
// downgrades it to a failed Param; it only surfaces through Param.Reason.
type UnresolvedError struct {
	Ref string
	Err error
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("unresolved parameter %q: %v", e.Ref, e.Err)
}

func (e *UnresolvedError) Unwrap() error { return e.Err }

// maxLevels - per-level tables hold at most this many rows, ten ids apart
const (
	maxLevels = 10
	levelStep = 10
)

// Resolver turns parameter references into resolved values.
type Resolver struct {
	tables  TableSource
	effects *EffectCatalog
}

func NewResolver(tables TableSource, effects *EffectCatalog) *Resolver {
	return &Resolver{tables: tables, effects: effects}
}

// Resolve resolves one reference found on the record with id owner.
//
// Unresolvable references come back as a failed Param with a nil error. The
// only errors returned are *ConsistencyError and *gamedata.MissingTableError,
// both of which should stop the run.
func (r *Resolver) Resolve(owner int, raw string) (Param, error) {
	p, err := r.resolve(raw)
	if err == nil {
		return p, nil
	}

	var consistency *ConsistencyError
	var missing *gamedata.MissingTableError
	if errors.As(err, &consistency) || errors.As(err, &missing) {
		return Param{}, err
	}

	log.Warn().Int("record_id", owner).Str("param", raw).Err(err).Msg("[Resolver] parameter unresolved")
	return Failed(err.Error()), nil
}

func (r *Resolver) resolve(raw string) (Param, error) {
	ref, err := ParseRef(raw)
	if err != nil {
		return Param{}, &UnresolvedError{Ref: raw, Err: err}
	}
	tbl, err := r.tables.Raw(ref.Table)
	if err != nil {
		return Param{}, err
	}
	row, hasRow := tbl[ref.RowID]

	if hasRow && row.Has(fieldPercent) {
		p, ok := normalizeField(row[fieldPercent], ref, kindOf(ref, row))
		if !ok {
			return Param{}, unresolved(ref, "%s is not numeric", fieldPercent)
		}
		return p, nil
	}

	switch ref.Source {
	case SourceShield, SourceBuff, SourceEffect:
		return r.resolveLevels(ref, row)

	case SourceEffectValue:
		if ref.Level != levelNone {
			return Param{}, unresolved(ref, "level selector %q, want %s", ref.Level, levelNone)
		}
		if !hasRow {
			return Param{}, unresolved(ref, "row %s not found", ref.RowID)
		}
		kind := kindOf(ref, row)
		if ref.FieldHint == hintEffectType {
			eff, err := r.effects.EffectOf(row)
			if err != nil {
				return Param{}, wrapLookup(ref, err)
			}
			return Scalar(TextValue(eff.Desc), kind), nil
		}
		v, ok := row.Float(fieldEffectArg)
		if !ok {
			return Param{}, unresolved(ref, "row %s has no %s", ref.RowID, fieldEffectArg)
		}
		return Scalar(TextValue(Normalize(v, ref.FieldHint, ref.UnitHint)), kind), nil

	case SourceBuffValue:
		if ref.FieldHint != hintTime {
			return Param{}, unresolved(ref, "field hint %q, want %s", ref.FieldHint, hintTime)
		}
		if !hasRow {
			return Param{}, unresolved(ref, "row %s not found", ref.RowID)
		}
		t, ok := row.Float(hintTime)
		if !ok {
			return Param{}, unresolved(ref, "row %s has no %s", ref.RowID, hintTime)
		}
		seconds := t / 10000
		if seconds == math.Trunc(seconds) {
			return Scalar(IntValue(int(seconds)), kindOf(ref, row)), nil
		}
		return Scalar(FloatValue(seconds), kindOf(ref, row)), nil
	}

	return Param{}, unresolved(ref, "no rule for table %s", ref.Table)
}

// resolveLevels reads up to ten rows of "<table>Value" starting at the row id.
// Tables that stop after one or two rows hold a single value. A table that
// stops after three rows is accepted as is.
func (r *Resolver) resolveLevels(ref Ref, row gamedata.Record) (Param, error) {
	if ref.FieldHint == "" {
		return Param{}, unresolved(ref, "no field hint")
	}
	values, err := r.tables.Raw(ref.Table + "Value")
	if err != nil {
		return Param{}, err
	}
	base, err := strconv.Atoi(ref.RowID)
	if err != nil {
		return Param{}, unresolved(ref, "row id %q is not numeric", ref.RowID)
	}
	// some references point one step below the first stored level
	if _, ok := values[strconv.Itoa(base)]; !ok {
		base += levelStep
	}
	first, ok := values[strconv.Itoa(base)]
	if !ok {
		return Param{}, unresolved(ref, "%sValue has no row %s or %d", ref.Table, ref.RowID, base)
	}

	kind := kindOf(ref, first)
	if row.Has(fieldLevelType) {
		kind = kindOf(ref, row)
	}

	out := make([]Value, 0, maxLevels)
	for i := 0; i < maxLevels; i++ {
		key := strconv.Itoa(base + i*levelStep)
		rec, ok := values[key]
		if !ok {
			switch {
			case i == 1 || i == 2:
				return Scalar(out[0], kind), nil
			case i == 3:
				return PerLevel(out, kind), nil
			default:
				return Param{}, unresolved(ref, "%sValue stops at level %d", ref.Table, i)
			}
		}
		v, err := r.levelValue(ref, rec)
		if err != nil {
			return Param{}, err
		}
		out = append(out, v)
	}
	return PerLevel(out, kind), nil
}

func (r *Resolver) levelValue(ref Ref, rec gamedata.Record) (Value, error) {
	if ref.FieldHint == hintEffectType {
		eff, err := r.effects.EffectOf(rec)
		if err != nil {
			return Value{}, wrapLookup(ref, err)
		}
		return TextValue(eff.Desc), nil
	}
	f, ok := rec.Float(ref.FieldHint)
	if !ok {
		return Value{}, unresolved(ref, "field %s missing or not numeric", ref.FieldHint)
	}
	return TextValue(Normalize(f, ref.FieldHint, ref.UnitHint)), nil
}

func kindOf(ref Ref, row gamedata.Record) Kind {
	if v, ok := row.Int(fieldLevelType); ok {
		if k, ok := kindFromLevelType(v); ok {
			return k
		}
	}
	return ref.defaultKind()
}

func unresolved(ref Ref, format string, args ...any) error {
	return &UnresolvedError{Ref: ref.Raw, Err: fmt.Errorf(format, args...)}
}

// wrapLookup keeps consistency errors intact and downgrades the rest.
func wrapLookup(ref Ref, err error) error {
	var consistency *ConsistencyError
	if errors.As(err, &consistency) {
		return fmt.Errorf("%s: %w", ref.Raw, err)
	}
	return &UnresolvedError{Ref: ref.Raw, Err: err}
}
