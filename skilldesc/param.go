package skilldesc

import (
	"strconv"
)

// Kind - which progression axis a per-level value follows
type Kind int

const (
	KindNone Kind = iota
	KindAscension
	KindSkillLevel
	KindBreakthrough
)

func (k Kind) String() string {
	switch k {
	case KindAscension:
		return "Ascension"
	case KindSkillLevel:
		return "SkillLevel"
	case KindBreakthrough:
		return "Breakthrough"
	default:
		return "None"
	}
}

// kindFromLevelType maps the LevelTypeData field of a parameter row.
func kindFromLevelType(v int) (Kind, bool) {
	switch v {
	case 0:
		return KindNone, true
	case 1:
		return KindAscension, true
	case 2:
		return KindSkillLevel, true
	case 3:
		return KindBreakthrough, true
	}
	return KindNone, false
}

// Value - a scalar parameter value: int, float or a text label
type Value struct {
	text  string
	num   float64
	isNum bool
	isInt bool
}

func IntValue(n int) Value       { return Value{num: float64(n), isNum: true, isInt: true} }
func FloatValue(f float64) Value { return Value{num: f, isNum: true} }
func TextValue(s string) Value   { return Value{text: s} }

func (v Value) String() string {
	switch {
	case v.isInt:
		return strconv.Itoa(int(v.num))
	case v.isNum:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return v.text
	}
}

// Shape - the tag of a resolved parameter
type Shape int

const (
	ShapeFailed Shape = iota
	ShapeScalar
	ShapePerLevel
)

// Param - a resolved skill parameter. The zero value is a failed parameter.
type Param struct {
	shape  Shape
	kind   Kind
	scalar Value
	levels []Value
	reason string
}

func Scalar(v Value, kind Kind) Param {
	return Param{shape: ShapeScalar, kind: kind, scalar: v}
}

// PerLevel copies values so the caller's slice can be reused.
func PerLevel(values []Value, kind Kind) Param {
	return Param{shape: ShapePerLevel, kind: kind, levels: append([]Value(nil), values...)}
}

// Failed is the sentinel for a parameter that could not be resolved.
func Failed(reason string) Param {
	return Param{shape: ShapeFailed, reason: reason}
}

func (p Param) Shape() Shape   { return p.shape }
func (p Param) Kind() Kind     { return p.kind }
func (p Param) IsFailed() bool { return p.shape == ShapeFailed }
func (p Param) Reason() string { return p.reason }
func (p Param) Scalar() Value  { return p.scalar }
func (p Param) Len() int       { return len(p.levels) }

// Level returns the value at a 0-indexed level of a per-level parameter.
func (p Param) Level(i int) (Value, bool) {
	if i < 0 || i >= len(p.levels) {
		return Value{}, false
	}
	return p.levels[i], true
}

// Levels returns a copy of the per-level values.
func (p Param) Levels() []Value {
	return append([]Value(nil), p.levels...)
}
