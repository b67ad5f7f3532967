package skilldesc

import (
	"strconv"
	"strings"
)

// Normalize renders a raw numeric parameter for display.
//
// The suffix is "%" unless the unit hint is "Time"; a unit hint containing
// "Pct" forces "%"; a field hint of "Time" removes the suffix regardless.
// "HdPct" values are scaled by 100, otherwise "10K" values are divided by 10000.
func Normalize(value float64, fieldHint, unitHint string) string {
	suffix := "%"
	if unitHint == hintTime {
		suffix = ""
	}
	if strings.Contains(unitHint, "Pct") {
		suffix = "%"
	}
	if fieldHint == hintTime {
		suffix = ""
	}
	if strings.Contains(unitHint, "HdPct") {
		value *= 100
	} else if strings.Contains(unitHint, "10K") {
		value /= 10000
	}
	return strconv.FormatFloat(value, 'f', 1, 64) + suffix
}

// normalizeField normalizes a scalar or list field, keeping its shape.
func normalizeField(v any, ref Ref, kind Kind) (Param, bool) {
	if f, ok := number(v); ok {
		return Scalar(TextValue(Normalize(f, ref.FieldHint, ref.UnitHint)), kind), true
	}
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return Param{}, false
	}
	values := make([]Value, 0, len(list))
	for _, item := range list {
		f, ok := number(item)
		if !ok {
			return Param{}, false
		}
		values = append(values, TextValue(Normalize(f, ref.FieldHint, ref.UnitHint)))
	}
	return PerLevel(values, kind), true
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
