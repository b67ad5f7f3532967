package skilldesc

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatError - a template could not be rendered at a level
type FormatError struct {
	Placeholder int
	Level       int
	Reason      string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("placeholder {%d} at level %d: %s", e.Placeholder, e.Level, e.Reason)
}

// hintJoinLimit - values shown in a level hint
const hintJoinLimit = 9

// Format substitutes {1}..{n} with params[0..n-1] for one level.
// It either renders every placeholder the template uses or fails; params
// are never modified.
func Format(template string, params []Param, level int) (string, error) {
	out := template
	for i := 1; i <= MaxParamIndex(template); i++ {
		placeholder := placeholderOf(i)
		if !strings.Contains(template, placeholder) {
			continue
		}
		if i > len(params) {
			return "", &FormatError{Placeholder: i, Level: level, Reason: "no parameter"}
		}
		text, err := renderParam(params[i-1], i, level)
		if err != nil {
			return "", err
		}
		out = strings.ReplaceAll(out, placeholder, text)
	}
	return out, nil
}

func renderParam(p Param, index, level int) (string, error) {
	switch p.Shape() {
	case ShapeScalar:
		return p.Scalar().String(), nil
	case ShapePerLevel:
		// arrays with no progression axis are indexed like skill levels
		if p.Kind() == KindSkillLevel || p.Kind() == KindNone {
			v, ok := p.Level(level)
			if !ok {
				return "", &FormatError{Placeholder: index, Level: level, Reason: fmt.Sprintf("only %d levels", p.Len())}
			}
			return v.String(), nil
		}
		return LevelHint(p), nil
	default:
		return "", &FormatError{Placeholder: index, Level: level, Reason: "parameter unresolved: " + p.Reason()}
	}
}

// LevelHint renders a per-level value that follows another progression axis
// than skill level.
func LevelHint(p Param) string {
	n := min(p.Len(), hintJoinLimit)
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		v, _ := p.Level(i)
		parts = append(parts, v.String())
	}
	return "{{LevelHint|" + p.Kind().String() + "|" + strings.Join(parts, "/") + "}}"
}

// MaxParamIndex returns the highest i in 1..99 such that {i} appears.
func MaxParamIndex(template string) int {
	highest := 0
	for i := 1; i < 100; i++ {
		if strings.Contains(template, placeholderOf(i)) {
			highest = i
		}
	}
	return highest
}

func placeholderOf(i int) string {
	return "{" + strconv.Itoa(i) + "}"
}
