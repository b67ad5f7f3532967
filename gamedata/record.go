package gamedata

import (
	"sort"
	"strconv"
)

// Record - one row of a data table, as decoded from JSON
type Record map[string]any

// Table - rows keyed by their raw id string
type Table map[string]Record

// Loader - anything that serves localized tables by name; *Store does
type Loader interface {
	Load(name string) (Table, error)
}

// Tables is a Loader over fixed tables, for tests and small tools.
type Tables map[string]Table

func (t Tables) Load(name string) (Table, error) {
	tbl, ok := t[name]
	if !ok {
		return nil, &MissingTableError{Name: name}
	}
	return tbl, nil
}

// Has reports whether the field is present.
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// Float returns a numeric field. JSON numbers decode as float64.
func (r Record) Float(key string) (float64, bool) {
	return toFloat(r[key])
}

// Int returns a numeric field truncated to int.
func (r Record) Int(key string) (int, bool) {
	f, ok := toFloat(r[key])
	if !ok {
		return 0, false
	}
	return int(f), true
}

// IntOr returns the field or def when absent.
func (r Record) IntOr(key string, def int) int {
	if v, ok := r.Int(key); ok {
		return v
	}
	return def
}

// FloatOr returns the field or def when absent.
func (r Record) FloatOr(key string, def float64) float64 {
	if v, ok := r.Float(key); ok {
		return v
	}
	return def
}

// String returns a string field.
func (r Record) String(key string) (string, bool) {
	s, ok := r[key].(string)
	return s, ok
}

// StringOr returns the string field or def.
func (r Record) StringOr(key, def string) string {
	if s, ok := r.String(key); ok {
		return s
	}
	return def
}

// Ints returns a list-of-numbers field.
func (r Record) Ints(key string) ([]int, bool) {
	list, ok := r[key].([]any)
	if !ok {
		return nil, false
	}
	out := make([]int, 0, len(list))
	for _, v := range list {
		f, ok := toFloat(v)
		if !ok {
			return nil, false
		}
		out = append(out, int(f))
	}
	return out, true
}

// Record returns a nested record field.
func (r Record) Record(key string) (Record, bool) {
	switch v := r[key].(type) {
	case Record:
		return v, true
	case map[string]any:
		return Record(v), true
	}
	return nil, false
}

// Get returns the row for an integer id.
func (t Table) Get(id int) (Record, bool) {
	rec, ok := t[strconv.Itoa(id)]
	return rec, ok
}

// Keys returns the row keys in numeric order, falling back to lexical order
// for keys that are not numbers.
func (t Table) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return keys[i] < keys[j]
	})
	return keys
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}
