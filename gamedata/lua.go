package gamedata

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/Shopify/go-lua"
)

// LoadLuaTable runs a Lua chunk and converts the value it returns.
// Tables with keys 1..n become []any, other tables map[string]any.
func LoadLuaTable(path string) (any, error) {
	l := lua.NewState()
	lua.OpenLibraries(l)

	if err := lua.LoadFile(l, path, ""); err != nil {
		return nil, fmt.Errorf("load lua %s: %w", path, err)
	}
	if err := l.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run lua %s: %w", path, err)
	}
	defer l.Pop(1)

	if l.TypeOf(-1) != lua.TypeTable {
		return nil, fmt.Errorf("lua %s: chunk returned %s, want table", path, lua.TypeNameOf(l, -1))
	}
	return luaValue(l, -1, 0)
}

const maxLuaDepth = 64

type luaEntry struct {
	key    string
	intKey int
	isInt  bool
	value  any
}

func luaValue(l *lua.State, index, depth int) (any, error) {
	switch l.TypeOf(index) {
	case lua.TypeNil:
		return nil, nil
	case lua.TypeBoolean:
		return l.ToBoolean(index), nil
	case lua.TypeNumber:
		n, _ := l.ToNumber(index)
		return n, nil
	case lua.TypeString:
		s, _ := l.ToString(index)
		return s, nil
	case lua.TypeTable:
		if depth >= maxLuaDepth {
			return nil, fmt.Errorf("lua table nested deeper than %d", maxLuaDepth)
		}
		return luaTable(l, l.AbsIndex(index), depth+1)
	default:
		// functions, userdata and threads have no data representation
		return nil, nil
	}
}

func luaTable(l *lua.State, index, depth int) (any, error) {
	var entries []luaEntry
	l.PushNil()
	for l.Next(index) {
		var e luaEntry
		// keys are read without ToString on numbers, which would rewrite the
		// key in place and break Next
		switch l.TypeOf(-2) {
		case lua.TypeNumber:
			n, _ := l.ToNumber(-2)
			if n == math.Trunc(n) {
				e.intKey, e.isInt = int(n), true
				e.key = strconv.Itoa(e.intKey)
			} else {
				e.key = strconv.FormatFloat(n, 'f', -1, 64)
			}
		case lua.TypeString:
			e.key, _ = l.ToString(-2)
		case lua.TypeBoolean:
			e.key = strconv.FormatBool(l.ToBoolean(-2))
		default:
			l.Pop(1)
			continue
		}
		v, err := luaValue(l, -1, depth)
		if err != nil {
			l.Pop(2)
			return nil, err
		}
		e.value = v
		entries = append(entries, e)
		l.Pop(1)
	}

	if isSequence(entries) {
		sort.Slice(entries, func(i, j int) bool { return entries[i].intKey < entries[j].intKey })
		list := make([]any, len(entries))
		for i, e := range entries {
			list[i] = e.value
		}
		return list, nil
	}
	m := make(map[string]any, len(entries))
	for _, e := range entries {
		m[e.key] = e.value
	}
	return m, nil
}

func isSequence(entries []luaEntry) bool {
	if len(entries) == 0 {
		return false
	}
	seen := make([]bool, len(entries)+1)
	for _, e := range entries {
		if !e.isInt || e.intKey < 1 || e.intKey > len(entries) || seen[e.intKey] {
			return false
		}
		seen[e.intKey] = true
	}
	return true
}
