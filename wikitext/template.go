package wikitext

import (
	"fmt"
	"strconv"
	"strings"
)

// Arg - one template argument. Positional arguments are named by their index.
type Arg struct {
	Name       string
	Value      string
	Positional bool
}

// Template - a wiki template call with ordered arguments
type Template struct {
	Name   string
	Args   []Arg
	Inline bool // render as {{Name|a|k=v}} instead of one argument per line
}

func NewTemplate(name string) *Template {
	return &Template{Name: name}
}

// NewInline returns a template rendered on one line, like {{Item|Gold|quantity=3}}.
func NewInline(name string, positional ...string) *Template {
	t := &Template{Name: name, Inline: true}
	for _, v := range positional {
		t.Args = append(t.Args, Arg{Name: strconv.Itoa(len(t.Args) + 1), Value: v, Positional: true})
	}
	return t
}

func (t *Template) index(name string) int {
	for i, a := range t.Args {
		if a.Name == name {
			return i
		}
	}
	return -1
}

// Set replaces the value of an argument, appending it when absent.
func (t *Template) Set(name string, value any) {
	v := strings.TrimSpace(fmt.Sprint(value))
	if i := t.index(name); i >= 0 {
		t.Args[i].Value = v
		return
	}
	t.Args = append(t.Args, Arg{Name: name, Value: v})
}

// SetIfEmpty only fills an argument that is missing or blank.
func (t *Template) SetIfEmpty(name string, value any) bool {
	if v, ok := t.Get(name); ok && v != "" {
		return false
	}
	t.Set(name, value)
	return true
}

func (t *Template) Get(name string) (string, bool) {
	if i := t.index(name); i >= 0 {
		return t.Args[i].Value, true
	}
	return "", false
}

func (t *Template) Has(name string) bool {
	return t.index(name) >= 0
}

// Positionals returns the positional argument values in order.
func (t *Template) Positionals() []string {
	var out []string
	for _, a := range t.Args {
		if a.Positional {
			out = append(out, a.Value)
		}
	}
	return out
}

func (t *Template) String() string {
	var b strings.Builder
	b.WriteString("{{")
	b.WriteString(t.Name)
	if t.Inline {
		for _, a := range t.Args {
			b.WriteByte('|')
			if !a.Positional {
				b.WriteString(a.Name)
				b.WriteByte('=')
			}
			b.WriteString(a.Value)
		}
		b.WriteString("}}")
		return b.String()
	}
	b.WriteByte('\n')
	for _, a := range t.Args {
		b.WriteString("| ")
		b.WriteString(a.Name)
		b.WriteString(" = ")
		b.WriteString(a.Value)
		b.WriteByte('\n')
	}
	b.WriteString("}}")
	return b.String()
}
