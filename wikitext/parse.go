package wikitext

import (
	"sort"
	"strconv"
	"strings"
)

// span - a template call located in page text, [start, end)
type span struct {
	start, end int
}

// templateSpans lists the top-level and nested template calls in text
// in order of their opening braces.
func templateSpans(text string) []span {
	var spans []span
	var stack []int
	for i := 0; i+1 < len(text); i++ {
		switch text[i : i+2] {
		case "{{":
			// {{{param}}} belongs to template definitions, not calls
			if i+2 < len(text) && text[i+2] == '{' {
				end := strings.Index(text[i:], "}}}")
				if end >= 0 {
					i += end + 2
					continue
				}
			}
			stack = append(stack, i)
			i++
		case "}}":
			if len(stack) == 0 {
				continue
			}
			start := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			spans = append(spans, span{start: start, end: i + 2})
			i++
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	return spans
}

// ParseTemplate parses a single template call "{{...}}".
func ParseTemplate(call string) (*Template, bool) {
	if !strings.HasPrefix(call, "{{") || !strings.HasSuffix(call, "}}") || len(call) < 4 {
		return nil, false
	}
	body := call[2 : len(call)-2]
	parts := splitTopLevel(body)
	name := strings.TrimSpace(parts[0])
	if name == "" {
		return nil, false
	}
	t := &Template{Name: name, Inline: !strings.Contains(body, "\n")}
	pos := 0
	for _, part := range parts[1:] {
		if eq := topLevelEquals(part); eq >= 0 {
			t.Args = append(t.Args, Arg{
				Name:  strings.TrimSpace(part[:eq]),
				Value: strings.TrimSpace(part[eq+1:]),
			})
			continue
		}
		pos++
		t.Args = append(t.Args, Arg{Name: strconv.Itoa(pos), Value: strings.TrimSpace(part), Positional: true})
	}
	return t, true
}

// splitTopLevel splits on '|' outside nested templates and links.
func splitTopLevel(s string) []string {
	var parts []string
	depth, last := 0, 0
	for i := 0; i < len(s); i++ {
		if i+1 < len(s) {
			switch s[i : i+2] {
			case "{{", "[[":
				depth++
				i++
				continue
			case "}}", "]]":
				depth--
				i++
				continue
			}
		}
		if s[i] == '|' && depth == 0 {
			parts = append(parts, s[last:i])
			last = i + 1
		}
	}
	return append(parts, s[last:])
}

func topLevelEquals(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		if i+1 < len(s) {
			switch s[i : i+2] {
			case "{{", "[[":
				depth++
				i++
				continue
			case "}}", "]]":
				depth--
				i++
				continue
			}
		}
		if s[i] == '=' && depth == 0 {
			return i
		}
	}
	return -1
}

func templateName(call string) string {
	body := call[2 : len(call)-2]
	end := strings.IndexAny(body, "|}")
	if end < 0 {
		end = len(body)
	}
	return strings.TrimSpace(body[:end])
}

// sameName compares template names the way MediaWiki does: the first letter
// is case-insensitive and underscores are spaces.
func sameName(a, b string) bool {
	a = strings.ReplaceAll(strings.TrimSpace(a), "_", " ")
	b = strings.ReplaceAll(strings.TrimSpace(b), "_", " ")
	if a == "" || b == "" {
		return a == b
	}
	return strings.EqualFold(a[:1], b[:1]) && a[1:] == b[1:]
}
