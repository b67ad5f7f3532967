package wikitext

import (
	"regexp"
	"strings"
)

// Doc - the wikitext of one page under edit
type Doc struct {
	text string
}

func Parse(text string) *Doc {
	return &Doc{text: text}
}

func (d *Doc) String() string {
	return d.text
}

func (d *Doc) SetText(text string) {
	d.text = text
}

// FindTemplate returns the first template call with the given name.
// The result is a detached copy; use UpdateTemplate to write changes back.
func (d *Doc) FindTemplate(name string) (*Template, bool) {
	sp, ok := d.findSpan(name)
	if !ok {
		return nil, false
	}
	return ParseTemplate(d.text[sp.start:sp.end])
}

func (d *Doc) findSpan(name string) (span, bool) {
	for _, sp := range templateSpans(d.text) {
		if sameName(templateName(d.text[sp.start:sp.end]), name) {
			return sp, true
		}
	}
	return span{}, false
}

// UpdateTemplate applies fn to the first template with the given name and
// writes the result back in place. It reports whether the template exists.
func (d *Doc) UpdateTemplate(name string, fn func(t *Template)) bool {
	sp, ok := d.findSpan(name)
	if !ok {
		return false
	}
	t, ok := ParseTemplate(d.text[sp.start:sp.end])
	if !ok {
		return false
	}
	fn(t)
	d.ReplaceSpan(sp.start, sp.end, t.String())
	return true
}

// ReplaceTemplate overwrites the first template with the given name with raw text.
func (d *Doc) ReplaceTemplate(name, text string) bool {
	sp, ok := d.findSpan(name)
	if !ok {
		return false
	}
	d.ReplaceSpan(sp.start, sp.end, text)
	return true
}

func (d *Doc) ReplaceSpan(start, end int, text string) {
	d.text = d.text[:start] + text + d.text[end:]
}

var headingRe = regexp.MustCompile(`(?m)^(={1,6})[ \t]*(.+?)[ \t]*={1,6}[ \t]*$`)

// Section - a heading and the extent of its contents, subsections included
type Section struct {
	Title        string
	Level        int
	Start        int // heading start
	ContentStart int
	End          int
}

// Sections lists every section of the page in document order.
func (d *Doc) Sections() []Section {
	matches := headingRe.FindAllStringSubmatchIndex(d.text, -1)
	sections := make([]Section, 0, len(matches))
	for _, m := range matches {
		contentStart := m[1]
		if contentStart < len(d.text) && d.text[contentStart] == '\n' {
			contentStart++
		}
		sections = append(sections, Section{
			Title:        d.text[m[4]:m[5]],
			Level:        m[3] - m[2],
			Start:        m[0],
			ContentStart: contentStart,
			End:          len(d.text),
		})
	}
	for i := range sections {
		for j := i + 1; j < len(sections); j++ {
			if sections[j].Level <= sections[i].Level {
				sections[i].End = sections[j].Start
				break
			}
		}
	}
	return sections
}

// Section returns the first section with the given title.
func (d *Doc) Section(title string) (Section, bool) {
	for _, s := range d.Sections() {
		if s.Title == title {
			return s, true
		}
	}
	return Section{}, false
}

// SectionText returns the contents of a section without its heading.
func (d *Doc) SectionText(title string) (string, bool) {
	s, ok := d.Section(title)
	if !ok {
		return "", false
	}
	return d.text[s.ContentStart:s.End], true
}

// SetSection replaces the contents of an existing section.
func (d *Doc) SetSection(title, contents string) bool {
	s, ok := d.Section(title)
	if !ok {
		return false
	}
	d.ReplaceSpan(s.ContentStart, s.End, contents)
	return true
}

// ForceSection sets the body of a level 2 section. Whichever comes first
// wins: the section itself, whose contents are replaced, or the section
// named before, ahead of which a new section is inserted.
func (d *Doc) ForceSection(title, body, before string) bool {
	for _, s := range d.Sections() {
		switch strings.TrimSpace(s.Title) {
		case before:
			d.ReplaceSpan(s.Start, s.Start, "=="+title+"==\n"+body+"\n")
			return true
		case title:
			d.ReplaceSpan(s.ContentStart, s.End, body+"\n")
			return true
		}
	}
	return false
}
