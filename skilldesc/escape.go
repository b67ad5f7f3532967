package skilldesc

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/stellasorawiki/wikigen/gamedata"
)

// Word - a highlighted glossary term used inside descriptions
type Word struct {
	ID    int
	Title string
	Color string // "#rrggbb"
}

// Words - glossary terms by id
type Words map[int]Word

// LoadWords builds the glossary from the localized Word table.
func LoadWords(store gamedata.Loader) (Words, error) {
	tbl, err := store.Load("Word")
	if err != nil {
		return nil, err
	}
	words := make(Words, len(tbl))
	for _, rec := range tbl {
		id := rec.IntOr("Id", 0)
		words[id] = Word{ID: id, Title: rec.StringOr("Title", ""), Color: "#" + rec.StringOr("Color", "")}
	}
	return words, nil
}

var (
	wordPattern  = regexp.MustCompile(`##([^#]+)#([^#]+)#`)
	colorPattern = regexp.MustCompile(`<color=(#[^>]{3,8})>([^<]+)</color>`)
	paramPattern = regexp.MustCompile(`&Param(\d+)&`)
)

// Escape converts in-game rich text into wiki markup and turns &ParamN&
// markers into {N} placeholders.
func Escape(text string, words Words) string {
	text = strings.ReplaceAll(text, "\v", " ")
	text = wordPattern.ReplaceAllStringFunc(text, func(m string) string {
		sub := wordPattern.FindStringSubmatch(m)
		id, err := strconv.Atoi(sub[2])
		if err != nil {
			return sub[1]
		}
		w, ok := words[id]
		if !ok {
			return sub[1]
		}
		return "{{color|" + w.Color + "|" + w.Title + "}}"
	})
	text = colorPattern.ReplaceAllString(text, "{{color|$1|$2}}")
	text = paramPattern.ReplaceAllString(text, "{$1}")
	return text
}
