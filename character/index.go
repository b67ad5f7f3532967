package character

import (
	"strings"
	"sync"
	"unicode"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
)

// Index resolves ids and wiki page titles to characters.
type Index struct {
	list []*Character
	byID map[int]*Character

	buildOnce  sync.Once
	byName     map[string]*Character
	byFolded   map[string]*Character
	foldedList []string
}

func NewIndex(chars []*Character) *Index {
	idx := &Index{list: chars, byID: make(map[int]*Character, len(chars))}
	for _, c := range chars {
		idx.byID[c.ID] = c
	}
	return idx
}

var folder = cases.Fold()

// fold keeps letters and digits only, case-folded.
func fold(s string) string {
	var b strings.Builder
	for _, r := range folder.String(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (idx *Index) build() {
	idx.byName = make(map[string]*Character, len(idx.list))
	idx.byFolded = make(map[string]*Character, len(idx.list))
	idx.foldedList = make([]string, len(idx.list))
	for i, c := range idx.list {
		idx.byName[c.Name] = c
		f := fold(c.Name)
		idx.byFolded[f] = c
		idx.foldedList[i] = f
	}
}

func (idx *Index) All() []*Character {
	return idx.list
}

func (idx *Index) ByID(id int) (*Character, bool) {
	c, ok := idx.byID[id]
	return c, ok
}

// Match resolves a page title such as "Amber/Skills" to its character:
// exact name first, then case and punctuation insensitive, then the unique
// closest name within a small edit distance.
func (idx *Index) Match(title string) (*Character, bool) {
	idx.buildOnce.Do(idx.build)

	name := strings.TrimSpace(strings.SplitN(title, "/", 2)[0])
	if c, ok := idx.byName[name]; ok {
		return c, true
	}
	folded := fold(name)
	if folded == "" {
		return nil, false
	}
	if c, ok := idx.byFolded[folded]; ok {
		log.Debug().Str("title", title).Str("name", c.Name).Str("step", "folded").Msg("[Character] title matched")
		return c, true
	}

	maxEd := 1
	if len([]rune(folded)) >= 4 {
		maxEd = 2
	}
	best, bestDist, tie := -1, maxEd+1, false
	for i, f := range idx.foldedList {
		dist := editDistance(folded, f, maxEd)
		switch {
		case dist < bestDist:
			best, bestDist, tie = i, dist, false
		case dist == bestDist && dist <= maxEd:
			tie = true
		}
	}
	if best < 0 || tie {
		log.Info().Str("title", title).Bool("ambiguous", tie).Msg("[Character] title did not match")
		return nil, false
	}
	c := idx.list[best]
	log.Info().Str("title", title).Str("name", c.Name).Int("distance", bestDist).Msg("[Character] title matched by edit distance")
	return c, true
}

// editDistance is the Damerau-Levenshtein distance, or max+1 once it is
// known to exceed max.
func editDistance(a, b string, max int) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if abs(la-lb) > max {
		return max + 1
	}
	dp := make([][]int, la+1)
	for i := range dp {
		dp[i] = make([]int, lb+1)
		dp[i][0] = i
	}
	for j := 0; j <= lb; j++ {
		dp[0][j] = j
	}
	for i := 1; i <= la; i++ {
		for j := 1; j <= lb; j++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			dp[i][j] = min(dp[i-1][j]+1, dp[i][j-1]+1, dp[i-1][j-1]+cost)
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				dp[i][j] = min(dp[i][j], dp[i-2][j-2]+cost)
			}
		}
	}
	if dp[la][lb] > max {
		return max + 1
	}
	return dp[la][lb]
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
