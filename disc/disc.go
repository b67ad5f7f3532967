package disc

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"

	"github.com/stellasorawiki/wikigen/character"
	"github.com/stellasorawiki/wikigen/gamedata"
	"github.com/stellasorawiki/wikigen/skilldesc"
)

// Skill tables
const (
	MainSkillTable      = "MainSkill"
	SecondarySkillTable = "SecondarySkill"
)

// Melody - a SubNoteSkill note required to unlock disc skill levels
type Melody struct {
	ID   int
	Name string
}

// Requirement - how many of a melody a skill level needs
type Requirement struct {
	Melody   string
	Quantity int
}

// Skill - a disc skill group with one description per level
type Skill struct {
	GroupID      int
	Name         string
	Descriptions []string
	Icon         int
	IconBg       int
	Unlock       [][]Requirement // per level
}

var iconBgColors = map[int]string{
	1: "red",
	2: "blue2",
	3: "green",
	4: "cyan",
	5: "blue",
	6: "purple",
}

func (s *Skill) IconPath(assetRoot string) string {
	return filepath.Join(assetRoot, "icon", "discskill", fmt.Sprintf("discskill_%d.png", s.Icon))
}

func (s *Skill) IconPage() string {
	return fmt.Sprintf("Discskill-icon-%d.png", s.Icon)
}

// IconBgName - the background argument of {{DiscSkillIcon}}
func (s *Skill) IconBgName() string {
	return iconBgColors[s.IconBg] + "-sq"
}

// Disc - a disc with its skills
type Disc struct {
	ID              int
	Name            string
	Rarity          int // stars, 6 minus the item rarity
	Lines           string
	Story           string
	Bg              string
	Element         character.Element
	MainSkill       *Skill
	SecondarySkills []*Skill
}

func (d *Disc) ImagePath(assetRoot string) string {
	return filepath.Join(assetRoot, "disc", d.Bg, d.Bg+"_b.png")
}

func (d *Disc) IconPath(assetRoot string) string {
	return filepath.Join(assetRoot, "icon", "outfit", "outfit_"+d.Bg+"_b.png")
}

func (d *Disc) ImageFile() string {
	return "Disc " + d.Name + ".png"
}

func (d *Disc) IconFile() string {
	return "Disc icon " + d.Name + ".png"
}

// Melodies reads SubNoteSkill; names are stored as "Note of <melody>".
func Melodies(tables gamedata.Loader) (map[int]Melody, error) {
	tbl, err := tables.Load("SubNoteSkill")
	if err != nil {
		return nil, err
	}
	result := make(map[int]Melody, len(tbl))
	for k, rec := range tbl {
		id, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		name := rec.StringOr("Name", "")
		if _, after, ok := strings.Cut(name, " of "); ok {
			name = after
		}
		result[id] = Melody{ID: id, Name: name}
	}
	return result, nil
}

// Skills parses a disc skill table grouped by GroupId.
func Skills(tables gamedata.Loader, name string, words skilldesc.Words, melodies map[int]Melody) (map[int]*Skill, error) {
	tbl, err := tables.Load(name)
	if err != nil {
		return nil, err
	}
	result := make(map[int]*Skill)
	for _, k := range tbl.Keys() {
		rec := tbl[k]
		group, ok := rec.Int("GroupId")
		if !ok {
			continue
		}
		skillName := rec.StringOr("Name", "")
		s, ok := result[group]
		if !ok {
			s = &Skill{GroupID: group, Name: skillName}
			result[group] = s
		} else if skillName != s.Name && !strings.HasPrefix(skillName, name+".") {
			log.Warn().Int("group", group).Str("name", skillName).Str("first", s.Name).
				Msg("[Disc] skill name differs within group")
		}

		s.Descriptions = append(s.Descriptions, substituteParams(skilldesc.Escape(rec.StringOr("Desc", ""), words), rec))
		s.Icon = trailingNumber(rec.StringOr("Icon", ""))
		s.IconBg = trailingNumber(rec.StringOr("IconBg", ""))

		unlock, err := parseUnlock(rec.StringOr("NeedSubNoteSkills", ""), melodies)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", name, k, err)
		}
		s.Unlock = append(s.Unlock, unlock)
	}
	return result, nil
}

// substituteParams fills {i} with the row's own ParamI values; disc skills
// carry literal parameters rather than references.
func substituteParams(desc string, rec gamedata.Record) string {
	for i := 1; i < 100; i++ {
		v, ok := rec[fmt.Sprintf("Param%d", i)]
		if !ok {
			break
		}
		desc = strings.ReplaceAll(desc, "{"+strconv.Itoa(i)+"}", literal(v))
	}
	return desc
}

func literal(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

func trailingNumber(s string) int {
	i := strings.LastIndex(s, "_")
	n, _ := strconv.Atoi(s[i+1:])
	return n
}

// parseUnlock decodes NeedSubNoteSkills, a JSON object of melody id to
// quantity, ordered by melody id.
func parseUnlock(raw string, melodies map[int]Melody) ([]Requirement, error) {
	if raw == "" {
		return nil, nil
	}
	var need map[string]int
	if err := sonic.UnmarshalString(raw, &need); err != nil {
		return nil, fmt.Errorf("bad NeedSubNoteSkills %q: %w", raw, err)
	}
	ids := make([]int, 0, len(need))
	for k := range need {
		id, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("bad melody id %q", k)
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)
	reqs := make([]Requirement, 0, len(ids))
	for _, id := range ids {
		m, ok := melodies[id]
		if !ok {
			return nil, fmt.Errorf("unknown melody %d", id)
		}
		reqs = append(reqs, Requirement{Melody: m.Name, Quantity: need[strconv.Itoa(id)]})
	}
	return reqs, nil
}

// maxRarity - item rarity 1 is a five-star disc
const maxRarity = 6

// Load builds every named disc, sorted by id.
func Load(tables gamedata.Loader, words skilldesc.Words) ([]*Disc, error) {
	discs, err := tables.Load("Disc")
	if err != nil {
		return nil, err
	}
	items, err := tables.Load("Item")
	if err != nil {
		return nil, err
	}
	ips, err := tables.Load("DiscIP")
	if err != nil {
		return nil, err
	}
	melodies, err := Melodies(tables)
	if err != nil {
		return nil, err
	}
	mains, err := Skills(tables, MainSkillTable, words, melodies)
	if err != nil {
		return nil, err
	}
	secondaries, err := Skills(tables, SecondarySkillTable, words, melodies)
	if err != nil {
		return nil, err
	}

	var result []*Disc
	for _, k := range discs.Keys() {
		rec := discs[k]
		it, ok := items[k]
		if !ok {
			return nil, fmt.Errorf("disc %s has no item", k)
		}
		name := it.StringOr("Title", "")
		if name == "" || name == "???" {
			continue
		}
		id, _ := strconv.Atoi(k)
		d := &Disc{
			ID:      id,
			Name:    name,
			Rarity:  maxRarity - it.IntOr("Rarity", 0),
			Lines:   it.StringOr("Literary", ""),
			Story:   ips[k].StringOr("StoryDesc", ""),
			Bg:      path.Base(rec.StringOr("DiscBg", "")),
			Element: character.Element(rec.IntOr("EET", 0)),
		}
		main, ok := mains[rec.IntOr("MainSkillGroupId", 0)]
		if !ok {
			return nil, fmt.Errorf("disc %d (%s) has no melody skill", id, name)
		}
		d.MainSkill = main
		// the second harmony skill only counts when the first exists
		if s1, ok := secondaries[rec.IntOr("SecondarySkillGroupId1", 0)]; ok {
			d.SecondarySkills = append(d.SecondarySkills, s1)
			if s2, ok := secondaries[rec.IntOr("SecondarySkillGroupId2", 0)]; ok {
				d.SecondarySkills = append(d.SecondarySkills, s2)
			}
		}
		result = append(result, d)
	}
	return result, nil
}
