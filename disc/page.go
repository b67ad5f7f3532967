package disc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/stellasorawiki/wikigen/wikitext"
)

// Skill templates
const (
	MelodyTemplate  = "DiscMelodySkill"
	HarmonyTemplate = "DiscHarmonySkill"
)

const noHarmony = "This disc does not have any harmony skills."

// SkillTemplate renders a skill block for a disc of the given rarity.
func (s *Skill) SkillTemplate(name string, rarity int) *wikitext.Template {
	t := wikitext.NewTemplate(name)
	t.Set("skill_name", s.Name)
	t.Set("rarity", rarity)
	for i, desc := range s.Descriptions {
		t.Set("skill_desc_"+strconv.Itoa(i+1), desc)
	}
	t.Set("skillicon", fmt.Sprintf("{{DiscSkillIcon|bgicon=%s|fgicon=%d}}", s.IconBgName(), s.Icon))
	for i, reqs := range s.Unlock {
		parts := make([]string, 0, len(reqs))
		for _, r := range reqs {
			parts = append(parts, fmt.Sprintf("{{MelodyRequirement|%s|%d}}", r.Melody, r.Quantity))
		}
		if len(parts) > 0 {
			t.Set("melody_"+strconv.Itoa(i+1), strings.Join(parts, " "))
		}
	}
	return t
}

// HarmonyText is the body of the "Harmony Skill" section.
func (d *Disc) HarmonyText() string {
	if len(d.SecondarySkills) == 0 {
		return noHarmony
	}
	blocks := make([]string, 0, len(d.SecondarySkills))
	for _, s := range d.SecondarySkills {
		blocks = append(blocks, s.SkillTemplate(HarmonyTemplate, d.Rarity).String())
	}
	return strings.Join(blocks, "\n")
}

// StoryText is the body of the "Story" section.
func (d *Disc) StoryText() string {
	return "\n===Lines===\n" + d.Lines + "\n===Full story===\n" + d.Story + "\n\n"
}

var starPattern = regexp.MustCompile(`\d-star`)

// UpdateInfobox fills {{DiscData}} and fixes the star count in the intro.
func (d *Disc) UpdateInfobox(doc *wikitext.Doc) bool {
	ok := doc.UpdateTemplate("DiscData", func(t *wikitext.Template) {
		t.Set("rarity", d.Rarity)
		t.Set("image_artwork", d.ImageFile())
		t.Set("image_icon", d.IconFile())
		t.Set("element", d.Element.Title())
	})
	if !ok {
		return false
	}
	doc.SetText(starPattern.ReplaceAllString(doc.String(), strconv.Itoa(d.Rarity)+"-star"))
	return true
}

// PageText is the skeleton of a new disc page.
func (d *Disc) PageText() string {
	return fmt.Sprintf(`{{DiscData
}}
'''%s''' is a %d-star Disc in Stella Sora.

==Melody Skill==

==Harmony Skill==

==Acquisition==

==Story==

==See also==
{{DiscsList}}`, d.Name, d.Rarity)
}
