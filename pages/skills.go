package pages

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/stellasorawiki/wikigen/skill"
	"github.com/stellasorawiki/wikigen/wikitext"
)

const (
	skillsSection     = "Skills"
	potentialsSection = "Potentials"
	gallerySection    = "Gallery"
)

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// skillTemplate renders {{TrekkerSkill}}. Levels that failed to render are
// already absent, so desc_N numbering stays contiguous.
func skillTemplate(s *skill.Skill) *wikitext.Template {
	t := wikitext.NewTemplate("TrekkerSkill")
	t.Set("name", s.Name)
	t.Set("brief", s.Brief)
	if s.Cooldown != 0 {
		t.Set("cooldown", formatFloat(s.Cooldown))
	}
	if s.Energy != 0 {
		t.Set("energy", formatFloat(s.Energy))
	}
	if icon := s.IconFile(); icon != "" {
		t.Set("icon", icon)
	}
	for i, desc := range s.Levels {
		t.Set(fmt.Sprintf("desc_%d", i+1), desc)
	}
	return t
}

// SkillsText is the body of the Skills section: one block per slot.
func SkillsText(cs *skill.CharacterSkills) string {
	blocks := make([]string, 0, len(skill.Slots))
	for _, slot := range skill.Slots {
		s, ok := cs.Skills[slot]
		if !ok {
			continue
		}
		t := skillTemplate(s)
		t.Set("type", slot.Name())
		blocks = append(blocks, t.String())
	}
	return strings.Join(blocks, "\n")
}

func skillsJob(ctx context.Context, env *Env) error {
	asm, err := env.Assembler()
	if err != nil {
		return err
	}
	tbl, err := env.Store.Load("Skill")
	if err != nil {
		return err
	}
	return env.eachCharacter(ctx, "skills", "", func(cp CharacterPage) (string, error) {
		cs, err := asm.ForCharacter(tbl, cp.Char.ID)
		if err != nil {
			return "", err
		}
		doc := wikitext.Parse(cp.Page.Text)
		if !doc.ForceSection(skillsSection, SkillsText(cs), gallerySection) {
			return "", missingSectionError(skillsSection)
		}
		return doc.String(), nil
	})
}

// PotentialsText is the body of the Potentials section.
func PotentialsText(potentials []skill.Potential) string {
	blocks := make([]string, 0, len(potentials))
	for _, p := range potentials {
		t := skillTemplate(p.Skill)
		t.Set("id", p.ID)
		t.Name = "TrekkerPotential"
		t.Set("rarity", p.Rarity)
		t.Set("build", p.Build)
		t.Set("branch", p.BranchType)
		blocks = append(blocks, t.String())
	}
	return strings.Join(blocks, "\n")
}

var errNoPotentials = errors.New("no potentials")

func potentialsJob(ctx context.Context, env *Env) error {
	asm, err := env.Assembler()
	if err != nil {
		return err
	}
	potentials, err := env.Store.Load("Potential")
	if err != nil {
		return err
	}
	items, err := env.Store.Load("Item")
	if err != nil {
		return err
	}
	byChar, err := asm.Potentials(potentials, items)
	if err != nil {
		return err
	}
	return env.eachCharacter(ctx, "potentials", "", func(cp CharacterPage) (string, error) {
		list := byChar[cp.Char.ID]
		if len(list) == 0 {
			return "", errNoPotentials
		}
		doc := wikitext.Parse(cp.Page.Text)
		if !doc.ForceSection(potentialsSection, PotentialsText(list), gallerySection) {
			return "", missingSectionError(potentialsSection)
		}
		return doc.String(), nil
	})
}
