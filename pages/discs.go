package pages

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/stellasorawiki/wikigen/disc"
	"github.com/stellasorawiki/wikigen/wikitext"
)

const (
	melodySection  = "Melody Skill"
	harmonySection = "Harmony Skill"
)

// UpdateDiscPage applies the infobox, story and skill sections to a disc
// page. It reports false when the page has none of them.
func UpdateDiscPage(doc *wikitext.Doc, d *disc.Disc) bool {
	ok := d.UpdateInfobox(doc)
	if d.MainSkill != nil {
		ok = doc.SetSection(melodySection, d.MainSkill.SkillTemplate(disc.MelodyTemplate, d.Rarity).String()+"\n") || ok
	}
	ok = doc.SetSection(harmonySection, d.HarmonyText()+"\n") || ok
	ok = doc.SetSection(storySection, d.StoryText()) || ok
	return ok
}

func discsJob(ctx context.Context, env *Env) error {
	words, err := env.Words()
	if err != nil {
		return err
	}
	discs, err := disc.Load(env.Store, words)
	if err != nil {
		return err
	}
	titles := make([]string, len(discs))
	for i, d := range discs {
		titles[i] = d.Name
	}
	pages, err := env.Wiki.Pages(ctx, titles)
	if err != nil {
		return err
	}

	t := &tally{job: "discs"}
	defer t.log()
	for i, p := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		d := discs[i]
		summary := "update disc"
		text := p.Text
		if !p.Exists {
			summary = "batch create disc pages"
			text = d.PageText()
		}
		doc := wikitext.Parse(text)
		if !UpdateDiscPage(doc, d) {
			log.Warn().Str("disc", d.Name).Msg("[Jobs] disc page has no known sections, skipped")
			t.skipped++
			continue
		}
		if err := env.save(ctx, t, p, doc.String(), summary); err != nil {
			return err
		}
	}
	return nil
}
