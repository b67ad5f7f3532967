package pages

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stellasorawiki/wikigen/character"
	"github.com/stellasorawiki/wikigen/item"
	"github.com/stellasorawiki/wikigen/wikitext"
)

// autoLinks are linked wherever they appear in infobox values.
var autoLinks = []string{"Lucky Oasis"}

func linkify(s string) string {
	for _, l := range autoLinks {
		s = strings.ReplaceAll(s, l, "[["+l+"]]")
	}
	return s
}

var errTooFewTags = errors.New("character has fewer than three tags")

// UpdateInfobox fills {{TrekkerData}}. Profile fields are always
// overwritten; images and foreign names only fill empty arguments.
func UpdateInfobox(doc *wikitext.Doc, c *character.Character, tags []character.Tag, names map[string]string) bool {
	return doc.UpdateTemplate("TrekkerData", func(t *wikitext.Template) {
		for _, arg := range []struct{ name, value string }{
			{"id", fmt.Sprint(c.ID)},
			{"birthday", c.Birthday},
			{"affiliation", c.Affiliation},
			{"skills", c.Skills},
			{"address", c.Address},
			{"experience", c.Experience},
			{"weapon", c.Weapon},
			{"rate", c.Rate},
			{"element", c.Element.Title()},
		} {
			t.Set(arg.name, linkify(arg.value))
		}

		t.SetIfEmpty("image_profile", c.Name+".png")
		t.SetIfEmpty("image_artwork", c.Name+"_a_02.png")
		for _, lang := range character.NameLanguages {
			if name, ok := names[lang.Key]; ok {
				t.SetIfEmpty(lang.Key+"_name", name)
			}
		}

		t.Set("role", tags[0].Name)
		t.Set("style", tags[1].Name)
		t.Set("faction", tags[2].Name)
	})
}

func infoboxJob(ctx context.Context, env *Env) error {
	return env.eachCharacter(ctx, "infobox", "", func(cp CharacterPage) (string, error) {
		tags, err := character.Tags(env.Store, cp.Char.ID)
		if err != nil {
			return "", err
		}
		if len(tags) < 3 {
			return "", errTooFewTags
		}
		names, err := character.LocalizedNames(env.Store, cp.Char.ID)
		if err != nil {
			return "", err
		}
		doc := wikitext.Parse(cp.Page.Text)
		if !UpdateInfobox(doc, cp.Char, tags, names) {
			return "", nil
		}
		return doc.String(), nil
	})
}

const affinitySection = "Affinity"

// AffinityText is the body of the Affinity section.
func AffinityText(gifts []*item.Item, quests []character.AffinityQuest) string {
	titles := make([]string, len(gifts))
	for i, g := range gifts {
		titles[i] = g.Title
	}
	giftsT := wikitext.NewInline("TrekkerGifts", titles...)

	tasks := wikitext.NewInline("TrekkerAffinityTasks")
	for i, q := range quests {
		tasks.Set(fmt.Sprintf("text%d", i+1), q.Desc)
		tasks.Set(fmt.Sprintf("exp%d", i+1), q.Exp)
	}
	return giftsT.String() + "\n" + tasks.String() + "\n"
}

const giftIntro = "is a [[gift]].\n==Trekkers==\n{{GiftTrekkers}}"

func giftsJob(ctx context.Context, env *Env) error {
	gifts, err := character.Gifts(env.Store)
	if err != nil {
		return err
	}
	ids := make([]int, len(gifts))
	for i, g := range gifts {
		ids[i] = g.ID
	}
	if err := env.itemPages(ctx, ids, giftIntro, "Gift", true); err != nil {
		return err
	}

	idx, err := env.Characters()
	if err != nil {
		return err
	}
	items, err := env.Items()
	if err != nil {
		return err
	}
	favourites, err := character.FavouriteGifts(env.Store, idx.All(), items)
	if err != nil {
		return err
	}
	quests, err := character.AffinityQuests(env.Store)
	if err != nil {
		return err
	}
	return env.eachCharacter(ctx, "gifts", "", func(cp CharacterPage) (string, error) {
		doc := wikitext.Parse(cp.Page.Text)
		if !doc.SetSection(affinitySection, AffinityText(favourites[cp.Char.ID], quests[cp.Char.ID])) {
			return "", missingSectionError(affinitySection)
		}
		return doc.String(), nil
	})
}

const storySection = "Story"

var errNoArchive = errors.New("affinity archive incomplete")

func storyJob(ctx context.Context, env *Env) error {
	idx, err := env.Characters()
	if err != nil {
		return err
	}
	archives, err := character.Archives(env.Store, idx.All())
	if err != nil {
		return err
	}
	return env.eachCharacter(ctx, "story", "", func(cp CharacterPage) (string, error) {
		list, ok := archives[cp.Char.ID]
		if !ok {
			return "", errNoArchive
		}
		doc := wikitext.Parse(cp.Page.Text)
		if !doc.ForceSection(storySection, character.ArchiveTabs(list), gallerySection) {
			return "", missingSectionError(storySection)
		}
		return doc.String(), nil
	})
}
