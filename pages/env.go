package pages

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/stellasorawiki/wikigen/character"
	"github.com/stellasorawiki/wikigen/config"
	"github.com/stellasorawiki/wikigen/gamedata"
	"github.com/stellasorawiki/wikigen/item"
	"github.com/stellasorawiki/wikigen/skill"
	"github.com/stellasorawiki/wikigen/skilldesc"
	"github.com/stellasorawiki/wikigen/upload"
	"github.com/stellasorawiki/wikigen/wiki"
)

// Store - localized, raw and foreign-language table access; *gamedata.Store has it
type Store interface {
	gamedata.Loader
	skilldesc.TableSource
	character.StringSource
}

// Wiki - what the jobs read and write; *wiki.Client has it
type Wiki interface {
	upload.Wiki
	Pages(ctx context.Context, titles []string) ([]*wiki.Page, error)
	Save(ctx context.Context, page *wiki.Page, text, summary string) (bool, error)
}

// Env is shared by all jobs of a run. Derived data is built on first use.
type Env struct {
	Config config.Config
	Store  Store
	Wiki   Wiki
	// Only limits character jobs to these names; matched leniently.
	Only []string

	words     skilldesc.Words
	effects   *skilldesc.EffectCatalog
	assembler *skill.Assembler
	bonuses   *character.BonusReader
	index     *character.Index
	items     item.Items
}

func NewEnv(cfg config.Config, store Store, w Wiki) *Env {
	return &Env{Config: cfg, Store: store, Wiki: w}
}

func (e *Env) Words() (skilldesc.Words, error) {
	if e.words == nil {
		words, err := skilldesc.LoadWords(e.Store)
		if err != nil {
			return nil, err
		}
		e.words = words
	}
	return e.words, nil
}

func (e *Env) Effects() (*skilldesc.EffectCatalog, error) {
	if e.effects == nil {
		effects, err := skilldesc.LoadEffectCatalog(e.Store)
		if err != nil {
			return nil, err
		}
		e.effects = effects
	}
	return e.effects, nil
}

func (e *Env) Assembler() (*skill.Assembler, error) {
	if e.assembler != nil {
		return e.assembler, nil
	}
	words, err := e.Words()
	if err != nil {
		return nil, err
	}
	effects, err := e.Effects()
	if err != nil {
		return nil, err
	}
	e.assembler = skill.NewAssembler(skilldesc.NewResolver(e.Store, effects), words)
	return e.assembler, nil
}

func (e *Env) Bonuses() (*character.BonusReader, error) {
	if e.bonuses != nil {
		return e.bonuses, nil
	}
	effects, err := e.Effects()
	if err != nil {
		return nil, err
	}
	r, err := character.NewBonusReader(e.Store, effects)
	if err != nil {
		return nil, err
	}
	e.bonuses = r
	return r, nil
}

func (e *Env) Characters() (*character.Index, error) {
	if e.index == nil {
		chars, err := character.Load(e.Store)
		if err != nil {
			return nil, err
		}
		e.index = character.NewIndex(chars)
	}
	return e.index, nil
}

func (e *Env) Items() (item.Items, error) {
	if e.items == nil {
		items, err := item.Load(e.Store)
		if err != nil {
			return nil, err
		}
		e.items = items
	}
	return e.items, nil
}

// selected applies Only to the character list.
func (e *Env) selected(idx *character.Index) ([]*character.Character, error) {
	if len(e.Only) == 0 {
		return idx.All(), nil
	}
	var chars []*character.Character
	for _, name := range e.Only {
		c, ok := idx.Match(name)
		if !ok {
			return nil, fmt.Errorf("no character matches %q", name)
		}
		chars = append(chars, c)
	}
	return chars, nil
}

// CharacterPage - a character and its existing wiki page
type CharacterPage struct {
	Char *character.Character
	Page *wiki.Page
}

// CharacterPages loads "<name><suffix>" for every selected character and
// keeps the pages that exist.
func (e *Env) CharacterPages(ctx context.Context, suffix string) ([]CharacterPage, error) {
	idx, err := e.Characters()
	if err != nil {
		return nil, err
	}
	chars, err := e.selected(idx)
	if err != nil {
		return nil, err
	}
	titles := make([]string, len(chars))
	for i, c := range chars {
		titles[i] = c.Name + suffix
	}
	pages, err := e.Wiki.Pages(ctx, titles)
	if err != nil {
		return nil, err
	}
	var result []CharacterPage
	for i, p := range pages {
		if !p.Exists {
			log.Debug().Str("page", titles[i]).Msg("[Jobs] character page missing")
			continue
		}
		// the wiki may have normalized the title; map it back by name
		c, ok := idx.Match(p.Title)
		if !ok {
			c = chars[i]
		}
		result = append(result, CharacterPage{Char: c, Page: p})
	}
	return result, nil
}

// fatal reports errors that stop a job instead of skipping one entity.
func fatal(err error) bool {
	var apiErr *wiki.APIError
	return skill.IsFatal(err) || errors.As(err, &apiErr) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// tally counts what a job did to its pages.
type tally struct {
	job       string
	saved     int
	unchanged int
	skipped   int
}

func (t *tally) log() {
	log.Info().Str("job", t.job).Int("saved", t.saved).Int("unchanged", t.unchanged).Int("skipped", t.skipped).
		Msg("[Jobs] pages processed")
}

func (e *Env) save(ctx context.Context, t *tally, page *wiki.Page, text, summary string) error {
	changed, err := e.Wiki.Save(ctx, page, text, summary)
	if err != nil {
		return err
	}
	if changed {
		t.saved++
	} else {
		t.unchanged++
	}
	return nil
}

// eachCharacter runs fn for every existing character page. A failing
// character is logged and skipped unless the error is fatal.
func (e *Env) eachCharacter(ctx context.Context, job, suffix string, fn func(cp CharacterPage) (text string, err error)) error {
	pages, err := e.CharacterPages(ctx, suffix)
	if err != nil {
		return err
	}
	t := &tally{job: job}
	defer t.log()
	summary := summaries[job]
	for _, cp := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		text, err := fn(cp)
		if err == nil && text != "" {
			err = e.save(ctx, t, cp.Page, text, summary)
		}
		if err == nil {
			if text == "" {
				t.skipped++
			}
			continue
		}
		if fatal(err) {
			return fmt.Errorf("%s: %w", cp.Char.Name, err)
		}
		t.skipped++
		log.Warn().Str("job", job).Str("character", cp.Char.Name).Err(err).Msg("[Jobs] character skipped")
	}
	return nil
}

// edit summaries per job
var summaries = map[string]string{
	"skills":     "Generate character skills",
	"potentials": "Generate character potentials",
	"infobox":    "update infobox",
	"gifts":      "update affinity section",
	"story":      "update character story in affinity archive",
	"stats":      "update character stats",
}

// missingSectionError - the page lacks the section a job writes into
type missingSectionError string

func (e missingSectionError) Error() string {
	return "section " + string(e) + " not found"
}
