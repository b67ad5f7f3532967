package pages

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/stellasorawiki/wikigen/character"
	"github.com/stellasorawiki/wikigen/disc"
	"github.com/stellasorawiki/wikigen/skill"
	"github.com/stellasorawiki/wikigen/unpack"
	"github.com/stellasorawiki/wikigen/upload"
)

func (e *Env) uploadOptions() (upload.Options, error) {
	policy, err := upload.ParseDuplicatePolicy(e.Config.Upload.Duplicates)
	if err != nil {
		return upload.Options{}, err
	}
	return upload.Options{
		Duplicates: policy,
		MaxEdge:    e.Config.Upload.MaxEdge,
		Workers:    e.Config.Upload.Workers,
	}, nil
}

func (e *Env) upload(ctx context.Context, reqs []upload.Request) error {
	if len(reqs) == 0 {
		return nil
	}
	opts, err := e.uploadOptions()
	if err != nil {
		return err
	}
	res, err := upload.Process(ctx, e.Wiki, reqs, opts)
	if err != nil {
		return err
	}
	log.Info().Int("uploaded", res.Uploaded).Int("existing", res.Existing).Int("duplicates", res.Duplicates).
		Int("missing", res.Missing).Msg("[Jobs] uploads done")
	return nil
}

const (
	discSkillIconText = "[[Category:Disc skill icons]]"
	discImageText     = "[[Category:Disc images]]"
	discIconText      = "[[Category:Disc icons]]"
)

// DiscUploads lists the skill icons, artwork and icons of every disc.
func DiscUploads(discs []*disc.Disc, assetRoot string) []upload.Request {
	var reqs []upload.Request
	seen := make(map[string]bool)
	addSkill := func(s *disc.Skill) {
		if s == nil || seen[s.IconPage()] {
			return
		}
		seen[s.IconPage()] = true
		reqs = append(reqs, upload.Request{
			Source:  s.IconPath(assetRoot),
			Target:  s.IconPage(),
			Text:    discSkillIconText,
			Summary: "batch upload disc skill icons",
		})
	}
	for _, d := range discs {
		addSkill(d.MainSkill)
		for _, s := range d.SecondarySkills {
			addSkill(s)
		}
	}
	for _, d := range discs {
		reqs = append(reqs,
			upload.Request{Source: d.ImagePath(assetRoot), Target: d.ImageFile(), Text: discImageText},
			upload.Request{Source: d.IconPath(assetRoot), Target: d.IconFile(), Text: discIconText},
		)
	}
	return reqs
}

func uploadIconsJob(ctx context.Context, env *Env) error {
	words, err := env.Words()
	if err != nil {
		return err
	}
	discs, err := disc.Load(env.Store, words)
	if err != nil {
		return err
	}
	return env.upload(ctx, DiscUploads(discs, env.Config.Data.AssetRoot))
}

// CharacterUploads lists the head icons and the memory snapshot of every
// character. The xl head doubles as the infobox profile image.
func CharacterUploads(chars []*character.Character, assetRoot string) []upload.Request {
	heads := filepath.Join(assetRoot, "icon", "head")
	reqs := make([]upload.Request, 0, len(chars)*4)
	for _, c := range chars {
		skin := fmt.Sprintf("%d01", c.ID)
		reqs = append(reqs,
			upload.Request{Source: filepath.Join(heads, "head_"+skin+"_xxl.png"), Target: c.Name + "-head-xxl.png"},
			upload.Request{Source: filepath.Join(heads, "head_"+skin+"_xl.png"), Target: c.Name + ".png"},
			upload.Request{Source: filepath.Join(heads, "head_"+skin+"_s.png"), Target: c.Name + "-head-s.png"},
			upload.Request{
				Source: filepath.Join(assetRoot, "actor2d", "character", skin, skin+"_cg.png"),
				Target: c.Name + "_Memory_Snapshot.png",
			},
		)
	}
	return reqs
}

const skillIconText = "[[Category:Skill icons]]"

// SkillIconUploads lists skill and potential icons, one request per file.
func SkillIconUploads(skills []*skill.Skill, assetRoot string) []upload.Request {
	var reqs []upload.Request
	seen := make(map[string]bool)
	for _, s := range skills {
		name := s.IconFile()
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		reqs = append(reqs, upload.Request{
			Source:  s.IconPath(assetRoot),
			Target:  name,
			Text:    skillIconText,
			Summary: "batch upload skill icons",
		})
	}
	return reqs
}

// characterSkills collects the slot skills and potentials of chars. A
// character whose skills cannot be assembled is skipped.
func (e *Env) characterSkills(chars []*character.Character) ([]*skill.Skill, error) {
	asm, err := e.Assembler()
	if err != nil {
		return nil, err
	}
	tbl, err := e.Store.Load("Skill")
	if err != nil {
		return nil, err
	}
	potentials, err := e.Store.Load("Potential")
	if err != nil {
		return nil, err
	}
	items, err := e.Store.Load("Item")
	if err != nil {
		return nil, err
	}
	byChar, err := asm.Potentials(potentials, items)
	if err != nil {
		return nil, err
	}

	var skills []*skill.Skill
	for _, c := range chars {
		cs, err := asm.ForCharacter(tbl, c.ID)
		if err != nil {
			if fatal(err) {
				return nil, err
			}
			log.Warn().Str("character", c.Name).Err(err).Msg("[Jobs] skill icons skipped")
		} else {
			for _, slot := range skill.Slots {
				if s, ok := cs.Skills[slot]; ok {
					skills = append(skills, s)
				}
			}
		}
		for _, p := range byChar[c.ID] {
			skills = append(skills, p.Skill)
		}
	}
	return skills, nil
}

func uploadImagesJob(ctx context.Context, env *Env) error {
	idx, err := env.Characters()
	if err != nil {
		return err
	}
	chars, err := env.selected(idx)
	if err != nil {
		return err
	}
	skills, err := env.characterSkills(chars)
	if err != nil {
		return err
	}
	root := env.Config.Data.AssetRoot
	reqs := CharacterUploads(chars, root)
	reqs = append(reqs, SkillIconUploads(skills, root)...)
	return env.upload(ctx, reqs)
}

func unpackLuaJob(ctx context.Context, env *Env) error {
	src := env.Config.Data.LuaSource
	if _, err := os.Stat(src); errors.Is(err, os.ErrNotExist) {
		log.Warn().Str("source", src).Msg("[Jobs] no decompiled lua, nothing to export")
		return nil
	}
	_, err := unpack.ExportLua(ctx, src, env.Config.Data.LuaOutput, env.Config.Workers)
	return err
}
