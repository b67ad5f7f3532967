package skill

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/stellasorawiki/wikigen/gamedata"
	"github.com/stellasorawiki/wikigen/skilldesc"
)

// Skill - a skill or potential with its descriptions rendered per level
type Skill struct {
	ID            int
	Name          string
	BriefTemplate string
	DescTemplate  string
	Brief         string   // rendered at level 0, empty when it could not be
	Levels        []string // rendered long description per level, failed levels omitted
	Cooldown      float64  // seconds
	Energy        float64
	MaxLevel      int
	Icon          string
	Params        []skilldesc.Param
}

const (
	defaultLevels = 10
	briefLevel    = 0
)

// ParamResolver - the subset of skilldesc.Resolver the assembler needs
type ParamResolver interface {
	Resolve(owner int, ref string) (skilldesc.Param, error)
}

// Assembler builds skills from raw records.
type Assembler struct {
	resolver ParamResolver
	words    skilldesc.Words
}

func NewAssembler(resolver ParamResolver, words skilldesc.Words) *Assembler {
	return &Assembler{resolver: resolver, words: words}
}

// Assemble parses a Skill-shaped record. Parameters that cannot be resolved
// degrade the descriptions that use them; the only error returned is one the
// resolver considers fatal.
func (a *Assembler) Assemble(rec gamedata.Record) (*Skill, error) {
	s := &Skill{
		ID:            rec.IntOr("Id", 0),
		Name:          rec.StringOr("Title", ""),
		BriefTemplate: skilldesc.Escape(rec.StringOr("BriefDesc", ""), a.words),
		DescTemplate:  skilldesc.Escape(rec.StringOr("Desc", ""), a.words),
		Cooldown:      rec.FloatOr("SkillCD", 0) / 10000,
		Energy:        rec.FloatOr("UltraEnergy", 0) / 10000,
		MaxLevel:      rec.IntOr("MaxLevel", 0),
		Icon:          rec.StringOr("Icon", ""),
	}

	n := max(skilldesc.MaxParamIndex(s.DescTemplate), skilldesc.MaxParamIndex(s.BriefTemplate))
	params, err := a.resolveParams(s.ID, rec, n)
	if err != nil {
		return nil, fmt.Errorf("skill %d (%s): %w", s.ID, s.Name, err)
	}
	s.Params = params
	s.render()
	return s, nil
}

func (a *Assembler) resolveParams(owner int, rec gamedata.Record, n int) ([]skilldesc.Param, error) {
	params := make([]skilldesc.Param, 0, n)
	for i := 1; i <= n; i++ {
		raw, ok := rec.String(fmt.Sprintf("Param%d", i))
		if !ok {
			// absent parameters only matter if the template uses them
			params = append(params, skilldesc.Failed("absent"))
			continue
		}
		p, err := a.resolver.Resolve(owner, raw)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	return params, nil
}

func (s *Skill) render() {
	levels := levelCount(s.MaxLevel)
	s.Levels = make([]string, 0, levels)
	for level := 0; level < levels; level++ {
		text, err := skilldesc.Format(s.DescTemplate, s.Params, level)
		if err != nil {
			log.Warn().Int("skill_id", s.ID).Str("skill", s.Name).Int("level", level).Err(err).
				Msg("[Assembler] description level skipped")
			continue
		}
		s.Levels = append(s.Levels, text)
	}

	brief, err := skilldesc.Format(s.BriefTemplate, s.Params, briefLevel)
	if err != nil {
		log.Warn().Int("skill_id", s.ID).Str("skill", s.Name).Err(err).Msg("[Assembler] brief description skipped")
		return
	}
	s.Brief = brief
}

// IconPath is the exported icon texture; Icon holds an asset path such as
// "Icon/Skill/skill_10301" and the unpacked tree is lower case.
func (s *Skill) IconPath(assetRoot string) string {
	return filepath.Join(assetRoot, filepath.FromSlash(strings.ToLower(s.Icon))+".png")
}

// IconFile is the wiki file name of the icon, empty when the skill has none.
func (s *Skill) IconFile() string {
	if s.Icon == "" {
		return ""
	}
	return "Skill-icon-" + strings.TrimPrefix(strings.ToLower(path.Base(s.Icon)), "skill_") + ".png"
}

func levelCount(maxLevel int) int {
	if maxLevel <= 0 || maxLevel > defaultLevels {
		return defaultLevels
	}
	return maxLevel
}

// IsFatal reports whether an assembly error must stop the run rather than
// skip the entity.
func IsFatal(err error) bool {
	var consistency *skilldesc.ConsistencyError
	var missing *gamedata.MissingTableError
	return errors.As(err, &consistency) || errors.As(err, &missing)
}
