package pages

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/stellasorawiki/wikigen/character"
	"github.com/stellasorawiki/wikigen/item"
	"github.com/stellasorawiki/wikigen/wikitext"
)

const (
	statsSection     = "Stats"
	materialsSection = "Materials"

	maxShownLevel   = 90
	maxAffinity     = 50
	maxTalentHalves = 10
)

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func joinBonus(bonuses []character.StatBonus, field func(character.StatBonus) string) string {
	parts := make([]string, len(bonuses))
	for i, b := range bonuses {
		parts[i] = field(b)
	}
	return strings.Join(parts, ",")
}

func control(name, label, levels string) string {
	t := wikitext.NewTemplate("StatDisplay/control")
	t.Set("name", name)
	t.Set("label", label)
	t.Set("levels", levels)
	return t.String()
}

// levelLabels marks the second row of a level, the one after breakthrough, with "+".
func levelLabels(stats []character.LevelStats) string {
	var labels []string
	prev := -1
	for _, s := range stats {
		if s.Level > maxShownLevel {
			continue
		}
		l := strconv.Itoa(s.Level)
		if s.Level == prev {
			l += "+"
		}
		prev = s.Level
		labels = append(labels, l)
	}
	return strings.Join(labels, ",")
}

func talentLabels() string {
	labels := make([]string, 0, maxTalentHalves+1)
	for i := 0; i <= maxTalentHalves; i++ {
		labels = append(labels, formatFloat(float64(i)/2))
	}
	return strings.Join(labels, ",")
}

// materialRefs renders the items of one step followed by its gold cost.
func materialRefs(m character.AdvanceMaterial, items item.Items, sep string) (string, error) {
	if len(m.Items) == 0 {
		return "", nil
	}
	refs := make([]string, 0, len(m.Items)+1)
	for _, q := range m.Items {
		it, ok := items[q.ItemID]
		if !ok {
			return "", fmt.Errorf("unknown material item %d", q.ItemID)
		}
		refs = append(refs, it.Ref(q.Quantity).String())
	}
	gold, ok := items[item.GoldID]
	if !ok {
		return "", fmt.Errorf("unknown material item %d", item.GoldID)
	}
	refs = append(refs, gold.Ref(m.Gold).String())
	return strings.Join(refs, sep), nil
}

// StatsText renders the interactive {{StatDisplay}} block of a character.
func StatsText(stats []character.LevelStats, advance []character.AdvanceMaterial,
	affinity, talents []character.StatBonus, items item.Items) (string, error) {
	parts := []string{
		control("level", "Level: ", levelLabels(stats)),
		control("affinity", "Affinity: ", joinInts(seq(maxAffinity))),
		control("talent", "Talent: ", talentLabels()),
		"<hr/>",
		`<div class="stat-data-container">`,
	}

	column := func(get func(character.LevelStats) int) string {
		values := make([]int, len(stats))
		for i, s := range stats {
			values[i] = get(s)
		}
		return joinInts(values)
	}
	hp := func(b character.StatBonus) string { return strconv.Itoa(b.HP) }
	atk := func(b character.StatBonus) string { return strconv.Itoa(b.Attack) }
	atkPct := func(b character.StatBonus) string { return formatFloat(b.AttackPct) }
	def := func(b character.StatBonus) string { return strconv.Itoa(b.Defense) }

	t := wikitext.NewTemplate("StatDisplay/value")
	t.Set("label", "HP")
	t.Set("name1", "level")
	t.Set("values1", column(func(s character.LevelStats) int { return s.HP }))
	t.Set("name2", "affinity")
	t.Set("values2", joinBonus(affinity, hp))
	t.Set("name3", "talent")
	t.Set("values3", joinBonus(talents, hp))
	t.Set("formula", "level + affinity + talent")
	parts = append(parts, t.String())

	t = wikitext.NewTemplate("StatDisplay/value")
	t.Set("label", "Attack")
	t.Set("name1", "level")
	t.Set("values1", column(func(s character.LevelStats) int { return s.Attack }))
	t.Set("name2", "affinity1")
	t.Set("values2", joinBonus(affinity, atk))
	t.Set("name3", "affinity2")
	t.Set("values3", joinBonus(affinity, atkPct))
	t.Set("name4", "talent1")
	t.Set("values4", joinBonus(talents, atk))
	t.Set("name5", "talent2")
	t.Set("values5", joinBonus(talents, atkPct))
	// the wiki rounds half down
	t.Set("formula", "(level + affinity1 + talent1) * (1 + affinity2 + talent2) - 0.5")
	parts = append(parts, t.String())

	t = wikitext.NewTemplate("StatDisplay/value")
	t.Set("label", "Defense")
	t.Set("name1", "level")
	t.Set("values1", column(func(s character.LevelStats) int { return s.Defense }))
	t.Set("name2", "talent")
	t.Set("values2", joinBonus(talents, def))
	t.Set("formula", "level + talent")
	parts = append(parts, t.String(), "</div>")

	children := wikitext.NewTemplate("StatDisplay/children")
	children.Set("name", "level")
	children.Set("children", column(func(s character.LevelStats) int { return s.Breakthrough + 1 }))
	for i, m := range advance {
		if len(m.Items) == 0 {
			break
		}
		refs, err := materialRefs(m, items, "")
		if err != nil {
			return "", err
		}
		children.Set(strconv.Itoa(i+1), fmt.Sprintf("<div>Breakthrough material at level %d: %s</div>", (i+1)*10, refs))
	}
	parts = append(parts, children.String())

	display := wikitext.NewTemplate("StatDisplay")
	display.Set("1", strings.Join(parts, "\n"))
	return display.String(), nil
}

// MaterialsTemplate renders upgrade costs as level1..levelN arguments.
func MaterialsTemplate(name string, materials []character.AdvanceMaterial, items item.Items) (*wikitext.Template, error) {
	t := wikitext.NewTemplate(name)
	for i, m := range materials {
		refs, err := materialRefs(m, items, " ")
		if err != nil {
			return nil, err
		}
		t.Set(fmt.Sprintf("level%d", i+1), refs)
	}
	return t, nil
}

func seq(n int) []int {
	out := make([]int, n+1)
	for i := range out {
		out[i] = i
	}
	return out
}

var errNoStats = errors.New("no attribute rows")

func statsJob(ctx context.Context, env *Env) error {
	items, err := env.Items()
	if err != nil {
		return err
	}
	reader, err := env.Bonuses()
	if err != nil {
		return err
	}
	stats, err := character.Stats(env.Store)
	if err != nil {
		return err
	}
	advance, err := character.AdvanceMaterials(env.Store, character.AdvanceTable)
	if err != nil {
		return err
	}
	skillUpgrade, err := character.AdvanceMaterials(env.Store, character.SkillUpgradeTable)
	if err != nil {
		return err
	}
	affinity, err := character.AffinityLevels(env.Store, reader)
	if err != nil {
		return err
	}
	talents, err := character.TalentBonuses(env.Store, reader)
	if err != nil {
		return err
	}

	return env.eachCharacter(ctx, "stats", "", func(cp CharacterPage) (string, error) {
		id := cp.Char.ID
		if len(stats[id]) == 0 {
			return "", errNoStats
		}
		levels := affinity[cp.Char.Rarity]
		affinityBonus := make([]character.StatBonus, len(levels))
		for i, l := range levels {
			affinityBonus[i] = l.Bonus
		}
		text, err := StatsText(stats[id], advance[id], affinityBonus, talents[id], items)
		if err != nil {
			return "", err
		}
		upgrade, err := MaterialsTemplate("TrekkerUpgradeMaterials", advance[id], items)
		if err != nil {
			return "", err
		}
		skillMats, err := MaterialsTemplate("TrekkerSkillMaterials", skillUpgrade[id], items)
		if err != nil {
			return "", err
		}

		doc := wikitext.Parse(cp.Page.Text)
		if !doc.ForceSection(statsSection, text, skillsSection) {
			return "", missingSectionError(statsSection)
		}
		if !doc.ForceSection(materialsSection, upgrade.String()+"\n"+skillMats.String(), gallerySection) {
			return "", missingSectionError(materialsSection)
		}
		return doc.String(), nil
	})
}
