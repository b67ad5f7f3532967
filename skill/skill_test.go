package skill

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellasorawiki/wikigen/gamedata"
	"github.com/stellasorawiki/wikigen/skilldesc"
)

type stubResolver struct {
	params map[string]skilldesc.Param
	errs   map[string]error
	calls  []string
}

func (s *stubResolver) Resolve(_ int, ref string) (skilldesc.Param, error) {
	s.calls = append(s.calls, ref)
	if err, ok := s.errs[ref]; ok {
		return skilldesc.Param{}, err
	}
	if p, ok := s.params[ref]; ok {
		return p, nil
	}
	return skilldesc.Failed("unknown"), nil
}

func text(values ...string) []skilldesc.Value {
	out := make([]skilldesc.Value, len(values))
	for i, v := range values {
		out[i] = skilldesc.TextValue(v)
	}
	return out
}

func TestAssemble(t *testing.T) {
	res := &stubResolver{params: map[string]skilldesc.Param{
		"dmg":  skilldesc.PerLevel(text("10.0%", "12.0%", "14.0%"), skilldesc.KindSkillLevel),
		"time": skilldesc.Scalar(skilldesc.FloatValue(3), skilldesc.KindNone),
	}}
	a := NewAssembler(res, skilldesc.Words{})

	s, err := a.Assemble(gamedata.Record{
		"Id":          5.0,
		"Title":       "Flame Lash",
		"BriefDesc":   "Deals &Param1& damage.",
		"Desc":        "Deals &Param1& damage, cooldown &Param2&",
		"SkillCD":     85000.0,
		"UltraEnergy": 1200000.0,
		"Icon":        "Icon/Skill/skill_5",
		"Param1":      "dmg",
		"Param2":      "time",
	})
	require.NoError(t, err)

	assert.Equal(t, 5, s.ID)
	assert.Equal(t, "Flame Lash", s.Name)
	assert.Equal(t, 8.5, s.Cooldown)
	assert.Equal(t, 120.0, s.Energy)
	assert.Equal(t, "Icon/Skill/skill_5", s.Icon)
	assert.Equal(t, filepath.Join("assets", "icon", "skill", "skill_5.png"), s.IconPath("assets"))
	assert.Equal(t, "Skill-icon-5.png", s.IconFile())
	assert.Equal(t, "Deals 10.0% damage.", s.Brief)
	assert.Equal(t, []string{
		"Deals 10.0% damage, cooldown 3",
		"Deals 12.0% damage, cooldown 3",
		"Deals 14.0% damage, cooldown 3",
	}, s.Levels)
}

func TestAssemble_FailedParamSkipsDescriptions(t *testing.T) {
	res := &stubResolver{}
	a := NewAssembler(res, nil)

	s, err := a.Assemble(gamedata.Record{
		"Id":        6.0,
		"Title":     "Broken",
		"BriefDesc": "Brief &Param1&",
		"Desc":      "Long &Param1&",
		"Param1":    "bad",
	})
	require.NoError(t, err)
	assert.Empty(t, s.Levels)
	assert.Empty(t, s.Brief)
	require.Len(t, s.Params, 1)
	assert.True(t, s.Params[0].IsFailed())
}

func TestAssemble_GapInPlaceholders(t *testing.T) {
	res := &stubResolver{params: map[string]skilldesc.Param{
		"a": skilldesc.Scalar(skilldesc.TextValue("A"), skilldesc.KindNone),
		"c": skilldesc.Scalar(skilldesc.TextValue("C"), skilldesc.KindNone),
	}}
	a := NewAssembler(res, nil)

	s, err := a.Assemble(gamedata.Record{
		"Id":     7.0,
		"Desc":   "&Param1& then &Param3&",
		"Param1": "a",
		"Param3": "c",
	})
	require.NoError(t, err)
	require.Len(t, s.Params, 3)
	assert.True(t, s.Params[1].IsFailed())
	assert.Equal(t, []string{"a", "c"}, res.calls)
	require.Len(t, s.Levels, 10)
	assert.Equal(t, "A then C", s.Levels[9])
}

func TestAssemble_BriefUsesHigherParam(t *testing.T) {
	res := &stubResolver{params: map[string]skilldesc.Param{
		"a": skilldesc.Scalar(skilldesc.TextValue("A"), skilldesc.KindNone),
		"b": skilldesc.Scalar(skilldesc.TextValue("B"), skilldesc.KindNone),
	}}
	a := NewAssembler(res, nil)

	s, err := a.Assemble(gamedata.Record{
		"Id":        9.0,
		"BriefDesc": "brief &Param1& &Param2&",
		"Desc":      "long &Param1&",
		"Param1":    "a",
		"Param2":    "b",
		"MaxLevel":  1.0,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, res.calls)
	assert.Equal(t, "brief A B", s.Brief)
	assert.Equal(t, []string{"long A"}, s.Levels)
}

func TestAssemble_MaxLevelBoundsMatrix(t *testing.T) {
	a := NewAssembler(&stubResolver{}, nil)

	s, err := a.Assemble(gamedata.Record{"Id": 8.0, "Desc": "static", "MaxLevel": 4.0})
	require.NoError(t, err)
	assert.Len(t, s.Levels, 4)
}

func TestAssemble_ConsistencyErrorIsReturned(t *testing.T) {
	res := &stubResolver{errs: map[string]error{
		"pair": &skilldesc.ConsistencyError{Msg: "two effects"},
	}}
	a := NewAssembler(res, nil)

	_, err := a.Assemble(gamedata.Record{"Id": 9.0, "Desc": "&Param1&", "Param1": "pair"})
	require.Error(t, err)
	var ce *skilldesc.ConsistencyError
	assert.True(t, errors.As(err, &ce))
	assert.True(t, IsFatal(err))
}

func TestForCharacter_SlotFallback(t *testing.T) {
	a := NewAssembler(&stubResolver{}, nil)
	tbl := gamedata.Table{
		"10310000": {"Id": 10310000.0, "Title": "Attack", "Desc": "hit"},
		"10331001": {"Id": 10331001.0, "Title": "Main", "Desc": "main"},
		"10332000": {"Id": 10332000.0, "Title": "Support", "Desc": "support"},
		"10340000": {"Id": 10340000.0, "Title": "Ultimate", "Desc": "ult"},
	}

	cs, err := a.ForCharacter(tbl, 103)
	require.NoError(t, err)
	assert.Equal(t, "Main", cs.Skills[SlotMain].Name)
	assert.Equal(t, "Ultimate", cs.Skills[SlotUltimate].Name)

	delete(tbl, "10340000")
	_, err = a.ForCharacter(tbl, 103)
	require.Error(t, err)
	assert.False(t, IsFatal(err))
}

func TestPotentials(t *testing.T) {
	res := &stubResolver{params: map[string]skilldesc.Param{
		"p": skilldesc.PerLevel(text("5.0%", "6.0%"), skilldesc.KindSkillLevel),
	}}
	a := NewAssembler(res, nil)

	potentials := gamedata.Table{
		"510302": {"Id": 510302.0, "CharId": 103.0, "BriefDesc": "ATK up", "Desc": "ATK +&Param1&", "Param1": "p", "MaxLevel": 2.0, "Build": 1.0},
		"510301": {"Id": 510301.0, "CharId": 103.0, "Desc": "plain", "MaxLevel": 1.0},
		"510399": {"Id": 510399.0, "CharId": 103.0, "Desc": "orphan"},
	}
	items := gamedata.Table{
		"510301": {"Title": "Ember", "Rarity": 2.0},
		"510302": {"Title": "Blaze", "Rarity": 1.0},
	}

	got, err := a.Potentials(potentials, items)
	require.NoError(t, err)
	list := got[103]
	require.Len(t, list, 2)
	assert.Equal(t, "Ember", list[0].Name)
	assert.Equal(t, "Blaze", list[1].Name)
	assert.Equal(t, 1, list[1].Rarity)
	assert.Equal(t, 1, list[1].Build)
	assert.Equal(t, []string{"ATK +5.0%", "ATK +6.0%"}, list[1].Levels)
	_, hasTitle := potentials["510302"]["Title"]
	assert.False(t, hasTitle)
}
