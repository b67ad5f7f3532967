package disc

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellasorawiki/wikigen/character"
	"github.com/stellasorawiki/wikigen/gamedata"
	"github.com/stellasorawiki/wikigen/wikitext"
)

func testTables() gamedata.Tables {
	return gamedata.Tables{
		"Disc": {
			"211001": {"DiscBg": "Disc/211001", "EET": 3.0, "MainSkillGroupId": 1.0, "SecondarySkillGroupId1": 7.0, "SecondarySkillGroupId2": 8.0},
			"211002": {"DiscBg": "Disc/211002", "EET": 1.0, "MainSkillGroupId": 1.0, "SecondarySkillGroupId2": 8.0},
			"219999": {"DiscBg": "Disc/219999", "MainSkillGroupId": 1.0},
		},
		"Item": {
			"211001": {"Title": "Starlit Path", "Rarity": 1.0, "Literary": "A line."},
			"211002": {"Title": "Rain", "Rarity": 2.0},
			"219999": {"Title": "???"},
		},
		"DiscIP": {
			"211001": {"StoryDesc": "Long story."},
		},
		"SubNoteSkill": {
			"90011": {"Name": "Note of Passion"},
			"90012": {"Name": "Note of Calm"},
		},
		"MainSkill": {
			"101": {"GroupId": 1.0, "Name": "Overture", "Desc": "ATK +&Param1& for &Param2&s", "Param1": "10%", "Param2": 5.0, "Icon": "Icon/DiscSkill/discskill_12", "IconBg": "bg_3"},
			"102": {"GroupId": 1.0, "Name": "Overture", "Desc": "ATK +&Param1& for &Param2&s", "Param1": "15%", "Param2": 5.5, "Icon": "Icon/DiscSkill/discskill_12", "IconBg": "bg_3", "NeedSubNoteSkills": `{"90012":2,"90011":1}`},
		},
		"SecondarySkill": {
			"701": {"GroupId": 7.0, "Name": "Echo", "Desc": "Heal", "Icon": "x_4", "IconBg": "y_1"},
			"801": {"GroupId": 8.0, "Name": "Chorus", "Desc": "Shield", "Icon": "x_5", "IconBg": "y_6"},
		},
	}
}

func TestLoad(t *testing.T) {
	discs, err := Load(testTables(), nil)
	require.NoError(t, err)
	require.Len(t, discs, 2)

	d := discs[0]
	assert.Equal(t, 211001, d.ID)
	assert.Equal(t, "Starlit Path", d.Name)
	assert.Equal(t, 5, d.Rarity)
	assert.Equal(t, "211001", d.Bg)
	assert.Equal(t, character.ElementTerra, d.Element)
	assert.Equal(t, "Long story.", d.Story)
	assert.Equal(t, filepath.Join("assets", "disc", "211001", "211001_b.png"), d.ImagePath("assets"))
	assert.Equal(t, "Disc icon Starlit Path.png", d.IconFile())

	main := d.MainSkill
	assert.Equal(t, []string{"ATK +10% for 5s", "ATK +15% for 5.5s"}, main.Descriptions)
	assert.Equal(t, 12, main.Icon)
	assert.Equal(t, "green-sq", main.IconBgName())
	assert.Equal(t, "Discskill-icon-12.png", main.IconPage())
	require.Len(t, main.Unlock, 2)
	assert.Empty(t, main.Unlock[0])
	assert.Equal(t, []Requirement{{"Passion", 1}, {"Calm", 2}}, main.Unlock[1])

	require.Len(t, d.SecondarySkills, 2)
	assert.Equal(t, "Chorus", d.SecondarySkills[1].Name)

	// no first harmony skill, so the second is ignored
	assert.Empty(t, discs[1].SecondarySkills)
}

func TestSkillTemplate(t *testing.T) {
	discs, err := Load(testTables(), nil)
	require.NoError(t, err)

	tpl := discs[0].MainSkill.SkillTemplate(MelodyTemplate, 5)
	v, ok := tpl.Get("skill_desc_2")
	require.True(t, ok)
	assert.Equal(t, "ATK +15% for 5.5s", v)
	v, _ = tpl.Get("skillicon")
	assert.Equal(t, "{{DiscSkillIcon|bgicon=green-sq|fgicon=12}}", v)
	assert.False(t, tpl.Has("melody_1"))
	v, _ = tpl.Get("melody_2")
	assert.Equal(t, "{{MelodyRequirement|Passion|1}} {{MelodyRequirement|Calm|2}}", v)

	assert.Equal(t, noHarmony, discs[1].HarmonyText())
	assert.Contains(t, discs[0].HarmonyText(), "{{DiscHarmonySkill\n| skill_name = Echo")
}

func TestUpdateInfobox(t *testing.T) {
	discs, err := Load(testTables(), nil)
	require.NoError(t, err)
	d := discs[0]

	doc := wikitext.Parse(d.PageText())
	require.True(t, d.UpdateInfobox(doc))
	text := doc.String()
	assert.Contains(t, text, "| rarity = 5\n")
	assert.Contains(t, text, "| element = Terra\n")
	assert.Contains(t, text, "is a 5-star Disc")

	doc = wikitext.Parse("'''Starlit Path''' is a 4-star Disc.")
	assert.False(t, d.UpdateInfobox(doc))

	doc = wikitext.Parse("{{DiscData}}\nOld 4-star text")
	require.True(t, d.UpdateInfobox(doc))
	assert.Contains(t, doc.String(), "Old 5-star text")
}
