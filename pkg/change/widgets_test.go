package change

import (
	"testing"

	"resume-turns-be/pkg/resume"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testWidgets = []Widget{
	{Id: "w_summary", Kind: WidgetText, Target: Target{Area: AreaSummary}},
	{Id: "w_degree", Kind: WidgetSelect, Target: Target{Area: AreaSection, SectionId: resume.SectionEducation, ItemId: "itm_edu_1", Field: "degree"}},
	{Id: "w_skills", Kind: WidgetMultiSelect, Target: Target{Area: AreaSkills, List: ListSkills}},
	{Id: "w_contact", Kind: WidgetForm, Fields: []FormField{
		{Name: "email", Target: Target{Area: AreaContact, Field: "email"}},
		{Name: "phone", Target: Target{Area: AreaContact, Field: "phone"}},
	}},
	{Id: "w_links", Kind: WidgetList, Target: Target{Area: AreaContact, List: ListLinks}},
	{Id: "w_bullets", Kind: WidgetList, Target: Target{Area: AreaSection, SectionId: resume.SectionExperience, ItemId: "itm_exp_1", List: ListBullets}},
}

func TestBuildFromInputs(t *testing.T) {
	tr := newTestTranslator()
	inputs := map[string]any{
		"w_bullets": []any{map[string]any{"bullet": "  Cut costs 20%  "}, map[string]any{"bullet": ""}, map[string]any{"other": 1}},
		"w_summary": "Hello",
		"w_contact": map[string]any{"email": "a@b.co"},
		"w_links":   []any{map[string]any{"label": "GH", "url": "https://gh"}},
		"w_skills":  []any{"Go", "SQL"},
		"w_unknown": "ignored",
	}

	changes := tr.BuildFromInputs(inputs, testWidgets)

	require.Len(t, changes, 6)
	assert.Equal(t, New(ActionSet, Target{Area: AreaSummary}, "Hello"), changes[0])
	assert.Equal(t, []string{"Go", "SQL"}, changes[1].Value)
	assert.Equal(t, New(ActionSet, Target{Area: AreaContact, Field: "email"}, "a@b.co"), changes[2])
	assert.Equal(t, New(ActionSet, Target{Area: AreaContact, Field: "phone"}, ""), changes[3])
	assert.Equal(t, []resume.Link{{Id: "lnk_1", Label: "GH", Url: "https://gh"}}, changes[4].Value)
	assert.Equal(t, []string{"Cut costs 20%"}, changes[5].Value)
}

func TestBuildFromInputs_RoundTripsThroughApplyAll(t *testing.T) {
	tr := newTestTranslator()
	inputs := map[string]any{
		"w_degree": "B.S. Computer Science",
		"w_links":  []any{map[string]any{"label": "GH", "url": "https://gh"}},
	}

	doc, ops, err := tr.ApplyAll(resume.Default(), tr.BuildFromInputs(inputs, testWidgets))
	require.NoError(t, err)
	require.Len(t, ops, 2)

	assert.Equal(t, "B.S. Computer Science", doc.Sections[1].Items[0].Fields["degree"])
	// the id generated while building is kept by the translator
	assert.Equal(t, "lnk_1", doc.Contact.Links[0].Id)
}

func TestBuildFromInputs_NoInputs(t *testing.T) {
	assert.Empty(t, BuildFromInputs(map[string]any{}, testWidgets))
}
