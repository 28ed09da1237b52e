package change

import (
	"errors"
	"fmt"
	"testing"

	"resume-turns-be/pkg/resume"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequentialIDs returns a generator yielding prefix_1, prefix_2, ...
func sequentialIDs() func(string) string {
	n := 0
	return func(prefix string) string {
		n++
		return fmt.Sprintf("%s_%d", prefix, n)
	}
}

func newTestTranslator() *Translator {
	return &Translator{NewID: sequentialIDs()}
}

func TestApply_Summary(t *testing.T) {
	doc := resume.Default()
	ch := New(ActionSet, Target{Area: AreaSummary}, "Built scalable systems.")

	next, op, err := newTestTranslator().Apply(doc, ch)
	require.NoError(t, err)

	assert.Equal(t, "Built scalable systems.", next.Summary)
	assert.Equal(t, PatchOp{Op: OpReplace, Path: "/document/summary", Value: "Built scalable systems."}, op)
	assert.Equal(t, "", doc.Summary, "input document must not change")
}

func TestApply_SummaryNilBecomesEmpty(t *testing.T) {
	doc := resume.Default()
	doc.Summary = "old"

	next, op, err := newTestTranslator().Apply(doc, New(ActionSet, Target{Area: AreaSummary}, nil))
	require.NoError(t, err)
	assert.Equal(t, "", next.Summary)
	assert.Equal(t, "", op.Value)
}

func TestApply_SectionItemField(t *testing.T) {
	doc := resume.Default()
	ch := New(ActionSet, Target{
		Area:      AreaSection,
		SectionId: resume.SectionEducation,
		ItemId:    "itm_edu_1",
		Field:     "degree",
	}, "B.S. Computer Science")

	next, op, err := newTestTranslator().Apply(doc, ch)
	require.NoError(t, err)

	assert.Equal(t, "/document/sections/1/items/0/fields/degree", op.Path)
	assert.Equal(t, OpReplace, op.Op)
	assert.Equal(t, "B.S. Computer Science", next.Sections[1].Items[0].Fields["degree"])

	// only that field moved
	expected := resume.Default()
	expected.Sections[1].Items[0].Fields["degree"] = "B.S. Computer Science"
	assert.Equal(t, expected, next)
}

func TestApply_PathReflectsCurrentOrder(t *testing.T) {
	doc := resume.Default()
	doc.Sections[0], doc.Sections[1] = doc.Sections[1], doc.Sections[0]

	_, op, err := newTestTranslator().Apply(doc, New(ActionSet, Target{
		Area: AreaSection, SectionId: resume.SectionEducation, ItemId: "itm_edu_1", Field: "degree",
	}, "x"))
	require.NoError(t, err)
	assert.Equal(t, "/document/sections/0/items/0/fields/degree", op.Path)
}

func TestApply_NotFound(t *testing.T) {
	tests := []struct {
		name   string
		target Target
	}{
		{"unknown section", Target{Area: AreaSection, SectionId: "sec_ghost", ItemId: "x", Field: "y"}},
		{"unknown item field", Target{Area: AreaSection, SectionId: resume.SectionExperience, ItemId: "x", Field: "title"}},
		{"unknown item bullets", Target{Area: AreaSection, SectionId: resume.SectionExperience, ItemId: "x", List: ListBullets}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := resume.Default()
			out, _, err := newTestTranslator().Apply(doc, New(ActionSet, tt.target, "v"))
			assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
			assert.Equal(t, doc, out)
		})
	}
}

func TestApply_UnsupportedTarget(t *testing.T) {
	tests := []struct {
		name   string
		change Change
	}{
		{"unknown area", New(ActionSet, Target{Area: "hobbies"}, "x")},
		{"contact without field or list", New(ActionSet, Target{Area: AreaContact}, "x")},
		{"unknown contact field", New(ActionSet, Target{Area: AreaContact, Field: "fax"}, "x")},
		{"skills with wrong list", New(ActionSet, Target{Area: AreaSkills, List: "tags"}, []string{"x"})},
		{"section add without object", New(ActionAdd, Target{Area: AreaSection, SectionId: resume.SectionExperience}, "x")},
		{"section set without item", New(ActionSet, Target{Area: AreaSection, SectionId: resume.SectionExperience}, map[string]any{})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := newTestTranslator().Apply(resume.Default(), tt.change)
			assert.True(t, errors.Is(err, ErrUnsupportedTarget), "got %v", err)
		})
	}
}

func TestApply_ContactField(t *testing.T) {
	next, op, err := newTestTranslator().Apply(resume.Default(), New(ActionSet, Target{Area: AreaContact, Field: "email"}, "ava@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "ava@example.com", next.Contact.Email)
	assert.Equal(t, "/document/contact/email", op.Path)
}

func TestApply_LinksNormalized(t *testing.T) {
	value := []any{
		map[string]any{"label": "GitHub", "url": "https://github.com/ava"},
		map[string]any{"id": "lnk_keep", "label": "Blog"},
		"not a row",
	}

	next, op, err := newTestTranslator().Apply(resume.Default(), New(ActionSet, Target{Area: AreaContact, List: ListLinks}, value))
	require.NoError(t, err)

	want := []resume.Link{
		{Id: "lnk_1", Label: "GitHub", Url: "https://github.com/ava"},
		{Id: "lnk_keep", Label: "Blog", Url: ""},
	}
	assert.Equal(t, want, next.Contact.Links)
	assert.Equal(t, "/document/contact/links", op.Path)
	assert.Equal(t, want, op.Value)
}

func TestApply_SkillsReplaced(t *testing.T) {
	doc := resume.Default()
	doc.Skills = []string{"Cobol"}

	next, op, err := newTestTranslator().Apply(doc, New(ActionSet, Target{Area: AreaSkills, List: ListSkills}, []any{"Go", "SQL"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "SQL"}, next.Skills)
	assert.Equal(t, "/document/skills", op.Path)

	next, _, err = newTestTranslator().Apply(doc, New(ActionSet, Target{Area: AreaSkills, List: ListSkills}, "not a list"))
	require.NoError(t, err)
	assert.Equal(t, []string{}, next.Skills)
}

func TestApply_BulletsFilterEmpty(t *testing.T) {
	target := Target{Area: AreaSection, SectionId: resume.SectionExperience, ItemId: "itm_exp_1", List: ListBullets}
	next, op, err := newTestTranslator().Apply(resume.Default(), New(ActionSet, target, []any{"Shipped v2", "", nil, "  ", "Led team"}))
	require.NoError(t, err)

	// only empty and null entries go; blank-looking text is the user's
	assert.Equal(t, []string{"Shipped v2", "  ", "Led team"}, next.Sections[0].Items[0].Bullets)
	assert.Equal(t, "/document/sections/0/items/0/bullets", op.Path)
}

func TestApply_AddItem(t *testing.T) {
	target := Target{Area: AreaSection, SectionId: resume.SectionExperience}
	value := map[string]any{
		"fields":  map[string]any{"title": "CTO", "company": "Beta"},
		"bullets": []any{"Hired 20"},
	}

	next, op, err := newTestTranslator().Apply(resume.Default(), New(ActionAdd, target, value))
	require.NoError(t, err)

	require.Len(t, next.Sections[0].Items, 2)
	added := next.Sections[0].Items[1]
	assert.Equal(t, "itm_1", added.Id)
	assert.Equal(t, "CTO", added.Fields["title"])
	assert.Equal(t, []string{"Hired 20"}, added.Bullets)

	assert.Equal(t, OpAdd, op.Op)
	assert.Equal(t, "/document/sections/0/items/-", op.Path)
	assert.Equal(t, added, op.Value)
}

func TestApply_AddItemViaTargetAction(t *testing.T) {
	target := Target{Area: AreaSection, SectionId: resume.SectionEducation, Action: "add"}
	next, op, err := newTestTranslator().Apply(resume.Default(), New(ActionSet, target, resume.Item{Id: "itm_edu_2"}))
	require.NoError(t, err)
	assert.Equal(t, "itm_edu_2", next.Sections[1].Items[1].Id)
	assert.Equal(t, OpAdd, op.Op)
}

func TestApply_FieldNameIsEscapedInPath(t *testing.T) {
	target := Target{Area: AreaSection, SectionId: resume.SectionExperience, ItemId: "itm_exp_1", Field: "from/to"}
	_, op, err := newTestTranslator().Apply(resume.Default(), New(ActionSet, target, "2020"))
	require.NoError(t, err)
	assert.Equal(t, "/document/sections/0/items/0/fields/from~1to", op.Path)
}

func TestApply_Deterministic(t *testing.T) {
	doc := resume.Seed()
	ch := New(ActionSet, Target{Area: AreaContact, List: ListLinks}, []any{map[string]any{"label": "x"}})

	a, opA, errA := newTestTranslator().Apply(doc, ch)
	b, opB, errB := newTestTranslator().Apply(doc, ch)
	require.NoError(t, errA)
	require.NoError(t, errB)
	assert.Equal(t, a, b)
	assert.Equal(t, opA, opB)
}

func TestApply_FullReplacementIsIdempotent(t *testing.T) {
	changes := []Change{
		New(ActionSet, Target{Area: AreaSummary}, "s"),
		New(ActionSet, Target{Area: AreaSkills, List: ListSkills}, []string{"Go"}),
		New(ActionSet, Target{Area: AreaContact, List: ListLinks}, []any{map[string]any{"id": "l1", "label": "x", "url": "u"}}),
		New(ActionSet, Target{Area: AreaSection, SectionId: resume.SectionExperience, ItemId: "itm_exp_1", List: ListBullets}, []string{"a"}),
	}
	tr := newTestTranslator()
	for _, ch := range changes {
		once, _, err := tr.Apply(resume.Default(), ch)
		require.NoError(t, err)
		twice, _, err := tr.Apply(once, ch)
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	}
}

func TestApplyAll_LeftFold(t *testing.T) {
	tr := newTestTranslator()
	changes := []Change{
		New(ActionAdd, Target{Area: AreaSection, SectionId: resume.SectionExperience}, map[string]any{"id": "itm_exp_2"}),
		New(ActionSet, Target{Area: AreaSection, SectionId: resume.SectionExperience, ItemId: "itm_exp_2", Field: "title"}, "Lead"),
		New(ActionSet, Target{Area: AreaSummary}, "first"),
		New(ActionSet, Target{Area: AreaSummary}, "second"),
	}

	next, ops, err := tr.ApplyAll(resume.Default(), changes)
	require.NoError(t, err)
	require.Len(t, ops, 4)

	assert.Equal(t, "Lead", next.Sections[0].Items[1].Fields["title"])
	assert.Equal(t, "/document/sections/0/items/1/fields/title", ops[1].Path)
	assert.Equal(t, "second", next.Summary)
}

func TestApplyAll_AtomicOnFailure(t *testing.T) {
	doc := resume.Default()
	changes := []Change{
		New(ActionSet, Target{Area: AreaSummary}, "changed"),
		New(ActionSet, Target{Area: AreaSection, SectionId: "sec_ghost", ItemId: "x", Field: "y"}, "v"),
	}

	out, ops, err := newTestTranslator().ApplyAll(doc, changes)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Nil(t, ops)
	assert.Equal(t, doc, out)
	assert.Equal(t, "", doc.Summary)
}

func TestApplyAll_UnsupportedAction(t *testing.T) {
	changes := []Change{
		New(ActionSet, Target{Area: AreaSummary}, "ok"),
		New("rename", Target{Area: AreaSummary}, "x"),
	}
	_, _, err := newTestTranslator().ApplyAll(resume.Default(), changes)
	assert.True(t, errors.Is(err, ErrUnsupportedAction), "got %v", err)
}

func TestApplyAll_Empty(t *testing.T) {
	doc := resume.Seed()
	out, ops, err := ApplyAll(doc, nil)
	require.NoError(t, err)
	assert.Empty(t, ops)
	assert.Equal(t, doc, out)
}
