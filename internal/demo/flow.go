// Package demo holds the toy widget catalogue and bot script used by the
// turns driver.
package demo

import (
	"resume-turns-be/pkg/change"
	"resume-turns-be/pkg/resume"
)

// Step is one bot message and the widgets shown with it.
type Step struct {
	Id      string
	Text    string
	Widgets []string
}

func experienceTarget(field string) change.Target {
	return change.Target{Area: change.AreaSection, SectionId: resume.SectionExperience, ItemId: "itm_exp_1", Field: field}
}

// Widgets returns the widget catalogue.
func Widgets() []change.Widget {
	return []change.Widget{
		{
			Id:     "w_summary_text",
			Kind:   change.WidgetText,
			Title:  "Write a short summary",
			Target: change.Target{Area: change.AreaSummary},
		},
		{
			Id:      "w_degree_select",
			Kind:    change.WidgetSelect,
			Title:   "Pick your degree",
			Options: []string{"B.S. Computer Science", "B.A. Mathematics", "M.S. Data Science"},
			Target:  change.Target{Area: change.AreaSection, SectionId: resume.SectionEducation, ItemId: "itm_edu_1", Field: "degree"},
		},
		{
			Id:       "w_skills_ms",
			Kind:     change.WidgetMultiSelect,
			Title:    "Select your skills (add your own too)",
			Options:  []string{"Python", "FastAPI", "TypeScript", "React"},
			AllowAdd: true,
			Target:   change.Target{Area: change.AreaSkills, List: change.ListSkills},
		},
		{
			Id:    "w_contact_form",
			Kind:  change.WidgetForm,
			Title: "Contact details",
			Fields: []change.FormField{
				{Name: "email", Label: "Email", Type: "email", Target: change.Target{Area: change.AreaContact, Field: resume.ContactEmail}},
				{Name: "phone", Label: "Phone", Type: "tel", Target: change.Target{Area: change.AreaContact, Field: resume.ContactPhone}},
			},
		},
		{
			Id:    "w_links_list",
			Kind:  change.WidgetList,
			Title: "Add your links",
			ItemShape: []change.FormField{
				{Name: "label", Label: "Link name", Type: "text"},
				{Name: "url", Label: "URL", Type: "url"},
			},
			Target:   change.Target{Area: change.AreaContact, List: change.ListLinks},
			AddLabel: "Add link",
		},
		{
			Id:        "w_exp_bullets",
			Kind:      change.WidgetList,
			Title:     "Bullets for your Acme role",
			ItemShape: []change.FormField{{Name: "bullet", Label: "Bullet", Type: "text"}},
			Target: change.Target{
				Area: change.AreaSection, SectionId: resume.SectionExperience, ItemId: "itm_exp_1", List: change.ListBullets,
			},
			AddLabel: "Add bullet",
		},
		{
			Id:    "w_job_mini_form",
			Kind:  change.WidgetForm,
			Title: "Edit job basics (human-only)",
			Fields: []change.FormField{
				{Name: "title", Label: "Title", Type: "text", Target: experienceTarget("title")},
				{Name: "company", Label: "Company", Type: "text", Target: experienceTarget("company")},
			},
		},
	}
}

// BotFlow lists which widgets each bot step shows.
var BotFlow = []Step{
	{Id: "b1", Text: "Let's set contact details and a link.", Widgets: []string{"w_contact_form", "w_links_list"}},
	{Id: "b2", Text: "Pick your degree.", Widgets: []string{"w_degree_select"}},
	{Id: "b3", Text: "Select skills (and add your own).", Widgets: []string{"w_skills_ms"}},
	{Id: "b4", Text: "Add bullets for your Acme role.", Widgets: []string{"w_exp_bullets"}},
	{Id: "b5", Text: "Optionally adjust job title/company.", Widgets: []string{"w_job_mini_form"}},
	{Id: "b6", Text: "Write a short summary.", Widgets: []string{"w_summary_text"}},
}

// Answers are the canned inputs the driver submits, keyed by widget id.
// A step whose widgets have no answer is skipped with Advance.
var Answers = map[string]any{
	"w_contact_form": map[string]any{"email": "ava@example.com", "phone": "+1 555 0100"},
	"w_links_list": []any{
		map[string]any{"label": "GitHub", "url": "https://github.com/ava"},
	},
	"w_degree_select": "B.S. Computer Science",
	"w_skills_ms":     []any{"Go", "PostgreSQL", "React"},
	"w_exp_bullets": []any{
		map[string]any{"bullet": "Shipped the billing service"},
		map[string]any{"bullet": "  "},
	},
	"w_summary_text": "Backend engineer who likes small, boring services.",
}

// WidgetsFor returns the catalogue entries shown at step, in step order.
func WidgetsFor(step Step) []change.Widget {
	byId := make(map[string]change.Widget)
	for _, w := range Widgets() {
		byId[w.Id] = w
	}
	out := make([]change.Widget, 0, len(step.Widgets))
	for _, id := range step.Widgets {
		if w, ok := byId[id]; ok {
			out = append(out, w)
		}
	}
	return out
}

// InputsFor picks the canned answers for step's widgets.
func InputsFor(step Step) map[string]any {
	inputs := make(map[string]any)
	for _, id := range step.Widgets {
		if v, ok := Answers[id]; ok {
			inputs[id] = v
		}
	}
	return inputs
}
