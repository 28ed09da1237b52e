package change

import "strings"

type WidgetKind string

const (
	WidgetText        WidgetKind = "text"
	WidgetSelect      WidgetKind = "select"
	WidgetMultiSelect WidgetKind = "multiselect"
	WidgetForm        WidgetKind = "form"
	WidgetList        WidgetKind = "list"
)

// Widget describes one input shown to the user and where its value goes.
type Widget struct {
	Id        string      `json:"id"`
	Kind      WidgetKind  `json:"kind"`
	Title     string      `json:"title"`
	Options   []string    `json:"options,omitempty"`
	AllowAdd  bool        `json:"allowAdd,omitempty"`
	Target    Target      `json:"target"`
	Fields    []FormField `json:"fields,omitempty"`
	ItemShape []FormField `json:"itemShape,omitempty"`
	AddLabel  string      `json:"addLabel,omitempty"`
}

type FormField struct {
	Name   string `json:"name"`
	Label  string `json:"label"`
	Type   string `json:"type"`
	Target Target `json:"target"`
}

// BuildFromInputs converts raw widget input (widget id -> value) into
// Changes, in the order the widgets are listed. Inputs for widgets not in
// scope are ignored.
func BuildFromInputs(inputs map[string]any, widgets []Widget) []Change {
	return defaultTranslator.BuildFromInputs(inputs, widgets)
}

func (t *Translator) BuildFromInputs(inputs map[string]any, widgets []Widget) []Change {
	changes := make([]Change, 0, len(inputs))
	for _, w := range widgets {
		val, ok := inputs[w.Id]
		if !ok {
			continue
		}

		switch w.Kind {
		case WidgetText, WidgetSelect:
			changes = append(changes, New(ActionSet, w.Target, asString(val)))

		case WidgetMultiSelect:
			changes = append(changes, New(ActionSet, w.Target, asStringList(val, false)))

		case WidgetForm:
			form, _ := asObject(val)
			for _, f := range w.Fields {
				changes = append(changes, New(ActionSet, f.Target, asString(form[f.Name])))
			}

		case WidgetList:
			switch {
			case w.Target.Area == AreaContact && w.Target.List == ListLinks:
				changes = append(changes, New(ActionSet, w.Target, t.links(val)))
			case w.Target.List == ListBullets:
				bullets := make([]string, 0)
				for _, row := range asRows(val) {
					if b, ok := row["bullet"].(string); ok {
						if b = strings.TrimSpace(b); b != "" {
							bullets = append(bullets, b)
						}
					}
				}
				changes = append(changes, New(ActionSet, w.Target, bullets))
			}
		}
	}
	return changes
}
