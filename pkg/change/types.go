package change

import "errors"

type Action string

const (
	ActionSet    Action = "set"
	ActionAdd    Action = "add"
	ActionRemove Action = "remove"
)

func (a Action) Valid() bool {
	switch a {
	case ActionSet, ActionAdd, ActionRemove:
		return true
	}
	return false
}

// Target areas and lists understood by the translator.
const (
	AreaSummary = "summary"
	AreaContact = "contact"
	AreaSkills  = "skills"
	AreaSection = "section"

	ListLinks   = "links"
	ListSkills  = "skills"
	ListBullets = "bullets"
)

// Target addresses one place in a Document. Which fields are set decides
// the addressing rule; see Translator.Apply.
type Target struct {
	Area      string `json:"area"`
	Field     string `json:"field,omitempty"`
	List      string `json:"list,omitempty"`
	SectionId string `json:"sectionId,omitempty"`
	ItemId    string `json:"itemId,omitempty"`
	Action    string `json:"action,omitempty"`
}

// Change is one declarative edit intent produced by the UI layer.
type Change struct {
	Action Action `json:"action"`
	Target Target `json:"target"`
	Value  any    `json:"value"`
}

func New(action Action, target Target, value any) Change {
	return Change{Action: action, Target: target, Value: value}
}

const (
	OpReplace = "replace"
	OpAdd     = "add"
	OpRemove  = "remove"
)

// PatchOp records what one Change did, addressed by a slash-delimited
// pointer into the document. Indices in the path reflect the document at
// the moment the op was produced: it is an audit record, not a replay
// instruction.
type PatchOp struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value"`
}

var (
	ErrNotFound          = errors.New("not found")
	ErrUnsupportedTarget = errors.New("unsupported change target")
	ErrUnsupportedAction = errors.New("unsupported change action")
)
