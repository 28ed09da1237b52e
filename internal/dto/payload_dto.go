package dto

// PayloadSnapshot is the shape a stored payload must have. Anything beyond
// these keys is kept as sent.
type PayloadSnapshot struct {
	Resume          *PayloadResume   `json:"resume" validate:"required"`
	States          []map[string]any `json:"states"`
	ActiveStateId   *string          `json:"activeStateId"`
	AutosaveStateId *string          `json:"autosaveStateId"`
	UserTurns       []map[string]any `json:"userTurns"`
	Step            int              `json:"step" validate:"gte=0"`
}

type PayloadResume struct {
	Contact  *PayloadContact  `json:"contact" validate:"required"`
	Summary  string           `json:"summary"`
	Skills   []string         `json:"skills"`
	Sections []PayloadSection `json:"sections" validate:"dive"`
	Meta     map[string]any   `json:"meta"`
}

// PayloadContact accepts link rows in both the current {id,label,url} and the
// legacy {linkName,link} layout.
type PayloadContact struct {
	FirstName string           `json:"firstName"`
	LastName  string           `json:"lastName"`
	Email     string           `json:"email"`
	Phone     string           `json:"phone"`
	Links     []map[string]any `json:"links"`
}

type PayloadSection struct {
	Id     string        `json:"id" validate:"required"`
	Name   string        `json:"name" validate:"required"`
	Fields []string      `json:"fields"`
	Items  []PayloadItem `json:"items" validate:"dive"`
}

type PayloadItem struct {
	Id      string         `json:"id" validate:"required"`
	Fields  map[string]any `json:"fields"`
	Bullets []string       `json:"bullets"`
}
