package conversation

import (
	"errors"
	"fmt"
	"time"

	"resume-turns-be/pkg/change"
	"resume-turns-be/pkg/resume"
)

// Origin tags the transition that produced a Conversation value, so the
// sync layer can tell a freshly loaded version from a user edit.
type Origin string

const (
	OriginLoad Origin = "load"
	OriginEdit Origin = "edit"
)

const GenesisStateId = "st_init"

// Snapshot is one immutable document state in the history.
type Snapshot struct {
	StateId       string          `json:"stateId"`
	ParentStateId *string         `json:"parentStateId"`
	CreatedAt     time.Time       `json:"createdAt"`
	Document      resume.Envelope `json:"snapshotJson"`
}

// PatchSet records the intent (changes) and the effect (patch ops) of a turn.
type PatchSet struct {
	Id        string           `json:"id"`
	Author    string           `json:"author"`
	Source    string           `json:"source"`
	Status    string           `json:"status"`
	CreatedAt time.Time        `json:"createdAt"`
	Changes   []change.Change  `json:"changes"`
	PatchOps  []change.PatchOp `json:"patchOps"`
}

// Turn is one submitted user interaction.
type Turn struct {
	Id       string         `json:"id"`
	Step     int            `json:"step"`
	Widgets  []string       `json:"widgets"`
	Inputs   map[string]any `json:"inputs"`
	PatchSet PatchSet       `json:"patchSet"`
}

// Conversation is the aggregate: current document, linear snapshot history,
// the turns between snapshots and the position in the step sequence.
//
// Invariants after every transition:
//   - States is never empty and States[0] has no parent
//   - len(Turns) == len(States)-1
//   - ActiveStateId is the id of the last snapshot
type Conversation struct {
	Document        resume.Document `json:"resume"`
	States          []Snapshot      `json:"states"`
	ActiveStateId   string          `json:"activeStateId"`
	AutosaveStateId string          `json:"autosaveStateId"`
	Turns           []Turn          `json:"userTurns"`
	Step            int             `json:"step"`
	Origin          Origin          `json:"origin,omitempty"`
}

// Last returns the newest snapshot.
func (c Conversation) Last() Snapshot {
	return c.States[len(c.States)-1]
}

// CanUndo reports whether there is an edit to rewind.
func (c Conversation) CanUndo() bool {
	return len(c.States) > 1
}

// Validate checks the history invariants and returns every violation found.
func Validate(c Conversation) error {
	if len(c.States) == 0 {
		return errors.New("conversation has no states")
	}

	var errs []error
	if c.States[0].ParentStateId != nil {
		errs = append(errs, errors.New("genesis state has a parent"))
	}
	for i := 1; i < len(c.States); i++ {
		p := c.States[i].ParentStateId
		if p == nil || *p != c.States[i-1].StateId {
			errs = append(errs, fmt.Errorf("state %d (%s) does not chain to %s", i, c.States[i].StateId, c.States[i-1].StateId))
		}
	}
	if len(c.Turns) != len(c.States)-1 {
		errs = append(errs, fmt.Errorf("%d turns for %d states", len(c.Turns), len(c.States)))
	}
	if last := c.Last().StateId; c.ActiveStateId != last {
		errs = append(errs, fmt.Errorf("active state %q is not the last state %q", c.ActiveStateId, last))
	}
	if c.Step < 0 {
		errs = append(errs, fmt.Errorf("negative step %d", c.Step))
	}
	return errors.Join(errs...)
}
