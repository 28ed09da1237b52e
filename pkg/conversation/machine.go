package conversation

import (
	"time"

	"resume-turns-be/pkg/change"
	"resume-turns-be/pkg/resume"
)

const (
	patchAuthor  = "user"
	patchSource  = "ui"
	patchApplied = "applied"
)

// Submission is what one user turn carries into Submit: the intent, what the
// user saw and typed, and the translator's result.
type Submission struct {
	Changes  []change.Change
	Widgets  []string
	Inputs   map[string]any
	Document resume.Document
	PatchOps []change.PatchOp
}

// Machine runs the conversation transitions. Transitions are pure: they
// never mutate their input and always return a value satisfying the
// Conversation invariants. Now and NewID are the only sources of
// non-determinism and can be replaced in tests.
type Machine struct {
	Now   func() time.Time
	NewID func(prefix string) string
}

func NewMachine() *Machine {
	return &Machine{
		Now:   func() time.Time { return time.Now().UTC() },
		NewID: change.RandomID,
	}
}

// New returns a genesis conversation around doc.
func (m *Machine) New(doc resume.Document) Conversation {
	doc = doc.Clone()
	resume.Normalize(&doc)

	return Conversation{
		Document: doc,
		States: []Snapshot{{
			StateId:   GenesisStateId,
			CreatedAt: m.Now(),
			Document:  resume.Envelope{Resume: doc.Clone()},
		}},
		ActiveStateId:   GenesisStateId,
		AutosaveStateId: GenesisStateId,
		Turns:           []Turn{},
		Step:            0,
		Origin:          OriginLoad,
	}
}

// Advance moves to the next step without touching the document or history.
func (m *Machine) Advance(c Conversation) Conversation {
	c.Step++
	c.Origin = OriginEdit
	return c
}

// Submit records one user turn. A submission with no changes is a plain
// Advance: no snapshot or turn is recorded.
func (m *Machine) Submit(c Conversation, s Submission) Conversation {
	if len(s.Changes) == 0 {
		return m.Advance(c)
	}

	now := m.Now()
	parent := c.ActiveStateId
	stateId := m.NewID("st")

	doc := s.Document.Clone()
	resume.Normalize(&doc)

	snap := Snapshot{
		StateId:       stateId,
		ParentStateId: &parent,
		CreatedAt:     now,
		Document:      resume.Envelope{Resume: doc.Clone()},
	}
	turn := Turn{
		Id:      m.NewID("t"),
		Step:    c.Step,
		Widgets: append([]string{}, s.Widgets...),
		Inputs:  copyInputs(s.Inputs),
		PatchSet: PatchSet{
			Id:        m.NewID("ps"),
			Author:    patchAuthor,
			Source:    patchSource,
			Status:    patchApplied,
			CreatedAt: now,
			Changes:   append([]change.Change{}, s.Changes...),
			PatchOps:  append([]change.PatchOp{}, s.PatchOps...),
		},
	}

	// full slice expressions force a copy so earlier values keep their history
	c.States = append(c.States[:len(c.States):len(c.States)], snap)
	c.Turns = append(c.Turns[:len(c.Turns):len(c.Turns)], turn)
	c.Document = doc
	c.ActiveStateId = stateId
	c.AutosaveStateId = stateId
	c.Step++
	c.Origin = OriginEdit
	return c
}

// Undo drops the newest snapshot and turn and restores the document of the
// snapshot before it. At genesis it returns c unchanged.
func (m *Machine) Undo(c Conversation) Conversation {
	if !c.CanUndo() {
		return c
	}

	c.States = c.States[: len(c.States)-1 : len(c.States)-1]
	if n := len(c.Turns); n > 0 {
		c.Turns = c.Turns[: n-1 : n-1]
	}
	prev := c.Last()
	c.Document = prev.Document.Resume.Clone()
	c.ActiveStateId = prev.StateId
	c.AutosaveStateId = prev.StateId
	if c.Step > 0 {
		c.Step--
	}
	c.Origin = OriginEdit
	return c
}

// ResetAll replaces the whole conversation with next, typically the result
// of Normalize on a loaded version payload.
func (m *Machine) ResetAll(next Conversation) Conversation {
	next.Origin = OriginLoad
	return next
}

func copyInputs(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
