package conversation

import (
	"fmt"
	"testing"
	"time"

	"resume-turns-be/pkg/change"
	"resume-turns-be/pkg/resume"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func newTestMachine() *Machine {
	ticks, ids := 0, 0
	return &Machine{
		Now: func() time.Time {
			ticks++
			return baseTime.Add(time.Duration(ticks) * time.Second)
		},
		NewID: func(prefix string) string {
			ids++
			return fmt.Sprintf("%s_%d", prefix, ids)
		},
	}
}

// submit translates changes against the current document and records the turn.
func submit(t *testing.T, m *Machine, c Conversation, changes ...change.Change) Conversation {
	t.Helper()
	doc, ops, err := change.ApplyAll(c.Document, changes)
	require.NoError(t, err)
	return m.Submit(c, Submission{
		Changes:  changes,
		Widgets:  []string{"w_summary"},
		Inputs:   map[string]any{"w_summary": "x"},
		Document: doc,
		PatchOps: ops,
	})
}

func setSummary(s string) change.Change {
	return change.New(change.ActionSet, change.Target{Area: change.AreaSummary}, s)
}

func TestNew_Genesis(t *testing.T) {
	c := newTestMachine().New(resume.Seed())

	require.NoError(t, Validate(c))
	require.Len(t, c.States, 1)
	assert.Equal(t, GenesisStateId, c.ActiveStateId)
	assert.Equal(t, GenesisStateId, c.AutosaveStateId)
	assert.Nil(t, c.States[0].ParentStateId)
	assert.Empty(t, c.Turns)
	assert.Equal(t, 0, c.Step)
	assert.Equal(t, OriginLoad, c.Origin)
	assert.Equal(t, resume.Seed(), c.States[0].Document.Resume)
	assert.False(t, c.CanUndo())
}

func TestAdvance(t *testing.T) {
	m := newTestMachine()
	c := m.New(resume.Seed())

	next := m.Advance(c)

	assert.Equal(t, 1, next.Step)
	assert.Equal(t, OriginEdit, next.Origin)
	assert.Equal(t, c.States, next.States)
	assert.Equal(t, c.Document, next.Document)
	assert.Equal(t, 0, c.Step)
}

func TestSubmit(t *testing.T) {
	m := newTestMachine()
	c := m.New(resume.Seed())

	next := submit(t, m, c, setSummary("Built scalable systems."))

	require.NoError(t, Validate(next))
	require.Len(t, next.States, 2)
	require.Len(t, next.Turns, 1)

	snap := next.Last()
	require.NotNil(t, snap.ParentStateId)
	assert.Equal(t, GenesisStateId, *snap.ParentStateId)
	assert.Equal(t, snap.StateId, next.ActiveStateId)
	assert.Equal(t, snap.StateId, next.AutosaveStateId)
	assert.Equal(t, "Built scalable systems.", next.Document.Summary)
	assert.Equal(t, next.Document, snap.Document.Resume)
	assert.Equal(t, 1, next.Step)
	assert.Equal(t, OriginEdit, next.Origin)

	turn := next.Turns[0]
	assert.Equal(t, 0, turn.Step)
	assert.Equal(t, []string{"w_summary"}, turn.Widgets)
	assert.Equal(t, "user", turn.PatchSet.Author)
	assert.Equal(t, "ui", turn.PatchSet.Source)
	assert.Equal(t, "applied", turn.PatchSet.Status)
	assert.Equal(t, []change.PatchOp{{Op: change.OpReplace, Path: "/document/summary", Value: "Built scalable systems."}}, turn.PatchSet.PatchOps)

	// the input value is untouched
	assert.Len(t, c.States, 1)
	assert.Empty(t, c.Turns)
	assert.Equal(t, resume.Seed().Summary, c.Document.Summary)
}

func TestSubmit_EmptyChangesAdvances(t *testing.T) {
	m := newTestMachine()
	c := m.New(resume.Seed())

	next := m.Submit(c, Submission{Document: c.Document})

	assert.Equal(t, m.Advance(c), next)
	assert.Len(t, next.States, 1)
}

func TestUndo_InverseOfSubmit(t *testing.T) {
	m := newTestMachine()
	c := m.Advance(m.New(resume.Seed()))

	undone := m.Undo(submit(t, m, c, setSummary("changed")))

	require.NoError(t, Validate(undone))
	assert.Equal(t, c.Document, undone.Document)
	assert.Equal(t, c.States, undone.States)
	assert.Equal(t, c.Turns, undone.Turns)
	assert.Equal(t, c.ActiveStateId, undone.ActiveStateId)
	assert.Equal(t, c.Step, undone.Step)
}

func TestUndo_AtGenesisIsNoop(t *testing.T) {
	m := newTestMachine()
	c := m.New(resume.Seed())

	assert.Equal(t, c, m.Undo(c))
}

func TestUndo_StepFloorsAtZero(t *testing.T) {
	m := newTestMachine()
	c := submit(t, m, m.New(resume.Seed()), setSummary("a"))
	c.Step = 0

	assert.Equal(t, 0, m.Undo(c).Step)
}

func TestThreeSubmitsOneUndo(t *testing.T) {
	m := newTestMachine()
	c := m.New(resume.Seed())

	c = submit(t, m, c, setSummary("one"))
	c = submit(t, m, c, setSummary("two"))
	afterSecond := c
	c = submit(t, m, c, setSummary("three"))
	c = m.Undo(c)

	require.NoError(t, Validate(c))
	assert.Len(t, c.States, 3)
	assert.Len(t, c.Turns, 2)
	assert.Equal(t, afterSecond.Last().Document.Resume, c.Document)
	assert.Equal(t, "two", c.Document.Summary)
	assert.Equal(t, afterSecond.ActiveStateId, c.ActiveStateId)
}

func TestHistoryInvariantHoldsForAnySequence(t *testing.T) {
	m := newTestMachine()
	c := m.New(resume.Default())

	steps := []string{"submit", "advance", "undo", "undo", "submit", "submit", "advance", "undo", "submit"}
	for i, s := range steps {
		switch s {
		case "submit":
			c = submit(t, m, c, setSummary(fmt.Sprintf("v%d", i)))
		case "advance":
			c = m.Advance(c)
		case "undo":
			c = m.Undo(c)
		}
		require.NoError(t, Validate(c), "after %s at %d", s, i)
	}
	assert.Len(t, c.States, 3)
}

func TestUndoThenSubmit_KeepsEarlierValues(t *testing.T) {
	m := newTestMachine()
	c := submit(t, m, m.New(resume.Default()), setSummary("first"))
	c = submit(t, m, c, setSummary("second"))
	before := c

	branched := submit(t, m, m.Undo(c), setSummary("other"))

	assert.Equal(t, "second", before.Last().Document.Resume.Summary)
	assert.Equal(t, "other", branched.Last().Document.Resume.Summary)
	assert.Len(t, branched.States, 3)
}

func TestResetAll(t *testing.T) {
	m := newTestMachine()
	c := submit(t, m, m.New(resume.Default()), setSummary("edited"))

	fresh := m.New(resume.Seed())
	fresh.Origin = OriginEdit
	reset := m.ResetAll(fresh)

	assert.Equal(t, OriginLoad, reset.Origin)
	assert.Equal(t, resume.Seed(), reset.Document)
	assert.Len(t, reset.States, 1)
	assert.Len(t, c.States, 2)
}

func TestValidate(t *testing.T) {
	m := newTestMachine()
	good := submit(t, m, m.New(resume.Default()), setSummary("x"))
	orphan := "st_other"

	tests := []struct {
		name   string
		mutate func(c *Conversation)
	}{
		{name: "no states", mutate: func(c *Conversation) { c.States = nil }},
		{name: "genesis with parent", mutate: func(c *Conversation) { c.States[0].ParentStateId = &orphan }},
		{name: "broken chain", mutate: func(c *Conversation) { c.States[1].ParentStateId = &orphan }},
		{name: "turn count", mutate: func(c *Conversation) { c.Turns = nil }},
		{name: "active not last", mutate: func(c *Conversation) { c.ActiveStateId = GenesisStateId }},
		{name: "negative step", mutate: func(c *Conversation) { c.Step = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := good
			c.States = append([]Snapshot{}, good.States...)
			tt.mutate(&c)
			assert.Error(t, Validate(c))
		})
	}
}
