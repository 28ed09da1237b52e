package conversation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"resume-turns-be/pkg/resume"
)

type rawSnapshot struct {
	StateId       string          `json:"stateId"`
	ParentStateId *string         `json:"parentStateId"`
	CreatedAt     time.Time       `json:"createdAt"`
	Document      json.RawMessage `json:"snapshotJson"`
}

type rawConversation struct {
	Resume json.RawMessage `json:"resume"`
	States json.RawMessage `json:"states"`
	Turns  []Turn          `json:"userTurns"`
	Step   json.RawMessage `json:"step"`
}

// Normalize turns any stored payload into a structurally sound Conversation:
//   - a full conversation (states array and numeric step) is kept, with every
//     document upgraded and merged over the defaults
//   - an object with a resume key but no states gets a genesis history
//   - anything else is read as a bare document
//
// Empty or null payloads give a fresh conversation over the default document.
func (m *Machine) Normalize(payload json.RawMessage) (Conversation, error) {
	trimmed := bytes.TrimSpace(payload)
	if isNull(trimmed) {
		return m.New(resume.Default()), nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		// not an object; Upgrade decides whether it is usable at all
		doc, err := resume.Upgrade(trimmed)
		if err != nil {
			return Conversation{}, err
		}
		return m.New(doc), nil
	}

	var raw rawConversation
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		raw = rawConversation{Resume: probe["resume"], States: probe["states"], Step: probe["step"]}
	}

	if isArray(raw.States) && isNumber(raw.Step) {
		return m.fromFull(raw)
	}
	if _, ok := probe["resume"]; ok {
		doc, err := resume.Upgrade(raw.Resume)
		if err != nil {
			return Conversation{}, fmt.Errorf("resume: %w", err)
		}
		return m.New(doc), nil
	}

	doc, err := resume.Upgrade(trimmed)
	if err != nil {
		return Conversation{}, err
	}
	return m.New(doc), nil
}

func (m *Machine) fromFull(raw rawConversation) (Conversation, error) {
	var rawStates []rawSnapshot
	if err := json.Unmarshal(raw.States, &rawStates); err != nil {
		return Conversation{}, fmt.Errorf("states: %w", err)
	}
	if len(rawStates) == 0 {
		// a stored conversation that never got a genesis state
		doc, err := resume.Upgrade(raw.Resume)
		if err != nil {
			return Conversation{}, fmt.Errorf("resume: %w", err)
		}
		return m.New(doc), nil
	}

	states := make([]Snapshot, 0, len(rawStates))
	for i, rs := range rawStates {
		sdoc, err := upgradeEnvelope(rs.Document)
		if err != nil {
			return Conversation{}, fmt.Errorf("state %d: %w", i, err)
		}
		states = append(states, Snapshot{
			StateId:       rs.StateId,
			ParentStateId: rs.ParentStateId,
			CreatedAt:     rs.CreatedAt,
			Document:      resume.Envelope{Resume: sdoc},
		})
	}

	var step float64
	if err := json.Unmarshal(raw.Step, &step); err != nil {
		return Conversation{}, fmt.Errorf("step: %w", err)
	}
	if step < 0 {
		step = 0
	}

	turns := raw.Turns
	if turns == nil {
		turns = []Turn{}
	}
	switch {
	case len(turns) > len(states)-1:
		turns = turns[:len(states)-1]
	case len(turns) < len(states)-1:
		// states without a recorded turn cannot be undone into
		states = states[:len(turns)+1]
	}

	doc := states[len(states)-1].Document.Resume.Clone()
	if !isNull(raw.Resume) {
		upgraded, err := resume.Upgrade(raw.Resume)
		if err != nil {
			return Conversation{}, fmt.Errorf("resume: %w", err)
		}
		doc = upgraded
	}

	last := states[len(states)-1].StateId

	return Conversation{
		Document:        doc,
		States:          states,
		ActiveStateId:   last,
		AutosaveStateId: last,
		Turns:           turns,
		Step:            int(step),
		Origin:          OriginLoad,
	}, nil
}

// upgradeEnvelope reads a snapshot document stored either as {"resume": {...}}
// or as the bare document.
func upgradeEnvelope(raw json.RawMessage) (resume.Document, error) {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(raw, &env); err == nil {
		if inner, ok := env["resume"]; ok {
			return resume.Upgrade(inner)
		}
	}
	return resume.Upgrade(raw)
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

func isArray(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && t[0] == '['
}

func isNumber(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	if len(t) == 0 {
		return false
	}
	c := t[0]
	return c == '-' || (c >= '0' && c <= '9')
}
