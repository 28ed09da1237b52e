package versionsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"resume-turns-be/pkg/change"
	"resume-turns-be/pkg/conversation"
	"resume-turns-be/pkg/resume"
	"resume-turns-be/pkg/versionclient"
)

// ErrRemoteFailure marks errors coming from the version store.
var ErrRemoteFailure = errors.New("version store failure")

// ErrNoActiveVersion is returned by Rename when no id is given and no
// version is selected.
var ErrNoActiveVersion = errors.New("no active version")

// Store is the remote version store. *versionclient.Client implements it.
type Store interface {
	ListVersions(ctx context.Context) ([]versionclient.VersionSummary, error)
	GetVersion(ctx context.Context, id string) (versionclient.Version, error)
	CreateVersion(ctx context.Context, name string) (versionclient.Version, error)
	RenameVersion(ctx context.Context, id, name string) (versionclient.VersionSummary, error)
	SaveVersion(ctx context.Context, id string, payload json.RawMessage) (versionclient.Version, error)
}

var _ Store = (*versionclient.Client)(nil)

// Logger is the subset of the application logger the controller uses.
type Logger interface {
	Info(module, message string, details map[string]interface{})
	Error(module, message string, details map[string]interface{})
}

const logModule = "VERSION_SYNC"

// Controller binds one Conversation to one stored version. Every operation
// runs under a single mutex, so transitions and their autosave are applied
// strictly in call order.
type Controller struct {
	mu         sync.Mutex
	store      Store
	machine    *conversation.Machine
	translator *change.Translator
	logger     Logger

	activeVersionId string
	conv            conversation.Conversation
	listener        func(conversation.Conversation)
}

type Option func(*Controller)

func WithMachine(m *conversation.Machine) Option {
	return func(c *Controller) { c.machine = m }
}

func WithTranslator(t *change.Translator) Option {
	return func(c *Controller) { c.translator = t }
}

func WithLogger(l Logger) Option {
	return func(c *Controller) { c.logger = l }
}

func NewController(store Store, opts ...Option) *Controller {
	c := &Controller{
		store:      store,
		machine:    conversation.NewMachine(),
		translator: change.NewTranslator(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.conv = c.machine.New(resume.Default())
	return c
}

// OnChange registers fn to be called after every transition, still inside
// the controller's critical section. fn must not call back into c.
func (c *Controller) OnChange(fn func(conversation.Conversation)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listener = fn
}

func (c *Controller) Conversation() conversation.Conversation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conv
}

func (c *Controller) ActiveVersionId() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeVersionId
}

func (c *Controller) List(ctx context.Context) ([]versionclient.VersionSummary, error) {
	versions, err := c.store.ListVersions(ctx)
	if err != nil {
		return nil, remote(err)
	}
	return versions, nil
}

// Select loads a stored version and makes it the active one.
func (c *Controller) Select(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, err := c.store.GetVersion(ctx, id)
	if err != nil {
		return remote(err)
	}
	return c.load(v)
}

// Create asks the store for a new version and makes it the active one.
func (c *Controller) Create(ctx context.Context, name string) (versionclient.VersionSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, err := c.store.CreateVersion(ctx, name)
	if err != nil {
		return versionclient.VersionSummary{}, remote(err)
	}
	if err := c.load(v); err != nil {
		return versionclient.VersionSummary{}, err
	}
	return v.VersionSummary, nil
}

// Rename changes a version's name. An empty id renames the active version.
// The conversation is not touched.
func (c *Controller) Rename(ctx context.Context, id, name string) (versionclient.VersionSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id == "" {
		id = c.activeVersionId
	}
	if id == "" {
		return versionclient.VersionSummary{}, ErrNoActiveVersion
	}

	v, err := c.store.RenameVersion(ctx, id, name)
	if err != nil {
		return versionclient.VersionSummary{}, remote(err)
	}
	return v, nil
}

func (c *Controller) Advance(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.commit(ctx, c.machine.Advance(c.conv))
}

func (c *Controller) Undo(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.commit(ctx, c.machine.Undo(c.conv))
}

// Submit applies changes to the current document and records the turn.
// On a translation error the conversation is left as it was.
func (c *Controller) Submit(ctx context.Context, changes []change.Change, widgets []string, inputs map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, ops, err := c.translator.ApplyAll(c.conv.Document, changes)
	if err != nil {
		return err
	}

	return c.commit(ctx, c.machine.Submit(c.conv, conversation.Submission{
		Changes:  changes,
		Widgets:  widgets,
		Inputs:   inputs,
		Document: doc,
		PatchOps: ops,
	}))
}

// SubmitInputs builds changes from raw widget input and submits them.
func (c *Controller) SubmitInputs(ctx context.Context, widgets []change.Widget, inputs map[string]any) error {
	ids := make([]string, len(widgets))
	for i, w := range widgets {
		ids[i] = w.Id
	}
	return c.Submit(ctx, c.translator.BuildFromInputs(inputs, widgets), ids, inputs)
}

func (c *Controller) load(v versionclient.Version) error {
	next, err := c.machine.Normalize(v.Payload)
	if err != nil {
		return fmt.Errorf("normalize version %s: %w", v.Id, err)
	}

	c.activeVersionId = v.Id
	c.conv = c.machine.ResetAll(next)
	c.notify()

	if c.logger != nil {
		c.logger.Info(logModule, "Version loaded", map[string]interface{}{
			"version_id": v.Id,
			"states":     len(c.conv.States),
			"step":       c.conv.Step,
		})
	}
	return nil
}

// commit installs next and autosaves it. A failed save keeps the transition.
func (c *Controller) commit(ctx context.Context, next conversation.Conversation) error {
	c.conv = next
	c.notify()
	return c.autosave(ctx)
}

func (c *Controller) autosave(ctx context.Context) error {
	if c.conv.Origin == conversation.OriginLoad || c.activeVersionId == "" {
		return nil
	}

	payload, err := json.Marshal(c.conv)
	if err != nil {
		return fmt.Errorf("encode conversation: %w", err)
	}

	if _, err := c.store.SaveVersion(ctx, c.activeVersionId, payload); err != nil {
		if c.logger != nil {
			c.logger.Error(logModule, "Autosave failed", map[string]interface{}{
				"version_id": c.activeVersionId,
				"state_id":   c.conv.ActiveStateId,
				"error":      err.Error(),
			})
		}
		return remote(err)
	}
	return nil
}

func (c *Controller) notify() {
	if c.listener != nil {
		c.listener(c.conv)
	}
}

func remote(err error) error {
	return fmt.Errorf("%w: %w", ErrRemoteFailure, err)
}
