package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CreateVersionRequest accepts the payload under either "payload" or "data";
// "payload" wins when both are sent.
type CreateVersionRequest struct {
	Name    string          `json:"name" validate:"omitempty,max=200"`
	Payload json.RawMessage `json:"payload"`
	Data    json.RawMessage `json:"data"`
}

type RenameVersionRequest struct {
	Id   uuid.UUID `json:"-"`
	Name string    `json:"name" validate:"required,max=200"`
}

type ReplaceVersionRequest struct {
	Id      uuid.UUID       `json:"-"`
	Payload json.RawMessage `json:"payload"`
	Data    json.RawMessage `json:"data"`
}

type VersionShortResponse struct {
	Id        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type VersionResponse struct {
	VersionShortResponse
	Payload json.RawMessage `json:"payload"`
}

// VersionEvent is published on every write to a version.
type VersionEvent struct {
	Type      string    `json:"type"`
	VersionId uuid.UUID `json:"version_id"`
	Name      string    `json:"name"`
	StateId   string    `json:"state_id,omitempty"`
	Step      int       `json:"step"`
	At        time.Time `json:"at"`
}

const (
	VersionCreated = "VERSION_CREATED"
	VersionRenamed = "VERSION_RENAMED"
	VersionSaved   = "VERSION_SAVED"
)
