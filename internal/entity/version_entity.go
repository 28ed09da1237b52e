package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Version is one named, stored conversation snapshot. Payload is opaque to
// the store apart from the shape check done on write.
type Version struct {
	Id        uuid.UUID
	UserId    *uuid.UUID
	Name      string
	Payload   json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}
