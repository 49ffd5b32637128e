package events

import (
	"encoding/json"
	"time"
)

const EntityChangedTopic = "paytrack.entity.changed.v1"

const (
	ChangeCreated = "created"
	ChangeUpdated = "updated"
	ChangeDeleted = "deleted"
)

// EntityChangedEvent announces a mutation of one tracked entity. Payload is
// the post-mutation response snapshot (absent for deletes).
type EntityChangedEvent struct {
	EventType  string          `json:"event_type"`
	RequestID  string          `json:"request_id,omitempty"`
	Entity     string          `json:"entity"`
	EntityID   string          `json:"entity_id"`
	UserID     string          `json:"user_id"`
	Change     string          `json:"change"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}
