package events

import (
	"time"

	"github.com/synchrony/student-management/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAccountCreated EventType = "account_created"
	EventAccountDeleted EventType = "account_deleted"
	EventPhotoReplaced  EventType = "photo_replaced"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string             `json:"id"`
	Type      EventType          `json:"type"`
	Kind      domain.AccountKind `json:"kind"`
	UserName  string             `json:"user_name"`
	Actor     string             `json:"actor,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Payload   interface{}        `json:"payload,omitempty"`
}

// PhotoPayload names the stored photo object an event refers to.
type PhotoPayload struct {
	PhotoKey string `json:"photo_key"`
}
