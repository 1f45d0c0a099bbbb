package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserEventType enumerates user lifecycle events.
type UserEventType string

const (
	UserCreated       UserEventType = "user.created"
	UserAuthenticated UserEventType = "user.authenticated"
	UserDeleted       UserEventType = "user.deleted"
)

// UserEvent describes a user lifecycle change.
type UserEvent struct {
	Type       UserEventType `json:"type"`
	UserID     uuid.UUID     `json:"userId"`
	ExternalID int64         `json:"externalId"`
	Timestamp  time.Time     `json:"timestamp"`
}

// EventPublisher delivers user lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, event UserEvent) error
}
