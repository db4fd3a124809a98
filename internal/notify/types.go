// Package notify delivers user-facing notifications for doubleblind mutations.
package notify

import (
	"context"
	"time"
)

// Event is a user-facing notification. Message is shown verbatim to the user
// and must never contain raw error detail.
type Event struct {
	// Type is the event type (project-created, repository-deployed, ...)
	Type string

	// Kind is the mutation kind that produced the event
	Kind string

	// Subject is what the event is about (project name, repository id)
	Subject string

	// Message is the human-readable notification text
	Message string

	// Success indicates if the operation succeeded
	Success bool

	// Timestamp is when the event occurred
	Timestamp time.Time

	// Extra contains additional event-specific data
	Extra map[string]string
}

// Sender is the interface for notification senders.
type Sender interface {
	// Send delivers a notification for the given event.
	Send(ctx context.Context, event *Event) error

	// Name returns the sender's name for logging purposes.
	Name() string
}

// Event types that can trigger notifications.
const (
	EventProjectCreated     = "project-created"
	EventRepositoryDeployed = "repository-deployed"
	EventMutationFailed     = "mutation-failed"
)

// NewEvent creates a new event with the given type and sets the timestamp.
func NewEvent(eventType string) *Event {
	return &Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Success:   true,
		Extra:     make(map[string]string),
	}
}

// WithKind sets the mutation kind on the event.
func (e *Event) WithKind(kind string) *Event {
	e.Kind = kind
	return e
}

// WithSubject sets the subject on the event.
func (e *Event) WithSubject(subject string) *Event {
	e.Subject = subject
	return e
}

// WithMessage sets the user-facing message.
func (e *Event) WithMessage(msg string) *Event {
	e.Message = msg
	return e
}

// Failed marks the event as a failure.
func (e *Event) Failed() *Event {
	e.Success = false
	return e
}

// WithExtra adds extra data to the event.
func (e *Event) WithExtra(key, value string) *Event {
	if e.Extra == nil {
		e.Extra = make(map[string]string)
	}

	e.Extra[key] = value

	return e
}
