package events

import (
	"time"

	"github.com/spec-kit/project-tracker/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventProjectCreated      EventType = "project_created"
	EventMemberAdded         EventType = "member_added"
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventCommentAdded        EventType = "comment_added"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ProjectCreatedPayload payload.
type ProjectCreatedPayload struct {
	ProjectID string `json:"project_id"`
	Key       string `json:"key"`
	Name      string `json:"name"`
}

// MemberAddedPayload payload.
type MemberAddedPayload struct {
	ProjectID string            `json:"project_id"`
	UserID    string            `json:"user_id"`
	Role      domain.MemberRole `json:"role"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketID   string                `json:"ticket_id"`
	ProjectID  string                `json:"project_id"`
	Title      string                `json:"title"`
	Priority   domain.TicketPriority `json:"priority"`
	AssigneeID *string               `json:"assignee_id,omitempty"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	TicketID  string              `json:"ticket_id"`
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	TicketID   string  `json:"ticket_id"`
	AssigneeID *string `json:"assignee_id,omitempty"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	CommentID   string `json:"comment_id"`
	TicketID    string `json:"ticket_id"`
	BodyPreview string `json:"body_preview"`
}
