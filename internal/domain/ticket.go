package domain

import "time"

// TicketStatus enumerates the Kanban board columns.
type TicketStatus string

const (
	TicketStatusTodo       TicketStatus = "todo"
	TicketStatusInProgress TicketStatus = "in-progress"
	TicketStatusDone       TicketStatus = "done"
)

// ValidTicketStatus reports whether the value is one of the three columns.
// Any movement between columns is a free assignment; there is no transition
// graph, only membership in the vocabulary.
func ValidTicketStatus(status TicketStatus) bool {
	switch status {
	case TicketStatusTodo, TicketStatusInProgress, TicketStatusDone:
		return true
	}
	return false
}

// TicketPriority enumerates triage urgency.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "low"
	TicketPriorityMedium   TicketPriority = "medium"
	TicketPriorityHigh     TicketPriority = "high"
	TicketPriorityCritical TicketPriority = "critical"
)

// ValidTicketPriority reports whether the value is part of the vocabulary.
func ValidTicketPriority(priority TicketPriority) bool {
	switch priority {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical:
		return true
	}
	return false
}

// Ticket is the aggregate for a tracked issue. Reporter is required;
// assignee is optional. Assignee/Reporter/Project carry populated display
// data on read paths that join them in.
type Ticket struct {
	ID          string
	Title       string
	Description string
	Priority    TicketPriority
	Status      TicketStatus
	ProjectID   string
	AssigneeID  *string
	ReporterID  string
	Assignee    *UserRef
	Reporter    *UserRef
	Project     *ProjectRef
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
