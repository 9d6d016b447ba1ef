package dto

import (
	"time"

	"github.com/spec-kit/project-tracker/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Priority      domain.TicketPriority `json:"priority"`
	ProjectID     string                `json:"projectId"`
	AssigneeEmail string                `json:"assigneeEmail"`
}

// UpdateTicketRequest carries the allow-listed mutable fields; absent fields
// leave the stored value alone.
type UpdateTicketRequest struct {
	Title       *string                `json:"title"`
	Description *string                `json:"description"`
	Status      *domain.TicketStatus   `json:"status"`
	Priority    *domain.TicketPriority `json:"priority"`
	AssigneeID  *string                `json:"assigneeId"`
}

// AssignTicketRequest payload. A null assigneeId unassigns.
type AssignTicketRequest struct {
	AssigneeID *string `json:"assigneeId"`
}

// TicketResponse is the public ticket shape. Assignee, reporter and project
// are present when the read path populated them.
type TicketResponse struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"priority"`
	Status      domain.TicketStatus   `json:"status"`
	ProjectID   string                `json:"projectId"`
	AssigneeID  *string               `json:"assigneeId"`
	ReporterID  string                `json:"reporterId"`
	Assignee    *UserRefResponse      `json:"assignee,omitempty"`
	Reporter    *UserRefResponse      `json:"reporter,omitempty"`
	Project     *ProjectRefResponse   `json:"project,omitempty"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// NewTicketResponse maps a ticket.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:          ticket.ID,
		Title:       ticket.Title,
		Description: ticket.Description,
		Priority:    ticket.Priority,
		Status:      ticket.Status,
		ProjectID:   ticket.ProjectID,
		AssigneeID:  ticket.AssigneeID,
		ReporterID:  ticket.ReporterID,
		Assignee:    NewUserRefResponse(ticket.Assignee),
		Reporter:    NewUserRefResponse(ticket.Reporter),
		Project:     NewProjectRefResponse(ticket.Project),
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
}

// NewTicketResponses maps a slice.
func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, NewTicketResponse(&tickets[i]))
	}
	return out
}
