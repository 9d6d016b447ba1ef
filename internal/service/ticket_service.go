package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/project-tracker/internal/domain"
	"github.com/spec-kit/project-tracker/internal/events"
	"github.com/spec-kit/project-tracker/internal/repository"
	apperrors "github.com/spec-kit/project-tracker/pkg/util/errorutil"
)

// Implicit enrollment through ticket creation uses the schema's default role.
const implicitMemberRole = domain.RoleDeveloper

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	members    repository.MemberRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	UserRepo   repository.UserRepository
	MemberRepo repository.MemberRepository
	Dispatcher events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		members:    deps.MemberRepo,
		dispatcher: deps.Dispatcher,
	}
}

// TicketCreateInput describes the ticket creation payload.
type TicketCreateInput struct {
	Title         string
	Description   string
	Priority      domain.TicketPriority
	ProjectID     string
	AssigneeEmail string
}

// TicketUpdateInput carries the mutable fields. Nil means "leave alone".
// Project and reporter are not represented here on purpose.
type TicketUpdateInput struct {
	Title       *string
	Description *string
	Status      *domain.TicketStatus
	Priority    *domain.TicketPriority
	AssigneeID  *string
}

// Create persists a ticket and idempotently enrolls the reporter and the
// resolved assignee as project members. An assignee email that matches no
// user leaves the assignee unset; the ticket is still created.
func (s *TicketService) Create(ctx context.Context, reporterID string, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || input.ProjectID == "" {
		return nil, apperrors.NewValidationError("title and project are required", nil)
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}
	if !domain.ValidTicketPriority(priority) {
		return nil, apperrors.NewValidationError("invalid priority value", map[string]any{"priority": priority})
	}

	var assigneeID *string
	if input.AssigneeEmail != "" {
		assignee, err := s.users.GetByEmail(ctx, input.AssigneeEmail)
		switch {
		case err == nil:
			assigneeID = &assignee.ID
		case errors.Is(err, pgx.ErrNoRows):
			// No match: assignee stays unset.
		default:
			return nil, apperrors.MapError(err)
		}
	}

	ticket := &domain.Ticket{
		Title:       title,
		Description: input.Description,
		Priority:    priority,
		Status:      domain.TicketStatusTodo,
		ProjectID:   input.ProjectID,
		AssigneeID:  assigneeID,
		ReporterID:  reporterID,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	// Membership upserts after the insert are idempotent (create-if-absent,
	// never overwriting an existing role), so a failure here can be retried
	// without corrupting state.
	if _, err := s.members.Ensure(ctx, ticket.ProjectID, reporterID, implicitMemberRole); err != nil {
		return nil, apperrors.MapError(err)
	}
	if assigneeID != nil {
		if _, err := s.members.Ensure(ctx, ticket.ProjectID, *assigneeID, implicitMemberRole); err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	s.publish(ctx, reporterID, events.Event{
		Type: events.EventTicketCreated,
		Payload: events.TicketCreatedPayload{
			TicketID:   ticket.ID,
			ProjectID:  ticket.ProjectID,
			Title:      ticket.Title,
			Priority:   ticket.Priority,
			AssigneeID: ticket.AssigneeID,
		},
	})
	return ticket, nil
}

// ListByProject returns tickets matching all provided filters, newest-first,
// with assignee and reporter display fields populated.
func (s *TicketService) ListByProject(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	if filter.ProjectID == "" {
		return nil, apperrors.NewValidationError("projectId is required", nil)
	}
	tickets, err := s.tickets.ListByProject(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// Update merges the provided fields onto the stored ticket. A status or
// priority outside the vocabulary is rejected and the ticket is untouched.
func (s *TicketService) Update(ctx context.Context, ticketID string, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}

	if input.Status != nil && !domain.ValidTicketStatus(*input.Status) {
		return nil, apperrors.NewValidationError("invalid status value", map[string]any{"status": *input.Status})
	}
	if input.Priority != nil && !domain.ValidTicketPriority(*input.Priority) {
		return nil, apperrors.NewValidationError("invalid priority value", map[string]any{"priority": *input.Priority})
	}

	oldStatus := ticket.Status
	if input.Title != nil {
		ticket.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		ticket.Description = *input.Description
	}
	if input.Status != nil {
		ticket.Status = *input.Status
	}
	if input.Priority != nil {
		ticket.Priority = *input.Priority
	}
	if input.AssigneeID != nil {
		if *input.AssigneeID == "" {
			ticket.AssigneeID = nil
		} else {
			ticket.AssigneeID = input.AssigneeID
		}
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	if input.Status != nil && oldStatus != ticket.Status {
		s.publish(ctx, "", events.Event{
			Type: events.EventTicketStatusChanged,
			Payload: events.TicketStatusChangedPayload{
				TicketID:  ticket.ID,
				OldStatus: oldStatus,
				NewStatus: ticket.Status,
			},
		})
	}
	return ticket, nil
}

// Delete removes a ticket. Only the reporter or the current assignee may
// delete it.
func (s *TicketService) Delete(ctx context.Context, ticketID, callerID string) error {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return apperrors.MapError(err)
	}

	isReporter := ticket.ReporterID == callerID
	isAssignee := ticket.AssigneeID != nil && *ticket.AssigneeID == callerID
	if !isReporter && !isAssignee {
		return apperrors.NewForbidden("only the reporter or assignee may delete a ticket")
	}

	if err := s.tickets.Delete(ctx, ticketID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// Assign unconditionally sets the assignee and returns the updated ticket.
func (s *TicketService) Assign(ctx context.Context, ticketID string, assigneeID *string, actorID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}

	ticket.AssigneeID = assigneeID
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, actorID, events.Event{
		Type: events.EventTicketAssigned,
		Payload: events.TicketAssignedPayload{
			TicketID:   ticket.ID,
			AssigneeID: ticket.AssigneeID,
		},
	})
	return ticket, nil
}

// ListForUser returns every ticket where the user is reporter or assignee,
// across all projects, backing the dashboard aggregates.
func (s *TicketService) ListForUser(ctx context.Context, userID string) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListForUser(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

func (s *TicketService) publish(ctx context.Context, actorID string, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.ActorID = actorID
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
