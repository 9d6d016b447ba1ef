package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/project-tracker/internal/domain"
	"github.com/spec-kit/project-tracker/internal/events"
	"github.com/spec-kit/project-tracker/internal/repository"
	apperrors "github.com/spec-kit/project-tracker/pkg/util/errorutil"
)

// CommentService appends and lists the per-ticket comment log.
type CommentService struct {
	comments   repository.CommentRepository
	dispatcher events.Dispatcher
}

// NewCommentService constructs the service.
func NewCommentService(comments repository.CommentRepository, dispatcher events.Dispatcher) *CommentService {
	return &CommentService{comments: comments, dispatcher: dispatcher}
}

// Add appends a comment to a ticket.
func (s *CommentService) Add(ctx context.Context, authorID, ticketID, body string) (*domain.Comment, error) {
	if ticketID == "" || strings.TrimSpace(body) == "" {
		return nil, apperrors.NewValidationError("ticketId and text are required", nil)
	}

	comment := &domain.Comment{
		TicketID: ticketID,
		UserID:   authorID,
		Body:     body,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventCommentAdded,
			ActorID:   authorID,
			Timestamp: time.Now(),
			Payload: events.CommentAddedPayload{
				CommentID:   comment.ID,
				TicketID:    comment.TicketID,
				BodyPreview: bodyPreview(comment.Body, 120),
			},
		})
	}
	return comment, nil
}

// List returns comments for the ticket, oldest first, authors populated.
func (s *CommentService) List(ctx context.Context, ticketID string) ([]domain.Comment, error) {
	comments, err := s.comments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return comments, nil
}

func bodyPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
