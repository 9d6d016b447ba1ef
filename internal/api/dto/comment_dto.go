package dto

import (
	"time"

	"github.com/spec-kit/project-tracker/internal/domain"
)

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	TicketID string `json:"ticketId"`
	Text     string `json:"text"`
}

// CommentResponse is the public comment shape.
type CommentResponse struct {
	ID        string           `json:"id"`
	TicketID  string           `json:"ticketId"`
	UserID    string           `json:"userId"`
	Text      string           `json:"text"`
	Author    *UserRefResponse `json:"author,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

// NewCommentResponse maps a comment.
func NewCommentResponse(comment *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID,
		TicketID:  comment.TicketID,
		UserID:    comment.UserID,
		Text:      comment.Body,
		Author:    NewUserRefResponse(comment.Author),
		CreatedAt: comment.CreatedAt,
	}
}

// NewCommentResponses maps a slice.
func NewCommentResponses(comments []domain.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, NewCommentResponse(&comments[i]))
	}
	return out
}
