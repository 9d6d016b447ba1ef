package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/project-tracker/internal/api/dto"
	"github.com/spec-kit/project-tracker/internal/auth"
	"github.com/spec-kit/project-tracker/internal/service"
	apperrors "github.com/spec-kit/project-tracker/pkg/util/errorutil"
)

// CommentsHandler manages the per-ticket comment log endpoints.
type CommentsHandler struct {
	service *service.CommentService
}

// NewCommentsHandler constructs the handler.
func NewCommentsHandler(commentService *service.CommentService) *CommentsHandler {
	return &CommentsHandler{service: commentService}
}

// Create POST /api/comments.
func (h *CommentsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	comment, err := h.service.Add(c.UserContext(), principal.User.ID, req.TicketID, req.Text)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewCommentResponse(comment))
}

// ListByTicket GET /api/comments/:ticketId.
func (h *CommentsHandler) ListByTicket(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	comments, err := h.service.List(c.UserContext(), c.Params("ticketId"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewCommentResponses(comments))
}
