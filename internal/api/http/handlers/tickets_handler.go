package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/project-tracker/internal/api/dto"
	"github.com/spec-kit/project-tracker/internal/auth"
	"github.com/spec-kit/project-tracker/internal/domain"
	"github.com/spec-kit/project-tracker/internal/repository"
	"github.com/spec-kit/project-tracker/internal/service"
	apperrors "github.com/spec-kit/project-tracker/pkg/util/errorutil"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs the handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// Create POST /api/tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.Create(c.UserContext(), principal.User.ID, service.TicketCreateInput{
		Title:         req.Title,
		Description:   req.Description,
		Priority:      req.Priority,
		ProjectID:     req.ProjectID,
		AssigneeEmail: req.AssigneeEmail,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewTicketResponse(ticket))
}

// ListByProject GET /api/tickets?projectId&status&priority&assignee&search.
func (h *TicketsHandler) ListByProject(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	filter := repository.TicketFilter{ProjectID: c.Query("projectId")}
	if v := c.Query("status"); v != "" {
		status := domain.TicketStatus(v)
		filter.Status = &status
	}
	if v := c.Query("priority"); v != "" {
		priority := domain.TicketPriority(v)
		filter.Priority = &priority
	}
	if v := c.Query("assignee"); v != "" {
		filter.AssigneeID = &v
	}
	if v := c.Query("search"); v != "" {
		filter.Search = &v
	}

	tickets, err := h.service.ListByProject(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponses(tickets))
}

// ListAll GET /api/tickets/all — dashboard aggregate for the caller.
func (h *TicketsHandler) ListAll(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	tickets, err := h.service.ListForUser(c.UserContext(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponses(tickets))
}

// Update PUT /api/tickets/:id.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.Update(c.UserContext(), c.Params("id"), service.TicketUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponse(ticket))
}

// Delete DELETE /api/tickets/:id.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	if err := h.service.Delete(c.UserContext(), c.Params("id"), principal.User.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "ticket deleted"})
}

// Assign PATCH /api/tickets/:id/assign.
func (h *TicketsHandler) Assign(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.Assign(c.UserContext(), c.Params("id"), req.AssigneeID, principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponse(ticket))
}
