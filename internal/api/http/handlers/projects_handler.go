package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/project-tracker/internal/api/dto"
	"github.com/spec-kit/project-tracker/internal/auth"
	"github.com/spec-kit/project-tracker/internal/service"
	apperrors "github.com/spec-kit/project-tracker/pkg/util/errorutil"
)

// ProjectsHandler manages project and membership endpoints.
type ProjectsHandler struct {
	service *service.ProjectService
}

// NewProjectsHandler constructs the handler.
func NewProjectsHandler(projectService *service.ProjectService) *ProjectsHandler {
	return &ProjectsHandler{service: projectService}
}

// Create POST /api/projects.
func (h *ProjectsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	var req dto.CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	project, err := h.service.Create(c.UserContext(), principal.User.ID, req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewProjectResponse(project))
}

// ListMine GET /api/projects.
func (h *ProjectsHandler) ListMine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	projects, err := h.service.ListMine(c.UserContext(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewProjectResponses(projects))
}

// ListAssigned GET /api/projects/assigned.
func (h *ProjectsHandler) ListAssigned(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	projects, err := h.service.ListAssigned(c.UserContext(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewProjectResponses(projects))
}

// AddMember POST /api/projects/:id/members.
func (h *ProjectsHandler) AddMember(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	var req dto.AddMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.UserID == "" {
		return apperrors.NewValidationError("userId required", nil)
	}

	member, err := h.service.AddMember(c.UserContext(), c.Params("id"), req.UserID, req.Role)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewMemberResponse(member))
}

// ListMembers GET /api/projects/:projectId/members.
func (h *ProjectsHandler) ListMembers(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}
	users, err := h.service.ListMembers(c.UserContext(), c.Params("projectId"))
	if err != nil {
		return err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(out)
}
