package dto

import (
	"time"

	"github.com/spec-kit/project-tracker/internal/domain"
)

// CreateProjectRequest payload.
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AddMemberRequest payload.
type AddMemberRequest struct {
	UserID string            `json:"userId"`
	Role   domain.MemberRole `json:"role"`
}

// ProjectResponse is the public project shape.
type ProjectResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Key         string    `json:"key"`
	OwnerID     string    `json:"ownerId"`
	IsArchived  bool      `json:"isArchived"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewProjectResponse maps a project.
func NewProjectResponse(project *domain.Project) ProjectResponse {
	return ProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		Key:         project.Key,
		OwnerID:     project.OwnerID,
		IsArchived:  project.IsArchived,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

// NewProjectResponses maps a slice.
func NewProjectResponses(projects []domain.Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(projects))
	for i := range projects {
		out = append(out, NewProjectResponse(&projects[i]))
	}
	return out
}

// ProjectRefResponse is the populated display shape for dashboard rows.
type ProjectRefResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Key  string `json:"key"`
}

// NewProjectRefResponse maps an optional ref.
func NewProjectRefResponse(ref *domain.ProjectRef) *ProjectRefResponse {
	if ref == nil {
		return nil
	}
	return &ProjectRefResponse{ID: ref.ID, Name: ref.Name, Key: ref.Key}
}

// MemberResponse confirms a membership row.
type MemberResponse struct {
	ID        string            `json:"id"`
	ProjectID string            `json:"projectId"`
	UserID    string            `json:"userId"`
	Role      domain.MemberRole `json:"role"`
	CreatedAt time.Time         `json:"createdAt"`
}

// NewMemberResponse maps a membership row.
func NewMemberResponse(member *domain.ProjectMember) MemberResponse {
	return MemberResponse{
		ID:        member.ID,
		ProjectID: member.ProjectID,
		UserID:    member.UserID,
		Role:      member.Role,
		CreatedAt: member.CreatedAt,
	}
}
