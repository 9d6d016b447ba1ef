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

// The check-then-insert key ladder can race a concurrent creation with the
// same base; the unique index on projects.key is the safety net. An insert
// rejected by that index is a fresh collision, so the ladder re-runs a
// bounded number of times.
const maxKeyInsertAttempts = 3

// ProjectService creates projects, derives their keys and manages membership.
type ProjectService struct {
	projects   repository.ProjectRepository
	members    repository.MemberRepository
	dispatcher events.Dispatcher
	letters    LetterSource
}

// ProjectDependencies bundles requirements for the project service.
type ProjectDependencies struct {
	ProjectRepo repository.ProjectRepository
	MemberRepo  repository.MemberRepository
	Dispatcher  events.Dispatcher
	// Letters overrides the random key-padding source; nil selects the
	// random default.
	Letters LetterSource
}

// NewProjectService constructs the service.
func NewProjectService(deps ProjectDependencies) *ProjectService {
	letters := deps.Letters
	if letters == nil {
		letters = RandomLetterSource
	}
	return &ProjectService{
		projects:   deps.ProjectRepo,
		members:    deps.MemberRepo,
		dispatcher: deps.Dispatcher,
		letters:    letters,
	}
}

// Create generates a unique key, persists the project and enrolls the owner
// as admin. The project insert and the owner membership row share one
// transaction.
func (s *ProjectService) Create(ctx context.Context, ownerID, name, description string) (*domain.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("project name required", nil)
	}

	baseKey := deriveBaseKey(name, s.letters)

	var lastErr error
	for attempt := 0; attempt < maxKeyInsertAttempts; attempt++ {
		key, err := resolveKey(ctx, baseKey, s.projects.KeyExists)
		if err != nil {
			return nil, err
		}

		project := &domain.Project{
			Name:        name,
			Description: description,
			Key:         key,
			OwnerID:     ownerID,
		}
		err = s.projects.CreateWithOwner(ctx, project, domain.RoleAdmin)
		if err == nil {
			s.publish(ctx, ownerID, events.Event{
				Type: events.EventProjectCreated,
				Payload: events.ProjectCreatedPayload{
					ProjectID: project.ID,
					Key:       project.Key,
					Name:      project.Name,
				},
			})
			return project, nil
		}
		if apperrors.IsUniqueViolation(err) {
			// Lost the race for this key; re-run the ladder.
			lastErr = err
			continue
		}
		return nil, apperrors.MapError(err)
	}
	return nil, apperrors.MapError(lastErr)
}

// ListMine returns every project reachable through a membership row for the
// user. Memberships whose project is gone are excluded.
func (s *ProjectService) ListMine(ctx context.Context, userID string) ([]domain.Project, error) {
	projects, err := s.projects.ListByMember(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return projects, nil
}

// ListAssigned returns the distinct projects where the user has assigned
// tickets.
func (s *ProjectService) ListAssigned(ctx context.Context, userID string) ([]domain.Project, error) {
	projects, err := s.projects.ListAssigned(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return projects, nil
}

// AddMember inserts a membership row. A duplicate (project, user) pair is a
// conflict; the existing row is never touched.
func (s *ProjectService) AddMember(ctx context.Context, projectID, userID string, role domain.MemberRole) (*domain.ProjectMember, error) {
	if role == "" {
		role = domain.RoleDeveloper
	}
	if !domain.ValidMemberRole(role) {
		return nil, apperrors.NewValidationError("invalid member role", map[string]any{"role": role})
	}

	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("project", map[string]any{"project_id": projectID})
		}
		return nil, apperrors.MapError(err)
	}

	member := &domain.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
	}
	if err := s.members.Insert(ctx, member); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("user is already a project member", map[string]any{
				"project_id": projectID,
				"user_id":    userID,
			})
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, userID, events.Event{
		Type: events.EventMemberAdded,
		Payload: events.MemberAddedPayload{
			ProjectID: projectID,
			UserID:    userID,
			Role:      role,
		},
	})
	return member, nil
}

// ListMembers returns the user records of all project members.
func (s *ProjectService) ListMembers(ctx context.Context, projectID string) ([]domain.User, error) {
	users, err := s.members.ListUsersByProject(ctx, projectID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

func (s *ProjectService) publish(ctx context.Context, actorID string, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.ActorID = actorID
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
