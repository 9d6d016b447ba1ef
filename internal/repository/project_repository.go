package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/project-tracker/internal/domain"
)

// ProjectRepository encapsulates project persistence.
type ProjectRepository interface {
	// CreateWithOwner inserts the project and the owner's admin membership
	// row in a single transaction.
	CreateWithOwner(ctx context.Context, project *domain.Project, ownerRole domain.MemberRole) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	KeyExists(ctx context.Context, key string) (bool, error)
	// ListByMember returns projects reachable through a membership row for
	// the user. The inner join guarantees no dangling entries.
	ListByMember(ctx context.Context, userID string) ([]domain.Project, error)
	// ListAssigned returns the distinct projects holding tickets assigned
	// to the user.
	ListAssigned(ctx context.Context, userID string) ([]domain.Project, error)
}

type projectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository instantiates the repository.
func NewProjectRepository(pool *pgxpool.Pool) ProjectRepository {
	return &projectRepository{pool: pool}
}

const projectColumns = `id, name, description, key, owner_id, is_archived, created_at, updated_at`

func (r *projectRepository) CreateWithOwner(ctx context.Context, project *domain.Project, ownerRole domain.MemberRole) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const insertProject = `
        INSERT INTO projects (name, description, key, owner_id)
        VALUES ($1,$2,$3,$4)
        RETURNING id, is_archived, created_at, updated_at`
	if err := tx.QueryRow(ctx, insertProject,
		project.Name,
		project.Description,
		project.Key,
		project.OwnerID,
	).Scan(&project.ID, &project.IsArchived, &project.CreatedAt, &project.UpdatedAt); err != nil {
		return err
	}

	const insertMember = `
        INSERT INTO project_members (project_id, user_id, role)
        VALUES ($1,$2,$3)`
	if _, err := tx.Exec(ctx, insertMember, project.ID, project.OwnerID, ownerRole); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	const query = `SELECT ` + projectColumns + ` FROM projects WHERE id=$1`
	var project domain.Project
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&project.Key,
		&project.OwnerID,
		&project.IsArchived,
		&project.CreatedAt,
		&project.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) KeyExists(ctx context.Context, key string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM projects WHERE key=$1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, key).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *projectRepository) ListByMember(ctx context.Context, userID string) ([]domain.Project, error) {
	const query = `
        SELECT p.id, p.name, p.description, p.key, p.owner_id, p.is_archived, p.created_at, p.updated_at
        FROM project_members m
        JOIN projects p ON p.id = m.project_id
        WHERE m.user_id = $1
        ORDER BY p.created_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProjects(rows)
}

func (r *projectRepository) ListAssigned(ctx context.Context, userID string) ([]domain.Project, error) {
	const query = `
        SELECT DISTINCT p.id, p.name, p.description, p.key, p.owner_id, p.is_archived, p.created_at, p.updated_at
        FROM tickets t
        JOIN projects p ON p.id = t.project_id
        WHERE t.assignee_id = $1`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProjects(rows)
}

func scanProjects(rows pgx.Rows) ([]domain.Project, error) {
	var result []domain.Project
	for rows.Next() {
		var project domain.Project
		if err := rows.Scan(
			&project.ID,
			&project.Name,
			&project.Description,
			&project.Key,
			&project.OwnerID,
			&project.IsArchived,
			&project.CreatedAt,
			&project.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, project)
	}
	return result, rows.Err()
}
