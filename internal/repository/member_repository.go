package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/project-tracker/internal/domain"
)

// MemberRepository manages project membership rows.
type MemberRepository interface {
	// Insert adds a membership row. A duplicate (project, user) pair
	// surfaces as a unique violation.
	Insert(ctx context.Context, member *domain.ProjectMember) error
	// Ensure creates the membership row if absent and never touches an
	// existing row's role. Returns true when a row was inserted.
	Ensure(ctx context.Context, projectID, userID string, role domain.MemberRole) (bool, error)
	// ListUsersByProject returns the member user records, for assignee pickers.
	ListUsersByProject(ctx context.Context, projectID string) ([]domain.User, error)
}

type memberRepository struct {
	pool *pgxpool.Pool
}

// NewMemberRepository instantiates the repository.
func NewMemberRepository(pool *pgxpool.Pool) MemberRepository {
	return &memberRepository{pool: pool}
}

func (r *memberRepository) Insert(ctx context.Context, member *domain.ProjectMember) error {
	const query = `
        INSERT INTO project_members (project_id, user_id, role)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		member.ProjectID,
		member.UserID,
		member.Role,
	).Scan(&member.ID, &member.CreatedAt, &member.UpdatedAt)
}

func (r *memberRepository) Ensure(ctx context.Context, projectID, userID string, role domain.MemberRole) (bool, error) {
	const query = `
        INSERT INTO project_members (project_id, user_id, role)
        VALUES ($1,$2,$3)
        ON CONFLICT (project_id, user_id) DO NOTHING`
	cmd, err := r.pool.Exec(ctx, query, projectID, userID, role)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *memberRepository) ListUsersByProject(ctx context.Context, projectID string) ([]domain.User, error) {
	const query = `
        SELECT u.id, u.name, u.email, u.password_hash, u.created_at, u.updated_at
        FROM project_members m
        JOIN users u ON u.id = m.user_id
        WHERE m.project_id = $1
        ORDER BY m.created_at ASC`
	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.PasswordHash,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}
