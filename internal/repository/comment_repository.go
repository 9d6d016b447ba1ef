package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/project-tracker/internal/domain"
)

// CommentRepository manages the append-only comment log per ticket.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	// ListByTicket returns comments oldest-first with author display
	// fields populated.
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Comment, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository instantiates the repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO comments (ticket_id, user_id, body)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		comment.TicketID,
		comment.UserID,
		comment.Body,
	).Scan(&comment.ID, &comment.CreatedAt)
}

func (r *commentRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Comment, error) {
	const query = `
        SELECT c.id, c.ticket_id, c.user_id, c.body, c.created_at, u.name, u.email
        FROM comments c
        JOIN users u ON u.id = c.user_id
        WHERE c.ticket_id = $1
        ORDER BY c.created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Comment
	for rows.Next() {
		var (
			comment                 domain.Comment
			authorName, authorEmail string
		)
		if err := rows.Scan(
			&comment.ID,
			&comment.TicketID,
			&comment.UserID,
			&comment.Body,
			&comment.CreatedAt,
			&authorName,
			&authorEmail,
		); err != nil {
			return nil, err
		}
		comment.Author = &domain.UserRef{ID: comment.UserID, Name: authorName, Email: authorEmail}
		result = append(result, comment)
	}
	return result, rows.Err()
}
