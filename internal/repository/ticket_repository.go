package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/project-tracker/internal/domain"
)

// TicketFilter captures board listing parameters. All fields are ANDed.
type TicketFilter struct {
	ProjectID  string
	Status     *domain.TicketStatus
	Priority   *domain.TicketPriority
	AssigneeID *string
	Search     *string
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	// Update persists the mutable fields: title, description, status,
	// priority, assignee. Project and reporter are immutable.
	Update(ctx context.Context, ticket *domain.Ticket) error
	Delete(ctx context.Context, id string) error
	// ListByProject returns matching tickets newest-first with assignee and
	// reporter display fields populated.
	ListByProject(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	// ListForUser returns every ticket where the user is reporter or
	// assignee, with project and assignee display fields populated.
	ListForUser(ctx context.Context, userID string) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates the repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, description, priority, status, project_id, assignee_id, reporter_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Priority,
		ticket.Status,
		ticket.ProjectID,
		ticket.AssigneeID,
		ticket.ReporterID,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `
        SELECT id, title, description, priority, status, project_id, assignee_id, reporter_id,
               created_at, updated_at
        FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Priority,
		&ticket.Status,
		&ticket.ProjectID,
		&ticket.AssigneeID,
		&ticket.ReporterID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET title=$1, description=$2, status=$3, priority=$4, assignee_id=$5,
            updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.AssigneeID,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralizes LIKE metacharacters so a search term is matched as a
// literal substring.
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}

const populatedTicketColumns = `
        t.id, t.title, t.description, t.priority, t.status, t.project_id, t.assignee_id,
        t.reporter_id, t.created_at, t.updated_at,
        a.name, a.email, rep.name, rep.email, p.name, p.key`

func (r *ticketRepository) ListByProject(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"t.project_id = $1"}
	args := []any{filter.ProjectID}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("t.status = $%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("t.priority = $%d", len(args)))
	}
	if filter.AssigneeID != nil {
		args = append(args, *filter.AssigneeID)
		clauses = append(clauses, fmt.Sprintf("t.assignee_id = $%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		term := escapeLike(strings.ToLower(strings.TrimSpace(*filter.Search)))
		args = append(args, "%"+term+"%")
		clauses = append(clauses, fmt.Sprintf("LOWER(t.title) LIKE $%d", len(args)))
	}

	query := fmt.Sprintf(`
        SELECT %s
        FROM tickets t
        LEFT JOIN users a ON a.id = t.assignee_id
        JOIN users rep ON rep.id = t.reporter_id
        JOIN projects p ON p.id = t.project_id
        WHERE %s
        ORDER BY t.created_at DESC`, populatedTicketColumns, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPopulatedTickets(rows)
}

func (r *ticketRepository) ListForUser(ctx context.Context, userID string) ([]domain.Ticket, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM tickets t
        LEFT JOIN users a ON a.id = t.assignee_id
        JOIN users rep ON rep.id = t.reporter_id
        JOIN projects p ON p.id = t.project_id
        WHERE t.reporter_id = $1 OR t.assignee_id = $1
        ORDER BY t.created_at DESC`, populatedTicketColumns)

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPopulatedTickets(rows)
}

func scanPopulatedTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var (
			ticket                  domain.Ticket
			assigneeName            *string
			assigneeEmail           *string
			reporterName            string
			reporterEmail           string
			projectName, projectKey string
		)
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Title,
			&ticket.Description,
			&ticket.Priority,
			&ticket.Status,
			&ticket.ProjectID,
			&ticket.AssigneeID,
			&ticket.ReporterID,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
			&assigneeName,
			&assigneeEmail,
			&reporterName,
			&reporterEmail,
			&projectName,
			&projectKey,
		); err != nil {
			return nil, err
		}
		if ticket.AssigneeID != nil && assigneeName != nil && assigneeEmail != nil {
			ticket.Assignee = &domain.UserRef{ID: *ticket.AssigneeID, Name: *assigneeName, Email: *assigneeEmail}
		}
		ticket.Reporter = &domain.UserRef{ID: ticket.ReporterID, Name: reporterName, Email: reporterEmail}
		ticket.Project = &domain.ProjectRef{ID: ticket.ProjectID, Name: projectName, Key: projectKey}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
