package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/project-tracker/internal/domain"
	"github.com/spec-kit/project-tracker/internal/repository"
)

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
}

type fakeUserRepo struct {
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
	nextID  int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    map[string]*domain.User{},
		byEmail: map[string]*domain.User{},
	}
}

func (r *fakeUserRepo) add(name, email string) *domain.User {
	r.nextID++
	user := &domain.User{
		ID:        fmt.Sprintf("user-%d", r.nextID),
		Name:      name,
		Email:     email,
		CreatedAt: time.Now(),
	}
	r.byID[user.ID] = user
	r.byEmail[user.Email] = user
	return user
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if _, ok := r.byEmail[user.Email]; ok {
		return uniqueViolation()
	}
	r.nextID++
	user.ID = fmt.Sprintf("user-%d", r.nextID)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.byID[user.ID] = &clone
	r.byEmail[user.Email] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

type fakeMemberRepo struct {
	rows   []domain.ProjectMember
	nextID int
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{}
}

func (r *fakeMemberRepo) find(projectID, userID string) *domain.ProjectMember {
	for i := range r.rows {
		if r.rows[i].ProjectID == projectID && r.rows[i].UserID == userID {
			return &r.rows[i]
		}
	}
	return nil
}

func (r *fakeMemberRepo) Insert(_ context.Context, member *domain.ProjectMember) error {
	if r.find(member.ProjectID, member.UserID) != nil {
		return uniqueViolation()
	}
	r.nextID++
	member.ID = fmt.Sprintf("member-%d", r.nextID)
	member.CreatedAt = time.Now()
	member.UpdatedAt = member.CreatedAt
	r.rows = append(r.rows, *member)
	return nil
}

func (r *fakeMemberRepo) Ensure(_ context.Context, projectID, userID string, role domain.MemberRole) (bool, error) {
	if r.find(projectID, userID) != nil {
		return false, nil
	}
	r.nextID++
	r.rows = append(r.rows, domain.ProjectMember{
		ID:        fmt.Sprintf("member-%d", r.nextID),
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
		CreatedAt: time.Now(),
	})
	return true, nil
}

func (r *fakeMemberRepo) ListUsersByProject(_ context.Context, projectID string) ([]domain.User, error) {
	var users []domain.User
	for _, row := range r.rows {
		if row.ProjectID == projectID {
			users = append(users, domain.User{ID: row.UserID})
		}
	}
	return users, nil
}

type fakeProjectRepo struct {
	projects map[string]*domain.Project
	byKey    map[string]*domain.Project
	members  *fakeMemberRepo
	// tickets backs ListAssigned; tests that exercise it wire a ticket
	// repo in after construction.
	tickets *fakeTicketRepo
	// createErrs is consumed one entry per CreateWithOwner call, letting
	// tests simulate insert-time unique violations.
	createErrs []error
	nextID     int
}

func newFakeProjectRepo(members *fakeMemberRepo) *fakeProjectRepo {
	return &fakeProjectRepo{
		projects: map[string]*domain.Project{},
		byKey:    map[string]*domain.Project{},
		members:  members,
	}
}

func (r *fakeProjectRepo) CreateWithOwner(ctx context.Context, project *domain.Project, ownerRole domain.MemberRole) error {
	if len(r.createErrs) > 0 {
		err := r.createErrs[0]
		r.createErrs = r.createErrs[1:]
		if err != nil {
			return err
		}
	}
	if _, ok := r.byKey[project.Key]; ok {
		return uniqueViolation()
	}
	r.nextID++
	project.ID = fmt.Sprintf("project-%d", r.nextID)
	project.CreatedAt = time.Now()
	project.UpdatedAt = project.CreatedAt
	clone := *project
	r.projects[project.ID] = &clone
	r.byKey[project.Key] = &clone

	return r.members.Insert(ctx, &domain.ProjectMember{
		ProjectID: project.ID,
		UserID:    project.OwnerID,
		Role:      ownerRole,
	})
}

func (r *fakeProjectRepo) GetByID(_ context.Context, id string) (*domain.Project, error) {
	project, ok := r.projects[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *project
	return &clone, nil
}

func (r *fakeProjectRepo) KeyExists(_ context.Context, key string) (bool, error) {
	_, ok := r.byKey[key]
	return ok, nil
}

func (r *fakeProjectRepo) ListByMember(_ context.Context, userID string) ([]domain.Project, error) {
	var out []domain.Project
	for _, row := range r.members.rows {
		if row.UserID != userID {
			continue
		}
		if project, ok := r.projects[row.ProjectID]; ok {
			out = append(out, *project)
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) ListAssigned(_ context.Context, userID string) ([]domain.Project, error) {
	if r.tickets == nil {
		return nil, nil
	}
	seen := map[string]bool{}
	var out []domain.Project
	for _, ticket := range r.tickets.newestFirst() {
		if ticket.AssigneeID == nil || *ticket.AssigneeID != userID || seen[ticket.ProjectID] {
			continue
		}
		seen[ticket.ProjectID] = true
		if project, ok := r.projects[ticket.ProjectID]; ok {
			out = append(out, *project)
		}
	}
	return out, nil
}

type fakeTicketRepo struct {
	tickets map[string]*domain.Ticket
	// order records insertion sequence so listings can mirror the
	// newest-first contract of the SQL queries.
	order  []string
	nextID int
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[string]*domain.Ticket{}}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.nextID++
	ticket.ID = fmt.Sprintf("ticket-%d", r.nextID)
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	clone := *ticket
	r.tickets[ticket.ID] = &clone
	r.order = append(r.order, ticket.ID)
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *ticket
	return &clone, nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *ticket
	clone.UpdatedAt = time.Now()
	r.tickets[ticket.ID] = &clone
	return nil
}

func (r *fakeTicketRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.tickets, id)
	for i, stored := range r.order {
		if stored == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// newestFirst yields tickets in reverse insertion order.
func (r *fakeTicketRepo) newestFirst() []*domain.Ticket {
	out := make([]*domain.Ticket, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		out = append(out, r.tickets[r.order[i]])
	}
	return out
}

func (r *fakeTicketRepo) ListByProject(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	var out []domain.Ticket
	for _, ticket := range r.newestFirst() {
		if ticket.ProjectID != filter.ProjectID {
			continue
		}
		if filter.Status != nil && ticket.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && ticket.Priority != *filter.Priority {
			continue
		}
		if filter.AssigneeID != nil && (ticket.AssigneeID == nil || *ticket.AssigneeID != *filter.AssigneeID) {
			continue
		}
		if filter.Search != nil && !strings.Contains(strings.ToLower(ticket.Title), strings.ToLower(*filter.Search)) {
			continue
		}
		out = append(out, *ticket)
	}
	return out, nil
}

func (r *fakeTicketRepo) ListForUser(_ context.Context, userID string) ([]domain.Ticket, error) {
	var out []domain.Ticket
	for _, ticket := range r.newestFirst() {
		if ticket.ReporterID == userID || (ticket.AssigneeID != nil && *ticket.AssigneeID == userID) {
			out = append(out, *ticket)
		}
	}
	return out, nil
}

type fakeCommentRepo struct {
	comments []domain.Comment
	nextID   int
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{}
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	r.nextID++
	comment.ID = fmt.Sprintf("comment-%d", r.nextID)
	comment.CreatedAt = time.Now()
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *fakeCommentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Comment, error) {
	var out []domain.Comment
	for _, comment := range r.comments {
		if comment.TicketID == ticketID {
			out = append(out, comment)
		}
	}
	return out, nil
}

type fakeRevocationStore struct {
	revoked map[string]time.Time
}

func newFakeRevocationStore() *fakeRevocationStore {
	return &fakeRevocationStore{revoked: map[string]time.Time{}}
}

func (s *fakeRevocationStore) Revoke(_ context.Context, jti string, until time.Time) error {
	s.revoked[jti] = until
	return nil
}

func (s *fakeRevocationStore) IsRevoked(_ context.Context, jti string) bool {
	_, ok := s.revoked[jti]
	return ok
}
