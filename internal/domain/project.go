package domain

import "time"

// MemberRole enumerates per-project roles.
type MemberRole string

const (
	RoleAdmin     MemberRole = "admin"
	RoleManager   MemberRole = "manager"
	RoleDeveloper MemberRole = "developer"
	RoleViewer    MemberRole = "viewer"
)

// ValidMemberRole reports whether the value is part of the role vocabulary.
func ValidMemberRole(role MemberRole) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleDeveloper, RoleViewer:
		return true
	}
	return false
}

// ProjectKeyLength is the fixed length of a project key.
const ProjectKeyLength = 3

// Project is the aggregate for a tracked project. Key is a globally unique
// 3-letter uppercase code used in ticket references and breadcrumbs.
type Project struct {
	ID          string
	Name        string
	Description string
	Key         string
	OwnerID     string
	IsArchived  bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProjectRef is the populated display shape for dashboard ticket rows.
type ProjectRef struct {
	ID   string
	Name string
	Key  string
}

// ProjectMember grants a user a role within a project. The (project, user)
// pair is unique.
type ProjectMember struct {
	ID        string
	ProjectID string
	UserID    string
	Role      MemberRole
	CreatedAt time.Time
	UpdatedAt time.Time
}
