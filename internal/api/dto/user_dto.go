package dto

import "github.com/spec-kit/project-tracker/internal/domain"

// RegisterRequest payload.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the public account shape.
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewUserResponse maps a user to its public shape.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{ID: user.ID, Name: user.Name, Email: user.Email}
}

// UserRefResponse is the populated display shape for embedded references.
type UserRefResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewUserRefResponse maps an optional ref.
func NewUserRefResponse(ref *domain.UserRef) *UserRefResponse {
	if ref == nil {
		return nil
	}
	return &UserRefResponse{ID: ref.ID, Name: ref.Name, Email: ref.Email}
}
