package dto

import "storefront_backend/internal/feature/auth/domain/entity"

// UserRes is the public JSON view of a user.
type UserRes struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// UserEnvelope wraps a user in a success response.
type UserEnvelope struct {
	Success bool    `json:"success"`
	User    UserRes `json:"user"`
}

// NewUserEnvelope builds a UserEnvelope from the public user view.
func NewUserEnvelope(u entity.PublicUser) UserEnvelope {
	return UserEnvelope{
		Success: true,
		User:    UserRes{ID: u.ID, Email: u.Email, FullName: u.FullName},
	}
}

// ForgotPasswordRes is the body of a successful /auth/forgot-password.
// Token is omitted unless token exposure is enabled.
type ForgotPasswordRes struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}
