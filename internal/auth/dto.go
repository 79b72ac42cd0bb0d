// AngelaMos | 2026
// dto.go

package auth

import (
	"time"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required,max=128"`
}

type RegisterUser struct {
	Username string `json:"username" validate:"required,max=150,username"`
	Email    string `json:"email"    validate:"omitempty,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// RegisterRequest is the registration payload: the base identity under
// "user" plus the profile fields of the requested role. Position is only
// read for employees.
type RegisterRequest struct {
	User     RegisterUser `json:"user"`
	Phone    *string      `json:"phone"    validate:"omitempty,max=15"`
	Address  *string      `json:"address"`
	IsActive *bool        `json:"is_active"`
	Position *string      `json:"position" validate:"omitempty,max=100"`
}

type RegisteredUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type RegisterResponse struct {
	User    RegisteredUser `json:"user"`
	Profile any            `json:"profile"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type TokenResponse struct {
	Access    string        `json:"access"`
	Refresh   string        `json:"refresh"`
	TokenType string        `json:"token_type"`
	ExpiresIn int           `json:"expires_in"`
	ExpiresAt time.Time     `json:"expires_at"`
	User      *UserResponse `json:"user,omitempty"`
}

type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsStaff  bool   `json:"is_staff"`
}

type SessionInfo struct {
	ID        string    `json:"id"`
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SessionsResponse struct {
	Sessions []SessionInfo `json:"sessions"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,max=128"`
}

func toUserResponse(u *UserInfo) *UserResponse {
	return &UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		IsStaff:  u.IsStaff,
	}
}
