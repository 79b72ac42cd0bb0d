// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/carterperez-dev/templates/crm-backend/internal/auth"
	"github.com/carterperez-dev/templates/crm-backend/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByUsername(
	ctx context.Context,
	username string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) IncrementTokenVersion(
	ctx context.Context,
	userID string,
) error {
	return s.repo.IncrementTokenVersion(ctx, userID)
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

// CreateSuperuser provisions a staff identity outside the registration flow.
func (s *Service) CreateSuperuser(
	ctx context.Context,
	username, email, password string,
) (*User, error) {
	hash, err := core.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsStaff:      true,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	return s.repo.List(ctx, params)
}

// SetStaff flips the staff flag. Outstanding access tokens are invalidated
// through the token version bump.
func (s *Service) SetStaff(
	ctx context.Context,
	requesterID, targetID string,
	isStaff bool,
) (*User, error) {
	if requesterID == targetID && !isStaff {
		return nil, fmt.Errorf("demote self: %w", core.ErrForbidden)
	}

	if err := s.repo.UpdateStaff(ctx, targetID, isStaff); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, targetID)
}

func (s *Service) DeleteUser(
	ctx context.Context,
	requesterID, targetID string,
) error {
	if requesterID == targetID {
		return fmt.Errorf("delete self: %w", core.ErrForbidden)
	}

	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}

	if target.IsAdmin() {
		return fmt.Errorf("cannot delete staff users: %w", core.ErrForbidden)
	}

	return s.repo.Delete(ctx, targetID)
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		IsStaff:      u.IsStaff,
		TokenVersion: u.TokenVersion,
	}
}

var _ auth.UserProvider = (*Service)(nil)
