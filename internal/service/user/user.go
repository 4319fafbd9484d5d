package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Alijeyrad/officehours_backend/internal/repo"
)

type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*repo.User, error)
	ListProfessors(ctx context.Context) ([]*repo.PublicUser, error)
}

type userService struct {
	client *repo.Client
}

func New(client *repo.Client) Service {
	return &userService{client: client}
}

// GetByID retrieves a user by ID.
func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*repo.User, error) {
	u, err := s.client.UserByID(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return u, nil
}

// ListProfessors returns the public profile of every professor, ordered by name.
func (s *userService) ListProfessors(ctx context.Context) ([]*repo.PublicUser, error) {
	users, err := s.client.ListUsersByRole(ctx, repo.RoleProfessor)
	if err != nil {
		return nil, fmt.Errorf("failed to list professors: %w", err)
	}
	out := make([]*repo.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}
