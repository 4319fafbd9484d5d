package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/officehours_backend/internal/repo"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type CreateRequest struct {
	StartTime time.Time
	EndTime   time.Time
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	// Browsing: any authenticated caller
	ListOpen(ctx context.Context) ([]*repo.Availability, error)
	ListOpenForProfessor(ctx context.Context, professorID uuid.UUID) ([]*repo.Availability, error)

	// Professor-owned slots
	ListOwn(ctx context.Context, actor repo.Actor) ([]*repo.Availability, error)
	Create(ctx context.Context, actor repo.Actor, req CreateRequest) (*repo.Availability, error)
	Delete(ctx context.Context, actor repo.Actor, slotID uuid.UUID) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type availabilityService struct {
	db *repo.Client
}

func New(db *repo.Client) Service {
	return &availabilityService{db: db}
}

func (s *availabilityService) ListOpen(ctx context.Context) ([]*repo.Availability, error) {
	slots, err := s.db.ListAvailabilities(ctx, repo.AvailabilityFilter{OnlyOpen: true, WithProfessor: true})
	if err != nil {
		return nil, fmt.Errorf("list open slots: %w", err)
	}
	return slots, nil
}

func (s *availabilityService) ListOpenForProfessor(ctx context.Context, professorID uuid.UUID) ([]*repo.Availability, error) {
	slots, err := s.db.ListAvailabilities(ctx, repo.AvailabilityFilter{
		ProfessorID:   &professorID,
		OnlyOpen:      true,
		WithProfessor: true,
	})
	if err != nil {
		return nil, fmt.Errorf("list professor slots: %w", err)
	}
	return slots, nil
}

func (s *availabilityService) ListOwn(ctx context.Context, actor repo.Actor) ([]*repo.Availability, error) {
	if actor.Role != repo.RoleProfessor {
		return nil, ErrForbidden
	}

	slots, err := s.db.ListAvailabilities(ctx, repo.AvailabilityFilter{ProfessorID: &actor.ID, OnlyOpen: true})
	if err != nil {
		return nil, fmt.Errorf("list own slots: %w", err)
	}
	return slots, nil
}

// Create does not check for overlap with the professor's other slots.
func (s *availabilityService) Create(ctx context.Context, actor repo.Actor, req CreateRequest) (*repo.Availability, error) {
	if actor.Role != repo.RoleProfessor {
		return nil, ErrForbidden
	}
	if req.StartTime.IsZero() || req.EndTime.IsZero() || !req.EndTime.After(req.StartTime) {
		return nil, ErrInvalidTimeRange
	}

	slot := &repo.Availability{
		ID:          uuid.Must(uuid.NewV7()),
		ProfessorID: actor.ID,
		StartTime:   req.StartTime.UTC(),
		EndTime:     req.EndTime.UTC(),
	}
	if err := s.db.CreateAvailability(ctx, slot); err != nil {
		return nil, fmt.Errorf("create slot: %w", err)
	}
	return slot, nil
}

func (s *availabilityService) Delete(ctx context.Context, actor repo.Actor, slotID uuid.UUID) error {
	if actor.Role != repo.RoleProfessor {
		return ErrForbidden
	}

	deleted, err := s.db.DeleteOpenAvailability(ctx, slotID, actor.ID)
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	if deleted {
		return nil
	}

	// Nothing removed: either not ours or booked.
	if _, err := s.db.OwnedAvailability(ctx, slotID, actor.ID); err != nil {
		if repo.IsNotFound(err) {
			return ErrSlotNotFound
		}
		return fmt.Errorf("get slot: %w", err)
	}
	return ErrSlotBooked
}
