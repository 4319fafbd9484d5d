package appointment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/Alijeyrad/officehours_backend/internal/events"
	"github.com/Alijeyrad/officehours_backend/internal/repo"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type BookRequest struct {
	AvailabilityID uuid.UUID
	Notes          string
}

type ListRequest struct {
	Status *repo.AppointmentStatus
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	Book(ctx context.Context, actor repo.Actor, req BookRequest) (*repo.Appointment, error)
	ListForStudent(ctx context.Context, actor repo.Actor, req ListRequest) ([]*repo.Appointment, error)
	ListForProfessor(ctx context.Context, actor repo.Actor, req ListRequest) ([]*repo.Appointment, error)
	Cancel(ctx context.Context, actor repo.Actor, apptID uuid.UUID) error
	Complete(ctx context.Context, actor repo.Actor, apptID uuid.UUID) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type appointmentService struct {
	db     *repo.Client
	events *events.Publisher

	booked    metric.Int64Counter
	cancelled metric.Int64Counter
	completed metric.Int64Counter
}

func New(db *repo.Client, pub *events.Publisher) Service {
	meter := otel.Meter("officehours/appointment")
	booked, _ := meter.Int64Counter("appointments_booked_total", metric.WithDescription("Appointments booked"))
	cancelled, _ := meter.Int64Counter("appointments_cancelled_total", metric.WithDescription("Appointments cancelled"))
	completed, _ := meter.Int64Counter("appointments_completed_total", metric.WithDescription("Appointments completed"))

	return &appointmentService{
		db:        db,
		events:    pub,
		booked:    booked,
		cancelled: cancelled,
		completed: completed,
	}
}

func (s *appointmentService) Book(ctx context.Context, actor repo.Actor, req BookRequest) (*repo.Appointment, error) {
	if actor.Role != repo.RoleStudent {
		return nil, ErrStudentsOnly
	}

	apptID := uuid.Must(uuid.NewV7())
	var booked *repo.Appointment

	err := s.db.WithTx(ctx, func(q *repo.Queries) error {
		// Lock the slot atomically; of concurrent bookings only one gets a row back.
		slot, err := q.ClaimAvailability(ctx, req.AvailabilityID)
		if err != nil {
			if !repo.IsNotFound(err) {
				return fmt.Errorf("claim slot: %w", err)
			}
			if _, err := q.AvailabilityByID(ctx, req.AvailabilityID); err != nil {
				if repo.IsNotFound(err) {
					return ErrSlotNotFound
				}
				return fmt.Errorf("get slot: %w", err)
			}
			return ErrSlotNotAvailable
		}

		appt := &repo.Appointment{
			ID:             apptID,
			StudentID:      actor.ID,
			ProfessorID:    slot.ProfessorID,
			AvailabilityID: &slot.ID,
			Status:         repo.StatusScheduled,
			Notes:          strings.TrimSpace(req.Notes),
		}
		if err := q.CreateAppointment(ctx, appt); err != nil {
			if repo.IsDuplicate(err) {
				return ErrSlotNotAvailable
			}
			return fmt.Errorf("create appointment: %w", err)
		}
		appt.Availability = slot
		booked = appt
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.booked.Add(ctx, 1)
	s.events.Publish(events.KindBooked, apptID, actor.ID)

	return withParticipants(ctx, booked, s.db.AppointmentDetail), nil
}

// withParticipants reloads a committed booking with its professor and
// student. The booking already exists, so a failed reload returns the
// inserted row and its claimed slot instead of an error.
func withParticipants(ctx context.Context, booked *repo.Appointment, load func(context.Context, uuid.UUID) (*repo.Appointment, error)) *repo.Appointment {
	appt, err := load(ctx, booked.ID)
	if err != nil {
		slog.WarnContext(ctx, "appointment booked but reload failed", "appointment_id", booked.ID, "err", err)
		return booked
	}
	return appt
}

func (s *appointmentService) ListForStudent(ctx context.Context, actor repo.Actor, req ListRequest) ([]*repo.Appointment, error) {
	if actor.Role != repo.RoleStudent {
		return nil, ErrStudentView
	}
	if req.Status != nil && !req.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	appts, err := s.db.ListAppointments(ctx, repo.AppointmentFilter{StudentID: &actor.ID, Status: req.Status})
	if err != nil {
		return nil, fmt.Errorf("list student appointments: %w", err)
	}
	for _, a := range appts {
		a.Student = nil
	}
	return appts, nil
}

func (s *appointmentService) ListForProfessor(ctx context.Context, actor repo.Actor, req ListRequest) ([]*repo.Appointment, error) {
	if actor.Role != repo.RoleProfessor {
		return nil, ErrProfessorView
	}
	if req.Status != nil && !req.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	appts, err := s.db.ListAppointments(ctx, repo.AppointmentFilter{ProfessorID: &actor.ID, Status: req.Status})
	if err != nil {
		return nil, fmt.Errorf("list professor appointments: %w", err)
	}
	for _, a := range appts {
		a.Professor = nil
	}
	return appts, nil
}

// Cancel is idempotent: cancelling a cancelled appointment succeeds without
// touching the slot, which may already belong to a newer booking.
func (s *appointmentService) Cancel(ctx context.Context, actor repo.Actor, apptID uuid.UUID) error {
	changed := false

	err := s.db.WithTx(ctx, func(q *repo.Queries) error {
		appt, err := q.AppointmentForUpdate(ctx, apptID)
		if err != nil {
			if repo.IsNotFound(err) {
				return ErrNotFound
			}
			return fmt.Errorf("get appointment: %w", err)
		}

		if !appt.IsParticipant(actor.ID) {
			return ErrForbidden
		}

		switch appt.Status {
		case repo.StatusCancelled:
			return nil
		case repo.StatusCompleted:
			return ErrAlreadyCompleted
		}

		if err := q.SetAppointmentStatus(ctx, appt.ID, repo.StatusCancelled); err != nil {
			return fmt.Errorf("cancel appointment: %w", err)
		}

		// Reopen the slot; a deleted slot leaves nothing to reopen.
		if appt.AvailabilityID != nil {
			if err := q.ReleaseAvailability(ctx, *appt.AvailabilityID); err != nil {
				return fmt.Errorf("release slot: %w", err)
			}
		}

		changed = true
		return nil
	})
	if err != nil {
		return err
	}

	if changed {
		s.cancelled.Add(ctx, 1)
		s.events.Publish(events.KindCancelled, apptID, actor.ID)
	}
	return nil
}

// Complete is reserved to the appointment's professor. The slot stays booked.
func (s *appointmentService) Complete(ctx context.Context, actor repo.Actor, apptID uuid.UUID) error {
	err := s.db.WithTx(ctx, func(q *repo.Queries) error {
		appt, err := q.AppointmentForUpdate(ctx, apptID)
		if err != nil {
			if repo.IsNotFound(err) {
				return ErrNotFound
			}
			return fmt.Errorf("get appointment: %w", err)
		}

		if actor.Role != repo.RoleProfessor || appt.ProfessorID != actor.ID {
			return ErrForbidden
		}

		switch appt.Status {
		case repo.StatusCompleted:
			return ErrAlreadyCompleted
		case repo.StatusCancelled:
			return ErrAlreadyCancelled
		}

		return q.SetAppointmentStatus(ctx, appt.ID, repo.StatusCompleted)
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.completed.Add(ctx, 1)
	s.events.Publish(events.KindCompleted, apptID, actor.ID)
	return nil
}
