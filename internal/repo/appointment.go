package repo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var appointmentColumns = []string{
	"ap.id", "ap.student_id", "ap.professor_id", "ap.availability_id",
	"ap.status", "ap.notes", "ap.created_at", "ap.updated_at",
}

// AppointmentFilter narrows ListAppointments. Nil fields are ignored.
type AppointmentFilter struct {
	ID          *uuid.UUID
	StudentID   *uuid.UUID
	ProfessorID *uuid.UUID
	Status      *AppointmentStatus
}

func scanAppointment(row interface{ Scan(...any) error }) (*Appointment, error) {
	a := &Appointment{}
	err := row.Scan(&a.ID, &a.StudentID, &a.ProfessorID, &a.AvailabilityID,
		&a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, normalize(err)
	}
	return a, nil
}

func (q *Queries) CreateAppointment(ctx context.Context, a *Appointment) error {
	query, args, err := q.sb.Insert("appointments").
		Columns("id", "student_id", "professor_id", "availability_id", "status", "notes").
		Values(a.ID, a.StudentID, a.ProfessorID, a.AvailabilityID, a.Status, a.Notes).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert appointment: %w", err)
	}
	return normalize(q.db.QueryRow(ctx, query, args...).Scan(&a.CreatedAt, &a.UpdatedAt))
}

func (q *Queries) AppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return q.appointmentByID(ctx, id, "")
}

// AppointmentForUpdate reads the row with FOR UPDATE; call it inside WithTx.
func (q *Queries) AppointmentForUpdate(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return q.appointmentByID(ctx, id, "FOR UPDATE")
}

func (q *Queries) appointmentByID(ctx context.Context, id uuid.UUID, suffix string) (*Appointment, error) {
	b := q.sb.Select(appointmentColumns...).From("appointments ap").Where(sq.Eq{"ap.id": id})
	if suffix != "" {
		b = b.Suffix(suffix)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select appointment: %w", err)
	}
	return scanAppointment(q.db.QueryRow(ctx, query, args...))
}

// SetAppointmentStatus updates the status and returns ErrNotFound when no row matched.
func (q *Queries) SetAppointmentStatus(ctx context.Context, id uuid.UUID, status AppointmentStatus) error {
	query, args, err := q.sb.Update("appointments").
		Set("status", status).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update appointment: %w", err)
	}
	tag, err := q.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAppointments returns appointments joined with both participants and
// the slot, ordered by the slot's start time. Rows whose slot was deleted
// sort last.
func (q *Queries) ListAppointments(ctx context.Context, f AppointmentFilter) ([]*Appointment, error) {
	cols := append(append([]string{}, appointmentColumns...),
		"s.name", "s.email", "s.department",
		"p.name", "p.email", "p.department",
		"av.id", "av.start_time", "av.end_time", "av.is_booked", "av.created_at", "av.updated_at",
	)

	b := q.sb.Select(cols...).
		From("appointments ap").
		Join("users s ON s.id = ap.student_id").
		Join("users p ON p.id = ap.professor_id").
		LeftJoin("availabilities av ON av.id = ap.availability_id")

	if f.ID != nil {
		b = b.Where(sq.Eq{"ap.id": *f.ID})
	}
	if f.StudentID != nil {
		b = b.Where(sq.Eq{"ap.student_id": *f.StudentID})
	}
	if f.ProfessorID != nil {
		b = b.Where(sq.Eq{"ap.professor_id": *f.ProfessorID})
	}
	if f.Status != nil {
		b = b.Where(sq.Eq{"ap.status": *f.Status})
	}

	query, args, err := b.OrderBy("av.start_time ASC NULLS LAST", "ap.created_at ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list appointments: %w", err)
	}

	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*Appointment, 0)
	for rows.Next() {
		var (
			a      Appointment
			st, pr PublicUser
			avID   *uuid.UUID
			avFrom *time.Time
			avTo   *time.Time
			avBook *bool
			avCrt  *time.Time
			avUpd  *time.Time
		)
		if err := rows.Scan(
			&a.ID, &a.StudentID, &a.ProfessorID, &a.AvailabilityID,
			&a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
			&st.Name, &st.Email, &st.Department,
			&pr.Name, &pr.Email, &pr.Department,
			&avID, &avFrom, &avTo, &avBook, &avCrt, &avUpd,
		); err != nil {
			return nil, err
		}

		st.ID = a.StudentID
		pr.ID = a.ProfessorID
		a.Student = &st
		a.Professor = &pr
		if avID != nil {
			a.Availability = &Availability{
				ID:          *avID,
				ProfessorID: a.ProfessorID,
				StartTime:   *avFrom,
				EndTime:     *avTo,
				IsBooked:    *avBook,
				CreatedAt:   *avCrt,
				UpdatedAt:   *avUpd,
			}
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

// AppointmentDetail is ListAppointments narrowed to one id.
func (q *Queries) AppointmentDetail(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	list, err := q.ListAppointments(ctx, AppointmentFilter{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNotFound
	}
	return list[0], nil
}
