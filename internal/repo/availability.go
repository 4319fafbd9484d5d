package repo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var availabilityColumns = []string{
	"a.id", "a.professor_id", "a.start_time", "a.end_time", "a.is_booked", "a.created_at", "a.updated_at",
}

// AvailabilityFilter narrows ListAvailabilities. The zero value lists every slot.
type AvailabilityFilter struct {
	ProfessorID   *uuid.UUID
	OnlyOpen      bool
	WithProfessor bool
}

func scanAvailability(row interface{ Scan(...any) error }, withProfessor bool) (*Availability, error) {
	a := &Availability{}
	dest := []any{&a.ID, &a.ProfessorID, &a.StartTime, &a.EndTime, &a.IsBooked, &a.CreatedAt, &a.UpdatedAt}

	var p PublicUser
	if withProfessor {
		dest = append(dest, &p.Name, &p.Email, &p.Department)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, normalize(err)
	}
	if withProfessor {
		p.ID = a.ProfessorID
		a.Professor = &p
	}
	return a, nil
}

func (q *Queries) CreateAvailability(ctx context.Context, a *Availability) error {
	query, args, err := q.sb.Insert("availabilities").
		Columns("id", "professor_id", "start_time", "end_time", "is_booked").
		Values(a.ID, a.ProfessorID, a.StartTime, a.EndTime, false).
		Suffix("RETURNING is_booked, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert availability: %w", err)
	}
	return normalize(q.db.QueryRow(ctx, query, args...).Scan(&a.IsBooked, &a.CreatedAt, &a.UpdatedAt))
}

// ListAvailabilities returns slots ordered by start time.
func (q *Queries) ListAvailabilities(ctx context.Context, f AvailabilityFilter) ([]*Availability, error) {
	cols := availabilityColumns
	if f.WithProfessor {
		cols = append(append([]string{}, availabilityColumns...), "u.name", "u.email", "u.department")
	}

	b := q.sb.Select(cols...).From("availabilities a")
	if f.WithProfessor {
		b = b.Join("users u ON u.id = a.professor_id")
	}
	if f.ProfessorID != nil {
		b = b.Where(sq.Eq{"a.professor_id": *f.ProfessorID})
	}
	if f.OnlyOpen {
		b = b.Where(sq.Eq{"a.is_booked": false})
	}

	query, args, err := b.OrderBy("a.start_time ASC", "a.id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list availabilities: %w", err)
	}

	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*Availability, 0)
	for rows.Next() {
		a, err := scanAvailability(rows, f.WithProfessor)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (q *Queries) AvailabilityByID(ctx context.Context, id uuid.UUID) (*Availability, error) {
	query, args, err := q.sb.Select(availabilityColumns...).From("availabilities a").
		Where(sq.Eq{"a.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select availability: %w", err)
	}
	return scanAvailability(q.db.QueryRow(ctx, query, args...), false)
}

// OwnedAvailability looks a slot up by id and owner together, so a slot
// owned by someone else is indistinguishable from a missing one.
func (q *Queries) OwnedAvailability(ctx context.Context, id, professorID uuid.UUID) (*Availability, error) {
	query, args, err := q.sb.Select(availabilityColumns...).From("availabilities a").
		Where(sq.Eq{"a.id": id, "a.professor_id": professorID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select availability: %w", err)
	}
	return scanAvailability(q.db.QueryRow(ctx, query, args...), false)
}

// DeleteOpenAvailability deletes the slot only if professorID owns it and it
// is unbooked. It reports whether a row was removed.
func (q *Queries) DeleteOpenAvailability(ctx context.Context, id, professorID uuid.UUID) (bool, error) {
	query, args, err := q.sb.Delete("availabilities").
		Where(sq.Eq{"id": id, "professor_id": professorID, "is_booked": false}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build delete availability: %w", err)
	}
	tag, err := q.db.Exec(ctx, query, args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// ClaimAvailability flips is_booked false→true in a single conditional
// update. ErrNotFound means the slot is missing or already booked.
func (q *Queries) ClaimAvailability(ctx context.Context, id uuid.UUID) (*Availability, error) {
	query, args, err := q.sb.Update("availabilities").
		Set("is_booked", true).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id, "is_booked": false}).
		Suffix("RETURNING id, professor_id, start_time, end_time, is_booked, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build claim availability: %w", err)
	}
	return scanAvailability(q.db.QueryRow(ctx, query, args...), false)
}

// ReleaseAvailability marks the slot open again. A missing slot is not an error.
func (q *Queries) ReleaseAvailability(ctx context.Context, id uuid.UUID) error {
	query, args, err := q.sb.Update("availabilities").
		Set("is_booked", false).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build release availability: %w", err)
	}
	_, err = q.db.Exec(ctx, query, args...)
	return err
}
