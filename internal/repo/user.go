package repo

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var userColumns = []string{"id", "name", "email", "password_hash", "role", "department", "created_at", "updated_at"}

func scanUser(row interface{ Scan(...any) error }) (*User, error) {
	u := &User{}
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Department, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, normalize(err)
	}
	return u, nil
}

// CreateUser inserts u and fills its timestamps. A taken email yields ErrDuplicate.
func (q *Queries) CreateUser(ctx context.Context, u *User) error {
	query, args, err := q.sb.Insert("users").
		Columns("id", "name", "email", "password_hash", "role", "department").
		Values(u.ID, u.Name, strings.ToLower(u.Email), u.PasswordHash, u.Role, u.Department).
		Suffix("RETURNING email, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert user: %w", err)
	}
	if err := q.db.QueryRow(ctx, query, args...).Scan(&u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return normalize(err)
	}
	return nil
}

func (q *Queries) UserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	query, args, err := q.sb.Select(userColumns...).From("users").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user: %w", err)
	}
	return scanUser(q.db.QueryRow(ctx, query, args...))
}

func (q *Queries) UserByEmail(ctx context.Context, email string) (*User, error) {
	query, args, err := q.sb.Select(userColumns...).From("users").
		Where(sq.Expr("lower(email) = ?", strings.ToLower(email))).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user: %w", err)
	}
	return scanUser(q.db.QueryRow(ctx, query, args...))
}

// ListUsersByRole returns users with the given role ordered by name.
func (q *Queries) ListUsersByRole(ctx context.Context, role Role) ([]*User, error) {
	query, args, err := q.sb.Select(userColumns...).From("users").
		Where(sq.Eq{"role": role}).
		OrderBy("name ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list users: %w", err)
	}

	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
