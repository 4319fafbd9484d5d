package repo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var notificationColumns = []string{"id", "user_id", "type", "title", "body", "data", "read_at", "created_at"}

type NotificationFilter struct {
	UnreadOnly bool
	Limit      uint64
	Offset     uint64
}

func (q *Queries) CreateNotification(ctx context.Context, n *Notification) error {
	if n.Data == nil {
		n.Data = map[string]string{}
	}
	query, args, err := q.sb.Insert("notifications").
		Columns("id", "user_id", "type", "title", "body", "data").
		Values(n.ID, n.UserID, n.Type, n.Title, n.Body, n.Data).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert notification: %w", err)
	}
	return normalize(q.db.QueryRow(ctx, query, args...).Scan(&n.CreatedAt))
}

// ListNotifications returns the user's notifications, newest first.
func (q *Queries) ListNotifications(ctx context.Context, userID uuid.UUID, f NotificationFilter) ([]*Notification, error) {
	b := q.sb.Select(notificationColumns...).From("notifications").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC")
	if f.UnreadOnly {
		b = b.Where(sq.Eq{"read_at": nil})
	}
	if f.Limit > 0 {
		b = b.Limit(f.Limit).Offset(f.Offset)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list notifications: %w", err)
	}

	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*Notification, 0)
	for rows.Next() {
		n := &Notification{}
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Body, &n.Data, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkNotificationRead returns ErrNotFound unless the notification belongs to userID.
func (q *Queries) MarkNotificationRead(ctx context.Context, id, userID uuid.UUID) error {
	query, args, err := q.sb.Update("notifications").
		Set("read_at", sq.Expr("COALESCE(read_at, now())")).
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark read: %w", err)
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

func (q *Queries) MarkAllNotificationsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	query, args, err := q.sb.Update("notifications").
		Set("read_at", sq.Expr("now()")).
		Where(sq.Eq{"user_id": userID, "read_at": nil}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build mark all read: %w", err)
	}
	tag, err := q.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
