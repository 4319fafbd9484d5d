package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/officehours_backend/internal/repo"
)

// Role and input checks run before any query, so a nil client is enough.
func TestRoleAndInputChecks(t *testing.T) {
	svc := New(nil)
	ctx := context.Background()
	student := repo.Actor{ID: uuid.New(), Role: repo.RoleStudent}
	prof := repo.Actor{ID: uuid.New(), Role: repo.RoleProfessor}
	start := time.Now().Add(24 * time.Hour)

	tests := []struct {
		name string
		call func() error
		want error
	}{
		{"student lists own", func() error { _, err := svc.ListOwn(ctx, student); return err }, ErrForbidden},
		{"student creates", func() error {
			_, err := svc.Create(ctx, student, CreateRequest{StartTime: start, EndTime: start.Add(time.Hour)})
			return err
		}, ErrForbidden},
		{"student deletes", func() error { return svc.Delete(ctx, student, uuid.New()) }, ErrForbidden},
		{"missing start", func() error {
			_, err := svc.Create(ctx, prof, CreateRequest{EndTime: start})
			return err
		}, ErrInvalidTimeRange},
		{"end before start", func() error {
			_, err := svc.Create(ctx, prof, CreateRequest{StartTime: start, EndTime: start.Add(-time.Minute)})
			return err
		}, ErrInvalidTimeRange},
		{"zero length", func() error {
			_, err := svc.Create(ctx, prof, CreateRequest{StartTime: start, EndTime: start})
			return err
		}, ErrInvalidTimeRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
		})
	}
}
