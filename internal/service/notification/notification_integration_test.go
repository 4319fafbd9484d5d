package notification_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/officehours_backend/internal/events"
	"github.com/Alijeyrad/officehours_backend/internal/repo"
	"github.com/Alijeyrad/officehours_backend/internal/repo/repotest"
	"github.com/Alijeyrad/officehours_backend/internal/service/appointment"
	"github.com/Alijeyrad/officehours_backend/internal/service/notification"
	"github.com/Alijeyrad/officehours_backend/pkg/email"
)

type recordingMailer struct{ sent []email.Message }

func (r *recordingMailer) Send(_ context.Context, m email.Message) error {
	r.sent = append(r.sent, m)
	return nil
}

func TestHandleAppointmentEvent(t *testing.T) {
	db := repotest.Open(t)
	ctx := context.Background()
	mailer := &recordingMailer{}
	svc := notification.New(db, mailer, "officehours")

	prof := repotest.CreateUser(t, db, repo.RoleProfessor)
	student := repotest.CreateUser(t, db, repo.RoleStudent)
	slot := repotest.CreateSlot(t, db, prof.ID, time.Now().Add(48*time.Hour))

	appt, err := appointment.New(db, nil).Book(ctx, repo.Actor{ID: student.ID, Role: repo.RoleStudent}, appointment.BookRequest{AvailabilityID: slot.ID})
	if err != nil {
		t.Fatalf("Book() error = %v", err)
	}

	ev := events.AppointmentEvent{AppointmentID: appt.ID, ActorID: student.ID, OccurredAt: time.Now()}
	if err := svc.HandleAppointmentEvent(ctx, events.KindBooked, ev); err != nil {
		t.Fatalf("HandleAppointmentEvent() error = %v", err)
	}

	list, err := svc.List(ctx, prof.ID, notification.ListRequest{UnreadOnly: true})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 || list[0].Type != "appointment_booked" || list[0].Data["appointmentId"] != appt.ID.String() {
		t.Fatalf("List() = %+v", list)
	}
	if len(mailer.sent) != 1 || mailer.sent[0].To[0] != prof.Email {
		t.Fatalf("mail = %+v", mailer.sent)
	}
	if mailer.sent[0].AppointmentID != appt.ID.String() || mailer.sent[0].Kind != "booked" {
		t.Errorf("mail context = %q/%q", mailer.sent[0].Kind, mailer.sent[0].AppointmentID)
	}

	studentList, err := svc.List(ctx, student.ID, notification.ListRequest{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(studentList) != 0 {
		t.Errorf("actor received %d notifications", len(studentList))
	}

	missing := events.AppointmentEvent{AppointmentID: uuid.New(), ActorID: student.ID}
	if err := svc.HandleAppointmentEvent(ctx, events.KindBooked, missing); !repo.IsNotFound(err) {
		t.Errorf("missing appointment error = %v", err)
	}
}

func TestReadState(t *testing.T) {
	db := repotest.Open(t)
	ctx := context.Background()
	svc := notification.New(db, nil, "")

	u := repotest.CreateUser(t, db, repo.RoleStudent)
	other := repotest.CreateUser(t, db, repo.RoleStudent)

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		n, err := svc.Create(ctx, notification.CreateRequest{UserID: u.ID, Type: "test", Title: "hello"})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if v := n.ID.Version(); v != 7 {
			t.Errorf("notification id version = %d, want 7", v)
		}
		ids = append(ids, n.ID)
	}

	if err := svc.MarkRead(ctx, ids[0], other.ID); !errors.Is(err, notification.ErrNotFound) {
		t.Fatalf("MarkRead() by other user error = %v, want ErrNotFound", err)
	}
	if err := svc.MarkRead(ctx, ids[0], u.ID); err != nil {
		t.Fatalf("MarkRead() error = %v", err)
	}

	unread, err := svc.List(ctx, u.ID, notification.ListRequest{UnreadOnly: true})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(unread) != 2 {
		t.Fatalf("unread = %d, want 2", len(unread))
	}

	page, err := svc.List(ctx, u.ID, notification.ListRequest{Page: 2, PerPage: 2})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(page) != 1 {
		t.Errorf("page 2 = %d items, want 1", len(page))
	}

	n, err := svc.MarkAllRead(ctx, u.ID)
	if err != nil {
		t.Fatalf("MarkAllRead() error = %v", err)
	}
	if n != 2 {
		t.Errorf("MarkAllRead() = %d, want 2", n)
	}
}
