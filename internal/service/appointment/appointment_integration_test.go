package appointment_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/officehours_backend/internal/repo"
	"github.com/Alijeyrad/officehours_backend/internal/repo/repotest"
	"github.com/Alijeyrad/officehours_backend/internal/service/appointment"
	"github.com/Alijeyrad/officehours_backend/internal/service/availability"
)

func actorOf(u *repo.User) repo.Actor {
	return repo.Actor{ID: u.ID, Role: u.Role}
}

func slotBooked(t *testing.T, db *repo.Client, id uuid.UUID) bool {
	t.Helper()
	a, err := db.AvailabilityByID(context.Background(), id)
	if err != nil {
		t.Fatalf("AvailabilityByID() error = %v", err)
	}
	return a.IsBooked
}

func TestBook(t *testing.T) {
	db := repotest.Open(t)
	svc := appointment.New(db, nil)
	ctx := context.Background()

	prof := repotest.CreateUser(t, db, repo.RoleProfessor)
	student := repotest.CreateUser(t, db, repo.RoleStudent)
	other := repotest.CreateUser(t, db, repo.RoleStudent)
	slot := repotest.CreateSlot(t, db, prof.ID, time.Now().Add(24*time.Hour))

	appt, err := svc.Book(ctx, actorOf(student), appointment.BookRequest{AvailabilityID: slot.ID, Notes: "thesis draft"})
	if err != nil {
		t.Fatalf("Book() error = %v", err)
	}
	if appt.Status != repo.StatusScheduled || appt.StudentID != student.ID || appt.ProfessorID != prof.ID {
		t.Errorf("Book() = %+v", appt)
	}
	if appt.Professor == nil || appt.Professor.Email != prof.Email {
		t.Errorf("professor not joined: %+v", appt.Professor)
	}
	if appt.Availability == nil || appt.Availability.ID != slot.ID || !appt.Availability.IsBooked {
		t.Errorf("availability not joined: %+v", appt.Availability)
	}
	if appt.Notes != "thesis draft" {
		t.Errorf("notes = %q", appt.Notes)
	}

	_, err = svc.Book(ctx, actorOf(other), appointment.BookRequest{AvailabilityID: slot.ID})
	if !errors.Is(err, appointment.ErrSlotNotAvailable) {
		t.Fatalf("second Book() error = %v, want ErrSlotNotAvailable", err)
	}

	list, err := svc.ListForStudent(ctx, actorOf(other), appointment.ListRequest{})
	if err != nil {
		t.Fatalf("ListForStudent() error = %v", err)
	}
	if len(list) != 0 {
		t.Errorf("failed booking created %d appointments", len(list))
	}

	_, err = svc.Book(ctx, actorOf(other), appointment.BookRequest{AvailabilityID: uuid.New()})
	if !errors.Is(err, appointment.ErrSlotNotFound) {
		t.Fatalf("Book(unknown) error = %v, want ErrSlotNotFound", err)
	}
}

func TestBookConcurrentSingleWinner(t *testing.T) {
	db := repotest.Open(t)
	svc := appointment.New(db, nil)
	ctx := context.Background()

	prof := repotest.CreateUser(t, db, repo.RoleProfessor)
	slot := repotest.CreateSlot(t, db, prof.ID, time.Now().Add(24*time.Hour))

	const n = 8
	students := make([]*repo.User, n)
	for i := range students {
		students[i] = repotest.CreateUser(t, db, repo.RoleStudent)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		winners  int
		conflict int
	)
	for _, s := range students {
		wg.Add(1)
		go func(s *repo.User) {
			defer wg.Done()
			_, err := svc.Book(ctx, actorOf(s), appointment.BookRequest{AvailabilityID: slot.ID})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners++
			case errors.Is(err, appointment.ErrSlotNotAvailable):
				conflict++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(s)
	}
	wg.Wait()

	if winners != 1 || conflict != n-1 {
		t.Fatalf("winners = %d conflicts = %d, want 1 and %d", winners, conflict, n-1)
	}

	profAppts, err := svc.ListForProfessor(ctx, actorOf(prof), appointment.ListRequest{})
	if err != nil {
		t.Fatalf("ListForProfessor() error = %v", err)
	}
	if len(profAppts) != 1 {
		t.Errorf("appointments for slot = %d, want 1", len(profAppts))
	}
}

func TestCancel(t *testing.T) {
	db := repotest.Open(t)
	svc := appointment.New(db, nil)
	ctx := context.Background()

	prof := repotest.CreateUser(t, db, repo.RoleProfessor)
	student := repotest.CreateUser(t, db, repo.RoleStudent)
	stranger := repotest.CreateUser(t, db, repo.RoleStudent)
	slot := repotest.CreateSlot(t, db, prof.ID, time.Now().Add(24*time.Hour))

	appt, err := svc.Book(ctx, actorOf(student), appointment.BookRequest{AvailabilityID: slot.ID})
	if err != nil {
		t.Fatalf("Book() error = %v", err)
	}

	if err := svc.Cancel(ctx, actorOf(stranger), appt.ID); !errors.Is(err, appointment.ErrForbidden) {
		t.Fatalf("Cancel(stranger) error = %v, want ErrForbidden", err)
	}
	if err := svc.Cancel(ctx, actorOf(student), uuid.New()); !errors.Is(err, appointment.ErrNotFound) {
		t.Fatalf("Cancel(unknown) error = %v, want ErrNotFound", err)
	}

	if err := svc.Cancel(ctx, actorOf(student), appt.ID); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if slotBooked(t, db, slot.ID) {
		t.Error("slot should be open after cancel")
	}

	// Rebook by someone else, then re-cancel the first one: it must not
	// reopen the slot under the new booking.
	again, err := svc.Book(ctx, actorOf(stranger), appointment.BookRequest{AvailabilityID: slot.ID})
	if err != nil {
		t.Fatalf("rebook error = %v", err)
	}
	if err := svc.Cancel(ctx, actorOf(student), appt.ID); err != nil {
		t.Fatalf("re-cancel error = %v", err)
	}
	if !slotBooked(t, db, slot.ID) {
		t.Error("re-cancel reopened a slot held by another booking")
	}

	scheduled := repo.StatusScheduled
	list, err := svc.ListForStudent(ctx, actorOf(student), appointment.ListRequest{Status: &scheduled})
	if err != nil {
		t.Fatalf("ListForStudent() error = %v", err)
	}
	if len(list) != 0 {
		t.Errorf("scheduled after cancel = %d, want 0", len(list))
	}

	if err := svc.Cancel(ctx, actorOf(prof), again.ID); err != nil {
		t.Fatalf("professor Cancel() error = %v", err)
	}
}

func TestCancelAfterSlotDeleted(t *testing.T) {
	db := repotest.Open(t)
	svc := appointment.New(db, nil)
	slots := availability.New(db)
	ctx := context.Background()

	prof := repotest.CreateUser(t, db, repo.RoleProfessor)
	student := repotest.CreateUser(t, db, repo.RoleStudent)
	slot := repotest.CreateSlot(t, db, prof.ID, time.Now().Add(24*time.Hour))

	first, err := svc.Book(ctx, actorOf(student), appointment.BookRequest{AvailabilityID: slot.ID})
	if err != nil {
		t.Fatalf("Book() error = %v", err)
	}
	if err := svc.Cancel(ctx, actorOf(student), first.ID); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if err := slots.Delete(ctx, actorOf(prof), slot.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	list, err := svc.ListForStudent(ctx, actorOf(student), appointment.ListRequest{})
	if err != nil {
		t.Fatalf("ListForStudent() error = %v", err)
	}
	if len(list) != 1 || list[0].Availability != nil || list[0].AvailabilityID != nil {
		t.Fatalf("history after slot delete = %+v", list)
	}
	if err := svc.Cancel(ctx, actorOf(student), first.ID); err != nil {
		t.Fatalf("Cancel() with deleted slot error = %v", err)
	}
}

func TestComplete(t *testing.T) {
	db := repotest.Open(t)
	svc := appointment.New(db, nil)
	ctx := context.Background()

	prof := repotest.CreateUser(t, db, repo.RoleProfessor)
	otherProf := repotest.CreateUser(t, db, repo.RoleProfessor)
	student := repotest.CreateUser(t, db, repo.RoleStudent)
	slot := repotest.CreateSlot(t, db, prof.ID, time.Now().Add(24*time.Hour))

	appt, err := svc.Book(ctx, actorOf(student), appointment.BookRequest{AvailabilityID: slot.ID})
	if err != nil {
		t.Fatalf("Book() error = %v", err)
	}

	tests := []struct {
		name  string
		actor repo.Actor
		id    uuid.UUID
		want  error
	}{
		{"student", actorOf(student), appt.ID, appointment.ErrForbidden},
		{"other professor", actorOf(otherProf), appt.ID, appointment.ErrForbidden},
		{"unknown", actorOf(prof), uuid.New(), appointment.ErrNotFound},
		{"owner", actorOf(prof), appt.ID, nil},
		{"twice", actorOf(prof), appt.ID, appointment.ErrAlreadyCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.Complete(ctx, tt.actor, tt.id); !errors.Is(err, tt.want) {
				t.Fatalf("Complete() error = %v, want %v", err, tt.want)
			}
		})
	}

	if !slotBooked(t, db, slot.ID) {
		t.Error("completed appointment should keep the slot booked")
	}
	if err := svc.Cancel(ctx, actorOf(student), appt.ID); !errors.Is(err, appointment.ErrAlreadyCompleted) {
		t.Fatalf("Cancel(completed) error = %v, want ErrAlreadyCompleted", err)
	}
}

// Mirrors the full browse, book, cancel flow across two students.
func TestEndToEndBookingFlow(t *testing.T) {
	db := repotest.Open(t)
	appts := appointment.New(db, nil)
	slots := availability.New(db)
	ctx := context.Background()

	p1 := repotest.CreateUser(t, db, repo.RoleProfessor)
	a1 := repotest.CreateUser(t, db, repo.RoleStudent)
	a2 := repotest.CreateUser(t, db, repo.RoleStudent)

	start := time.Now().Add(24 * time.Hour)
	s1, err := slots.Create(ctx, actorOf(p1), availability.CreateRequest{StartTime: start, EndTime: start.Add(time.Hour)})
	if err != nil {
		t.Fatalf("create S1: %v", err)
	}
	s2, err := slots.Create(ctx, actorOf(p1), availability.CreateRequest{StartTime: start.Add(2 * time.Hour), EndTime: start.Add(3 * time.Hour)})
	if err != nil {
		t.Fatalf("create S2: %v", err)
	}

	visible, err := slots.ListOpenForProfessor(ctx, p1.ID)
	if err != nil {
		t.Fatalf("list P1 slots: %v", err)
	}
	if len(visible) < 1 || visible[0].ID != s1.ID {
		t.Fatalf("A1 should see S1 first, got %+v", visible)
	}

	booking, err := appts.Book(ctx, actorOf(a1), appointment.BookRequest{AvailabilityID: s1.ID})
	if err != nil {
		t.Fatalf("A1 books S1: %v", err)
	}
	if !slotBooked(t, db, s1.ID) {
		t.Fatal("S1 should be booked")
	}

	if _, err := appts.Book(ctx, actorOf(a2), appointment.BookRequest{AvailabilityID: s2.ID}); err != nil {
		t.Fatalf("A2 books S2: %v", err)
	}

	if err := appts.Cancel(ctx, actorOf(p1), booking.ID); err != nil {
		t.Fatalf("P1 cancels A1: %v", err)
	}
	if slotBooked(t, db, s1.ID) {
		t.Fatal("S1 should be open after cancel")
	}

	scheduled := repo.StatusScheduled
	mine, err := appts.ListForStudent(ctx, actorOf(a1), appointment.ListRequest{Status: &scheduled})
	if err != nil {
		t.Fatalf("A1 lists: %v", err)
	}
	if len(mine) != 0 {
		t.Errorf("A1 scheduled = %d, want 0", len(mine))
	}

	all, err := appts.ListForStudent(ctx, actorOf(a1), appointment.ListRequest{})
	if err != nil {
		t.Fatalf("A1 lists all: %v", err)
	}
	if len(all) != 1 || all[0].Status != repo.StatusCancelled {
		t.Errorf("A1 history = %+v", all)
	}
}
