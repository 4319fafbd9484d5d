package handler

import (
	"context"

	"github.com/google/uuid"

	"github.com/Alijeyrad/officehours_backend/internal/events"
	"github.com/Alijeyrad/officehours_backend/internal/repo"
	"github.com/Alijeyrad/officehours_backend/internal/service/appointment"
	"github.com/Alijeyrad/officehours_backend/internal/service/auth"
	"github.com/Alijeyrad/officehours_backend/internal/service/availability"
	"github.com/Alijeyrad/officehours_backend/internal/service/notification"
)

type fakeAvailability struct {
	list   []*repo.Availability
	err    error
	gotReq availability.CreateRequest
}

func (f *fakeAvailability) ListOpen(context.Context) ([]*repo.Availability, error) {
	return f.list, f.err
}

func (f *fakeAvailability) ListOpenForProfessor(context.Context, uuid.UUID) ([]*repo.Availability, error) {
	return f.list, f.err
}

func (f *fakeAvailability) ListOwn(context.Context, repo.Actor) ([]*repo.Availability, error) {
	return f.list, f.err
}

func (f *fakeAvailability) Create(_ context.Context, actor repo.Actor, req availability.CreateRequest) (*repo.Availability, error) {
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &repo.Availability{ID: uuid.New(), ProfessorID: actor.ID, StartTime: req.StartTime, EndTime: req.EndTime}, nil
}

func (f *fakeAvailability) Delete(context.Context, repo.Actor, uuid.UUID) error {
	return f.err
}

type fakeAppointments struct {
	err       error
	gotStatus *repo.AppointmentStatus
	gotActor  repo.Actor
}

func (f *fakeAppointments) Book(_ context.Context, actor repo.Actor, req appointment.BookRequest) (*repo.Appointment, error) {
	f.gotActor = actor
	if f.err != nil {
		return nil, f.err
	}
	return &repo.Appointment{ID: uuid.New(), StudentID: actor.ID, Status: repo.StatusScheduled, Notes: req.Notes}, nil
}

func (f *fakeAppointments) ListForStudent(_ context.Context, actor repo.Actor, req appointment.ListRequest) ([]*repo.Appointment, error) {
	f.gotActor, f.gotStatus = actor, req.Status
	return []*repo.Appointment{}, f.err
}

func (f *fakeAppointments) ListForProfessor(_ context.Context, actor repo.Actor, req appointment.ListRequest) ([]*repo.Appointment, error) {
	f.gotActor, f.gotStatus = actor, req.Status
	return []*repo.Appointment{}, f.err
}

func (f *fakeAppointments) Cancel(context.Context, repo.Actor, uuid.UUID) error   { return f.err }
func (f *fakeAppointments) Complete(context.Context, repo.Actor, uuid.UUID) error { return f.err }

type fakeAuth struct {
	err   error
	login *auth.LoginResult
}

func (f *fakeAuth) Register(_ context.Context, req auth.RegisterRequest) (*repo.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &repo.User{ID: uuid.New(), Name: req.Name, Email: req.Email, Role: repo.Role(req.Role)}, nil
}

func (f *fakeAuth) Login(context.Context, auth.LoginRequest) (*auth.LoginResult, error) {
	return f.login, f.err
}

func (f *fakeAuth) RefreshTokens(context.Context, string) (*auth.AuthTokens, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &auth.AuthTokens{AccessToken: "new", RefreshToken: "same", ExpiresIn: 900}, nil
}

func (f *fakeAuth) Logout(context.Context, uuid.UUID) error          { return f.err }
func (f *fakeAuth) ValidateSession(context.Context, uuid.UUID) error { return f.err }

type fakeNotifications struct {
	err    error
	gotReq notification.ListRequest
}

func (f *fakeNotifications) Create(context.Context, notification.CreateRequest) (*repo.Notification, error) {
	return nil, f.err
}

func (f *fakeNotifications) List(_ context.Context, _ uuid.UUID, req notification.ListRequest) ([]*repo.Notification, error) {
	f.gotReq = req
	return []*repo.Notification{}, f.err
}

func (f *fakeNotifications) MarkRead(context.Context, uuid.UUID, uuid.UUID) error { return f.err }

func (f *fakeNotifications) MarkAllRead(context.Context, uuid.UUID) (int64, error) { return 0, f.err }

func (f *fakeNotifications) HandleAppointmentEvent(context.Context, events.Kind, events.AppointmentEvent) error {
	return f.err
}
