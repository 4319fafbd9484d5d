package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/officehours_backend/internal/events"
	"github.com/Alijeyrad/officehours_backend/internal/repo"
	"github.com/Alijeyrad/officehours_backend/pkg/email"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// ---------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------

type CreateRequest struct {
	UserID uuid.UUID
	Type   string
	Title  string
	Body   string
	Data   map[string]string
}

type ListRequest struct {
	UnreadOnly bool `query:"unread"`
	Page       int  `query:"page"`
	PerPage    int  `query:"per_page"`
}

// Mailer delivers rendered messages. *email.Client satisfies it.
type Mailer interface {
	Send(ctx context.Context, m email.Message) error
}

// ---------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*repo.Notification, error)
	List(ctx context.Context, userID uuid.UUID, req ListRequest) ([]*repo.Notification, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)

	// HandleAppointmentEvent stores an in-app notice for the participant who
	// did not cause the event and emails them when a mailer is configured.
	HandleAppointmentEvent(ctx context.Context, kind events.Kind, ev events.AppointmentEvent) error
}

// ---------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------

type notificationService struct {
	db      *repo.Client
	mailer  Mailer
	appName string
}

// New builds the service. mailer may be nil.
func New(db *repo.Client, mailer Mailer, appName string) Service {
	return &notificationService{db: db, mailer: mailer, appName: appName}
}

func (s *notificationService) Create(ctx context.Context, req CreateRequest) (*repo.Notification, error) {
	if req.UserID == uuid.Nil || req.Type == "" || req.Title == "" {
		return nil, fmt.Errorf("notification: user, type and title are required")
	}
	n := &repo.Notification{
		ID:     uuid.Must(uuid.NewV7()),
		UserID: req.UserID,
		Type:   req.Type,
		Title:  req.Title,
		Body:   req.Body,
		Data:   req.Data,
	}
	if err := s.db.CreateNotification(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return n, nil
}

func (s *notificationService) List(ctx context.Context, userID uuid.UUID, req ListRequest) ([]*repo.Notification, error) {
	page, perPage := normalizePage(req.Page, req.PerPage)
	return s.db.ListNotifications(ctx, userID, repo.NotificationFilter{
		UnreadOnly: req.UnreadOnly,
		Limit:      uint64(perPage),
		Offset:     uint64((page - 1) * perPage),
	})
}

func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	err := s.db.MarkNotificationRead(ctx, id, userID)
	if repo.IsNotFound(err) {
		return ErrNotFound
	}
	return err
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.db.MarkAllNotificationsRead(ctx, userID)
}

func (s *notificationService) HandleAppointmentEvent(ctx context.Context, kind events.Kind, ev events.AppointmentEvent) error {
	appt, err := s.db.AppointmentDetail(ctx, ev.AppointmentID)
	if err != nil {
		return fmt.Errorf("load appointment %s: %w", ev.AppointmentID, err)
	}

	notice, err := composeNotice(kind, ev, appt, s.appName)
	if err != nil {
		return err
	}

	if _, err := s.Create(ctx, notice.request); err != nil {
		return err
	}

	s.sendEmail(ctx, notice.email)
	return nil
}

func (s *notificationService) sendEmail(ctx context.Context, m email.Message) {
	if s.mailer == nil || len(m.To) == 0 || m.To[0] == "" {
		return
	}
	err := s.mailer.Send(ctx, m)
	var disabled email.ErrDisabled
	if err != nil && !errors.As(err, &disabled) {
		slog.WarnContext(ctx, "notification email failed", "to", m.To[0], "subject", m.Subject, "err", err)
	}
}

type notice struct {
	request CreateRequest
	email   email.Message
}

// composeNotice picks the recipient: the professor for a booking, the
// student for a completion, and whoever did not act for a cancellation.
func composeNotice(kind events.Kind, ev events.AppointmentEvent, appt *repo.Appointment, appName string) (notice, error) {
	var recipient, counterpart *repo.PublicUser
	switch kind {
	case events.KindBooked:
		recipient, counterpart = appt.Professor, appt.Student
	case events.KindCompleted:
		recipient, counterpart = appt.Student, appt.Professor
	case events.KindCancelled:
		if ev.ActorID == appt.StudentID {
			recipient, counterpart = appt.Professor, appt.Student
		} else {
			recipient, counterpart = appt.Student, appt.Professor
		}
	default:
		return notice{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if recipient == nil {
		return notice{}, fmt.Errorf("appointment %s: recipient not loaded", appt.ID)
	}

	data := email.AppointmentEmailData{
		Kind:           string(kind),
		AppointmentID:  appt.ID.String(),
		RecipientName:  recipient.Name,
		RecipientEmail: recipient.Email,
		Notes:          appt.Notes,
		AppName:        appName,
	}
	if counterpart != nil {
		data.CounterpartName = counterpart.Name
	}
	if appt.Availability != nil {
		data.StartTime = appt.Availability.StartTime
	}

	var start string
	if !data.StartTime.IsZero() {
		start = data.StartTime.UTC().Format(time.RFC3339)
	}

	return notice{
		request: CreateRequest{
			UserID: recipient.ID,
			Type:   "appointment_" + string(kind),
			Title:  titleFor(kind),
			Body:   email.AppointmentSummary(data),
			Data: map[string]string{
				"appointmentId": appt.ID.String(),
				"status":        string(appt.Status),
				"startTime":     start,
			},
		},
		email: email.BuildAppointmentEmail(data),
	}, nil
}

func titleFor(kind events.Kind) string {
	switch kind {
	case events.KindBooked:
		return "New appointment booked"
	case events.KindCancelled:
		return "Appointment cancelled"
	default:
		return "Appointment completed"
	}
}
