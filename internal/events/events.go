// Package events defines the NATS subjects and payloads emitted when an
// appointment changes state.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

type Kind string

const (
	KindBooked    Kind = "booked"
	KindCancelled Kind = "cancelled"
	KindCompleted Kind = "completed"
)

const subjectPrefix = "officehours.appointment"

// Subject returns officehours.appointment.<kind>.<id>.
func Subject(kind Kind, appointmentID uuid.UUID) string {
	return fmt.Sprintf("%s.%s.%s", subjectPrefix, kind, appointmentID)
}

// Wildcard matches every appointment of the given kind.
func Wildcard(kind Kind) string {
	return fmt.Sprintf("%s.%s.*", subjectPrefix, kind)
}

// ParseSubject extracts the kind and appointment id from a subject.
func ParseSubject(subject string) (Kind, uuid.UUID, error) {
	rest, ok := strings.CutPrefix(subject, subjectPrefix+".")
	if !ok {
		return "", uuid.Nil, fmt.Errorf("events: unexpected subject %q", subject)
	}
	kind, idStr, ok := strings.Cut(rest, ".")
	if !ok {
		return "", uuid.Nil, fmt.Errorf("events: unexpected subject %q", subject)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return "", uuid.Nil, fmt.Errorf("events: bad appointment id in %q: %w", subject, err)
	}
	switch Kind(kind) {
	case KindBooked, KindCancelled, KindCompleted:
		return Kind(kind), id, nil
	}
	return "", uuid.Nil, fmt.Errorf("events: unknown kind %q", kind)
}

type AppointmentEvent struct {
	AppointmentID uuid.UUID `json:"appointmentId"`
	ActorID       uuid.UUID `json:"actorId"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// Publisher sends appointment events. A nil connection turns every call
// into a no-op.
type Publisher struct {
	nc *nats.Conn
}

func NewPublisher(nc *nats.Conn) *Publisher {
	return &Publisher{nc: nc}
}

// Publish is best-effort: failures are logged, never returned to the caller.
func (p *Publisher) Publish(kind Kind, appointmentID, actorID uuid.UUID) {
	if p == nil || p.nc == nil {
		return
	}

	data, err := json.Marshal(AppointmentEvent{
		AppointmentID: appointmentID,
		ActorID:       actorID,
		OccurredAt:    time.Now().UTC(),
	})
	if err != nil {
		slog.Warn("events: marshal failed", "kind", kind, "appointment_id", appointmentID, "err", err)
		return
	}

	if err := p.nc.Publish(Subject(kind, appointmentID), data); err != nil {
		slog.Warn("events: publish failed", "kind", kind, "appointment_id", appointmentID, "err", err)
	}
}

// Decode parses a message body published by Publisher.
func Decode(data []byte) (AppointmentEvent, error) {
	var ev AppointmentEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return ev, fmt.Errorf("events: decode: %w", err)
	}
	return ev, nil
}
