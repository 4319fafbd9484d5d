package events

import (
	"testing"

	"github.com/google/uuid"
)

func TestParseSubject(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name     string
		subject  string
		wantKind Kind
		wantErr  bool
	}{
		{"booked", Subject(KindBooked, id), KindBooked, false},
		{"cancelled", Subject(KindCancelled, id), KindCancelled, false},
		{"completed", Subject(KindCompleted, id), KindCompleted, false},
		{"foreign prefix", "other.appointment.booked." + id.String(), "", true},
		{"unknown kind", "officehours.appointment.moved." + id.String(), "", true},
		{"bad id", "officehours.appointment.booked.nope", "", true},
		{"no id", "officehours.appointment.booked", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, gotID, err := ParseSubject(tt.subject)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSubject() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", kind, tt.wantKind)
			}
			if gotID != id {
				t.Errorf("id = %s, want %s", gotID, id)
			}
		})
	}
}

func TestWildcard(t *testing.T) {
	if got := Wildcard(KindBooked); got != "officehours.appointment.booked.*" {
		t.Errorf("Wildcard() = %q", got)
	}
}

func TestNilPublisherIsNoop(t *testing.T) {
	var p *Publisher
	p.Publish(KindBooked, uuid.New(), uuid.New())

	NewPublisher(nil).Publish(KindCancelled, uuid.New(), uuid.New())
}
