package email

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestBuildMessage(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		msg     Message
		wantErr bool
	}{
		{"text only", "noreply@uni.edu", Message{To: []string{"a@uni.edu"}, Subject: "hi", TextBody: "body"}, false},
		{"html and text", "noreply@uni.edu", Message{To: []string{" a@uni.edu ", ""}, Subject: "hi", TextBody: "t", HTMLBody: "<p>h</p>"}, false},
		{"missing from", " ", Message{To: []string{"a@uni.edu"}, Subject: "hi", TextBody: "body"}, true},
		{"missing subject", "noreply@uni.edu", Message{To: []string{"a@uni.edu"}, TextBody: "body"}, true},
		{"missing body", "noreply@uni.edu", Message{To: []string{"a@uni.edu"}, Subject: "hi"}, true},
		{"blank recipients", "noreply@uni.edu", Message{To: []string{" ", ""}, Subject: "hi", TextBody: "body"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := buildMessage(tt.from, tt.msg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("buildMessage() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var inv ErrInvalidMessage
				if !errors.As(err, &inv) {
					t.Errorf("error type = %T, want ErrInvalidMessage", err)
				}
				return
			}
			if got := m.GetHeader("To"); len(got) != 1 || got[0] != "a@uni.edu" {
				t.Errorf("To = %v", got)
			}
		})
	}
}

func TestBuildMessageAppointmentHeaders(t *testing.T) {
	m, err := buildMessage("noreply@uni.edu", Message{
		To:            []string{"lee@uni.edu"},
		Subject:       "booked",
		TextBody:      "body",
		Kind:          "booked",
		AppointmentID: "0190f7a4-0000-7000-8000-000000000001",
	})
	if err != nil {
		t.Fatalf("buildMessage() error = %v", err)
	}
	if got := m.GetHeader(headerKind); len(got) != 1 || got[0] != "booked" {
		t.Errorf("%s = %v, want [booked]", headerKind, got)
	}
	if got := m.GetHeader(headerAppointment); len(got) != 1 || got[0] != "0190f7a4-0000-7000-8000-000000000001" {
		t.Errorf("%s = %v", headerAppointment, got)
	}

	plain, err := buildMessage("noreply@uni.edu", Message{To: []string{"lee@uni.edu"}, Subject: "s", TextBody: "b"})
	if err != nil {
		t.Fatalf("buildMessage() error = %v", err)
	}
	if got := plain.GetHeader(headerAppointment); len(got) != 0 {
		t.Errorf("%s = %v, want none", headerAppointment, got)
	}
}

func TestErrSend(t *testing.T) {
	smtpErr := errors.New("421 service not available")
	err := error(ErrSend{To: "sam@uni.edu", Kind: "cancelled", AppointmentID: "abc", Err: smtpErr})

	if !errors.Is(err, smtpErr) {
		t.Error("ErrSend does not unwrap to the SMTP error")
	}
	for _, want := range []string{"cancelled", "abc", "sam@uni.edu"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Error() = %q, want it to mention %q", err.Error(), want)
		}
	}
}

func TestSendDisabled(t *testing.T) {
	c, err := New(Config{Enabled: false})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	err = c.Send(context.Background(), Message{To: []string{"a@uni.edu"}, Subject: "s", TextBody: "b"})
	var disabled ErrDisabled
	if !errors.As(err, &disabled) {
		t.Fatalf("Send() error = %v, want ErrDisabled", err)
	}
}

func TestNewRequiresSenderWhenEnabled(t *testing.T) {
	if _, err := New(Config{Enabled: true, SMTPHost: "smtp.uni.edu"}); err == nil {
		t.Error("expected error without From")
	}
	if _, err := New(Config{Enabled: true, From: "noreply@uni.edu"}); err == nil {
		t.Error("expected error without SMTP host")
	}
}

func TestBuildAppointmentEmail(t *testing.T) {
	start := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		data        AppointmentEmailData
		wantSubject string
		wantText    string
	}{
		{
			name:        "booked",
			data:        AppointmentEmailData{Kind: "booked", RecipientName: "Dr. Lee", RecipientEmail: "lee@uni.edu", CounterpartName: "Sam", StartTime: start, AppName: "officehours"},
			wantSubject: "[officehours] New appointment booked",
			wantText:    "Sam booked your office hours on Mon, 02 Mar 2026 14:00 UTC.",
		},
		{
			name:        "cancelled without slot",
			data:        AppointmentEmailData{Kind: "cancelled", RecipientEmail: "sam@uni.edu", CounterpartName: "Dr. Lee"},
			wantSubject: "[Office Hours] Appointment cancelled",
			wantText:    "Dr. Lee cancelled the appointment on an unscheduled time.",
		},
		{
			name:        "completed",
			data:        AppointmentEmailData{Kind: "completed", RecipientEmail: "sam@uni.edu", CounterpartName: "Dr. Lee", StartTime: start},
			wantSubject: "[Office Hours] Appointment completed",
			wantText:    "Dr. Lee marked the appointment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := BuildAppointmentEmail(tt.data)
			if m.Subject != tt.wantSubject {
				t.Errorf("Subject = %q, want %q", m.Subject, tt.wantSubject)
			}
			if !strings.Contains(m.TextBody, tt.wantText) {
				t.Errorf("TextBody = %q, want it to contain %q", m.TextBody, tt.wantText)
			}
			if len(m.To) != 1 || m.To[0] != tt.data.RecipientEmail {
				t.Errorf("To = %v", m.To)
			}
			if m.Kind != tt.data.Kind {
				t.Errorf("Kind = %q, want %q", m.Kind, tt.data.Kind)
			}
		})
	}
}

func TestBuildAppointmentEmailEscapesNotes(t *testing.T) {
	m := BuildAppointmentEmail(AppointmentEmailData{
		Kind:           "booked",
		RecipientEmail: "lee@uni.edu",
		Notes:          "<script>alert(1)</script>",
	})
	if strings.Contains(m.HTMLBody, "<script>") {
		t.Error("HTML body contains unescaped notes")
	}
	if !strings.Contains(m.TextBody, "Notes: <script>") {
		t.Error("text body lost the notes")
	}
}
