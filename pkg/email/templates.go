package email

import (
	"fmt"
	"html"
	"time"
)

// AppointmentEmailData describes one appointment state change from the
// recipient's point of view.
type AppointmentEmailData struct {
	// Kind is one of booked, cancelled, completed.
	Kind            string
	AppointmentID   string
	RecipientName   string
	RecipientEmail  string
	CounterpartName string
	// StartTime is zero when the slot no longer exists.
	StartTime time.Time
	Notes     string
	AppName   string
}

const timeLayout = "Mon, 02 Jan 2006 15:04 MST"

func (d AppointmentEmailData) when() string {
	if d.StartTime.IsZero() {
		return "an unscheduled time"
	}
	return d.StartTime.UTC().Format(timeLayout)
}

// AppointmentSubject returns the subject line used for the given event kind.
func AppointmentSubject(kind, appName string) string {
	if appName == "" {
		appName = "Office Hours"
	}
	switch kind {
	case "booked":
		return fmt.Sprintf("[%s] New appointment booked", appName)
	case "cancelled":
		return fmt.Sprintf("[%s] Appointment cancelled", appName)
	case "completed":
		return fmt.Sprintf("[%s] Appointment completed", appName)
	default:
		return fmt.Sprintf("[%s] Appointment update", appName)
	}
}

// AppointmentSummary is the one-line text shared by the in-app notification
// and the email body.
func AppointmentSummary(d AppointmentEmailData) string {
	who := d.CounterpartName
	if who == "" {
		who = "Someone"
	}
	switch d.Kind {
	case "booked":
		return fmt.Sprintf("%s booked your office hours on %s.", who, d.when())
	case "cancelled":
		return fmt.Sprintf("%s cancelled the appointment on %s.", who, d.when())
	case "completed":
		return fmt.Sprintf("%s marked the appointment on %s as completed.", who, d.when())
	default:
		return fmt.Sprintf("The appointment on %s was updated.", d.when())
	}
}

// BuildAppointmentEmail renders the notice sent to the other participant.
func BuildAppointmentEmail(d AppointmentEmailData) Message {
	name := d.RecipientName
	if name == "" {
		name = "there"
	}
	summary := AppointmentSummary(d)

	text := fmt.Sprintf("Hi %s,\n\n%s\n", name, summary)
	if d.Notes != "" {
		text += fmt.Sprintf("\nNotes: %s\n", d.Notes)
	}

	notesHTML := ""
	if d.Notes != "" {
		notesHTML = fmt.Sprintf(`<p style="background-color: #f3f4f6; padding: 10px 15px; border-radius: 4px;">%s</p>`, html.EscapeString(d.Notes))
	}

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2563eb;">Hi %s,</h2>
    <p>%s</p>
    %s
</body>
</html>`, html.EscapeString(name), html.EscapeString(summary), notesHTML)

	return Message{
		To:       []string{d.RecipientEmail},
		Subject:  AppointmentSubject(d.Kind, d.AppName),
		TextBody: text,
		HTMLBody: htmlBody,

		Kind:          d.Kind,
		AppointmentID: d.AppointmentID,
	}
}
