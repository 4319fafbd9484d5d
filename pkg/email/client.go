package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/Alijeyrad/officehours_backend/config"
)

// Message is one appointment notice. Kind and AppointmentID travel as
// X-Officehours-* headers so replies and bounces can be traced back.
type Message struct {
	To       []string
	Subject  string
	TextBody string
	HTMLBody string

	Kind          string
	AppointmentID string
}

const (
	headerKind        = "X-Officehours-Event"
	headerAppointment = "X-Officehours-Appointment"
)

type ErrDisabled struct{}

func (ErrDisabled) Error() string { return "email delivery is disabled" }

// ErrInvalidMessage names the missing or malformed part of a Message or Config.
type ErrInvalidMessage struct{ Field string }

func (e ErrInvalidMessage) Error() string { return "email: " + e.Field + " is required" }

// ErrSend is an SMTP failure for a specific appointment notice.
type ErrSend struct {
	To            string
	Kind          string
	AppointmentID string
	Err           error
}

func (e ErrSend) Error() string {
	if e.AppointmentID == "" {
		return fmt.Sprintf("email to %s failed: %v", e.To, e.Err)
	}
	return fmt.Sprintf("%s notice for appointment %s to %s failed: %v", e.Kind, e.AppointmentID, e.To, e.Err)
}

func (e ErrSend) Unwrap() error { return e.Err }

type Client struct {
	cfg Config
}

func NewFromCentral(cfg config.EmailConfig) (*Client, error) {
	return New(FromCentralConfig(cfg))
}

// New validates the sender settings only when delivery is enabled.
func New(cfg Config) (*Client, error) {
	if cfg.Enabled {
		if strings.TrimSpace(cfg.From) == "" {
			return nil, ErrInvalidMessage{Field: "email.from"}
		}
		if strings.TrimSpace(cfg.SMTPHost) == "" {
			return nil, ErrInvalidMessage{Field: "email.smtp_host"}
		}
	}
	return &Client{cfg: cfg}, nil
}

func (c *Client) Enabled() bool { return c != nil && c.cfg.Enabled }

// AppName brands subjects, e.g. "[officehours] New appointment booked".
func (c *Client) AppName() string { return c.cfg.AppName }

// Send delivers m over SMTP, giving up at the sooner of ctx's deadline and
// the configured SMTP timeout.
func (c *Client) Send(ctx context.Context, m Message) error {
	if !c.Enabled() {
		return ErrDisabled{}
	}

	msg, err := buildMessage(c.cfg.From, m)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.SMTPTimeout())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- c.dialer().DialAndSend(msg) }()

	select {
	case err := <-done:
		if err != nil {
			return ErrSend{To: strings.Join(msg.GetHeader("To"), ","), Kind: m.Kind, AppointmentID: m.AppointmentID, Err: err}
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) dialer() *gomail.Dialer {
	d := gomail.NewDialer(c.cfg.SMTPHost, c.cfg.SMTPPort, c.cfg.SMTPUsername, c.cfg.SMTPPassword)
	if c.cfg.SMTPUseTLS {
		d.SSL = true
		d.TLSConfig = &tls.Config{ServerName: c.cfg.SMTPHost, MinVersion: tls.VersionTLS12}
	}
	return d
}

func buildMessage(from string, m Message) (*gomail.Message, error) {
	from = strings.TrimSpace(from)
	if from == "" {
		return nil, ErrInvalidMessage{Field: "from"}
	}
	to := cleanAddrs(m.To)
	if len(to) == 0 {
		return nil, ErrInvalidMessage{Field: "recipient"}
	}
	subject := strings.TrimSpace(m.Subject)
	if subject == "" {
		return nil, ErrInvalidMessage{Field: "subject"}
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	if k := strings.TrimSpace(m.Kind); k != "" {
		msg.SetHeader(headerKind, k)
	}
	if id := strings.TrimSpace(m.AppointmentID); id != "" {
		msg.SetHeader(headerAppointment, id)
	}

	text, htmlBody := strings.TrimSpace(m.TextBody) != "", strings.TrimSpace(m.HTMLBody) != ""
	switch {
	case text && htmlBody:
		msg.SetBody("text/plain", m.TextBody)
		msg.AddAlternative("text/html", m.HTMLBody)
	case htmlBody:
		msg.SetBody("text/html", m.HTMLBody)
	case text:
		msg.SetBody("text/plain", m.TextBody)
	default:
		return nil, ErrInvalidMessage{Field: "body"}
	}
	return msg, nil
}

func cleanAddrs(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
