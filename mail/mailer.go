// Package mail sends the welcome message to newly registered users.
// Delivery is fire-and-forget: registration hands the user to a Dispatcher and returns;
// a failed delivery is logged and never undoes the registration.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gomail "github.com/wneessen/go-mail"

	"github.com/user/tareas-go/config"
	"github.com/user/tareas-go/users"
)

// Mailer delivers messages to users.
type Mailer interface {
	SendWelcome(ctx context.Context, user *users.User) error
}

// Message is a plain-text email.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// WelcomeMessage builds the welcome mail for user.
func WelcomeMessage(from string, user *users.User) Message {
	return Message{
		From:    from,
		To:      user.Email,
		Subject: "Welcome to Tareas",
		Body: fmt.Sprintf("Hi %s,\r\n\r\nyour account has been created. "+
			"You can log in and start adding tasks right away.\r\n", user.Username),
	}
}

// Build turns the message into a go-mail message. Addresses are parsed, so a value carrying
// extra header lines is rejected here.
func (m Message) Build() (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(m.From); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", m.From, err)
	}
	if err := msg.To(m.To); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", m.To, err)
	}
	msg.Subject(m.Subject)
	msg.SetDate()
	msg.SetBodyString(gomail.TypeTextPlain, m.Body)
	return msg, nil
}

// SMTPMailer delivers through an SMTP relay. With UseTLS the relay must offer STARTTLS;
// otherwise STARTTLS is used when the relay advertises it.
type SMTPMailer struct {
	cfg     config.MailConfig
	timeout time.Duration
}

// NewSMTPMailer creates a mailer for the relay described by cfg.
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, timeout: 15 * time.Second}
}

func (m *SMTPMailer) SendWelcome(ctx context.Context, user *users.User) error {
	return m.Send(ctx, WelcomeMessage(m.cfg.Sender, user))
}

// Send delivers a single message over a fresh connection.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	built, err := msg.Build()
	if err != nil {
		return err
	}

	client, err := gomail.NewClient(m.cfg.Server, m.options()...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	if err := client.DialAndSendWithContext(ctx, built); err != nil {
		return fmt.Errorf("send mail via %s:%d: %w", m.cfg.Server, m.cfg.Port, err)
	}
	return nil
}

func (m *SMTPMailer) options() []gomail.Option {
	opts := []gomail.Option{gomail.WithTimeout(m.timeout)}
	if m.cfg.Port > 0 {
		opts = append(opts, gomail.WithPort(m.cfg.Port))
	}
	if m.cfg.UseTLS {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.cfg.Username),
			gomail.WithPassword(m.cfg.Password),
		)
	}
	return opts
}

// LogMailer only logs what it would have sent. It is used when no relay is configured.
type LogMailer struct {
	sender string
	logger *slog.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(sender string, logger *slog.Logger) *LogMailer {
	return &LogMailer{sender: sender, logger: logger}
}

func (m *LogMailer) SendWelcome(ctx context.Context, user *users.User) error {
	msg := WelcomeMessage(m.sender, user)
	m.logger.InfoContext(ctx, "welcome mail (not sent, no relay configured)",
		"to", msg.To, "subject", msg.Subject, "user_id", user.ID)
	return nil
}
