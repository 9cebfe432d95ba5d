package notify

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	mail "github.com/wneessen/go-mail"
)

// SMTPOptions configures the SMTP transport.
type SMTPOptions struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
}

// SMTPSender delivers messages through an SMTP relay such as Mailgun.
type SMTPSender struct {
	mu     sync.Mutex
	client *mail.Client
}

// NewSMTPSender creates an SMTP transport. STARTTLS is used when the
// server offers it.
func NewSMTPSender(opts SMTPOptions) (*SMTPSender, error) {
	clientOpts := []mail.Option{
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
		mail.WithPort(opts.Port),
	}
	if opts.Timeout > 0 {
		clientOpts = append(clientOpts, mail.WithTimeout(opts.Timeout))
	}
	if opts.Username != "" {
		clientOpts = append(clientOpts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(opts.Username),
			mail.WithPassword(opts.Password),
		)
	}

	client, err := mail.NewClient(opts.Host, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return &SMTPSender{client: client}, nil
}

// Send builds a MIME message and delivers it over a fresh connection.
func (s *SMTPSender) Send(ctx context.Context, m Message) error {
	msg, err := buildMsg(m)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func buildMsg(m Message) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.From); err != nil {
		return nil, fmt.Errorf("set from %q: %w", m.From, err)
	}
	if err := msg.To(m.To); err != nil {
		return nil, fmt.Errorf("set to %q: %w", m.To, err)
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextHTML, m.HTML)

	for _, a := range m.Attachments {
		err := msg.AttachReader(a.Filename(), bytes.NewReader(a.Data),
			mail.WithFileContentType(mail.ContentType(a.ContentType())))
		if err != nil {
			return nil, fmt.Errorf("attach %s: %w", a.Filename(), err)
		}
	}
	return msg, nil
}

// LogSender logs messages instead of sending them. Used when no SMTP host
// is configured.
type LogSender struct {
	Logger *slog.Logger
}

// Send logs the message envelope.
func (l *LogSender) Send(ctx context.Context, m Message) error {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	names := make([]string, 0, len(m.Attachments))
	for _, a := range m.Attachments {
		names = append(names, a.Filename())
	}
	logger.InfoContext(ctx, "email (smtp disabled)",
		"from", m.From,
		"to", m.To,
		"subject", m.Subject,
		"attachments", names,
	)
	return nil
}
