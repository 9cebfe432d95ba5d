// Package notify sends templated notification emails.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/msomdec/quizcert/internal/domain"
)

// Message is a fully rendered email.
type Message struct {
	From        string
	To          string
	Subject     string
	HTML        string
	Attachments []domain.Artifact
}

// Sender delivers a rendered message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Options configures a Dispatcher.
type Options struct {
	From        string
	TemplateDir string
	AppName     string
	FrontendURL string
}

// Dispatcher renders templates and hands messages to a Sender.
type Dispatcher struct {
	sender      Sender
	from        string
	templateDir string
	defaults    Vars
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(sender Sender, opts Options) *Dispatcher {
	return &Dispatcher{
		sender:      sender,
		from:        opts.From,
		templateDir: opts.TemplateDir,
		defaults: Vars{
			"username": "Participant",
			"appName":  opts.AppName,
			"quizUrl":  opts.FrontendURL,
		},
	}
}

// Send renders the template for kind and delivers it to recipient.
// A blank recipient is skipped. Transport failures wrap domain.ErrDelivery.
func (d *Dispatcher) Send(ctx context.Context, kind Kind, recipient string, vars Vars, attachments ...domain.Artifact) error {
	if recipient == "" {
		slog.Debug("notification skipped, no recipient", "kind", kind)
		return nil
	}

	tpl, ok := templates[kind]
	if !ok {
		return fmt.Errorf("%w: unknown notification kind %q", domain.ErrInvalidInput, kind)
	}

	msg := Message{
		From:        d.from,
		To:          recipient,
		Subject:     Render(tpl.subject, vars, d.defaults, false),
		HTML:        Render(d.body(kind, tpl), vars, d.defaults, true),
		Attachments: attachments,
	}

	if err := d.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("%w: %s to %s: %w", domain.ErrDelivery, kind, recipient, err)
	}

	slog.Info("notification sent", "kind", kind, "to", recipient, "attachments", len(attachments))
	return nil
}

// body returns the template body from the template directory, falling back
// to the inline template when the file cannot be read.
func (d *Dispatcher) body(kind Kind, tpl template) string {
	if d.templateDir == "" {
		return tpl.body
	}
	data, err := os.ReadFile(filepath.Join(d.templateDir, tpl.file))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("read email template, using inline fallback", "kind", kind, "error", err)
		}
		return tpl.body
	}
	return string(data)
}
