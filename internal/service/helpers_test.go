package service_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/msomdec/quizcert/internal/domain"
	"github.com/msomdec/quizcert/internal/notify"
	"github.com/msomdec/quizcert/internal/repository/sqlite"
)

const testJWTSecret = "test-secret-key-for-unit-tests-0123456789"

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

type sentMail struct {
	Kind        notify.Kind
	To          string
	Vars        notify.Vars
	Attachments []domain.Artifact
}

// recordingNotifier captures sends and optionally fails them.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (n *recordingNotifier) Send(_ context.Context, kind notify.Kind, to string, vars notify.Vars, attachments ...domain.Artifact) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentMail{Kind: kind, To: to, Vars: vars, Attachments: attachments})
	return nil
}

func (n *recordingNotifier) byKind(kind notify.Kind) []sentMail {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []sentMail
	for _, m := range n.sent {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}
