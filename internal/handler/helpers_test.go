package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/msomdec/quizcert/internal/domain"
	"github.com/msomdec/quizcert/internal/handler"
	"github.com/msomdec/quizcert/internal/notify"
	"github.com/msomdec/quizcert/internal/render"
	"github.com/msomdec/quizcert/internal/repository/sqlite"
	"github.com/msomdec/quizcert/internal/service"
)

const testJWTSecret = "test-secret-for-handler-tests-0123456789"

type testEnv struct {
	db       *sqlite.DB
	auth     *service.AuthService
	certs    *service.CertificateService
	verifier *service.VerificationService
	notifier *recordingNotifier
	mux      *http.ServeMux
}

type recordingNotifier struct {
	mu    sync.Mutex
	kinds []notify.Kind
}

func (n *recordingNotifier) Send(_ context.Context, kind notify.Kind, _ string, _ notify.Vars, _ ...domain.Artifact) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.kinds = append(n.kinds, kind)
	return nil
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	renderer, err := render.New(render.Options{
		IssuerName:  "Fastpitch Quiz",
		FrontendURL: "https://quiz.example.com",
		Formats:     []domain.Format{domain.FormatPDF},
	})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	n := &recordingNotifier{}
	env := &testEnv{
		db:       db,
		auth:     service.NewAuthService(db.Users(), n, testJWTSecret, 4, time.Hour),
		certs:    service.NewCertificateService(renderer, db.Certificates(), db.FileStore(), n, "coach@example.com"),
		verifier: service.NewVerificationService(db.Certificates()),
		notifier: n,
		mux:      http.NewServeMux(),
	}
	handler.RegisterRoutes(env.mux, handler.Services{
		Auth:         env.auth,
		Certificates: env.certs,
		Verifier:     env.verifier,
		DB:           db,
		AppName:      "Fastpitch Quiz",
	})
	return env
}

// signIn registers a user and returns a bearer token.
func (e *testEnv) signIn(t *testing.T, name, email string) string {
	t.Helper()
	ctx := context.Background()
	if _, err := e.auth.Register(ctx, name, email, "password123"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, _, err := e.auth.Authenticate(ctx, email, "password123")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	return token
}

// do sends a request through the mux. body is JSON-encoded when non-nil.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.mux.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return v
}
