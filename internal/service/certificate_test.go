package service_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/msomdec/quizcert/internal/domain"
	"github.com/msomdec/quizcert/internal/notify"
	"github.com/msomdec/quizcert/internal/render"
	"github.com/msomdec/quizcert/internal/repository/sqlite"
	"github.com/msomdec/quizcert/internal/service"
)

const testFrontend = "https://quiz.example.com"

type certFixture struct {
	db       *sqlite.DB
	notifier *recordingNotifier
	svc      *service.CertificateService
}

func newCertFixture(t *testing.T, renderer service.Renderer) *certFixture {
	t.Helper()
	db := newTestDB(t)
	if renderer == nil {
		r, err := render.New(render.Options{
			IssuerName:  "Fastpitch Quiz",
			FrontendURL: testFrontend,
			Formats:     []domain.Format{domain.FormatPDF},
		})
		if err != nil {
			t.Fatalf("render.New: %v", err)
		}
		renderer = r
	}
	n := &recordingNotifier{}
	return &certFixture{
		db:       db,
		notifier: n,
		svc:      service.NewCertificateService(renderer, db.Certificates(), db.FileStore(), n, "coach@example.com"),
	}
}

type failingRenderer struct{}

func (failingRenderer) Render(context.Context, render.Input) (*render.Rendering, error) {
	return nil, errors.New("font missing")
}

type failingFileStore struct {
	domain.FileStore
}

func (failingFileStore) Save(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func TestCertificateService_Issue(t *testing.T) {
	f := newCertFixture(t, nil)
	ctx := context.Background()

	issued, err := f.svc.Issue(ctx, service.Recipient{Name: "Jane Doe", Email: "jane@x.com"}, "Rules 101", 92)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	cert := issued.Certificate
	if cert.ID == "" || cert.Seq == 0 || cert.IssuedAt.IsZero() {
		t.Fatalf("expected id, seq and issue time set, got %+v", cert)
	}
	if cert.VerificationURL != testFrontend+"/verify?id="+cert.ID {
		t.Fatalf("unexpected verification url %s", cert.VerificationURL)
	}
	if !issued.EmailSent {
		t.Fatal("expected EmailSent")
	}

	stored, err := f.db.Certificates().GetByID(ctx, cert.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.RecipientName != "Jane Doe" || stored.QuizTitle != "Rules 101" || stored.Score != 92 {
		t.Fatalf("unexpected stored record %+v", stored)
	}

	mails := f.notifier.byKind(notify.KindCertificateIssued)
	if len(mails) != 1 {
		t.Fatalf("expected one certificate email, got %d", len(mails))
	}
	if mails[0].To != "jane@x.com" || mails[0].Vars["score"] != "92" || mails[0].Vars["certificateId"] != cert.ID {
		t.Fatalf("unexpected certificate email %+v", mails[0])
	}
	if len(mails[0].Attachments) != 1 || mails[0].Attachments[0].Filename() != "Certificate-"+cert.ID+".pdf" {
		t.Fatalf("expected pdf attachment, got %+v", mails[0].Attachments)
	}

	teacher := f.notifier.byKind(notify.KindTeacherNotify)
	if len(teacher) != 1 || teacher[0].To != "coach@example.com" {
		t.Fatalf("expected teacher notification, got %+v", teacher)
	}

	art, err := f.svc.Artifact(ctx, cert.ID, domain.FormatPDF)
	if err != nil {
		t.Fatalf("Artifact: %v", err)
	}
	if !bytes.HasPrefix(art.Data, []byte("%PDF-")) {
		t.Fatal("stored artifact is not a pdf")
	}
}

func TestCertificateService_Issue_DuplicatesGetDistinctIDs(t *testing.T) {
	f := newCertFixture(t, nil)
	ctx := context.Background()
	to := service.Recipient{Name: "Jane Doe", Email: "jane@x.com"}

	first, err := f.svc.Issue(ctx, to, "Rules 101", 92)
	if err != nil {
		t.Fatalf("first Issue: %v", err)
	}
	second, err := f.svc.Issue(ctx, to, "Rules 101", 92)
	if err != nil {
		t.Fatalf("second Issue: %v", err)
	}

	if first.Certificate.ID == second.Certificate.ID {
		t.Fatal("expected distinct certificate ids")
	}
	n, err := f.svc.Count(ctx)
	if err != nil || n != 2 {
		t.Fatalf("expected 2 records, got %d (%v)", n, err)
	}
}

func TestCertificateService_Issue_ConcurrentAppendsAllKept(t *testing.T) {
	f := newCertFixture(t, nil)
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Issue(ctx, service.Recipient{Name: "Sam", Email: "sam@x.com"}, "Rules 101", 80)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
	}
	n, err := f.svc.Count(ctx)
	if err != nil || n != workers {
		t.Fatalf("expected %d records, got %d (%v)", workers, n, err)
	}
}

func TestCertificateService_Issue_InvalidInput(t *testing.T) {
	f := newCertFixture(t, nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		to    service.Recipient
		title string
	}{
		{"missing name", service.Recipient{Email: "a@x.com"}, "Rules 101"},
		{"missing email", service.Recipient{Name: "A"}, "Rules 101"},
		{"missing title", service.Recipient{Name: "A", Email: "a@x.com"}, "  "},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Issue(ctx, tc.to, tc.title, 50)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestCertificateService_Issue_RenderFailureStoresNothing(t *testing.T) {
	f := newCertFixture(t, failingRenderer{})
	ctx := context.Background()

	_, err := f.svc.Issue(ctx, service.Recipient{Name: "Jane", Email: "jane@x.com"}, "Rules 101", 92)
	if !errors.Is(err, domain.ErrRender) {
		t.Fatalf("expected ErrRender, got %v", err)
	}

	if n, _ := f.svc.Count(ctx); n != 0 {
		t.Fatalf("expected empty ledger, got %d", n)
	}
	if len(f.notifier.sent) != 0 {
		t.Fatalf("expected no emails, got %d", len(f.notifier.sent))
	}
}

func TestCertificateService_Issue_StoreFailureStoresNothing(t *testing.T) {
	db := newTestDB(t)
	r, err := render.New(render.Options{FrontendURL: testFrontend, Formats: []domain.Format{domain.FormatPDF}})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	svc := service.NewCertificateService(r, db.Certificates(), failingFileStore{db.FileStore()}, nil, "")
	ctx := context.Background()

	_, err = svc.Issue(ctx, service.Recipient{Name: "Jane", Email: "jane@x.com"}, "Rules 101", 92)
	if !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if n, _ := db.Certificates().Count(ctx); n != 0 {
		t.Fatalf("expected empty ledger, got %d", n)
	}
}

func TestCertificateService_Issue_DeliveryFailureStillPersisted(t *testing.T) {
	f := newCertFixture(t, nil)
	f.notifier.err = errors.New("smtp down")
	ctx := context.Background()

	issued, err := f.svc.Issue(ctx, service.Recipient{Name: "Jane", Email: "jane@x.com"}, "Rules 101", 92)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if issued.EmailSent {
		t.Fatal("expected EmailSent=false")
	}
	if _, err := f.db.Certificates().GetByID(ctx, issued.Certificate.ID); err != nil {
		t.Fatalf("expected record persisted: %v", err)
	}
}

func TestCertificateService_Artifact_NotFound(t *testing.T) {
	f := newCertFixture(t, nil)
	ctx := context.Background()

	if _, err := f.svc.Artifact(ctx, "missing", domain.FormatPDF); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown certificate, got %v", err)
	}

	issued, err := f.svc.Issue(ctx, service.Recipient{Name: "Jane", Email: "jane@x.com"}, "Rules 101", 92)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := f.svc.Artifact(ctx, issued.Certificate.ID, domain.FormatPNG); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unrendered format, got %v", err)
	}
}

func TestCertificateService_ListMine(t *testing.T) {
	f := newCertFixture(t, nil)
	ctx := context.Background()

	for _, title := range []string{"Rules 101", "Pitching"} {
		if _, err := f.svc.Issue(ctx, service.Recipient{Name: "Jane", Email: "jane@x.com"}, title, 90); err != nil {
			t.Fatalf("Issue: %v", err)
		}
	}
	if _, err := f.svc.Issue(ctx, service.Recipient{Name: "Bob", Email: "bob@x.com"}, "Rules 101", 70); err != nil {
		t.Fatalf("Issue: %v", err)
	}

	certs, err := f.svc.ListMine(ctx, "JANE@x.com")
	if err != nil {
		t.Fatalf("ListMine: %v", err)
	}
	if len(certs) != 2 || certs[0].QuizTitle != "Pitching" {
		t.Fatalf("expected Jane's two certificates newest first, got %+v", certs)
	}
}
