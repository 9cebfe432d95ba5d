package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/msomdec/quizcert/internal/domain"
)

func newCertificate(id, name, email string, score float64) *domain.Certificate {
	return &domain.Certificate{
		ID:              id,
		RecipientName:   name,
		RecipientEmail:  email,
		QuizTitle:       "Rules 101",
		Score:           score,
		VerificationURL: domain.VerificationURL("https://quiz.example.com", id),
	}
}

func TestCertificateRepository_AppendAndGetByID(t *testing.T) {
	db := newTestDB(t)
	repo := db.Certificates()
	ctx := context.Background()

	cert := newCertificate("cert-1", "Jane Doe", "jane@example.com", 92)
	if err := repo.Append(ctx, cert); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if cert.Seq == 0 {
		t.Fatal("expected Seq to be set")
	}
	if cert.IssuedAt.IsZero() {
		t.Fatal("expected IssuedAt to be set")
	}

	found, err := repo.GetByID(ctx, "cert-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if found.RecipientName != "Jane Doe" || found.QuizTitle != "Rules 101" || found.Score != 92 {
		t.Fatalf("unexpected record: %+v", found)
	}
	if found.VerificationURL != "https://quiz.example.com/verify?id=cert-1" {
		t.Fatalf("unexpected verification url %q", found.VerificationURL)
	}
}

func TestCertificateRepository_GetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Certificates().GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCertificateRepository_DuplicateID(t *testing.T) {
	db := newTestDB(t)
	repo := db.Certificates()
	ctx := context.Background()

	if err := repo.Append(ctx, newCertificate("same", "A", "a@example.com", 10)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	err := repo.Append(ctx, newCertificate("same", "B", "b@example.com", 20))
	if !errors.Is(err, domain.ErrDuplicateCertificate) {
		t.Fatalf("expected ErrDuplicateCertificate, got %v", err)
	}
}

func TestCertificateRepository_FindByNameEmail(t *testing.T) {
	db := newTestDB(t)
	repo := db.Certificates()
	ctx := context.Background()

	first := newCertificate("first", "Alice", "alice@x.com", 70)
	second := newCertificate("second", "Alice", "alice@x.com", 95)
	for _, c := range []*domain.Certificate{first, second} {
		if err := repo.Append(ctx, c); err != nil {
			t.Fatalf("Append %s: %v", c.ID, err)
		}
	}

	tests := []struct {
		name      string
		queryName string
		email     string
		wantID    string
	}{
		{"exact", "Alice", "alice@x.com", "first"},
		{"upper email", "Alice", "ALICE@X.COM", "first"},
		{"lower name padded", "  alice ", "alice@x.com", "first"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			found, err := repo.FindByNameEmail(ctx, tc.queryName, tc.email)
			if err != nil {
				t.Fatalf("FindByNameEmail: %v", err)
			}
			if found.ID != tc.wantID {
				t.Fatalf("expected %s, got %s", tc.wantID, found.ID)
			}
		})
	}

	_, err := repo.FindByNameEmail(ctx, "Alice", "other@x.com")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other email, got %v", err)
	}
}

func TestCertificateRepository_IsAppendOnly(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.Certificates().Append(ctx, newCertificate("locked", "Bob", "bob@example.com", 50)); err != nil {
		t.Fatalf("Append: %v", err)
	}

	if _, err := db.SqlDB.ExecContext(ctx, "UPDATE certificates SET score = 100 WHERE id = 'locked'"); err == nil {
		t.Fatal("expected UPDATE to be rejected")
	}
	if _, err := db.SqlDB.ExecContext(ctx, "DELETE FROM certificates WHERE id = 'locked'"); err == nil {
		t.Fatal("expected DELETE to be rejected")
	}

	found, err := db.Certificates().GetByID(ctx, "locked")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if found.Score != 50 {
		t.Fatalf("expected score 50 to be unchanged, got %v", found.Score)
	}
}

func TestCertificateRepository_ListByEmailAndCount(t *testing.T) {
	db := newTestDB(t)
	repo := db.Certificates()
	ctx := context.Background()

	for _, c := range []*domain.Certificate{
		newCertificate("c1", "Carol", "carol@example.com", 60),
		newCertificate("c2", "Dan", "dan@example.com", 70),
		newCertificate("c3", "Carol", "Carol@Example.com", 80),
	} {
		if err := repo.Append(ctx, c); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	list, err := repo.ListByEmail(ctx, "carol@example.com")
	if err != nil {
		t.Fatalf("ListByEmail: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 certificates, got %d", len(list))
	}
	if list[0].ID != "c3" || list[1].ID != "c1" {
		t.Fatalf("expected newest first [c3 c1], got [%s %s]", list[0].ID, list[1].ID)
	}

	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected count 3, got %d", n)
	}
}
