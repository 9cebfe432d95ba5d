package domain

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// Certificate is the ledger record describing one issued certificate.
// Records are append-only: once stored they are never mutated or deleted.
type Certificate struct {
	ID              string
	Seq             int64 // Ledger insertion order, assigned on Append
	RecipientName   string
	RecipientEmail  string
	QuizTitle       string
	Score           float64
	VerificationURL string
	IssuedAt        time.Time
}

// CertificateRepository is the certificate ledger.
type CertificateRepository interface {
	// Append stores a new record and sets Seq and IssuedAt.
	Append(ctx context.Context, cert *Certificate) error
	GetByID(ctx context.Context, id string) (*Certificate, error)
	// FindByNameEmail returns the earliest record whose recipient name and
	// email match case-insensitively.
	FindByNameEmail(ctx context.Context, name, email string) (*Certificate, error)
	ListByEmail(ctx context.Context, email string) ([]Certificate, error)
	Count(ctx context.Context) (int, error)
}

// VerificationURL builds the public verification link for a certificate id.
func VerificationURL(frontendBase, id string) string {
	return strings.TrimRight(frontendBase, "/") + "/verify?id=" + url.QueryEscape(id)
}

// FoldKey normalizes a name or email for case-insensitive ledger matching.
func FoldKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
