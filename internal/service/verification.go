package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/msomdec/quizcert/internal/domain"
)

// VerifyMethod records which lookup strategy answered a verification.
type VerifyMethod string

const (
	VerifyByID        VerifyMethod = "id"
	VerifyByNameEmail VerifyMethod = "name_email"
)

// Query selects a certificate by id, or by recipient name and email.
// ID takes precedence when both are given.
type Query struct {
	ID    string
	Name  string
	Email string
}

// VerificationResult is the answer to a verification query.
type VerificationResult struct {
	Verified    bool
	Certificate *domain.Certificate
	Method      VerifyMethod
}

// VerificationService answers public certificate lookups.
type VerificationService struct {
	certs domain.CertificateRepository
}

// NewVerificationService creates a new VerificationService.
func NewVerificationService(certs domain.CertificateRepository) *VerificationService {
	return &VerificationService{certs: certs}
}

// Verify looks a certificate up. A miss is Verified=false with a nil error.
func (s *VerificationService) Verify(ctx context.Context, q Query) (*VerificationResult, error) {
	id := strings.TrimSpace(q.ID)
	name := strings.TrimSpace(q.Name)
	email := strings.TrimSpace(q.Email)

	var (
		cert   *domain.Certificate
		err    error
		method VerifyMethod
	)
	switch {
	case id != "":
		method = VerifyByID
		cert, err = s.certs.GetByID(ctx, id)
	case name != "" && email != "":
		method = VerifyByNameEmail
		cert, err = s.certs.FindByNameEmail(ctx, name, email)
	default:
		return nil, fmt.Errorf("%w: certificate id, or name and email, required", domain.ErrInvalidInput)
	}

	if errors.Is(err, domain.ErrNotFound) {
		return &VerificationResult{Method: method}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("verify certificate: %w", err)
	}
	return &VerificationResult{Verified: true, Certificate: cert, Method: method}, nil
}
