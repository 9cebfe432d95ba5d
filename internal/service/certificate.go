package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/msomdec/quizcert/internal/domain"
	"github.com/msomdec/quizcert/internal/notify"
	"github.com/msomdec/quizcert/internal/render"
)

// Renderer draws a certificate. Implemented by *render.Renderer.
type Renderer interface {
	Render(ctx context.Context, in render.Input) (*render.Rendering, error)
}

// Recipient identifies who a certificate is issued to.
type Recipient struct {
	Name  string
	Email string
}

// Issued is the outcome of a successful issuance.
type Issued struct {
	Certificate *domain.Certificate
	Artifacts   []domain.Artifact
	// EmailSent reports whether the recipient email was delivered.
	EmailSent bool
}

// CertificateService issues certificates and serves their stored files.
type CertificateService struct {
	renderer     Renderer
	certs        domain.CertificateRepository
	files        domain.FileStore
	notifier     Notifier
	teacherEmail string
}

// NewCertificateService creates a new CertificateService. notifier may be nil.
func NewCertificateService(renderer Renderer, certs domain.CertificateRepository, files domain.FileStore, notifier Notifier, teacherEmail string) *CertificateService {
	return &CertificateService{
		renderer:     renderer,
		certs:        certs,
		files:        files,
		notifier:     notifier,
		teacherEmail: strings.TrimSpace(teacherEmail),
	}
}

// Issue renders a certificate, stores its files, appends it to the ledger,
// then emails the recipient and the teacher.
//
// Nothing is persisted when rendering fails. Email failures never undo an
// issuance; they are logged and reported through Issued.EmailSent.
func (s *CertificateService) Issue(ctx context.Context, to Recipient, quizTitle string, score float64) (*Issued, error) {
	to.Name = strings.TrimSpace(to.Name)
	to.Email = strings.TrimSpace(to.Email)
	quizTitle = strings.TrimSpace(quizTitle)

	if to.Name == "" || to.Email == "" {
		return nil, fmt.Errorf("%w: recipient name and email are required", domain.ErrInvalidInput)
	}
	if quizTitle == "" {
		return nil, fmt.Errorf("%w: quiz title is required", domain.ErrInvalidInput)
	}

	rendering, err := s.renderer.Render(ctx, render.Input{Name: to.Name, Score: score, QuizTitle: quizTitle})
	if err != nil {
		if !errors.Is(err, domain.ErrRender) {
			err = fmt.Errorf("%w: %w", domain.ErrRender, err)
		}
		return nil, err
	}

	saved := make([]string, 0, len(rendering.Artifacts))
	for _, a := range rendering.Artifacts {
		if err := s.files.Save(ctx, a.StorageKey(), a.Data); err != nil {
			s.discard(saved)
			if !errors.Is(err, domain.ErrPersistence) {
				err = fmt.Errorf("%w: %w", domain.ErrPersistence, err)
			}
			return nil, fmt.Errorf("store %s: %w", a.Format, err)
		}
		saved = append(saved, a.StorageKey())
	}

	cert := &domain.Certificate{
		ID:              rendering.ID,
		RecipientName:   to.Name,
		RecipientEmail:  to.Email,
		QuizTitle:       quizTitle,
		Score:           score,
		VerificationURL: rendering.VerificationURL,
	}
	if err := s.certs.Append(ctx, cert); err != nil {
		s.discard(saved)
		if !errors.Is(err, domain.ErrPersistence) {
			err = fmt.Errorf("%w: %w", domain.ErrPersistence, err)
		}
		return nil, fmt.Errorf("append certificate: %w", err)
	}

	slog.Info("certificate issued", "certificate_id", cert.ID, "quiz", quizTitle, "seq", cert.Seq)

	return &Issued{
		Certificate: cert,
		Artifacts:   rendering.Artifacts,
		EmailSent:   s.announce(ctx, cert, rendering.Artifacts),
	}, nil
}

// announce emails the recipient and the teacher. It reports whether the
// recipient email was delivered.
func (s *CertificateService) announce(ctx context.Context, cert *domain.Certificate, artifacts []domain.Artifact) bool {
	if s.notifier == nil {
		return false
	}

	vars := notify.Vars{
		"username":       cert.RecipientName,
		"studentName":    cert.RecipientName,
		"studentEmail":   cert.RecipientEmail,
		"quizTitle":      cert.QuizTitle,
		"score":          render.FormatScore(cert.Score),
		"certificateId":  cert.ID,
		"certificateUrl": cert.VerificationURL,
	}

	sent := true
	if err := s.notifier.Send(ctx, notify.KindCertificateIssued, cert.RecipientEmail, vars, artifacts...); err != nil {
		slog.Error("certificate email failed", "certificate_id", cert.ID, "error", err)
		sent = false
	}
	if err := s.notifier.Send(ctx, notify.KindTeacherNotify, s.teacherEmail, vars); err != nil {
		slog.Warn("teacher notification failed", "certificate_id", cert.ID, "error", err)
	}
	return sent
}

// discard removes stored files after a failed issuance.
func (s *CertificateService) discard(keys []string) {
	for _, key := range keys {
		if err := s.files.Delete(context.Background(), key); err != nil {
			slog.Warn("cleanup certificate file", "key", key, "error", err)
		}
	}
}

// Artifact returns a stored certificate file. It returns domain.ErrNotFound
// when the certificate does not exist or was not rendered in that format.
func (s *CertificateService) Artifact(ctx context.Context, id string, format domain.Format) (*domain.Artifact, error) {
	if _, err := s.certs.GetByID(ctx, id); err != nil {
		return nil, err
	}
	data, err := s.files.Get(ctx, domain.ArtifactKey(id, format))
	if err != nil {
		return nil, err
	}
	return &domain.Artifact{CertificateID: id, Format: format, Data: data}, nil
}

// ListMine returns the certificates issued to email, newest first.
func (s *CertificateService) ListMine(ctx context.Context, email string) ([]domain.Certificate, error) {
	certs, err := s.certs.ListByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	return certs, nil
}

// Count returns the number of certificates in the ledger.
func (s *CertificateService) Count(ctx context.Context) (int, error) {
	return s.certs.Count(ctx)
}
