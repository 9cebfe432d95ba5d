package handler

import (
	"time"

	"github.com/msomdec/quizcert/internal/domain"
)

// MessageResponse is the body of plain acknowledgements and all errors.
type MessageResponse struct {
	Message string `json:"message"`
}

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the bearer token.
type LoginResponse struct {
	Token string `json:"token"`
	Name  string `json:"name"`
}

// UserDTO is the JSON representation of the signed-in user.
type UserDTO struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SendCertificateRequest is the body of POST /send-certificate. The score
// is recorded as given; a missing score is 0.
type SendCertificateRequest struct {
	QuizTitle string  `json:"quizTitle" validate:"required"`
	Score     float64 `json:"score"`
}

// SendCertificateResponse reports a completed issuance.
type SendCertificateResponse struct {
	Message         string `json:"message"`
	CertificateID   string `json:"certificateId"`
	VerificationURL string `json:"verificationUrl"`
	EmailSent       bool   `json:"emailSent"`
}

// VerifyRequest is the body of POST /verify-certificate. Either id, or
// name and email, must be given.
type VerifyRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// VerifyResponse is the body of POST /verify-certificate.
type VerifyResponse struct {
	Verified bool            `json:"verified"`
	Message  string          `json:"message"`
	Data     *CertificateDTO `json:"data,omitempty"`
}

// CertificateDTO is the JSON representation of a ledger record.
type CertificateDTO struct {
	ID              string  `json:"certificateId"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	QuizTitle       string  `json:"quizTitle"`
	Score           float64 `json:"score"`
	VerificationURL string  `json:"verificationUrl"`
	IssuedAt        string  `json:"issuedAt"`
}

func toCertificateDTO(c *domain.Certificate) *CertificateDTO {
	return &CertificateDTO{
		ID:              c.ID,
		Name:            c.RecipientName,
		Email:           c.RecipientEmail,
		QuizTitle:       c.QuizTitle,
		Score:           c.Score,
		VerificationURL: c.VerificationURL,
		IssuedAt:        c.IssuedAt.Format(time.RFC3339),
	}
}

func toCertificateDTOs(certs []domain.Certificate) []*CertificateDTO {
	dtos := make([]*CertificateDTO, len(certs))
	for i := range certs {
		dtos[i] = toCertificateDTO(&certs[i])
	}
	return dtos
}
