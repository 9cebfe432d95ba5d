package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/msomdec/quizcert/internal/domain"
	"github.com/msomdec/quizcert/internal/service"
)

// CertificateHandler issues certificates and serves their files.
type CertificateHandler struct {
	certs *service.CertificateService
}

// NewCertificateHandler creates a new CertificateHandler.
func NewCertificateHandler(certs *service.CertificateService) *CertificateHandler {
	return &CertificateHandler{certs: certs}
}

// HandleSend issues a certificate to the signed-in user and emails it.
// POST /send-certificate
// Request:  {"quizTitle":"...","score":92}
// Response: {"message":"...","certificateId":"...","verificationUrl":"...","emailSent":true}
func (h *CertificateHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req SendCertificateRequest
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, "issue certificate", err)
		return
	}

	issued, err := h.certs.Issue(r.Context(),
		service.Recipient{Name: user.Name, Email: user.Email}, req.QuizTitle, req.Score)
	if err != nil {
		writeServiceError(w, r, "issue certificate", err)
		return
	}

	msg := "Certificate sent successfully"
	if !issued.EmailSent {
		msg = "Certificate issued, but the email could not be delivered"
	}
	writeJSON(w, http.StatusOK, SendCertificateResponse{
		Message:         msg,
		CertificateID:   issued.Certificate.ID,
		VerificationURL: issued.Certificate.VerificationURL,
		EmailSent:       issued.EmailSent,
	})
}

// HandleList returns the signed-in user's certificates, newest first.
// GET /certificates
func (h *CertificateHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	certs, err := h.certs.ListMine(r.Context(), user.Email)
	if err != nil {
		writeServiceError(w, r, "list certificates", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"certificates": toCertificateDTOs(certs)})
}

// HandleDownload serves a stored certificate file.
// GET /certificates/{id}/{format}
func (h *CertificateHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	format, err := domain.ParseFormat(r.PathValue("format"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	art, err := h.certs.Artifact(r.Context(), r.PathValue("id"), format)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Certificate not found")
			return
		}
		writeServiceError(w, r, "download certificate", err)
		return
	}

	w.Header().Set("Content-Type", art.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(art.Data)))
	w.Header().Set("Content-Disposition", `attachment; filename="`+art.Filename()+`"`)
	w.Header().Set("Cache-Control", "private, max-age=86400")
	w.Write(art.Data)
}
