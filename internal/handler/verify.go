package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/msomdec/quizcert/internal/domain"
	"github.com/msomdec/quizcert/internal/service"
	"github.com/msomdec/quizcert/internal/view"
)

// VerifyHandler answers public certificate verification requests.
type VerifyHandler struct {
	verifier *service.VerificationService
	appName  string
}

// NewVerifyHandler creates a new VerifyHandler.
func NewVerifyHandler(verifier *service.VerificationService, appName string) *VerifyHandler {
	return &VerifyHandler{verifier: verifier, appName: appName}
}

// HandleVerify checks a certificate by id or by name and email.
// POST /verify-certificate
// Request:  {"id":"..."} or {"name":"...","email":"..."}
// Response: {"verified":true,"message":"...","data":{...}} or 404 {"verified":false,...}
func (h *VerifyHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, r, "verify certificate", err)
		return
	}

	res, err := h.verifier.Verify(r.Context(), service.Query{ID: req.ID, Name: req.Name, Email: req.Email})
	if err != nil {
		writeServiceError(w, r, "verify certificate", err)
		return
	}

	if !res.Verified {
		writeJSON(w, http.StatusNotFound, VerifyResponse{Verified: false, Message: "Certificate not found"})
		return
	}
	writeJSON(w, http.StatusOK, VerifyResponse{
		Verified: true,
		Message:  "Certificate is valid",
		Data:     toCertificateDTO(res.Certificate),
	})
}

// HandleVerifyPage renders the page linked from the certificate QR code.
// GET /verify?id=...
func (h *VerifyHandler) HandleVerifyPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	id := r.URL.Query().Get("id")
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		view.VerifyPage(h.appName, view.StatusMissingID, nil).Render(r.Context(), w)
		return
	}

	res, err := h.verifier.Verify(r.Context(), service.Query{ID: id})
	if err != nil {
		slog.Error("verify certificate page", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if !res.Verified {
		w.WriteHeader(http.StatusNotFound)
		view.VerifyPage(h.appName, view.StatusNotFound, nil).Render(r.Context(), w)
		return
	}
	view.VerifyPage(h.appName, view.StatusVerified, res.Certificate).Render(r.Context(), w)
}

type lookupSignals struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// HandleLookup answers the verification page's name/email form with an
// SSE fragment patch.
// POST /verify/lookup
func (h *VerifyHandler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	var signals lookupSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	state := view.LookupNotFound
	var cert *domain.Certificate
	res, err := h.verifier.Verify(r.Context(), service.Query{Name: signals.Name, Email: signals.Email})
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		state = view.LookupIncomplete
	case err != nil:
		slog.Error("verify certificate lookup", "error", err)
		state = view.LookupFailed
	case res.Verified:
		state, cert = view.LookupVerified, res.Certificate
	}

	sse := datastar.NewSSE(w, r)
	sse.PatchElementTempl(
		view.LookupResult(state, cert),
		datastar.WithSelectorID(view.LookupResultID),
	)
}
