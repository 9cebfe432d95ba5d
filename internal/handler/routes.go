package handler

import (
	"net/http"

	"github.com/msomdec/quizcert/internal/service"
)

// Services bundles what the routes need.
type Services struct {
	Auth         *service.AuthService
	Certificates *service.CertificateService
	Verifier     *service.VerificationService
	DB           Pinger
	AppName      string
}

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, s Services) {
	authH := NewAuthHandler(s.Auth)
	certH := NewCertificateHandler(s.Certificates)
	verifyH := NewVerifyHandler(s.Verifier, s.AppName)
	healthH := NewHealthHandler(s.DB, s.Certificates.Count)

	requireAuth := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(s.Auth, h)
	}

	mux.HandleFunc("GET /healthz", healthH.HandleHealthz)

	// Accounts.
	mux.HandleFunc("POST /register", authH.HandleRegister)
	mux.HandleFunc("POST /login", authH.HandleLogin)
	mux.Handle("GET /auth-check", requireAuth(authH.HandleAuthCheck))

	// Issuance.
	mux.Handle("POST /send-certificate", requireAuth(certH.HandleSend))
	mux.Handle("GET /certificates", requireAuth(certH.HandleList))
	mux.HandleFunc("GET /certificates/{id}/{format}", certH.HandleDownload)

	// Public verification.
	mux.HandleFunc("POST /verify-certificate", verifyH.HandleVerify)
	mux.HandleFunc("GET /verify", verifyH.HandleVerifyPage)
	mux.HandleFunc("POST /verify/lookup", verifyH.HandleLookup)
}
