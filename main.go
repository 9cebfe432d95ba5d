package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/msomdec/quizcert/internal/config"
	"github.com/msomdec/quizcert/internal/domain"
	"github.com/msomdec/quizcert/internal/handler"
	"github.com/msomdec/quizcert/internal/logging"
	"github.com/msomdec/quizcert/internal/notify"
	"github.com/msomdec/quizcert/internal/render"
	"github.com/msomdec/quizcert/internal/repository/s3"
	"github.com/msomdec/quizcert/internal/repository/sqlite"
	"github.com/msomdec/quizcert/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log, os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied", "path", cfg.Database.Path)

	files, err := openFileStore(ctx, cfg.Storage, db)
	if err != nil {
		slog.Error("failed to open artifact store", "error", err)
		os.Exit(1)
	}

	renderer, err := render.New(render.Options{
		IssuerName:     cfg.Certificate.IssuerName,
		IssuerTitle:    cfg.Certificate.IssuerTitle,
		FrontendURL:    cfg.Certificate.FrontendURL,
		LogoPath:       cfg.Certificate.LogoPath,
		BackgroundPath: cfg.Certificate.BackgroundPath,
		Formats:        cfg.Certificate.Formats,
		DPI:            cfg.Certificate.DPI,
	})
	if err != nil {
		slog.Error("failed to initialise renderer", "error", err)
		os.Exit(1)
	}

	sender, err := newSender(cfg.Mail)
	if err != nil {
		slog.Error("failed to configure mail", "error", err)
		os.Exit(1)
	}
	dispatcher := notify.NewDispatcher(sender, notify.Options{
		From:        cfg.Mail.Sender(),
		TemplateDir: cfg.Mail.TemplateDir,
		AppName:     cfg.Certificate.AppName,
		FrontendURL: cfg.Certificate.FrontendURL,
	})

	authService := service.NewAuthService(db.Users(), dispatcher, cfg.Auth.JWTSecret, cfg.Auth.BcryptCost, cfg.Auth.TokenTTL)
	certService := service.NewCertificateService(renderer, db.Certificates(), files, dispatcher, cfg.Mail.TeacherEmail)
	verifier := service.NewVerificationService(db.Certificates())

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Services{
		Auth:         authService,
		Certificates: certService,
		Verifier:     verifier,
		DB:           db,
		AppName:      cfg.Certificate.AppName,
	})

	srv := &http.Server{
		Addr: ":" + strconv.Itoa(cfg.Server.Port),
		Handler: handler.Chain(mux,
			handler.Recovery(logger),
			handler.RequestID,
			handler.Logger(logger),
			handler.CORS(handler.CORSOptions{
				AllowedOrigins: cfg.CORS.Origins(),
				AllowedMethods: cfg.CORS.AllowedMethods,
				AllowedHeaders: cfg.CORS.AllowedHeaders,
				MaxAge:         cfg.CORS.MaxAge,
			}),
			handler.SecurityHeaders,
		),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	if cfg.Mail.NotifyOnStart {
		go announceStartup(ctx, dispatcher, certService, cfg.Mail.AdminEmail)
	}

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func openFileStore(ctx context.Context, cfg config.StorageConfig, db *sqlite.DB) (domain.FileStore, error) {
	if cfg.Backend != config.StoreS3 {
		return db.FileStore(), nil
	}
	store, err := s3.Open(ctx, s3.Options{
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		Prefix:    cfg.S3Prefix,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("certificate files stored in s3", "bucket", cfg.S3Bucket)
	return store, nil
}

func newSender(cfg config.MailConfig) (notify.Sender, error) {
	if cfg.Host == "" {
		slog.Warn("SMTP host not configured, emails will only be logged")
		return &notify.LogSender{}, nil
	}
	return notify.NewSMTPSender(notify.SMTPOptions{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		Timeout:  cfg.Timeout,
	})
}

// announceStartup emails the administrator once the server is up.
func announceStartup(ctx context.Context, n *notify.Dispatcher, certs *service.CertificateService, admin string) {
	count, err := certs.Count(ctx)
	if err != nil {
		slog.Warn("count certificates for startup notice", "error", err)
	}
	err = n.Send(ctx, notify.KindAdminDeploy, admin, notify.Vars{
		"time":             time.Now().UTC().Format(time.RFC1123),
		"certificateCount": strconv.Itoa(count),
	})
	if err != nil {
		slog.Warn("startup notification failed", "error", err)
	}
}
