// Package config loads service configuration from the environment, an
// optional .env file and an optional YAML file.
package config

import (
	"slices"
	"strings"
	"time"

	"github.com/msomdec/quizcert/internal/domain"
)

// Config is the root application configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Auth        AuthConfig        `yaml:"auth"`
	Mail        MailConfig        `yaml:"mail"`
	Certificate CertificateConfig `yaml:"certificate"`
	Storage     StorageConfig     `yaml:"storage"`
	CORS        CORSConfig        `yaml:"cors"`
	Log         LogConfig         `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port              int           `yaml:"port"                env:"PORT"                       env-default:"8080"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" env:"SERVER_READ_HEADER_TIMEOUT" env-default:"10s"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"        env:"SERVER_IDLE_TIMEOUT"        env-default:"120s"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"    env:"SERVER_SHUTDOWN_TIMEOUT"    env-default:"5s"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `yaml:"path" env:"DATABASE_PATH" env-default:"quizcert.db"`
}

// AuthConfig holds token and password hashing settings.
type AuthConfig struct {
	JWTSecret  string        `yaml:"jwt_secret"  env:"JWT_SECRET"  env-required:"true"`
	BcryptCost int           `yaml:"bcrypt_cost" env:"BCRYPT_COST" env-default:"12"`
	TokenTTL   time.Duration `yaml:"token_ttl"   env:"TOKEN_TTL"   env-default:"168h"`
}

// MailConfig holds SMTP and notification settings. An empty Host selects
// the logging sender.
type MailConfig struct {
	Host          string        `yaml:"host"          env:"SMTP_HOST,MAILGUN_SMTP_SERVER"`
	Port          int           `yaml:"port"          env:"SMTP_PORT,MAILGUN_SMTP_PORT"     env-default:"587"`
	Username      string        `yaml:"username"      env:"SMTP_USERNAME,MAILGUN_SMTP_LOGIN"`
	Password      string        `yaml:"password"      env:"SMTP_PASSWORD,MAILGUN_SMTP_PASSWORD"`
	From          string        `yaml:"from"          env:"SMTP_FROM"`
	Timeout       time.Duration `yaml:"timeout"       env:"SMTP_TIMEOUT"                    env-default:"15s"`
	TemplateDir   string        `yaml:"template_dir"  env:"MAIL_TEMPLATE_DIR"               env-default:"templates"`
	TeacherEmail  string        `yaml:"teacher_email" env:"TEACHER_EMAIL"`
	AdminEmail    string        `yaml:"admin_email"   env:"ADMIN_EMAIL"`
	NotifyOnStart bool          `yaml:"notify_on_start" env:"NOTIFY_ON_START"               env-default:"false"`
}

// Sender returns the From address, defaulting to the SMTP login.
func (m MailConfig) Sender() string {
	if m.From != "" {
		return m.From
	}
	if m.Username != "" {
		return "Quiz Team <" + m.Username + ">"
	}
	return "Quiz Team <no-reply@localhost>"
}

// CertificateConfig holds rendering settings.
type CertificateConfig struct {
	AppName        string  `yaml:"app_name"        env:"APP_NAME"           env-default:"Fastpitch Quiz"`
	FrontendURL    string  `yaml:"frontend_url"    env:"FRONTEND_URL"       env-default:"http://localhost:8080"`
	IssuerName     string  `yaml:"issuer_name"     env:"CERTIFICATE_ISSUER" env-default:"Fastpitch Quiz"`
	IssuerTitle    string  `yaml:"issuer_title"    env:"CERTIFICATE_ISSUER_TITLE" env-default:"Quiz Administrator"`
	LogoPath       string  `yaml:"logo_path"       env:"CERTIFICATE_LOGO"`
	BackgroundPath string  `yaml:"background_path" env:"CERTIFICATE_BACKGROUND"`
	FormatsRaw     string  `yaml:"formats"         env:"RENDER_FORMATS"     env-default:"pdf,png"`
	DPI            float64 `yaml:"dpi"             env:"RENDER_DPI"         env-default:"150"`

	// Formats is parsed from FormatsRaw during validation. PDF is always first.
	Formats []domain.Format `yaml:"-" env:"-"`
}

// Storage backends for rendered certificate files.
const (
	StoreSQLite = "sqlite"
	StoreS3     = "s3"
)

// StorageConfig selects where rendered files are kept.
type StorageConfig struct {
	Backend     string `yaml:"backend"       env:"ARTIFACT_STORE"       env-default:"sqlite"`
	S3Bucket    string `yaml:"s3_bucket"     env:"S3_BUCKET"`
	S3Prefix    string `yaml:"s3_prefix"     env:"S3_PREFIX"`
	S3Region    string `yaml:"s3_region"     env:"S3_REGION"            env-default:"us-east-1"`
	S3Endpoint  string `yaml:"s3_endpoint"   env:"S3_ENDPOINT"`
	S3AccessKey string `yaml:"s3_access_key" env:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `yaml:"s3_secret_key" env:"S3_SECRET_ACCESS_KEY"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
	AllowedMethods string `yaml:"allowed_methods" env:"CORS_ALLOWED_METHODS" env-default:"GET,POST,OPTIONS"`
	AllowedHeaders string `yaml:"allowed_headers" env:"CORS_ALLOWED_HEADERS" env-default:"Authorization,Content-Type"`
	MaxAge         int    `yaml:"max_age"         env:"CORS_MAX_AGE"         env-default:"86400"`
}

// Origins splits AllowedOrigins into trimmed, non-empty entries.
func (c CORSConfig) Origins() []string {
	var out []string
	for o := range strings.SplitSeq(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// Log formats.
var logFormats = []string{"json", "text", "pretty"}

func validLogFormat(f string) bool {
	return slices.Contains(logFormats, strings.ToLower(f))
}
