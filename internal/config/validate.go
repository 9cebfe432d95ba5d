package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/msomdec/quizcert/internal/domain"
)

// Validate checks business rules on the loaded configuration and fills
// derived fields. Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 14 {
		return fmt.Errorf("auth.bcrypt_cost must be between 4 and 14 (got %d)", c.Auth.BcryptCost)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive (got %s)", c.Auth.TokenTTL)
	}

	if u, err := url.Parse(c.Certificate.FrontendURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("certificate.frontend_url must be an absolute URL (got %q)", c.Certificate.FrontendURL)
	}
	formats, err := ParseFormats(c.Certificate.FormatsRaw)
	if err != nil {
		return fmt.Errorf("certificate.formats: %w", err)
	}
	c.Certificate.Formats = formats
	if c.Certificate.DPI < 30 || c.Certificate.DPI > 600 {
		return fmt.Errorf("certificate.dpi must be between 30 and 600 (got %v)", c.Certificate.DPI)
	}

	switch c.Storage.Backend {
	case StoreSQLite:
	case StoreS3:
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("storage.s3_bucket is required when storage.backend is %q", StoreS3)
		}
	default:
		return fmt.Errorf("storage.backend must be %q or %q (got %q)", StoreSQLite, StoreS3, c.Storage.Backend)
	}

	if c.Mail.Host != "" && c.Mail.Port <= 0 {
		return fmt.Errorf("mail.port must be positive (got %d)", c.Mail.Port)
	}

	if !validLogFormat(c.Log.Format) {
		return fmt.Errorf("log.format must be one of %s (got %q)", strings.Join(logFormats, ", "), c.Log.Format)
	}

	return nil
}

// ParseFormats parses a comma-separated format list such as "pdf,png".
// PDF is always included and always first; duplicates are dropped.
func ParseFormats(raw string) ([]domain.Format, error) {
	formats := []domain.Format{domain.FormatPDF}
	for part := range strings.SplitSeq(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		f, err := domain.ParseFormat(part)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(formats, f) {
			formats = append(formats, f)
		}
	}
	return formats, nil
}
