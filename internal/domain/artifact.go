package domain

import (
	"context"
	"fmt"
)

// Format identifies the encoding of a rendered certificate.
type Format string

const (
	FormatPDF Format = "pdf"
	FormatPNG Format = "png"
)

// ParseFormat validates a format name such as "pdf" or "png".
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatPDF, FormatPNG:
		return Format(s), nil
	}
	return "", fmt.Errorf("%w: unsupported certificate format %q", ErrInvalidInput, s)
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatPNG:
		return "image/png"
	}
	return "application/octet-stream"
}

// Artifact is one rendered file of a certificate.
type Artifact struct {
	CertificateID string
	Format        Format
	Data          []byte
}

// Filename is the attachment name offered to recipients.
func (a Artifact) Filename() string {
	return "Certificate-" + a.CertificateID + "." + string(a.Format)
}

// ContentType returns the MIME type of the artifact.
func (a Artifact) ContentType() string {
	return a.Format.ContentType()
}

// StorageKey is the key used to store the artifact in a FileStore.
func (a Artifact) StorageKey() string {
	return ArtifactKey(a.CertificateID, a.Format)
}

// ArtifactKey builds the FileStore key for a certificate file.
func ArtifactKey(certificateID string, format Format) string {
	return "certificates/" + certificateID + "." + string(format)
}

// FileStore abstracts raw file byte storage.
// The default implementation stores BLOBs in SQLite; an S3 implementation
// is available for deployments that archive certificates in a bucket.
type FileStore interface {
	Save(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
