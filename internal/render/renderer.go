// Package render produces certificate documents: a PDF, and optionally a
// PNG rasterized from the same page layout.
package render

import (
	"context"
	"fmt"
	"image"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/msomdec/quizcert/internal/domain"
)

// Input is what varies per certificate.
type Input struct {
	Name      string
	Score     float64
	QuizTitle string
}

// Rendering is the output of a successful render. Artifacts always start
// with the PDF.
type Rendering struct {
	ID              string
	VerificationURL string
	IssuedAt        time.Time
	Artifacts       []domain.Artifact
}

// Artifact returns the rendered file in the given format, if present.
func (r *Rendering) Artifact(f domain.Format) (domain.Artifact, bool) {
	for _, a := range r.Artifacts {
		if a.Format == f {
			return a, true
		}
	}
	return domain.Artifact{}, false
}

// Options configures a Renderer.
type Options struct {
	IssuerName     string
	IssuerTitle    string
	FrontendURL    string
	LogoPath       string
	BackgroundPath string
	Formats        []domain.Format
	DPI            float64
	// NewID generates certificate ids. Defaults to random UUIDs.
	NewID func() string
	// Now returns the issue time. Defaults to time.Now.
	Now func() time.Time
}

// Renderer renders certificates. It is safe for concurrent use.
type Renderer struct {
	opts       Options
	withPNG    bool
	logo       image.Image
	background image.Image
	raster     *rasterizer
}

// New creates a Renderer, loading optional logo and background images.
func New(opts Options) (*Renderer, error) {
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DPI <= 0 {
		opts.DPI = 150
	}

	r := &Renderer{
		opts:       opts,
		withPNG:    slices.Contains(opts.Formats, domain.FormatPNG),
		logo:       loadOptionalImage(opts.LogoPath, "logo"),
		background: loadOptionalImage(opts.BackgroundPath, "background"),
	}

	if r.withPNG {
		raster, err := newRasterizer(opts.DPI)
		if err != nil {
			return nil, fmt.Errorf("init png renderer: %w", err)
		}
		r.raster = raster
	}

	return r, nil
}

// Render generates a fresh certificate id and draws the certificate.
// Any failure is wrapped in domain.ErrRender.
func (r *Renderer) Render(ctx context.Context, in Input) (*Rendering, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRender, err)
	}

	id := r.opts.NewID()
	verifyURL := domain.VerificationURL(r.opts.FrontendURL, id)
	issuedAt := r.opts.Now().UTC()

	qr, err := qrImage(verifyURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRender, err)
	}

	layout := buildLayout(content{
		ID:          id,
		Name:        in.Name,
		Score:       in.Score,
		QuizTitle:   in.QuizTitle,
		VerifyURL:   verifyURL,
		IssuerName:  r.opts.IssuerName,
		IssuerTitle: r.opts.IssuerTitle,
		IssuedAt:    issuedAt,
		Logo:        r.logo,
		Background:  r.background,
		QR:          qr,
	})

	pdf, err := renderPDF(layout)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRender, err)
	}

	out := &Rendering{
		ID:              id,
		VerificationURL: verifyURL,
		IssuedAt:        issuedAt,
		Artifacts:       []domain.Artifact{{CertificateID: id, Format: domain.FormatPDF, Data: pdf}},
	}

	if r.withPNG {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrRender, err)
		}
		png, err := r.raster.render(layout)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrRender, err)
		}
		out.Artifacts = append(out.Artifacts, domain.Artifact{CertificateID: id, Format: domain.FormatPNG, Data: png})
	}

	return out, nil
}
