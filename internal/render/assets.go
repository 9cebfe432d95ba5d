package render

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/disintegration/imaging"
	"github.com/skip2/go-qrcode"
)

const (
	maxAssetWidth = 1200
	qrPixels      = 512
)

// loadOptionalImage reads an image from disk. A blank path, a missing file
// or an undecodable file all yield nil: optional assets never fail a render.
func loadOptionalImage(path, kind string) image.Image {
	if path == "" {
		return nil
	}
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		slog.Warn("certificate asset unavailable, using text-only layout", "asset", kind, "path", path, "error", err)
		return nil
	}
	if img.Bounds().Dx() > maxAssetWidth {
		img = imaging.Resize(img, maxAssetWidth, 0, imaging.Lanczos)
	}
	return img
}

// qrImage encodes the verification URL as a QR code image.
func qrImage(content string) (image.Image, error) {
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return q.Image(qrPixels), nil
}
