package render

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// pdfFont is the embedded UTF-8 family shared with the PNG rasterizer, so
// both artifacts print recipient names the same way.
const pdfFont = "go"

// renderPDF draws the layout onto a single A4 landscape page.
func renderPDF(l *Layout) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(l.Title, true)
	pdf.SetAuthor(l.Author, true)
	pdf.SetCreator("quizcert", true)
	if !l.IssuedAt.IsZero() {
		pdf.SetCreationDate(l.IssuedAt)
	}
	pdf.AddUTF8FontFromBytes(pdfFont, "", goregular.TTF)
	pdf.AddUTF8FontFromBytes(pdfFont, "B", gobold.TTF)
	pdf.AddPage()

	for _, p := range l.Pictures {
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, p.Image, imaging.PNG); err != nil {
			return nil, fmt.Errorf("encode %s image: %w", p.Name, err)
		}
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(p.Name, opts, &buf)
		pdf.ImageOptions(p.Name, p.X, p.Y, p.W, p.H, false, opts, 0, "")
	}

	for _, r := range l.Rules {
		pdf.SetFillColor(int(r.Color.R), int(r.Color.G), int(r.Color.B))
		pdf.Rect(r.X, r.Y, r.W, r.H, "F")
	}

	for _, t := range l.Texts {
		style := ""
		if t.Bold {
			style = "B"
		}
		pdf.SetFont(pdfFont, style, t.Size)
		pdf.SetTextColor(int(t.Color.R), int(t.Color.G), int(t.Color.B))
		pdf.SetXY(t.X, t.Y)
		pdf.CellFormat(t.W, t.LineHeight(), t.Value, "", 0, string(t.Align)+"M", false, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("build pdf: %w", err)
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return out.Bytes(), nil
}
