package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// rasterizer draws a Layout to a PNG at a fixed resolution.
type rasterizer struct {
	dpi     float64
	regular *opentype.Font
	bold    *opentype.Font
}

func newRasterizer(dpi float64) (*rasterizer, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	return &rasterizer{dpi: dpi, regular: regular, bold: bold}, nil
}

func (r *rasterizer) px(mm float64) int {
	return int(math.Round(mm * r.dpi / 25.4))
}

func (r *rasterizer) render(l *Layout) ([]byte, error) {
	canvas := imaging.New(r.px(PageWidth), r.px(PageHeight), color.White)

	for _, p := range l.Pictures {
		w, h := r.px(p.W), r.px(p.H)
		if w <= 0 || h <= 0 {
			continue
		}
		scaled := imaging.Resize(p.Image, w, h, imaging.Lanczos)
		canvas = imaging.Overlay(canvas, scaled, image.Pt(r.px(p.X), r.px(p.Y)), 1.0)
	}

	for _, rule := range l.Rules {
		rect := image.Rect(r.px(rule.X), r.px(rule.Y), r.px(rule.X+rule.W), r.px(rule.Y+rule.H))
		if rect.Dy() == 0 {
			rect.Max.Y++
		}
		if rect.Dx() == 0 {
			rect.Max.X++
		}
		draw.Draw(canvas, rect, image.NewUniform(rule.Color), image.Point{}, draw.Src)
	}

	faces := map[faceKey]font.Face{}
	defer func() {
		for _, f := range faces {
			f.Close()
		}
	}()

	for _, t := range l.Texts {
		face, err := r.face(faces, t.Size, t.Bold)
		if err != nil {
			return nil, err
		}
		r.drawText(canvas, face, t)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

type faceKey struct {
	size float64
	bold bool
}

func (r *rasterizer) face(cache map[faceKey]font.Face, size float64, bold bool) (font.Face, error) {
	key := faceKey{size: size, bold: bold}
	if f, ok := cache[key]; ok {
		return f, nil
	}
	src := r.regular
	if bold {
		src = r.bold
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     r.dpi,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	cache[key] = f
	return f, nil
}

func (r *rasterizer) drawText(dst draw.Image, face font.Face, t Text) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(t.Color), Face: face}

	width := d.MeasureString(t.Value).Round()
	x := r.px(t.X)
	switch t.Align {
	case AlignCenter:
		x += (r.px(t.W) - width) / 2
	case AlignRight:
		x += r.px(t.W) - width
	}

	// Vertically centre the glyphs in the line box, as the PDF cell does.
	m := face.Metrics()
	top := r.px(t.Y)
	box := r.px(t.LineHeight())
	baseline := top + (box+m.Ascent.Round()-m.Descent.Round())/2

	d.Dot = fixed.P(x, baseline)
	d.DrawString(t.Value)
}
