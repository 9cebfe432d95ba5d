package render

import (
	"image"
	"image/color"
	"math"
	"strconv"
	"time"
	"unicode/utf8"
)

// Page size of a certificate: A4 landscape, in millimetres.
const (
	PageWidth  = 297.0
	PageHeight = 210.0
	margin     = 20.0
)

var (
	themeColor  = color.RGBA{0x00, 0x2f, 0x6c, 0xff}
	accentColor = color.RGBA{0xc8, 0x10, 0x2e, 0xff}
	darkText    = color.RGBA{0x33, 0x33, 0x33, 0xff}
	bodyText    = color.RGBA{0x44, 0x44, 0x44, 0xff}
	mutedText   = color.RGBA{0x66, 0x66, 0x66, 0xff}
)

// Align is the horizontal alignment of a text element.
type Align string

const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
	AlignRight  Align = "R"
)

// Text is a single line of text. X, Y and W describe the line box in
// millimetres; Y is the top of the box. Size is in points.
type Text struct {
	X, Y, W float64
	Size    float64
	Bold    bool
	Color   color.RGBA
	Align   Align
	Value   string
}

// LineHeight returns the height of the text box in millimetres.
func (t Text) LineHeight() float64 {
	return t.Size * 25.4 / 72 * 1.25
}

// Picture places an image on the page. Name identifies the image for
// backends that register images once.
type Picture struct {
	Name       string
	X, Y, W, H float64
	Image      image.Image
}

// Rule is a filled rectangle, used for borders and separators.
type Rule struct {
	X, Y, W, H float64
	Color      color.RGBA
}

// Layout is the device-independent description of a certificate page.
// The PDF and PNG backends both draw from it, so the PNG is a rasterization
// of exactly what the PDF contains.
type Layout struct {
	Title    string
	Author   string
	IssuedAt time.Time
	Rules    []Rule
	Pictures []Picture
	Texts    []Text
}

// content is everything that varies between certificates.
type content struct {
	ID          string
	Name        string
	Score       float64
	QuizTitle   string
	VerifyURL   string
	IssuerName  string
	IssuerTitle string
	IssuedAt    time.Time
	Logo        image.Image
	Background  image.Image
	QR          image.Image
}

func buildLayout(c content) *Layout {
	l := &Layout{
		Title:    "Certificate of Achievement - " + c.Name,
		Author:   c.IssuerName,
		IssuedAt: c.IssuedAt,
	}

	if c.Background != nil {
		l.Pictures = append(l.Pictures, Picture{Name: "background", X: 0, Y: 0, W: PageWidth, H: PageHeight, Image: c.Background})
	} else {
		l.Rules = append(l.Rules, frame(8, 1.6, themeColor)...)
		l.Rules = append(l.Rules, frame(11, 0.5, accentColor)...)
	}

	if c.Logo != nil {
		b := c.Logo.Bounds()
		w := 28.0
		h := w * float64(b.Dy()) / float64(b.Dx())
		l.Pictures = append(l.Pictures, Picture{Name: "logo", X: margin, Y: 16, W: w, H: h, Image: c.Logo})
	}

	full := PageWidth - 2*margin
	center := func(y, size float64, bold bool, col color.RGBA, value string) {
		l.Texts = append(l.Texts, Text{X: margin, Y: y, W: full, Size: size, Bold: bold, Color: col, Align: AlignCenter, Value: value})
	}

	if c.IssuerName != "" {
		center(20, 22, true, themeColor, c.IssuerName)
	}
	if c.IssuerTitle != "" {
		center(31, 13, false, accentColor, c.IssuerTitle)
	}

	center(52, 32, true, themeColor, "Certificate of Achievement")
	center(78, 16, false, darkText, "Presented to")
	center(90, fitSize(c.Name, 28, 32), true, themeColor, c.Name)
	l.Rules = append(l.Rules, Rule{X: PageWidth/2 - 60, Y: 106, W: 120, H: 0.4, Color: accentColor})

	summary := "For outstanding performance in the " + c.QuizTitle + " quiz, scoring " + FormatScore(c.Score) + "%"
	center(114, fitSize(summary, 15, 80), false, bodyText, summary)
	center(126, 11, false, mutedText, "Issued "+c.IssuedAt.Format("January 2, 2006"))

	left := func(y, size float64, value string) {
		l.Texts = append(l.Texts, Text{X: margin, Y: y, W: 180, Size: size, Color: mutedText, Align: AlignLeft, Value: value})
	}
	left(176, 10, "Certificate ID: "+c.ID)
	left(183, 8, "Verify at: "+c.VerifyURL)

	if c.QR != nil {
		size := 34.0
		l.Pictures = append(l.Pictures, Picture{Name: "qr", X: PageWidth - margin - size, Y: PageHeight - margin - size - 4, W: size, H: size, Image: c.QR})
	}

	return l
}

// frame returns four rules outlining the page at the given inset.
func frame(inset, thickness float64, col color.RGBA) []Rule {
	w := PageWidth - 2*inset
	h := PageHeight - 2*inset
	return []Rule{
		{X: inset, Y: inset, W: w, H: thickness, Color: col},
		{X: inset, Y: inset + h - thickness, W: w, H: thickness, Color: col},
		{X: inset, Y: inset, W: thickness, H: h, Color: col},
		{X: inset + w - thickness, Y: inset, W: thickness, H: h, Color: col},
	}
}

// fitSize shrinks a font size proportionally once text exceeds maxChars.
func fitSize(text string, size float64, maxChars int) float64 {
	n := utf8.RuneCountInString(text)
	if n <= maxChars {
		return size
	}
	return math.Max(size*float64(maxChars)/float64(n), size/2)
}

// FormatScore renders a percentage without trailing zeros, rounded to two
// decimals: 92 -> "92", 92.5 -> "92.5", 33.3333 -> "33.33".
func FormatScore(score float64) string {
	return strconv.FormatFloat(math.Round(score*100)/100, 'f', -1, 64)
}
