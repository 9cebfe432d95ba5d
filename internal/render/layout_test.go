package render

import (
	"image"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func textValues(l *Layout) []string {
	out := make([]string, 0, len(l.Texts))
	for _, t := range l.Texts {
		out = append(out, t.Value)
	}
	return out
}

func TestBuildLayout_Content(t *testing.T) {
	l := buildLayout(content{
		ID:          "abc",
		Name:        "Jane Doe",
		Score:       92,
		QuizTitle:   "Rules 101",
		VerifyURL:   "https://q/verify?id=abc",
		IssuerName:  "Fastpitch Quiz",
		IssuerTitle: "Umpire Association",
		IssuedAt:    time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		QR:          image.NewGray(image.Rect(0, 0, 10, 10)),
	})

	values := textValues(l)
	assert.Contains(t, values, "Jane Doe")
	assert.Contains(t, values, "Certificate of Achievement")
	assert.Contains(t, values, "For outstanding performance in the Rules 101 quiz, scoring 92%")
	assert.Contains(t, values, "Certificate ID: abc")
	assert.Contains(t, values, "Issued January 5, 2026")
	assert.Contains(t, values, "Fastpitch Quiz")

	var names []string
	for _, p := range l.Pictures {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"qr"}, names, "no logo or background configured")
	assert.NotEmpty(t, l.Rules, "border drawn when there is no background")
}

func TestBuildLayout_TextOnlyWithoutQR(t *testing.T) {
	l := buildLayout(content{ID: "x", Name: "N", QuizTitle: "Q"})

	assert.Empty(t, l.Pictures)
	for _, v := range textValues(l) {
		assert.NotEqual(t, "", strings.TrimSpace(v))
	}
}

func TestBuildLayout_LogoKeepsAspectRatio(t *testing.T) {
	l := buildLayout(content{ID: "x", Name: "N", QuizTitle: "Q", Logo: image.NewGray(image.Rect(0, 0, 200, 100))})

	assert.Len(t, l.Pictures, 1)
	logo := l.Pictures[0]
	assert.Equal(t, "logo", logo.Name)
	assert.InDelta(t, logo.W/2, logo.H, 0.001)
}

func TestFitSize(t *testing.T) {
	assert.Equal(t, 28.0, fitSize("short", 28, 32))
	assert.Less(t, fitSize(strings.Repeat("x", 64), 28, 32), 28.0)
	assert.Equal(t, 14.0, fitSize(strings.Repeat("x", 500), 28, 32), "never below half size")
}
