package notify

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msomdec/quizcert/internal/domain"
)

func TestBuildMsg(t *testing.T) {
	msg, err := buildMsg(Message{
		From:    "Quiz Team <team@example.com>",
		To:      "jane@example.com",
		Subject: "Your Rules 101 Quiz Certificate",
		HTML:    "<p>hello</p>",
		Attachments: []domain.Artifact{
			{CertificateID: "abc", Format: domain.FormatPDF, Data: []byte("%PDF-1.3")},
			{CertificateID: "abc", Format: domain.FormatPNG, Data: []byte{0x89, 'P', 'N', 'G'}},
		},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	assert.Contains(t, raw, "Subject: Your Rules 101 Quiz Certificate")
	assert.Contains(t, raw, "jane@example.com")
	assert.Contains(t, raw, "Certificate-abc.pdf")
	assert.Contains(t, raw, "Certificate-abc.png")
	assert.Contains(t, raw, "application/pdf")
}

func TestBuildMsg_InvalidAddress(t *testing.T) {
	_, err := buildMsg(Message{From: "not an address", To: "jane@example.com"})
	assert.Error(t, err)
}

func TestNewSMTPSender(t *testing.T) {
	s, err := NewSMTPSender(SMTPOptions{Host: "smtp.example.com", Port: 587, Username: "user", Password: "pw"})
	require.NoError(t, err)
	assert.NotNil(t, s.client)
}
