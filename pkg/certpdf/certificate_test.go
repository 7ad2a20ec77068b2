package certpdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderProducesPDF(t *testing.T) {
	r := NewRenderer()

	pdf, err := r.Render(Certificate{
		ID:          "cert-1",
		StudentName: "Ada Lovelace",
		CourseTitle: "Intro to Go",
		IssuedOn:    time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		VerifyURL:   "https://edu.example.com/verify-certificate/cert-1",
		Issuer:      "EduVillage",
	})
	require.NoError(t, err)
	require.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestRenderRequiresNames(t *testing.T) {
	r := NewRenderer()

	_, err := r.Render(Certificate{ID: "cert-1"})
	require.Error(t, err)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "Intro to Go_certificate.pdf", Filename("Intro to Go"))
	assert.Equal(t, "a-b_certificate.pdf", Filename("a/b"))
	assert.Equal(t, "course_certificate.pdf", Filename("  "))
}
