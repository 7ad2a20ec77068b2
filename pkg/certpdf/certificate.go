package certpdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// Certificate carries everything the rendered document displays.
type Certificate struct {
	ID          string
	StudentName string
	CourseTitle string
	IssuedOn    time.Time
	VerifyURL   string
	Issuer      string
}

// Renderer produces downloadable certificate PDFs.
type Renderer struct{}

// NewRenderer constructs a certificate renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render creates a landscape A4 certificate with an embedded QR code that
// encodes the verification locator.
func (r *Renderer) Render(cert Certificate) ([]byte, error) {
	if cert.StudentName == "" || cert.CourseTitle == "" {
		return nil, fmt.Errorf("certificate requires student and course names")
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(20, 25, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 28)
	pdf.CellFormat(0, 16, "CERTIFICATE OF COMPLETION", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 13)
	pdf.CellFormat(0, 8, "This certifies that", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 22)
	pdf.CellFormat(0, 12, cert.StudentName, "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 13)
	pdf.CellFormat(0, 8, "has successfully completed the course", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 10, cert.CourseTitle, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Issued on %s", cert.IssuedOn.Format("2 January 2006")), "", 1, "C", false, 0, "")
	if cert.Issuer != "" {
		pdf.CellFormat(0, 8, cert.Issuer, "", 1, "C", false, 0, "")
	}

	if cert.VerifyURL != "" {
		png, err := qrcode.Encode(cert.VerifyURL, qrcode.Medium, 256)
		if err != nil {
			return nil, fmt.Errorf("encode verification qr: %w", err)
		}
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("verify-qr", opts, bytes.NewReader(png))
		pageW, pageH := pdf.GetPageSize()
		pdf.ImageOptions("verify-qr", pageW-55, pageH-60, 35, 35, false, opts, 0, "")

		pdf.SetFont("Arial", "", 8)
		pdf.SetXY(pageW-60, pageH-24)
		pdf.CellFormat(45, 4, "Scan to verify", "", 1, "C", false, 0, "")
	}

	pdf.SetFont("Arial", "", 8)
	pdf.SetXY(20, 185)
	pdf.CellFormat(0, 4, fmt.Sprintf("Certificate ID: %s", cert.ID), "", 1, "L", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render certificate pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename derives the download filename from the course title.
func Filename(courseTitle string) string {
	name := strings.TrimSpace(courseTitle)
	if name == "" {
		name = "course"
	}
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		return r
	}, name)
	return fmt.Sprintf("%s_certificate.pdf", name)
}
