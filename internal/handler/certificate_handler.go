package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduvillage/eduvillage-api/internal/service"
	appErrors "github.com/eduvillage/eduvillage-api/pkg/errors"
	"github.com/eduvillage/eduvillage-api/pkg/response"
)

// CertificateHandler exposes certificate issuance, download and verification.
type CertificateHandler struct {
	certificates *service.CertificateService
}

// NewCertificateHandler constructs handler.
func NewCertificateHandler(certificates *service.CertificateService) *CertificateHandler {
	return &CertificateHandler{certificates: certificates}
}

// Issue godoc
// @Summary Issue or fetch the course completion certificate
// @Description Requires every lesson in the course to be completed
// @Tags Certificates
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id}/certificate [post]
func (h *CertificateHandler) Issue(c *gin.Context) {
	student := studentFromContext(c)
	if student == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "student profile required"))
		return
	}

	issue, err := h.certificates.IssueOrGet(c.Request.Context(), student.ID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, issue, nil)
}

// Download godoc
// @Summary Download the certificate PDF
// @Tags Certificates
// @Produce application/pdf
// @Param id path string true "Course ID"
// @Success 200 {file} binary
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id}/certificate/download [get]
func (h *CertificateHandler) Download(c *gin.Context) {
	student := studentFromContext(c)
	if student == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "student profile required"))
		return
	}

	pdf, filename, err := h.certificates.RenderPDF(c.Request.Context(), student.ID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// Verify godoc
// @Summary Verify a certificate
// @Description Public endpoint; revoked certificates report only their ID
// @Tags Certificates
// @Produce json
// @Param id path string true "Certificate ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /verify-certificate/{id} [get]
func (h *CertificateHandler) Verify(c *gin.Context) {
	verification, err := h.certificates.Verify(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, verification, nil)
}

// Revoke godoc
// @Summary Revoke a certificate
// @Description Admin only; revocation is one-way
// @Tags Certificates
// @Produce json
// @Param id path string true "Certificate ID"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /certificates/{id}/revoke [post]
func (h *CertificateHandler) Revoke(c *gin.Context) {
	if err := h.certificates.Revoke(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
