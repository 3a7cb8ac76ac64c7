package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/veralix/certgen/pkg/logger"
	"github.com/veralix/certgen/service"
)

type CertificateHandler struct {
	issuer *service.Issuer
	store  service.Datastore
}

func NewCertificateHandler(issuer *service.Issuer, store service.Datastore) *CertificateHandler {
	return &CertificateHandler{issuer: issuer, store: store}
}

// Generate runs the full issuance pipeline for one jewelry item. The
// transcript of the run is returned alongside the result so callers can see
// which steps degraded to fallbacks.
func (h *CertificateHandler) Generate(c *gin.Context) {
	var req service.IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "jewelryItemId is required",
		})
		return
	}

	ctx := c.Request.Context()
	rec := logger.NewRecorder(ctx)

	result, err := h.issuer.Issue(ctx, rec, &req)
	if err != nil {
		logger.Error(ctx, "certificate issuance failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
			"logs":    rec.Entries(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"certificate": result,
		"logs":        rec.Entries(),
	})
}

// Get returns a previously issued certificate record by its public ID.
func (h *CertificateHandler) Get(c *gin.Context) {
	certificateID := c.Param("certificateId")

	record, err := h.store.GetCertificate(c.Request.Context(), certificateID)
	if err != nil {
		if errors.Is(err, service.ErrCertificateNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "Certificate not found",
			})
			return
		}
		logger.Error(c.Request.Context(), "certificate lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to load certificate",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"certificate": record,
	})
}
