package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"terravista/api/export"
	"terravista/api/models"
)

type ExportHandlers struct {
	Exporter *export.Exporter
}

func NewExportHandlers(exporter *export.Exporter) *ExportHandlers {
	return &ExportHandlers{Exporter: exporter}
}

// ExportPDF handles POST /api/export_pdf and streams the assembled
// document back as an attachment.
func (h *ExportHandlers) ExportPDF(c *gin.Context) {
	var req models.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	doc, err := h.Exporter.ExportPDF(c.Request.Context(), &req)
	if err != nil {
		log.Printf("Error assembling export document: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate export document"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="map_export.pdf"`)
	c.Data(http.StatusOK, "application/pdf", doc)
}
