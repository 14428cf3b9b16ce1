package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"prokura/internal/domain"
	"prokura/internal/pipeline"
)

// maxUploadBytes caps offer uploads at 20 MB.
const maxUploadBytes = 20 << 20

// ExtractionHandler exposes the extraction pipeline over HTTP.
type ExtractionHandler struct {
	pipeline *pipeline.Pipeline
}

// NewExtractionHandler creates an ExtractionHandler.
func NewExtractionHandler(p *pipeline.Pipeline) *ExtractionHandler {
	return &ExtractionHandler{pipeline: p}
}

// Extract runs the pipeline on an uploaded offer document.
// POST /api/v1/extractions, multipart fields: offer_file, title (optional).
//
// The response is always 200 with the discriminated PipelineResult; a
// failed extraction is data for the caller (which falls back to a blank
// manual-entry form), not a transport error. The request context is
// passed through so a client disconnect abandons the in-flight
// completion call.
func (h *ExtractionHandler) Extract(c *gin.Context) {
	fileHeader, err := c.FormFile("offer_file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "multipart field offer_file is required")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		RespondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "offer file exceeds maximum allowed size")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "UNREADABLE_UPLOAD", "could not open uploaded file")
		return
	}
	defer func() { _ = f.Close() }()

	raw, err := io.ReadAll(f)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "UNREADABLE_UPLOAD", "could not read uploaded file")
		return
	}

	mediaType := fileHeader.Header.Get("Content-Type")
	doc := domain.RawDocument{Bytes: raw, MediaType: mediaType}
	title := c.PostForm("title")

	result := h.pipeline.Run(c.Request.Context(), doc, title)
	RespondOK(c, result)
}

// CommodityGroups returns the master taxonomy for form dropdowns.
// GET /api/v1/commodity-groups.
func (h *ExtractionHandler) CommodityGroups(c *gin.Context) {
	RespondOK(c, domain.CommodityGroups)
}
