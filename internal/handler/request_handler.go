package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"prokura/internal/csvexport"
	"prokura/internal/domain"
	"prokura/internal/service"
)

// RequestHandler exposes the procurement request workflow.
type RequestHandler struct {
	svc service.RequestService
}

// NewRequestHandler creates a RequestHandler.
func NewRequestHandler(svc service.RequestService) *RequestHandler {
	return &RequestHandler{svc: svc}
}

type createRequestBody struct {
	RequestorName  string            `json:"requestor_name"`
	Title          string            `json:"title" binding:"required"`
	VendorName     string            `json:"vendor_name" binding:"required"`
	VATID          string            `json:"vat_id"`
	Department     string            `json:"department"`
	CommodityGroup string            `json:"commodity_group"`
	Currency       string            `json:"currency"`
	TotalCost      float64           `json:"total_cost"`
	LineItems      []domain.LineItem `json:"line_items"`
}

// Create creates a procurement request. POST /api/v1/requests.
func (h *RequestHandler) Create(c *gin.Context) {
	var body createRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if body.Currency != "" && !domain.IsValidCurrency(body.Currency) {
		RespondError(c, http.StatusBadRequest, "INVALID_CURRENCY", "unknown currency code")
		return
	}

	req, err := h.svc.Create(c.Request.Context(), &service.CreateRequestInput{
		RequestorName:  body.RequestorName,
		Title:          body.Title,
		VendorName:     body.VendorName,
		VATID:          body.VATID,
		Department:     body.Department,
		CommodityGroup: body.CommodityGroup,
		Currency:       domain.Currency(body.Currency),
		TotalCost:      body.TotalCost,
		LineItems:      body.LineItems,
	})
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	RespondCreated(c, req)
}

// List returns all requests, newest first. GET /api/v1/requests.
func (h *RequestHandler) List(c *gin.Context) {
	reqs, err := h.svc.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, reqs)
}

// GetByID returns one request. GET /api/v1/requests/:id.
func (h *RequestHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "id must be a UUID")
		return
	}
	req, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, req)
}

type updateStatusBody struct {
	Status string `json:"status" binding:"required"`
	User   string `json:"user"`
}

// UpdateStatus moves a request through its workflow.
// PATCH /api/v1/requests/:id/status.
func (h *RequestHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "id must be a UUID")
		return
	}
	var body updateStatusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}

	req, err := h.svc.UpdateStatus(c.Request.Context(), &service.UpdateStatusInput{
		RequestID: id,
		NewStatus: domain.RequestStatus(body.Status),
		ChangedBy: body.User,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, req)
}

// StatusHistory returns a request's status changes.
// GET /api/v1/requests/:id/history.
func (h *RequestHandler) StatusHistory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "id must be a UUID")
		return
	}
	history, err := h.svc.StatusHistory(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, history)
}

// Export streams all requests as CSV. GET /api/v1/requests/export.
func (h *RequestHandler) Export(c *gin.Context) {
	reqs, err := h.svc.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="procurement_requests.csv"`)
	if _, err := c.Writer.Write(csvexport.BOM); err != nil {
		return
	}
	w := csvexport.NewWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		return
	}
	if err := w.WriteRequests(reqs); err != nil {
		return
	}
	w.Flush()
}
