package handlers

import (
	"github.com/gin-gonic/gin"

	"stationery/internal/domain/tracker"
	"stationery/internal/infrastructure/http/v1/dto"
)

// ReportsHandler handles HTTP requests for reports.
type ReportsHandler struct {
	*BaseHandler
	service *tracker.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *tracker.Service) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, service: service}
}

// List handles GET /reports
func (h *ReportsHandler) List(c *gin.Context) {
	h.OK(c, dto.NewListResponse(dto.FromReports(h.service.Reports())))
}

// Get handles GET /reports/:id
func (h *ReportsHandler) Get(c *gin.Context) {
	r, err := h.service.Report(c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromReport(r))
}

// Create handles POST /reports
func (h *ReportsHandler) Create(c *gin.Context) {
	var req dto.ReportRequest
	if !h.BindJSON(c, &req) {
		return
	}

	r, err := h.service.AddReport(c.Request.Context(), req.ToDraft())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromReport(r))
}

// Update handles PUT /reports/:id
func (h *ReportsHandler) Update(c *gin.Context) {
	var req dto.ReportRequest
	if !h.BindJSON(c, &req) {
		return
	}

	r, err := h.service.UpdateReport(c.Request.Context(), c.Param("id"), req.ToDraft())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromReport(r))
}

// Delete handles DELETE /reports/:id
func (h *ReportsHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteReport(c.Request.Context(), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
