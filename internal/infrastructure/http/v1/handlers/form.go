package handlers

import (
	"github.com/gin-gonic/gin"

	"stationery/internal/domain/tracker"
	"stationery/internal/infrastructure/http/v1/dto"
)

// FormHandler manages the persisted form draft and the report selected
// for editing.
type FormHandler struct {
	*BaseHandler
	service *tracker.Service
}

// NewFormHandler creates a new form handler.
func NewFormHandler(base *BaseHandler, service *tracker.Service) *FormHandler {
	return &FormHandler{BaseHandler: base, service: service}
}

// GetDraft handles GET /draft
func (h *FormHandler) GetDraft(c *gin.Context) {
	h.OK(c, dto.FromDraft(h.service.State().Draft))
}

// SaveDraft handles PUT /draft
func (h *FormHandler) SaveDraft(c *gin.Context) {
	var req dto.ReportRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if err := h.service.SaveDraft(c.Request.Context(), req.ToDraft()); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromDraft(h.service.State().Draft))
}

// ClearDraft handles DELETE /draft
func (h *FormHandler) ClearDraft(c *gin.Context) {
	if err := h.service.ClearDraft(c.Request.Context()); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Select handles PUT /selection. The response is the draft loaded from
// the selected report.
func (h *FormHandler) Select(c *gin.Context) {
	var req dto.SelectionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if err := h.service.Select(c.Request.Context(), req.ReportID); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromDraft(h.service.State().Draft))
}

// Deselect handles DELETE /selection
func (h *FormHandler) Deselect(c *gin.Context) {
	if err := h.service.Deselect(c.Request.Context()); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
