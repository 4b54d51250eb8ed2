package handlers

import (
	"github.com/gin-gonic/gin"

	"stationery/internal/domain/tracker"
	"stationery/internal/infrastructure/http/v1/dto"
)

// StateHandler serves the whole state and the catalog.
type StateHandler struct {
	*BaseHandler
	service *tracker.Service
}

// NewStateHandler creates a new state handler.
func NewStateHandler(base *BaseHandler, service *tracker.Service) *StateHandler {
	return &StateHandler{BaseHandler: base, service: service}
}

// Get handles GET /state
func (h *StateHandler) Get(c *gin.Context) {
	st := h.service.State()

	var selected *string
	if st.Selected != "" {
		selected = &st.Selected
	}

	h.OK(c, dto.StateResponse{
		Reports:          dto.FromReports(st.Reports),
		Stock:            dto.FromLedger(st.Stock).Items,
		Draft:            dto.FromDraft(st.Draft),
		SelectedReportID: selected,
		Today:            h.service.Today(),
	})
}

// Catalog handles GET /catalog
func (h *StateHandler) Catalog(c *gin.Context) {
	h.OK(c, dto.FromCatalog(h.service.Catalog()))
}
