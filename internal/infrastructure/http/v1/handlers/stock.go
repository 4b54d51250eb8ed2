package handlers

import (
	"github.com/gin-gonic/gin"

	"stationery/internal/domain/tracker"
	"stationery/internal/infrastructure/http/v1/dto"
)

// StockHandler handles HTTP requests for the stock ledger.
type StockHandler struct {
	*BaseHandler
	service *tracker.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, service *tracker.Service) *StockHandler {
	return &StockHandler{BaseHandler: base, service: service}
}

// Get handles GET /stock
func (h *StockHandler) Get(c *gin.Context) {
	h.OK(c, dto.FromLedger(h.service.Stock()))
}

// Edit handles PUT /stock
func (h *StockHandler) Edit(c *gin.Context) {
	var req dto.StockEditRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if err := h.service.EditStock(c.Request.Context(), req.Quantities); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromLedger(h.service.Stock()))
}

// Clear handles POST /stock/clear
func (h *StockHandler) Clear(c *gin.Context) {
	if err := h.service.ClearStock(c.Request.Context()); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromLedger(h.service.Stock()))
}

// Consumption handles GET /stock/consumption
func (h *StockHandler) Consumption(c *gin.Context) {
	h.OK(c, dto.ConsumptionResponse{Items: h.service.Consumption()})
}
