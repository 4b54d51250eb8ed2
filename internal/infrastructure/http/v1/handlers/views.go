package handlers

import (
	"github.com/gin-gonic/gin"

	"stationery/internal/domain/reports"
	"stationery/internal/domain/tracker"
	"stationery/internal/domain/views"
	"stationery/internal/infrastructure/http/v1/dto"
)

// ViewsHandler serves derived, read-only views of the report list.
type ViewsHandler struct {
	*BaseHandler
	service *tracker.Service
}

// NewViewsHandler creates a new views handler.
func NewViewsHandler(base *BaseHandler, service *tracker.Service) *ViewsHandler {
	return &ViewsHandler{BaseHandler: base, service: service}
}

// Months handles GET /views/months
func (h *ViewsHandler) Months(c *gin.Context) {
	months := views.Months(h.service.Reports())
	if months == nil {
		months = []string{}
	}
	h.OK(c, dto.MonthsResponse{Months: months})
}

// Weeks handles GET /views/weeks?month=YYYY-MM
func (h *ViewsHandler) Weeks(c *gin.Context) {
	month := c.Query("month")
	weeks := views.Weeks(h.service.Reports(), month)
	if weeks == nil {
		weeks = []views.Week{}
	}
	h.OK(c, dto.WeeksResponse{Month: month, Weeks: weeks})
}

// Reports handles GET /views/reports
func (h *ViewsHandler) Reports(c *gin.Context) {
	f, filtered, ok := h.filtered(c)
	if !ok {
		return
	}
	h.OK(c, dto.FilteredReportsResponse{
		ListResponse: dto.NewListResponse(dto.FromReports(filtered)),
		Campus:       views.CampusLabel(f),
		Period:       views.PeriodLabel(f),
	})
}

// Summary handles GET /views/summary
func (h *ViewsHandler) Summary(c *gin.Context) {
	f, filtered, ok := h.filtered(c)
	if !ok {
		return
	}
	h.OK(c, dto.SummaryResponse{
		Campus:  views.CampusLabel(f),
		Period:  views.PeriodLabel(f),
		Summary: views.Summarize(filtered),
	})
}

func (h *ViewsHandler) filtered(c *gin.Context) (views.Filter, []reports.Report, bool) {
	var f views.Filter
	if !h.BindQuery(c, &f) {
		return f, nil, false
	}
	list, err := views.Apply(h.service.Reports(), f, h.service.Catalog())
	if err != nil {
		h.Error(c, err)
		return f, nil, false
	}
	return f, list, true
}
