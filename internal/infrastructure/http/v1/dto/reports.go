package dto

import (
	"stationery/internal/domain/catalog"
	"stationery/internal/domain/ledger"
	"stationery/internal/domain/reports"
)

// ReportRequest is the body of create, update and draft requests.
type ReportRequest struct {
	RequesterName string         `json:"requesterName"`
	Campus        string         `json:"campus"`
	ImportDate    string         `json:"importDate"`
	ExportDate    string         `json:"exportDate"`
	Items         map[string]int `json:"items"`
	Status        string         `json:"status"`
}

// ToDraft converts the request to a domain draft.
func (r ReportRequest) ToDraft() reports.Draft {
	return reports.Draft{
		RequesterName: r.RequesterName,
		Campus:        r.Campus,
		ImportDate:    r.ImportDate,
		ExportDate:    r.ExportDate,
		Items:         reports.Items(r.Items),
		Status:        reports.ParseStatus(r.Status),
	}
}

// ReportResponse represents a report in API responses.
type ReportResponse struct {
	ID            string         `json:"id"`
	RequesterName string         `json:"requesterName"`
	Campus        string         `json:"campus"`
	ImportDate    string         `json:"importDate"`
	ExportDate    string         `json:"exportDate"`
	Items         map[string]int `json:"items"`
	Status        string         `json:"status"`
	Total         int            `json:"total"`
}

// FromReport converts a report to its response DTO.
func FromReport(r reports.Report) ReportResponse {
	items := r.Items
	if items == nil {
		items = reports.Items{}
	}
	return ReportResponse{
		ID:            r.ID,
		RequesterName: r.RequesterName,
		Campus:        r.Campus,
		ImportDate:    r.ImportDate,
		ExportDate:    r.ExportDate,
		Items:         items,
		Status:        string(r.Status),
		Total:         r.Items.Total(),
	}
}

// FromReports converts a list, preserving order.
func FromReports(list []reports.Report) []ReportResponse {
	out := make([]ReportResponse, len(list))
	for i, r := range list {
		out[i] = FromReport(r)
	}
	return out
}

// DraftResponse is the stored form draft.
type DraftResponse struct {
	RequesterName string         `json:"requesterName"`
	Campus        string         `json:"campus"`
	ImportDate    string         `json:"importDate"`
	ExportDate    string         `json:"exportDate"`
	Items         map[string]int `json:"items"`
	Status        string         `json:"status"`
}

// FromDraft converts a draft.
func FromDraft(d reports.Draft) DraftResponse {
	items := d.Items
	if items == nil {
		items = reports.Items{}
	}
	return DraftResponse{
		RequesterName: d.RequesterName,
		Campus:        d.Campus,
		ImportDate:    d.ImportDate,
		ExportDate:    d.ExportDate,
		Items:         items,
		Status:        string(d.Status),
	}
}

// SelectionRequest opens a report for editing.
type SelectionRequest struct {
	ReportID string `json:"reportId" binding:"required"`
}

// CatalogResponse lists the known items and campuses.
type CatalogResponse struct {
	Items    []string `json:"items"`
	Campuses []string `json:"campuses"`
}

// FromCatalog converts the catalog.
func FromCatalog(c *catalog.Catalog) CatalogResponse {
	return CatalogResponse{Items: c.Items(), Campuses: c.Campuses()}
}

// StateResponse is the whole application state.
type StateResponse struct {
	Reports          []ReportResponse `json:"reports"`
	Stock            []ledger.Entry   `json:"stock"`
	Draft            DraftResponse    `json:"draft"`
	SelectedReportID *string          `json:"selectedReportId"`
	Today            string           `json:"today"`
}
