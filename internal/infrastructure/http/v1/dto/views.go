package dto

import "stationery/internal/domain/views"

// MonthsResponse lists the available months, newest first.
type MonthsResponse struct {
	Months []string `json:"months"`
}

// WeeksResponse lists the weeks of a month.
type WeeksResponse struct {
	Month string       `json:"month"`
	Weeks []views.Week `json:"weeks"`
}

// SummaryResponse holds the aggregate counts of the filtered reports.
type SummaryResponse struct {
	Campus  string        `json:"campus"`
	Period  string        `json:"period"`
	Summary views.Summary `json:"summary"`
}

// FilteredReportsResponse is the filtered report list plus its labels.
type FilteredReportsResponse struct {
	ListResponse[ReportResponse]
	Campus string `json:"campus"`
	Period string `json:"period"`
}
