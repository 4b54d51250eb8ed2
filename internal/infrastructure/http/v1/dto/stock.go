package dto

import "stationery/internal/domain/ledger"

// StockResponse lists ledger entries ordered by item name.
type StockResponse struct {
	Items []ledger.Entry `json:"items"`
}

// FromLedger converts the ledger.
func FromLedger(l ledger.Ledger) StockResponse {
	items := l.Sorted()
	if items == nil {
		items = []ledger.Entry{}
	}
	return StockResponse{Items: items}
}

// StockEditRequest sets on-hand quantities. Names not listed keep their
// quantity.
type StockEditRequest struct {
	Quantities map[string]int `json:"quantities" binding:"required"`
}

// ConsumptionResponse holds units consumed per item by Done reports.
type ConsumptionResponse struct {
	Items map[string]int `json:"items"`
}

// ImportResponse summarizes a successful import.
type ImportResponse struct {
	Reports    int `json:"reports"`
	StockItems int `json:"stockItems"`
}
