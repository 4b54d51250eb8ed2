// Package tracker holds the application state and the reducers that move it
// forward. Reducers are pure: they take the prior State and return the next
// one plus the side effects a host must run. Service is that host.
package tracker

import (
	"stationery/internal/domain/ledger"
	"stationery/internal/domain/reports"
)

// Persistence keys, one JSON blob each.
const (
	KeyReports   = "stationery.reports"
	KeyDraft     = "stationery.formDraft"
	KeySelection = "stationery.selectedReportId"
	KeyStock     = "stationery.stock"
)

// Keys lists every persistence key in write order.
var Keys = []string{KeyReports, KeyStock, KeyDraft, KeySelection}

// State is the complete application state.
type State struct {
	Reports  reports.Store `json:"reports"`
	Stock    ledger.Ledger `json:"stock"`
	Draft    reports.Draft `json:"draft"`
	Selected string        `json:"selectedReportId"`
}

// EffectKind enumerates the side effects reducers can request.
type EffectKind int

const (
	// EffectPersist writes the blob under Key.
	EffectPersist EffectKind = iota + 1
	// EffectAlert surfaces Message to the user.
	EffectAlert
)

// Effect is a side effect requested by a reducer.
type Effect struct {
	Kind    EffectKind
	Key     string
	Message string
}

// Persist requests a write of key.
func Persist(key string) Effect {
	return Effect{Kind: EffectPersist, Key: key}
}

// Alert requests a user-facing message.
func Alert(msg string) Effect {
	return Effect{Kind: EffectAlert, Message: msg}
}

func emptyDraft() reports.Draft {
	return reports.Draft{Items: reports.Items{}, Status: reports.StatusProcess}
}
