// Package id generates report identifiers.
// Created reports use UUIDv7, which is time-ordered, so identifiers sort by
// creation time. Imported reports carry an import tag instead.
package id

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ImportPrefix marks identifiers assigned during a wholesale import.
const ImportPrefix = "import-"

// New generates a new UUIDv7 string.
func New() string {
	v, err := uuid.NewV7()
	if err != nil {
		// Fallback to V4 if V7 fails (should never happen)
		return uuid.New().String()
	}
	return v.String()
}

// ImportTag builds the identifier of the index-th report of an import run.
func ImportTag(at time.Time, index int) string {
	return fmt.Sprintf("%s%d-%d", ImportPrefix, at.UnixMilli(), index)
}
