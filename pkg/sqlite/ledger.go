// Package sqlite exposes the SQLite history ledger to programs that embed
// the inventory model instead of using the CLI.
package sqlite

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/inventory/internal/sqlite"
)

// Ledger stores install history entries in SQLite.
type Ledger = sqlite.Ledger

// Filter selects ledger rows; empty fields match everything.
type Filter = sqlite.Filter

// Row is one persisted history entry.
type Row = sqlite.Row

// NewLedger creates a detached ledger. Call Attach with a data directory
// before recording.
//
// Example:
//
//	ledger := sqlite.NewLedger(logger)
//	if err := ledger.Attach(".inventory"); err != nil {
//	    return err
//	}
//	defer ledger.Detach()
//	_, err := ledger.Record(inv.History())
func NewLedger(logger *zap.Logger) *Ledger {
	return sqlite.NewLedger(logger)
}

// ReadJSONL decodes a history file written by Ledger.ExportJSONL.
func ReadJSONL(path string) ([]Row, error) {
	return sqlite.ReadJSONL(path)
}
