// Package sqlite keeps the install history ledger: an SQLite table of
// history entries that can be filtered and exported as JSONL. The ledger is
// rebuilt from the inventory on every attach and is never read back into it.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/inventory/pkg/types"
)

// DatabaseFile is the ledger file name inside the data directory.
const DatabaseFile = "ledger.db"

// Ledger errors.
var (
	ErrAlreadyAttached = errors.New("ledger already attached")
	ErrDetached        = errors.New("ledger is detached")
	ErrInvalidAction   = errors.New("unknown install action")
)

// Filter selects ledger rows. Empty fields match everything.
type Filter struct {
	// Item matches the item ID or the item name.
	Item string

	// Slot matches the slot path ("owner.slot") or the bare slot name.
	Slot string

	// Action matches one install outcome exactly.
	Action types.InstallAction
}

// Validate rejects actions that are not install outcomes.
func (f Filter) Validate() error {
	if f.Action == "" {
		return nil
	}
	for _, a := range types.InstallActions {
		if a == f.Action {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidAction, f.Action)
}

// Ledger stores history entries in SQLite.
type Ledger struct {
	mu       sync.RWMutex
	attached bool
	db       *sql.DB
	path     string
	logger   *zap.Logger
}

// NewLedger creates a detached ledger. A nil logger discards output.
func NewLedger(logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{logger: logger}
}

// Path returns the database file of an attached ledger.
func (l *Ledger) Path() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.path
}

// Attach creates dataDir if needed and opens a fresh ledger.db in it.
// Any existing ledger file is replaced.
func (l *Ledger) Attach(dataDir string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.attached {
		return ErrAlreadyAttached
	}
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)
	if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing stale ledger: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	l.db = db
	l.path = dbPath
	l.attached = true
	l.logger.Debug("ledger attached", zap.String("path", dbPath))
	return nil
}

// Detach closes the database. Detach is idempotent.
func (l *Ledger) Detach() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.attached {
		return nil
	}
	if err := l.db.Close(); err != nil {
		return err
	}
	l.db = nil
	l.attached = false
	l.logger.Debug("ledger detached", zap.String("path", l.path))
	return nil
}

// Record inserts entries in one transaction and returns how many were new.
// Entries already present (same entry ID) are skipped.
func (l *Ledger) Record(entries []types.HistoryEntry) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.attached {
		return 0, ErrDetached
	}

	tx, err := l.db.Begin()
	if err != nil {
		return 0, err
	}
	stmt, err := tx.Prepare("INSERT OR IGNORE INTO install_history (" + historyColumns +
		") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	defer stmt.Close()

	added := 0
	for _, e := range entries {
		r := RowFromEntry(e)
		res, err := stmt.Exec(
			r.EntryID, r.ItemID, r.ItemName,
			r.OwnerID, r.OwnerName,
			r.SlotName, r.SlotPath, r.SlotType,
			r.Date, r.Action, r.RecordedAt.Format(time.RFC3339Nano),
		)
		if err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("recording entry %s: %w", r.EntryID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			added += int(n)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}

	l.logger.Debug("history recorded",
		zap.Int("entries", len(entries)),
		zap.Int("added", added),
	)
	return added, nil
}

// Query returns the rows matching f in record order.
func (l *Ledger) Query(f Filter) ([]Row, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	if !l.attached {
		return nil, ErrDetached
	}

	query := "SELECT " + historyColumns + " FROM install_history"
	var conditions []string
	var args []any
	if f.Item != "" {
		conditions = append(conditions, "(item_id = ? OR item_name = ?)")
		args = append(args, f.Item, f.Item)
	}
	if f.Slot != "" {
		conditions = append(conditions, "(slot_path = ? OR slot_name = ?)")
		args = append(args, f.Slot, f.Slot)
	}
	if f.Action != "" {
		conditions = append(conditions, "action = ?")
		args = append(args, string(f.Action))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY entry_id"

	rows, err := l.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Count returns the number of recorded entries.
func (l *Ledger) Count() (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if !l.attached {
		return 0, ErrDetached
	}
	var n int
	if err := l.db.QueryRow("SELECT COUNT(*) FROM install_history").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
