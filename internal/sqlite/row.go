package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mesh-intelligence/inventory/pkg/types"
)

// Row is one persisted history entry. Slot fields are empty for
// "Not in a slot" outcomes.
type Row struct {
	EntryID    string    `json:"entry_id" yaml:"entry_id"`
	ItemID     string    `json:"item_id" yaml:"item_id"`
	ItemName   string    `json:"item_name" yaml:"item_name"`
	OwnerID    string    `json:"owner_id,omitempty" yaml:"owner_id,omitempty"`
	OwnerName  string    `json:"owner_name,omitempty" yaml:"owner_name,omitempty"`
	SlotName   string    `json:"slot_name,omitempty" yaml:"slot_name,omitempty"`
	SlotPath   string    `json:"slot_path,omitempty" yaml:"slot_path,omitempty"`
	SlotType   string    `json:"slot_type,omitempty" yaml:"slot_type,omitempty"`
	Date       string    `json:"date,omitempty" yaml:"date,omitempty"`
	Action     string    `json:"action" yaml:"action"`
	RecordedAt time.Time `json:"recorded_at" yaml:"recorded_at"`
}

// RowFromEntry flattens a history entry into a Row.
func RowFromEntry(e types.HistoryEntry) Row {
	r := Row{
		EntryID:    e.EntryID,
		Date:       e.Date,
		Action:     string(e.Action),
		RecordedAt: e.RecordedAt.UTC(),
	}
	if e.Item != nil {
		r.ItemID = e.Item.ID()
		r.ItemName = e.Item.Name()
	}
	if e.Slot != nil {
		r.OwnerID = e.Slot.Owner().ID()
		r.OwnerName = e.Slot.Owner().Name()
		r.SlotName = e.Slot.Name()
		r.SlotPath = e.Slot.Path()
		r.SlotType = e.Slot.Type().Name()
	}
	return r
}

// String renders the row the way HistoryEntry.String does.
func (r Row) String() string {
	date := r.Date
	if date == "" {
		date = "-"
	}
	target := r.SlotPath
	if target == "" {
		target = "-"
	}
	return fmt.Sprintf("%s %s %s -> %s", date, r.Action, r.ItemName, target)
}

func scanRow(rows *sql.Rows) (Row, error) {
	var r Row
	var recordedAt string
	if err := rows.Scan(
		&r.EntryID, &r.ItemID, &r.ItemName,
		&r.OwnerID, &r.OwnerName,
		&r.SlotName, &r.SlotPath, &r.SlotType,
		&r.Date, &r.Action, &recordedAt,
	); err != nil {
		return Row{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, recordedAt)
	if err != nil {
		return Row{}, fmt.Errorf("entry %s: parsing recorded_at: %w", r.EntryID, err)
	}
	r.RecordedAt = t
	return r, nil
}
