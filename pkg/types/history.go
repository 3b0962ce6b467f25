package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// InstallAction is the outcome of an install or remove attempt.
type InstallAction string

// Install outcomes. Only ActionInstall and ActionRemove change state.
const (
	ActionInstall          InstallAction = "Install"
	ActionRemove           InstallAction = "Remove"
	ActionDoesNotFit       InstallAction = "Does not fit"
	ActionAlreadyInstalled InstallAction = "Already installed"
	ActionSlotOccupied     InstallAction = "Slot occupied"
	ActionNotInSlot        InstallAction = "Not in a slot"
)

// InstallActions lists every outcome for enumeration and validation.
var InstallActions = []InstallAction{
	ActionInstall,
	ActionRemove,
	ActionDoesNotFit,
	ActionAlreadyInstalled,
	ActionSlotOccupied,
	ActionNotInSlot,
}

// Succeeded reports whether the action changed placement state.
func (a InstallAction) Succeeded() bool {
	return a == ActionInstall || a == ActionRemove
}

// HistoryEntry records one install or remove attempt. Entries are created
// only by InstallIntoSlot and RemoveFromSlot and are never modified.
type HistoryEntry struct {
	// EntryID is a UUID v7; sorting by EntryID gives record order.
	EntryID string

	// Slot is the slot involved; nil for ActionNotInSlot.
	Slot *Slot

	// Item is the item that was installed or removed.
	Item *Item

	// Date is the caller-supplied event time, opaque to the model ("" if none).
	Date string

	// Action is the outcome of the attempt.
	Action InstallAction

	// RecordedAt is the wall-clock time the entry was appended.
	RecordedAt time.Time
}

// String renders "date action item -> owner.slot".
func (e HistoryEntry) String() string {
	date := e.Date
	if date == "" {
		date = "-"
	}
	target := "-"
	if e.Slot != nil {
		target = e.Slot.Path()
	}
	return fmt.Sprintf("%s %s %s -> %s", date, e.Action, e.Item.Name(), target)
}

// record appends one entry to the item's history and, when slot is non-nil,
// to the slot's history.
func record(item *Item, slot *Slot, date string, action InstallAction) HistoryEntry {
	e := HistoryEntry{
		EntryID:    generateID(),
		Slot:       slot,
		Item:       item,
		Date:       date,
		Action:     action,
		RecordedAt: time.Now(),
	}
	item.history = append(item.history, e)
	if slot != nil {
		slot.history = append(slot.history, e)
	}
	return e
}

// generateID generates a new UUID v7 for item and history entry IDs.
func generateID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}

func copyHistory(h []HistoryEntry) []HistoryEntry {
	out := make([]HistoryEntry, len(h))
	copy(out, h)
	return out
}
