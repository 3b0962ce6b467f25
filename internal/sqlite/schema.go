package sqlite

// Schema DDL for the history ledger.
const (
	createHistory = `CREATE TABLE IF NOT EXISTS install_history (
    entry_id TEXT PRIMARY KEY,
    item_id TEXT NOT NULL,
    item_name TEXT NOT NULL,
    owner_id TEXT NOT NULL DEFAULT '',
    owner_name TEXT NOT NULL DEFAULT '',
    slot_name TEXT NOT NULL DEFAULT '',
    slot_path TEXT NOT NULL DEFAULT '',
    slot_type TEXT NOT NULL DEFAULT '',
    date TEXT NOT NULL DEFAULT '',
    action TEXT NOT NULL,
    recorded_at TEXT NOT NULL
);`

	createHistoryItemIndex   = `CREATE INDEX IF NOT EXISTS idx_history_item ON install_history (item_id);`
	createHistorySlotIndex   = `CREATE INDEX IF NOT EXISTS idx_history_slot ON install_history (slot_path);`
	createHistoryActionIndex = `CREATE INDEX IF NOT EXISTS idx_history_action ON install_history (action);`
)

var schemaStatements = []string{
	createHistory,
	createHistoryItemIndex,
	createHistorySlotIndex,
	createHistoryActionIndex,
}

const historyColumns = "entry_id, item_id, item_name, owner_id, owner_name, slot_name, slot_path, slot_type, date, action, recorded_at"
