package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/inventory/pkg/types"
)

// fixture installs, rejects and removes a key on a two-port hub and returns
// the merged history.
func fixture(t *testing.T) (*types.Item, []types.HistoryEntry) {
	t.Helper()
	usb, err := types.NewSlotType("USB-A")
	require.NoError(t, err)
	sata, err := types.NewSlotType("SATA")
	require.NoError(t, err)

	hub, err := types.NewItem("Hub")
	require.NoError(t, err)
	p1, err := hub.AddSlot("p1", usb)
	require.NoError(t, err)
	p2, err := hub.AddSlot("p2", usb)
	require.NoError(t, err)

	key, err := types.NewItem("Key", types.WithFitsInto(usb))
	require.NoError(t, err)
	disk, err := types.NewItem("Disk", types.WithFitsInto(sata))
	require.NoError(t, err)

	steps := []func() (types.InstallAction, error){
		func() (types.InstallAction, error) { return key.InstallIntoSlot(p1, "d1") },
		func() (types.InstallAction, error) { return disk.InstallIntoSlot(p2, "d2") },
		func() (types.InstallAction, error) { return key.RemoveFromSlot(nil, "d3") },
		func() (types.InstallAction, error) { return key.RemoveFromSlot(nil, "d4") },
	}
	for _, step := range steps {
		_, err := step()
		require.NoError(t, err)
	}

	inv := types.NewInventory()
	require.NoError(t, inv.AddItem("hub", hub))
	require.NoError(t, inv.AddItem("key", key))
	require.NoError(t, inv.AddItem("disk", disk))
	return key, inv.History()
}

func attached(t *testing.T) *Ledger {
	t.Helper()
	l := NewLedger(nil)
	require.NoError(t, l.Attach(t.TempDir()))
	t.Cleanup(func() { l.Detach() })
	return l
}

func TestAttachDetach(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	l := NewLedger(nil)

	require.NoError(t, l.Attach(dir))
	assert.FileExists(t, filepath.Join(dir, DatabaseFile))
	assert.Equal(t, filepath.Join(dir, DatabaseFile), l.Path())
	assert.ErrorIs(t, l.Attach(dir), ErrAlreadyAttached)

	require.NoError(t, l.Detach())
	require.NoError(t, l.Detach(), "Detach is idempotent")

	_, err := l.Record(nil)
	assert.ErrorIs(t, err, ErrDetached)
	_, err = l.Query(Filter{})
	assert.ErrorIs(t, err, ErrDetached)
	_, err = l.Count()
	assert.ErrorIs(t, err, ErrDetached)
}

func TestAttachStartsFresh(t *testing.T) {
	dir := t.TempDir()
	_, entries := fixture(t)

	l := NewLedger(nil)
	require.NoError(t, l.Attach(dir))
	_, err := l.Record(entries)
	require.NoError(t, err)
	require.NoError(t, l.Detach())

	require.NoError(t, l.Attach(dir))
	defer l.Detach()
	n, err := l.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRecordIsIdempotent(t *testing.T) {
	l := attached(t)
	_, entries := fixture(t)

	added, err := l.Record(entries)
	require.NoError(t, err)
	assert.Equal(t, len(entries), added)

	added, err = l.Record(entries)
	require.NoError(t, err)
	assert.Zero(t, added)

	n, err := l.Count()
	require.NoError(t, err)
	assert.Equal(t, len(entries), n)
}

func TestQuery(t *testing.T) {
	l := attached(t)
	key, entries := fixture(t)
	_, err := l.Record(entries)
	require.NoError(t, err)

	tests := []struct {
		name      string
		filter    Filter
		wantDates []string
	}{
		{name: "all in record order", filter: Filter{}, wantDates: []string{"d1", "d2", "d3", "d4"}},
		{name: "by item name", filter: Filter{Item: "Key"}, wantDates: []string{"d1", "d3", "d4"}},
		{name: "by item id", filter: Filter{Item: key.ID()}, wantDates: []string{"d1", "d3", "d4"}},
		{name: "by slot path", filter: Filter{Slot: "Hub.p2"}, wantDates: []string{"d2"}},
		{name: "by slot name", filter: Filter{Slot: "p1"}, wantDates: []string{"d1", "d3"}},
		{name: "by action", filter: Filter{Action: types.ActionNotInSlot}, wantDates: []string{"d4"}},
		{name: "combined", filter: Filter{Item: "Key", Action: types.ActionRemove}, wantDates: []string{"d3"}},
		{name: "no match", filter: Filter{Item: "Ghost"}, wantDates: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := l.Query(tt.filter)
			require.NoError(t, err)
			var dates []string
			for _, r := range rows {
				dates = append(dates, r.Date)
			}
			assert.Equal(t, tt.wantDates, dates)
		})
	}
}

func TestQueryRejectsUnknownAction(t *testing.T) {
	l := attached(t)
	_, err := l.Query(Filter{Action: "Explode"})
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestRowFields(t *testing.T) {
	l := attached(t)
	key, entries := fixture(t)
	_, err := l.Record(entries)
	require.NoError(t, err)

	rows, err := l.Query(Filter{})
	require.NoError(t, err)
	require.Len(t, rows, 4)

	install := rows[0]
	assert.Equal(t, entries[0].EntryID, install.EntryID)
	assert.Equal(t, key.ID(), install.ItemID)
	assert.Equal(t, "Hub", install.OwnerName)
	assert.Equal(t, "p1", install.SlotName)
	assert.Equal(t, "USB-A", install.SlotType)
	assert.Equal(t, "Install", install.Action)
	assert.True(t, entries[0].RecordedAt.Equal(install.RecordedAt))
	assert.Equal(t, "d1 Install Key -> Hub.p1", install.String())

	notInSlot := rows[3]
	assert.Empty(t, notInSlot.SlotPath)
	assert.Empty(t, notInSlot.OwnerID)
	assert.Equal(t, "d4 Not in a slot Key -> -", notInSlot.String())
}

func TestExportJSONL(t *testing.T) {
	l := attached(t)
	_, entries := fixture(t)
	_, err := l.Record(entries)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out", ExportFile)
	n, err := l.ExportJSONL(path, Filter{Item: "Key"})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	rows, err := ReadJSONL(path)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Install", rows[0].Action)
	assert.Equal(t, "Remove", rows[1].Action)
	assert.Equal(t, "Not in a slot", rows[2].Action)

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".jsonl-*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches, "temp files must not be left behind")
}

func TestReadJSONLSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), ExportFile)
	data := `{"entry_id":"a","item_name":"Key","action":"Install","recorded_at":"2026-01-02T03:04:05Z"}

not json
{"entry_id":"b","item_name":"Key","action":"Remove","recorded_at":"2026-01-02T03:04:06Z"}
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	rows, err := ReadJSONL(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0].EntryID)
	assert.Equal(t, "b", rows[1].EntryID)
}

func TestReadJSONLMissingFile(t *testing.T) {
	_, err := ReadJSONL(filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.Error(t, err)
}
