package types

// Slot is an installation point owned by exactly one item. It holds at most
// one installed item whose fit type equals the slot type.
type Slot struct {
	owner     *Item
	name      string
	slotType  SlotType
	installed *Item
	history   []HistoryEntry
}

func newSlot(owner *Item, name string, st SlotType) *Slot {
	return &Slot{owner: owner, name: name, slotType: st}
}

// Owner returns the item that declares this slot.
func (s *Slot) Owner() *Item { return s.owner }

// Name returns the slot name, unique within its owner.
func (s *Slot) Name() string { return s.name }

// Type returns the slot type.
func (s *Slot) Type() SlotType { return s.slotType }

// Installed returns the item occupying the slot, or nil.
func (s *Slot) Installed() *Item { return s.installed }

// IsEmpty reports whether no item is installed.
func (s *Slot) IsEmpty() bool { return s.installed == nil }

// History returns a copy of every install and remove attempt against this slot.
func (s *Slot) History() []HistoryEntry { return copyHistory(s.history) }

// Path returns "owner.slot" for log and history output.
func (s *Slot) Path() string { return s.owner.Name() + "." + s.name }

func (s *Slot) String() string {
	return s.name + " (" + s.slotType.String() + ")"
}
