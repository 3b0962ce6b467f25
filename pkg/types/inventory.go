package types

import (
	"fmt"
	"sort"
)

// Inventory is a registry of slot types, item specifications and items
// keyed by caller-chosen names. It does not own placement; items move only
// through their own mutation methods.
type Inventory struct {
	slotTypes map[string]SlotType
	specs     map[string]*ItemSpec
	items     map[string]*Item
	order     []string
}

// NewInventory returns an empty registry.
func NewInventory() *Inventory {
	return &Inventory{
		slotTypes: make(map[string]SlotType),
		specs:     make(map[string]*ItemSpec),
		items:     make(map[string]*Item),
	}
}

// DefineSlotType registers a slot type by name and returns it. Defining an
// existing name returns the registered value.
func (inv *Inventory) DefineSlotType(name string) (SlotType, error) {
	if st, ok := inv.slotTypes[name]; ok {
		return st, nil
	}
	st, err := NewSlotType(name)
	if err != nil {
		return SlotType{}, err
	}
	inv.slotTypes[name] = st
	return st, nil
}

// SlotType returns the registered slot type.
// Returns ErrSlotTypeNotFound if name was never defined.
func (inv *Inventory) SlotType(name string) (SlotType, error) {
	st, ok := inv.slotTypes[name]
	if !ok {
		return SlotType{}, fmt.Errorf("%w: %q", ErrSlotTypeNotFound, name)
	}
	return st, nil
}

// SlotTypes returns every registered slot type sorted by name.
func (inv *Inventory) SlotTypes() []SlotType {
	out := make([]SlotType, 0, len(inv.slotTypes))
	for _, st := range inv.slotTypes {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// DefineSpec registers spec under key.
// Returns ErrInvalidName for an empty key and ErrDuplicateSpec if taken.
func (inv *Inventory) DefineSpec(key string, spec *ItemSpec) error {
	if key == "" || spec == nil {
		return ErrInvalidName
	}
	if _, ok := inv.specs[key]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateSpec, key)
	}
	inv.specs[key] = spec
	return nil
}

// Spec returns the specification registered under key.
// Returns ErrSpecNotFound if key is unknown.
func (inv *Inventory) Spec(key string) (*ItemSpec, error) {
	s, ok := inv.specs[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSpecNotFound, key)
	}
	return s, nil
}

// SpecKeys returns the registered specification keys sorted.
func (inv *Inventory) SpecKeys() []string {
	out := make([]string, 0, len(inv.specs))
	for k := range inv.specs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// AddItem registers it under key.
// Returns ErrInvalidName for an empty key and ErrDuplicateItem if taken.
func (inv *Inventory) AddItem(key string, it *Item) error {
	if key == "" || it == nil {
		return ErrInvalidName
	}
	if _, ok := inv.items[key]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateItem, key)
	}
	inv.items[key] = it
	inv.order = append(inv.order, key)
	return nil
}

// Item returns the item registered under key.
// Returns ErrItemNotFound if key is unknown.
func (inv *Inventory) Item(key string) (*Item, error) {
	it, ok := inv.items[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrItemNotFound, key)
	}
	return it, nil
}

// Keys returns item keys in registration order.
func (inv *Inventory) Keys() []string {
	out := make([]string, len(inv.order))
	copy(out, inv.order)
	return out
}

// Items returns every item reachable from the registered items, each once,
// sorted by name then ID.
func (inv *Inventory) Items() []*Item {
	seen := make(map[*Item]bool)
	for _, k := range inv.order {
		root := inv.items[k]
		for root.placement.Parent() != nil {
			root = root.placement.Parent()
		}
		Walk(root, func(it *Item, _ int) bool {
			if seen[it] {
				return false
			}
			seen[it] = true
			return true
		})
	}
	out := make([]*Item, 0, len(seen))
	for it := range seen {
		out = append(out, it)
	}
	sortItems(out)
	return out
}

// Roots returns the unplaced items among Items, sorted by name then ID.
func (inv *Inventory) Roots() []*Item {
	var out []*Item
	for _, it := range inv.Items() {
		if it.placement.Kind() == PlacementUnplaced {
			out = append(out, it)
		}
	}
	return out
}

// History returns every history entry of every item in Items, in record order.
func (inv *Inventory) History() []HistoryEntry {
	var out []HistoryEntry
	for _, it := range inv.Items() {
		out = append(out, it.history...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].EntryID < out[j].EntryID })
	return out
}
