package types

import (
	"fmt"
	"sort"
)

// DefaultFormat is the label template used when none is given.
const DefaultFormat = "{name}"

// Item is a node in the inventory tree. It owns its slots, tracks the items
// it contains by non-owning membership, and records where it is placed.
type Item struct {
	id        string
	name      string
	format    string
	fitsInto  SlotType
	attrs     Attributes
	slots     map[string]*Slot
	contents  map[*Item]struct{}
	placement Placement
	history   []HistoryEntry
}

// ItemOption configures NewItem.
type ItemOption func(*itemOptions)

type itemOptions struct {
	format      string
	fitsInto    SlotType
	attrs       Attributes
	container   *Item
	installInto *Slot
	installDate string
	err         error
}

// WithFormat sets the label template, e.g. "{name} ({manufacturer} {model})".
func WithFormat(format string) ItemOption {
	return func(o *itemOptions) { o.format = format }
}

// WithFitsInto sets the slot type the item can be installed into.
func WithFitsInto(st SlotType) ItemOption {
	return func(o *itemOptions) { o.fitsInto = st }
}

// WithAttribute sets one attribute. The value is converted with ValueOf.
// An invalid key or value makes NewItem fail.
func WithAttribute(key string, value any) ItemOption {
	return func(o *itemOptions) {
		if err := o.attrs.Set(key, ValueOf(value)); err != nil && o.err == nil {
			o.err = fmt.Errorf("attribute %q: %w", key, err)
		}
	}
}

// WithAttributes sets every attribute in attrs, overriding earlier values.
func WithAttributes(attrs Attributes) ItemOption {
	return func(o *itemOptions) { o.attrs = o.attrs.Merge(attrs) }
}

// WithContainer places the new item into container.
func WithContainer(container *Item) ItemOption {
	return func(o *itemOptions) { o.container = container }
}

// WithInstallInto installs the new item into slot, recording date.
func WithInstallInto(slot *Slot, date string) ItemOption {
	return func(o *itemOptions) {
		o.installInto = slot
		o.installDate = date
	}
}

// NewItem creates an item. Returns ErrInvalidName if name is empty, and the
// first error raised by an option.
//
// When WithInstallInto is given and the install is rejected, the item is
// still returned together with an error wrapping ErrInstallRejected; the
// rejection is recorded in its history.
func NewItem(name string, opts ...ItemOption) (*Item, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	o := itemOptions{format: DefaultFormat}
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	it := newItem(name, o.format, o.fitsInto, o.attrs.Clone())
	if o.container != nil {
		it.moveTo(o.container)
	}
	if o.installInto != nil {
		action, err := it.InstallIntoSlot(o.installInto, o.installDate)
		if err != nil {
			it.moveTo(nil)
			return nil, err
		}
		if action != ActionInstall {
			return it, fmt.Errorf("%w: %s into %s", ErrInstallRejected, action, o.installInto.Path())
		}
	}
	return it, nil
}

func newItem(name, format string, fitsInto SlotType, attrs Attributes) *Item {
	if format == "" {
		format = DefaultFormat
	}
	return &Item{
		id:       generateID(),
		name:     name,
		format:   format,
		fitsInto: fitsInto,
		attrs:    attrs,
		slots:    make(map[string]*Slot),
		contents: make(map[*Item]struct{}),
	}
}

// ID returns the item's UUID v7.
func (it *Item) ID() string { return it.id }

// Name returns the item name.
func (it *Item) Name() string { return it.name }

// Format returns the label template.
func (it *Item) Format() string { return it.format }

// FitsInto returns the slot type the item installs into; zero if none.
func (it *Item) FitsInto() SlotType { return it.fitsInto }

// Attributes returns a copy of the item's attributes.
func (it *Item) Attributes() Attributes { return it.attrs.Clone() }

// Attribute returns one attribute value and whether it is set.
func (it *Item) Attribute(key string) (Value, bool) { return it.attrs.Get(key) }

// SetAttribute assigns one attribute. Returns ErrInvalidName if key is empty.
func (it *Item) SetAttribute(key string, value Value) error {
	return it.attrs.Set(key, value)
}

// Placement returns where the item currently sits.
func (it *Item) Placement() Placement { return it.placement }

// Container returns the containing item, or nil.
func (it *Item) Container() *Item { return it.placement.container }

// InstalledIn returns the slot holding the item, or nil.
func (it *Item) InstalledIn() *Slot { return it.placement.slot }

// History returns a copy of the item's install history in record order.
func (it *Item) History() []HistoryEntry { return copyHistory(it.history) }

// AddSlot declares a new empty slot on the item.
// Returns ErrInvalidName for an empty name, ErrInvalidSlotType for the zero
// slot type, and ErrDuplicateSlot if the name is already declared.
func (it *Item) AddSlot(name string, st SlotType) (*Slot, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	if st.IsZero() {
		return nil, ErrInvalidSlotType
	}
	if _, ok := it.slots[name]; ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrDuplicateSlot, it.name, name)
	}
	s := newSlot(it, name, st)
	it.slots[name] = s
	return s, nil
}

// Slot returns the slot with the given name.
// Returns ErrSlotNotFound if the item declares no such slot.
func (it *Item) Slot(name string) (*Slot, error) {
	s, ok := it.slots[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrSlotNotFound, it.name, name)
	}
	return s, nil
}

// Slots returns the item's slots sorted by name.
func (it *Item) Slots() []*Slot {
	out := make([]*Slot, 0, len(it.slots))
	for _, s := range it.slots {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Contents returns the contained items sorted by name, ties broken by ID.
func (it *Item) Contents() []*Item {
	out := make([]*Item, 0, len(it.contents))
	for c := range it.contents {
		out = append(out, c)
	}
	sortItems(out)
	return out
}

// Contains reports whether child is a direct member of the item.
func (it *Item) Contains(child *Item) bool {
	_, ok := it.contents[child]
	return ok
}

// ChangeContainer moves the item into newContainer, or leaves it unplaced
// when newContainer is nil. It does not record history.
//
// Returns ErrInstalled if the item is installed in a slot, and
// ErrPlacementCycle if newContainer is the item or one of its descendants.
// Nothing changes on error.
func (it *Item) ChangeContainer(newContainer *Item) error {
	if it.placement.slot != nil {
		return fmt.Errorf("%w: %s in %s", ErrInstalled, it.name, it.placement.slot.Path())
	}
	if newContainer != nil && it.encloses(newContainer) {
		return fmt.Errorf("%w: %s into %s", ErrPlacementCycle, it.name, newContainer.name)
	}
	it.moveTo(newContainer)
	return nil
}

// InstallIntoSlot plugs the item into slot. The checks run in order and the
// first failure is the outcome: ActionDoesNotFit, ActionAlreadyInstalled,
// ActionSlotOccupied. On ActionInstall the item leaves its container.
// Exactly one history entry is appended to the item and the slot per call.
//
// Returns ErrInvalidSlot for a nil slot and ErrPlacementCycle when the slot
// belongs to the item or one of its descendants; these record nothing. The
// cycle check runs before the fit check, so a misfit into the item's own
// slot is ErrPlacementCycle rather than ActionDoesNotFit.
func (it *Item) InstallIntoSlot(slot *Slot, date string) (InstallAction, error) {
	if slot == nil || slot.owner == nil {
		return "", ErrInvalidSlot
	}
	if it.encloses(slot.owner) {
		return "", fmt.Errorf("%w: %s into %s", ErrPlacementCycle, it.name, slot.Path())
	}

	var action InstallAction
	switch {
	case it.fitsInto != slot.slotType:
		action = ActionDoesNotFit
	case it.placement.slot != nil:
		action = ActionAlreadyInstalled
	case slot.installed != nil:
		action = ActionSlotOccupied
	default:
		it.moveTo(nil)
		slot.installed = it
		it.placement = installedIn(slot)
		action = ActionInstall
	}
	record(it, slot, date, action)
	return action, nil
}

// RemoveFromSlot unplugs the item and places it into container (nil leaves
// it unplaced). An item that is not installed records ActionNotInSlot and
// nothing changes.
//
// Returns ErrPlacementCycle, recording nothing, when container is the item
// or one of its descendants.
func (it *Item) RemoveFromSlot(container *Item, date string) (InstallAction, error) {
	slot := it.placement.slot
	if slot == nil {
		record(it, nil, date, ActionNotInSlot)
		return ActionNotInSlot, nil
	}
	if container != nil && it.encloses(container) {
		return "", fmt.Errorf("%w: %s into %s", ErrPlacementCycle, it.name, container.name)
	}

	slot.installed = nil
	it.placement = Placement{}
	record(it, slot, date, ActionRemove)
	it.moveTo(container)
	return ActionRemove, nil
}

// Label renders the format template against the item's name and attributes.
func (it *Item) Label() string {
	return renderFormat(it.format, it.lookup)
}

func (it *Item) String() string { return it.Label() }

func (it *Item) lookup(key string) (string, bool) {
	if key == "name" {
		return it.name, true
	}
	v, ok := it.attrs.Get(key)
	if !ok {
		return "", false
	}
	return v.String(), true
}

// moveTo detaches the item from its current container, if any, and attaches
// it to container. Slot state is cleared; callers vacate the slot first.
func (it *Item) moveTo(container *Item) {
	if old := it.placement.container; old != nil {
		delete(old.contents, it)
	}
	it.placement = Placement{}
	if container != nil {
		container.contents[it] = struct{}{}
		it.placement = containedIn(container)
	}
}

// encloses reports whether other is the item itself or sits anywhere below it.
func (it *Item) encloses(other *Item) bool {
	for p := other; p != nil; p = p.placement.Parent() {
		if p == it {
			return true
		}
	}
	return false
}

func sortItems(items []*Item) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].name != items[j].name {
			return items[i].name < items[j].name
		}
		return items[i].id < items[j].id
	})
}
