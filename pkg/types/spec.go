package types

import (
	"fmt"
	"sort"
)

// SlotSpec declares one slot of an item specification.
type SlotSpec struct {
	Name string
	Type SlotType
}

// ItemSpec is an immutable template for stamping out items with a fixed slot
// layout, fit type, format and default attributes. Items created from it
// share no mutable state with the spec or with each other.
type ItemSpec struct {
	name     string
	format   string
	fitsInto SlotType
	attrs    Attributes
	slots    []SlotSpec
}

// SpecOption configures NewItemSpec.
type SpecOption func(*ItemSpec) error

// SpecFormat sets the label template of created items.
func SpecFormat(format string) SpecOption {
	return func(s *ItemSpec) error {
		s.format = format
		return nil
	}
}

// SpecFitsInto sets the slot type created items fit into.
func SpecFitsInto(st SlotType) SpecOption {
	return func(s *ItemSpec) error {
		s.fitsInto = st
		return nil
	}
}

// SpecAttribute sets a default attribute. The value is converted with ValueOf.
func SpecAttribute(key string, value any) SpecOption {
	return func(s *ItemSpec) error {
		return s.attrs.Set(key, ValueOf(value))
	}
}

// SpecAttributes sets every attribute in attrs as a default.
func SpecAttributes(attrs Attributes) SpecOption {
	return func(s *ItemSpec) error {
		s.attrs = s.attrs.Merge(attrs)
		return nil
	}
}

// SpecSlot declares a slot on created items.
// Returns ErrDuplicateSlot if the name is already declared.
func SpecSlot(name string, st SlotType) SpecOption {
	return func(s *ItemSpec) error {
		if name == "" {
			return ErrInvalidName
		}
		if st.IsZero() {
			return ErrInvalidSlotType
		}
		for _, ss := range s.slots {
			if ss.Name == name {
				return fmt.Errorf("%w: %s.%s", ErrDuplicateSlot, s.name, name)
			}
		}
		s.slots = append(s.slots, SlotSpec{Name: name, Type: st})
		return nil
	}
}

// NewItemSpec builds an item specification. Returns ErrInvalidName if name
// is empty, or the first error reported by an option.
func NewItemSpec(name string, opts ...SpecOption) (*ItemSpec, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	s := &ItemSpec{name: name, format: DefaultFormat}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	sort.Slice(s.slots, func(i, j int) bool { return s.slots[i].Name < s.slots[j].Name })
	return s, nil
}

// Name returns the name given to created items.
func (s *ItemSpec) Name() string { return s.name }

// Format returns the label template of created items.
func (s *ItemSpec) Format() string { return s.format }

// FitsInto returns the slot type created items fit into.
func (s *ItemSpec) FitsInto() SlotType { return s.fitsInto }

// Attributes returns a copy of the default attributes.
func (s *ItemSpec) Attributes() Attributes { return s.attrs.Clone() }

// SlotSpecs returns a copy of the slot layout sorted by name.
func (s *ItemSpec) SlotSpecs() []SlotSpec {
	out := make([]SlotSpec, len(s.slots))
	copy(out, s.slots)
	return out
}

// NewItem creates an item from the spec with overrides applied on top of the
// default attributes, one empty slot per SlotSpec, and placed into container
// when non-nil.
func (s *ItemSpec) NewItem(container *Item, overrides Attributes) *Item {
	it := newItem(s.name, s.format, s.fitsInto, s.attrs.Merge(overrides))
	for _, ss := range s.slots {
		it.slots[ss.Name] = newSlot(it, ss.Name, ss.Type)
	}
	if container != nil {
		it.moveTo(container)
	}
	return it
}

// Spec derives a specification from the item's current shape: name, format,
// fit type, attributes and slot layout. Contents, placement, occupancy and
// history are not part of the spec.
func (it *Item) Spec() *ItemSpec {
	s := &ItemSpec{
		name:     it.name,
		format:   it.format,
		fitsInto: it.fitsInto,
		attrs:    it.attrs.Clone(),
	}
	for _, slot := range it.Slots() {
		s.slots = append(s.slots, SlotSpec{Name: slot.name, Type: slot.slotType})
	}
	return s
}

// Duplicate creates a new item shaped like it, with overrides applied to the
// copied attributes and placed into container when non-nil.
func (it *Item) Duplicate(container *Item, overrides Attributes) *Item {
	return it.Spec().NewItem(container, overrides)
}
