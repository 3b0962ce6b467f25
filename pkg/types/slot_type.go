package types

// SlotType is a named category of plug interface. Two slot types are
// compatible only if they are equal. The zero value fits nowhere.
type SlotType struct {
	name string
}

// NewSlotType returns the slot type with the given name.
// Returns ErrInvalidSlotType if name is empty.
func NewSlotType(name string) (SlotType, error) {
	if name == "" {
		return SlotType{}, ErrInvalidSlotType
	}
	return SlotType{name: name}, nil
}

// Name returns the slot type name, or "" for the zero value.
func (st SlotType) Name() string { return st.name }

// IsZero reports whether st is the zero slot type.
func (st SlotType) IsZero() bool { return st.name == "" }

func (st SlotType) String() string {
	if st.name == "" {
		return "<none>"
	}
	return st.name
}
