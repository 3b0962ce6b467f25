package types

import "errors"

// Construction errors.
var (
	ErrInvalidName     = errors.New("invalid name")
	ErrInvalidSlotType = errors.New("invalid slot type")
	ErrInvalidValue    = errors.New("attribute number must be finite")
	ErrDuplicateSlot   = errors.New("slot name already declared on item")
	ErrSlotNotFound    = errors.New("slot not found")
)

// Placement errors. Rejected installs are not errors; they are reported as
// InstallAction values and recorded in history.
var (
	ErrInvalidSlot     = errors.New("invalid slot")
	ErrPlacementCycle  = errors.New("placement would contain an item within itself")
	ErrInstalled       = errors.New("item is installed in a slot; remove it first")
	ErrInstallRejected = errors.New("install rejected")
)

// Registry errors.
var (
	ErrDuplicateSpec    = errors.New("item specification already defined")
	ErrSpecNotFound     = errors.New("item specification not found")
	ErrDuplicateItem    = errors.New("item key already registered")
	ErrItemNotFound     = errors.New("item not found")
	ErrSlotTypeNotFound = errors.New("slot type not found")
)
