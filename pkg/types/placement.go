package types

// Placement kinds. An item is in exactly one of these at any time.
const (
	PlacementUnplaced    = "unplaced"
	PlacementContainedIn = "contained_in"
	PlacementInstalledIn = "installed_in"
)

// Placement records where an item currently sits. At most one of the
// container and slot references is set, so an item can never be both
// contained and installed.
type Placement struct {
	container *Item
	slot      *Slot
}

func containedIn(container *Item) Placement { return Placement{container: container} }

func installedIn(slot *Slot) Placement { return Placement{slot: slot} }

// Kind returns one of the Placement constants.
func (p Placement) Kind() string {
	switch {
	case p.container != nil:
		return PlacementContainedIn
	case p.slot != nil:
		return PlacementInstalledIn
	default:
		return PlacementUnplaced
	}
}

// Container returns the containing item, or nil.
func (p Placement) Container() *Item { return p.container }

// Slot returns the slot holding the item, or nil.
func (p Placement) Slot() *Slot { return p.slot }

// Parent returns the item directly above in the tree: the container, or the
// owner of the slot the item is installed in. Nil when unplaced.
func (p Placement) Parent() *Item {
	if p.container != nil {
		return p.container
	}
	if p.slot != nil {
		return p.slot.owner
	}
	return nil
}
