package manifest

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/inventory/pkg/types"
)

// builder carries state while turning a Manifest into an Inventory.
type builder struct {
	inv    *types.Inventory
	logger *zap.Logger
}

// Build creates the inventory described by m: slot types, specs, then the
// item tree in document order. Events are not applied; see Apply.
func (m *Manifest) Build(logger *zap.Logger) (*types.Inventory, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &builder{inv: types.NewInventory(), logger: logger}

	for _, name := range m.SlotTypes {
		if _, err := b.inv.DefineSlotType(name); err != nil {
			return nil, fmt.Errorf("slot type %q: %w", name, err)
		}
	}

	keys := make([]string, 0, len(m.Specs))
	for k := range m.Specs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := b.spec(k, m.Specs[k]); err != nil {
			return nil, fmt.Errorf("spec %q: %w", k, err)
		}
	}

	for i := range m.Items {
		if _, err := b.item(&m.Items[i], nil); err != nil {
			return nil, err
		}
	}
	logger.Debug("manifest built",
		zap.Int("slot_types", len(m.SlotTypes)),
		zap.Int("specs", len(m.Specs)),
		zap.Int("items", len(b.inv.Items())),
	)
	return b.inv, nil
}

func (b *builder) slotType(name string) (types.SlotType, error) {
	if name == "" {
		return types.SlotType{}, nil
	}
	return b.inv.SlotType(name)
}

func (b *builder) spec(key string, s SpecYAML) error {
	name := s.Name
	if name == "" {
		name = key
	}
	fits, err := b.slotType(s.FitsInto)
	if err != nil {
		return err
	}
	opts := []types.SpecOption{
		types.SpecFitsInto(fits),
		types.SpecAttributes(s.Attributes.Attributes),
	}
	if s.Format != "" {
		opts = append(opts, types.SpecFormat(s.Format))
	}
	for _, ss := range s.Slots {
		st, err := b.inv.SlotType(ss.Type)
		if err != nil {
			return fmt.Errorf("slot %q: %w", ss.Name, err)
		}
		opts = append(opts, types.SpecSlot(ss.Name, st))
	}
	spec, err := types.NewItemSpec(name, opts...)
	if err != nil {
		return err
	}
	return b.inv.DefineSpec(key, spec)
}

// item builds y inside container (nil for top-level items), registers it
// under its key, and recurses into contents and slots.
func (b *builder) item(y *ItemYAML, container *types.Item) (*types.Item, error) {
	it, err := b.create(y, container)
	if err != nil {
		return nil, fmt.Errorf("item %s: %w", describe(y), err)
	}
	return it, b.finish(y, it)
}

// installed builds y and installs it into slot.
func (b *builder) installed(y *ItemYAML, slot *types.Slot, date string) (*types.Item, error) {
	it, err := b.create(y, nil)
	if err != nil {
		return nil, fmt.Errorf("item %s: %w", describe(y), err)
	}
	action, err := it.InstallIntoSlot(slot, date)
	if err != nil {
		return nil, fmt.Errorf("item %s: %w", describe(y), err)
	}
	if action != types.ActionInstall {
		return nil, fmt.Errorf("item %s: %w: %s into %s", describe(y), types.ErrInstallRejected, action, slot.Path())
	}
	return it, b.finish(y, it)
}

func (b *builder) create(y *ItemYAML, container *types.Item) (*types.Item, error) {
	switch {
	case y.Spec != "" && y.Duplicate != "":
		return nil, fmt.Errorf("%w: spec and duplicate are exclusive", ErrInvalidManifest)
	case y.Spec != "":
		spec, err := b.inv.Spec(y.Spec)
		if err != nil {
			return nil, err
		}
		if y.Format != "" || y.FitsInto != "" {
			return nil, fmt.Errorf("%w: format and fits_into come from spec %q", ErrInvalidManifest, y.Spec)
		}
		return spec.NewItem(container, y.Attributes.Attributes), nil
	case y.Duplicate != "":
		src, err := b.inv.Item(y.Duplicate)
		if err != nil {
			return nil, err
		}
		if y.Format != "" || y.FitsInto != "" {
			return nil, fmt.Errorf("%w: format and fits_into come from %q", ErrInvalidManifest, y.Duplicate)
		}
		return src.Duplicate(container, y.Attributes.Attributes), nil
	}

	fits, err := b.slotType(y.FitsInto)
	if err != nil {
		return nil, err
	}
	opts := []types.ItemOption{
		types.WithFitsInto(fits),
		types.WithAttributes(y.Attributes.Attributes),
	}
	if y.Format != "" {
		opts = append(opts, types.WithFormat(y.Format))
	}
	if container != nil {
		opts = append(opts, types.WithContainer(container))
	}
	return types.NewItem(y.Name, opts...)
}

// finish registers the item and builds its slots and contents.
func (b *builder) finish(y *ItemYAML, it *types.Item) error {
	if y.Key != "" {
		if err := b.inv.AddItem(y.Key, it); err != nil {
			return err
		}
	}
	b.logger.Debug("item created",
		zap.String("key", y.Key),
		zap.String("item", it.Label()),
		zap.String("placement", it.Placement().Kind()),
	)

	seen := make(map[string]bool, len(y.Slots))
	for i := range y.Slots {
		sy := &y.Slots[i]
		if seen[sy.Name] {
			return fmt.Errorf("item %s: %w: %s", describe(y), types.ErrDuplicateSlot, sy.Name)
		}
		seen[sy.Name] = true
		slot, err := it.Slot(sy.Name)
		if errors.Is(err, types.ErrSlotNotFound) {
			st, terr := b.inv.SlotType(sy.Type)
			if terr != nil {
				return fmt.Errorf("item %s slot %q: %w", describe(y), sy.Name, terr)
			}
			slot, err = it.AddSlot(sy.Name, st)
		} else if err == nil && sy.Type != "" && sy.Type != slot.Type().Name() {
			err = fmt.Errorf("%w: slot %q is %s, not %s", ErrInvalidManifest, sy.Name, slot.Type(), sy.Type)
		}
		if err != nil {
			return fmt.Errorf("item %s: %w", describe(y), err)
		}
		if sy.Installed != nil {
			if _, err := b.installed(sy.Installed, slot, sy.Date); err != nil {
				return err
			}
		}
	}

	for i := range y.Contents {
		if _, err := b.item(&y.Contents[i], it); err != nil {
			return err
		}
	}
	return nil
}

func describe(y *ItemYAML) string {
	switch {
	case y.Key != "":
		return fmt.Sprintf("%q", y.Key)
	case y.Name != "":
		return fmt.Sprintf("%q", y.Name)
	case y.Spec != "":
		return fmt.Sprintf("from spec %q", y.Spec)
	default:
		return fmt.Sprintf("duplicate of %q", y.Duplicate)
	}
}
