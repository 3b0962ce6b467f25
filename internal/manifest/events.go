package manifest

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/inventory/pkg/types"
)

// Outcome is the result of one applied event. Action is empty for moves,
// which do not record history.
type Outcome struct {
	Event  EventYAML
	Item   *types.Item
	Action types.InstallAction
}

// Apply replays m.Events against inv in order. Rejected installs and
// removes are outcomes, not errors; Apply stops at the first structural
// error (unknown key, cycle, moving an installed item).
func (m *Manifest) Apply(inv *types.Inventory, logger *zap.Logger) ([]Outcome, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	out := make([]Outcome, 0, len(m.Events))
	for i, e := range m.Events {
		o, err := applyEvent(inv, e)
		if err != nil {
			return out, fmt.Errorf("event %d: %w", i+1, err)
		}
		out = append(out, o)

		fields := []zap.Field{
			zap.Int("event", i+1),
			zap.String("item", o.Item.Name()),
			zap.String("date", e.Date),
		}
		switch {
		case o.Action == "":
			logger.Info("item moved", append(fields, zap.String("into", e.Into))...)
		case o.Action.Succeeded():
			logger.Info("placement changed", append(fields, zap.String("action", string(o.Action)))...)
		default:
			logger.Info("placement rejected", append(fields, zap.String("action", string(o.Action)))...)
		}
	}
	return out, nil
}

func applyEvent(inv *types.Inventory, e EventYAML) (Outcome, error) {
	if err := e.Validate(); err != nil {
		return Outcome{}, err
	}

	var into *types.Item
	if e.Into != "" {
		it, err := inv.Item(e.Into)
		if err != nil {
			return Outcome{}, err
		}
		into = it
	}

	switch {
	case e.Install != "":
		it, err := inv.Item(e.Install)
		if err != nil {
			return Outcome{}, err
		}
		slot, err := into.Slot(e.Slot)
		if err != nil {
			return Outcome{}, err
		}
		action, err := it.InstallIntoSlot(slot, e.Date)
		return Outcome{Event: e, Item: it, Action: action}, err
	case e.Remove != "":
		it, err := inv.Item(e.Remove)
		if err != nil {
			return Outcome{}, err
		}
		action, err := it.RemoveFromSlot(into, e.Date)
		return Outcome{Event: e, Item: it, Action: action}, err
	default:
		it, err := inv.Item(e.Move)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Event: e, Item: it}, it.ChangeContainer(into)
	}
}
