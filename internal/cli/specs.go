package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/inventory/pkg/types"
)

// specView is the JSON form of an item specification.
type specView struct {
	Key        string         `json:"key"`
	Name       string         `json:"name"`
	Format     string         `json:"format"`
	FitsInto   string         `json:"fits_into,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
	Slots      []slotSpecView `json:"slots,omitempty"`
}

type slotSpecView struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func newSpecView(key string, s *types.ItemSpec) specView {
	v := specView{
		Key:        key,
		Name:       s.Name(),
		Format:     s.Format(),
		FitsInto:   s.FitsInto().Name(),
		Attributes: s.Attributes().Map(),
	}
	for _, ss := range s.SlotSpecs() {
		v.Slots = append(v.Slots, slotSpecView{Name: ss.Name, Type: ss.Type.Name()})
	}
	return v
}

func newSpecsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "specs",
		Short: "List item specifications and slot types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.load()
			if err != nil {
				return err
			}

			var views []specView
			for _, key := range s.inv.SpecKeys() {
				spec, err := s.inv.Spec(key)
				if err != nil {
					return err
				}
				views = append(views, newSpecView(key, spec))
			}

			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				var slotTypes []string
				for _, st := range s.inv.SlotTypes() {
					slotTypes = append(slotTypes, st.Name())
				}
				return writeJSON(out, map[string]any{
					"slot_types": slotTypes,
					"specs":      views,
				})
			}

			var names []string
			for _, st := range s.inv.SlotTypes() {
				names = append(names, st.Name())
			}
			fmt.Fprintf(out, "slot types: %s\n", strings.Join(names, ", "))
			for _, v := range views {
				fits := v.FitsInto
				if fits == "" {
					fits = "-"
				}
				fmt.Fprintf(out, "\n%s: %s\n  format:    %s\n  fits into: %s\n", v.Key, v.Name, v.Format, fits)
				for _, ss := range v.Slots {
					fmt.Fprintf(out, "  slot:      %s (%s)\n", ss.Name, ss.Type)
				}
			}
			return nil
		},
	}
}
