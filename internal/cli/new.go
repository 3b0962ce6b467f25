package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/inventory/internal/render"
	"github.com/mesh-intelligence/inventory/pkg/types"
)

// errUsage reports invalid flag combinations or values.
var errUsage = errors.New("usage")

func newNewCmd(a *app) *cobra.Command {
	var (
		into    string
		like    string
		strs    []string
		numbers []string
	)
	cmd := &cobra.Command{
		Use:   "new [spec]",
		Short: "Preview an item stamped from a spec or copied from an item",
		Long: "Create an item from a specification (or, with --like, from an existing\n" +
			"item's specification), apply attribute overrides, place it and print it.\n" +
			"The manifest is not modified.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(args) == 1) == (like != "") {
				return fmt.Errorf("%w: give either a spec key or --like", errUsage)
			}
			overrides, err := parseOverrides(strs, numbers)
			if err != nil {
				return err
			}

			s, err := a.load()
			if err != nil {
				return err
			}

			var container *types.Item
			if into != "" {
				if container, err = s.item(into); err != nil {
					return err
				}
			}

			var it *types.Item
			if like != "" {
				src, err := s.item(like)
				if err != nil {
					return err
				}
				it = src.Duplicate(container, overrides)
			} else {
				spec, err := s.inv.Spec(args[0])
				if err != nil {
					return err
				}
				it = spec.NewItem(container, overrides)
			}
			a.logger.Info("item created",
				zap.String("item", it.Label()),
				zap.String("placement", it.Placement().Kind()),
			)

			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return writeJSON(out, showView{
					Placement: describePlacement(it),
					Item:      render.Tree(it),
					History:   historyRows(it.History()),
				})
			}
			if err := printShow(out, it, dumpIndent(a.cfg)); err != nil {
				return sysError(err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&into, "into", "", "key of the container to place the item in")
	cmd.Flags().StringVar(&like, "like", "", "key of an item to copy the specification of")
	cmd.Flags().StringArrayVar(&strs, "set", nil, "string attribute override key=value (repeatable)")
	cmd.Flags().StringArrayVar(&numbers, "set-number", nil, "number attribute override key=value (repeatable)")
	return cmd
}

// parseOverrides turns key=value pairs into attributes, strings first.
func parseOverrides(strs, numbers []string) (types.Attributes, error) {
	var attrs types.Attributes
	for _, kv := range strs {
		k, v, err := splitPair(kv)
		if err != nil {
			return attrs, err
		}
		if err := attrs.Set(k, types.StringValue(v)); err != nil {
			return attrs, err
		}
	}
	for _, kv := range numbers {
		k, v, err := splitPair(kv)
		if err != nil {
			return attrs, err
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return attrs, fmt.Errorf("%w: %s is not a number", errUsage, kv)
		}
		if err := attrs.Set(k, types.NumberValue(n)); err != nil {
			return attrs, err
		}
	}
	return attrs, nil
}

func splitPair(kv string) (string, string, error) {
	k, v, ok := strings.Cut(kv, "=")
	if !ok || k == "" {
		return "", "", fmt.Errorf("%w: expected key=value, got %q", errUsage, kv)
	}
	return k, v, nil
}
