package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/rexyz/internal/engine"
)

var attrSetFlags patchFlags

var attrCmd = &cobra.Command{
	Use:   "attr",
	Short: "Add and edit accessories",
	Long: `Add and edit accessories (hats, masks, other, effects).

Each add creates a new instance on top of every existing layer. Browse a
category with 'select', 'next' and 'prev', then 'add' the browsed variant,
or add one directly with 'add <category> <variant>'.`,
}

var attrLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List accessory instances",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, cleanup, err := newEngine(context.Background())
		if err != nil {
			return err
		}
		defer cleanup()

		st := eng.State()
		if jsonOutput {
			return outputJSON(st.Accessories)
		}

		PrintSection("Accessories")
		if len(st.Accessories) == 0 {
			PrintEmptyState("No accessories added")
			return nil
		}
		rows := make([][]string, 0, len(st.Accessories))
		for _, a := range st.Accessories {
			rows = append(rows, layerRow(a.ID, a.Layer, len(eng.Catalog().VariantsFor(a.Category))))
		}
		PrintTable(layerHeaders, rows)
		return nil
	},
}

var attrSelectCmd = &cobra.Command{
	Use:   "select <category>",
	Short: "Browse an accessory category from its first variant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, cleanup, err := newEngine(context.Background())
		if err != nil {
			return err
		}
		defer cleanup()

		changed, err := eng.SelectCategory(context.Background(), args[0])
		if err != nil {
			return err
		}
		return reportChange(changed, fmt.Sprintf("Browsing %s", args[0]))
	},
}

func browseCmd(use, short string, delta int) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, cleanup, err := newEngine(context.Background())
			if err != nil {
				return err
			}
			defer cleanup()

			changed, err := eng.Browse(context.Background(), delta)
			if err != nil {
				return err
			}
			sel := eng.Selection()
			return reportChange(changed, fmt.Sprintf("%s variant %d", sel.Category, sel.Index))
		},
	}
}

var attrBackCmd = &cobra.Command{
	Use:   "back",
	Short: "Stop browsing and return to the category list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, cleanup, err := newEngine(context.Background())
		if err != nil {
			return err
		}
		defer cleanup()

		if err := eng.ClearCategory(context.Background()); err != nil {
			return err
		}
		return reportChange(true, "Back to categories")
	},
}

var attrAddCmd = &cobra.Command{
	Use:   "add [<category> <variant>]",
	Short: "Add an accessory instance",
	Long: `Add an accessory instance on top of every existing layer.

Without arguments the browsed variant is added.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 2 {
			return fmt.Errorf("accepts 0 or 2 arg(s), received %d", len(args))
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		eng, cleanup, err := newEngine(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		var res *engine.AddResult
		if len(args) == 2 {
			variant, err := parseIndex("variant", args[1])
			if err != nil {
				return err
			}
			res, err = eng.AddAccessory(ctx, args[0], variant)
			if err != nil {
				return err
			}
		} else {
			res, err = eng.AddSelected(ctx)
			if err != nil {
				return err
			}
		}

		if jsonOutput {
			return outputJSON(res)
		}
		if !res.Added {
			PrintWarning("No change")
			return nil
		}
		PrintSuccess(fmt.Sprintf("Added %s at depth %d", res.Instance.ID, res.Instance.Depth))
		return nil
	},
}

var attrSetCmd = &cobra.Command{
	Use:     "set <id>",
	Short:   "Change the transform, visibility or depth of an accessory",
	Example: `  rexyz attr set hats-0192f3c4-... --rotate 15 --x 40`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, cleanup, err := newEngine(context.Background())
		if err != nil {
			return err
		}
		defer cleanup()

		changed, err := eng.UpdateAccessory(context.Background(), &engine.AccessoryUpdateRequest{
			ID:    args[0],
			Patch: attrSetFlags.patch(cmd),
		})
		if err != nil {
			return err
		}
		return reportChange(changed, fmt.Sprintf("Updated %s", args[0]))
	},
}

var attrRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove an accessory instance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, cleanup, err := newEngine(context.Background())
		if err != nil {
			return err
		}
		defer cleanup()

		changed, err := eng.RemoveAccessory(context.Background(), args[0])
		if err != nil {
			return err
		}
		return reportChange(changed, fmt.Sprintf("Removed %s", args[0]))
	},
}

func init() {
	attrSetFlags.register(attrSetCmd)

	attrCmd.AddCommand(attrLsCmd)
	attrCmd.AddCommand(attrSelectCmd)
	attrCmd.AddCommand(browseCmd("next", "Browse the next variant", 1))
	attrCmd.AddCommand(browseCmd("prev", "Browse the previous variant", -1))
	attrCmd.AddCommand(attrBackCmd)
	attrCmd.AddCommand(attrAddCmd)
	attrCmd.AddCommand(attrSetCmd)
	attrCmd.AddCommand(attrRmCmd)
}
