package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/rexyz/internal/catalog"
	"github.com/danieljhkim/rexyz/internal/engine"
)

var depthCmd = &cobra.Command{
	Use:   "depth <category|id> <up|down>",
	Short: "Move a layer one step up or down the stack",
	Long: `Move a base layer (by category) or an accessory (by instance id) one step
up or down. Stepping down never goes below 1.`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"up", "down"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var up bool
		switch strings.ToLower(args[1]) {
		case "up":
			up = true
		case "down":
		default:
			return fmt.Errorf("%w: direction must be up or down, got %q", engine.ErrValidation, args[1])
		}

		eng, cleanup, err := newEngine(context.Background())
		if err != nil {
			return err
		}
		defer cleanup()

		changed, err := eng.NudgeDepth(context.Background(), &engine.DepthRequest{Target: args[0], Up: up})
		if err != nil {
			return err
		}
		return reportChange(changed, fmt.Sprintf("Moved %s %s", args[0], args[1]))
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default composition",
	Long: `Restore every base layer to its defaults, remove all accessories and clear
the selection. The gallery is not touched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, cleanup, err := newEngine(context.Background())
		if err != nil {
			return err
		}
		defer cleanup()

		if err := eng.ResetAll(context.Background()); err != nil {
			return err
		}
		return reportChange(true, "Composition reset")
	},
}

var tabCmd = &cobra.Command{
	Use:   "tab [name]",
	Short: "Show or switch the editor tab",
	Long: fmt.Sprintf(`Show the active tab, or switch to one of: %s.

Switching tabs stops browsing the current category.`, strings.Join(catalog.Tabs, ", ")),
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: catalog.Tabs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, cleanup, err := newEngine(context.Background())
		if err != nil {
			return err
		}
		defer cleanup()

		if len(args) == 1 {
			changed, err := eng.SelectTab(context.Background(), args[0])
			if err != nil {
				return err
			}
			return reportChange(changed, fmt.Sprintf("Switched to %s", args[0]))
		}

		sel := eng.Selection()
		if jsonOutput {
			return outputJSON(sel)
		}
		PrintLabelValue("Tab", sel.Tab)
		for _, c := range eng.Catalog().InTab(sel.Tab) {
			PrintInfo(fmt.Sprintf("    %s (%s)", c.Label, c.ID))
		}
		return nil
	},
}

var catalogTab string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List categories and their variants",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, cleanup, err := newEngine(context.Background())
		if err != nil {
			return err
		}
		defer cleanup()

		cats := eng.Catalog().All()
		if catalogTab != "" {
			cats = eng.Catalog().InTab(catalogTab)
		}

		if jsonOutput {
			return outputJSON(cats)
		}

		PrintSection("Catalog")
		rows := make([][]string, 0, len(cats))
		for _, c := range cats {
			depth := "top"
			if c.Kind == catalog.KindBase {
				depth = strconv.Itoa(c.Depth)
			}
			rows = append(rows, []string{c.ID, c.Label, c.Tab, c.Kind.String(), depth, strconv.Itoa(len(c.Variants))})
		}
		PrintTable([]string{"ID", "LABEL", "TAB", "KIND", "DEPTH", "VARIANTS"}, rows)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the composition and selection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, cleanup, err := newEngine(context.Background())
		if err != nil {
			return err
		}
		defer cleanup()

		result := eng.Status()
		if jsonOutput {
			return outputJSON(result)
		}

		sel := result.State.Selection
		PrintSection("Selection")
		PrintLabelValue("Tab", sel.Tab)
		if sel.Category != "" {
			img, _ := eng.Catalog().Variant(sel.Category, sel.Index)
			PrintLabelValue("Browsing", fmt.Sprintf("%s #%d (%s)", sel.Category, sel.Index, img))
		}

		PrintSection("Render List")
		if len(result.RenderList) == 0 {
			PrintEmptyState("Nothing visible")
			return nil
		}
		rows := make([][]string, 0, len(result.RenderList))
		for _, e := range result.RenderList {
			rows = append(rows, []string{strconv.Itoa(e.Depth), e.ID, string(e.Source), e.Image})
		}
		PrintTable([]string{"DEPTH", "LAYER", "SOURCE", "IMAGE"}, rows)
		fmt.Println()
		PrintInfo("  " + PrintCount(len(result.State.Accessories), "accessory", "accessories"))
		return nil
	},
}

func init() {
	catalogCmd.Flags().StringVar(&catalogTab, "tab", "", "Only list categories of this tab")
}
