package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/rexyz/internal/engine"
	"github.com/danieljhkim/rexyz/internal/layers"
)

// patchFlags binds the editable layer fields to flags. Only flags given on
// the command line end up in the patch.
type patchFlags struct {
	variant int
	scale   float64
	rotate  int
	x       int
	y       int
	visible bool
	depth   int
}

func (p *patchFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&p.variant, "variant", 0, "Variant index (0-based)")
	f.Float64Var(&p.scale, "scale", 1, fmt.Sprintf("Scale, %.1f to %.1f", layers.MinScale, layers.MaxScale))
	f.IntVar(&p.rotate, "rotate", 0, fmt.Sprintf("Rotation in degrees, %d to %d", layers.MinRotation, layers.MaxRotation))
	f.IntVar(&p.x, "x", 0, fmt.Sprintf("Horizontal offset in pixels, ±%d", layers.MaxOffset))
	f.IntVar(&p.y, "y", 0, fmt.Sprintf("Vertical offset in pixels, ±%d", layers.MaxOffset))
	f.BoolVar(&p.visible, "visible", true, "Show (true) or hide (false) the layer")
	f.IntVar(&p.depth, "depth", 0, "Explicit stacking depth")
}

func (p *patchFlags) patch(cmd *cobra.Command) layers.Patch {
	var out layers.Patch
	f := cmd.Flags()
	if f.Changed("variant") {
		out.Variant = &p.variant
	}
	if f.Changed("scale") {
		out.Scale = &p.scale
	}
	if f.Changed("rotate") {
		out.Rotation = &p.rotate
	}
	if f.Changed("x") {
		out.OffsetX = &p.x
	}
	if f.Changed("y") {
		out.OffsetY = &p.y
	}
	if f.Changed("visible") {
		out.Visible = &p.visible
	}
	if f.Changed("depth") {
		out.Depth = &p.depth
	}
	return out
}

var layerSetFlags patchFlags

var layerCmd = &cobra.Command{
	Use:   "layer",
	Short: "Edit base layers",
	Long: `Edit the base layers: body, eyes, mouth, brows and bg.

Every base layer always exists. Its variant, transform, visibility and depth
can be changed; the background always covers the whole canvas.`,
}

var layerLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List base layers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, cleanup, err := newEngine(context.Background())
		if err != nil {
			return err
		}
		defer cleanup()

		st := eng.State()
		if jsonOutput {
			return outputJSON(st.Base)
		}

		rows := make([][]string, 0, len(st.Base))
		for _, b := range st.Base {
			rows = append(rows, layerRow(b.Category, b.Layer, len(eng.Catalog().VariantsFor(b.Category))))
		}
		PrintSection("Base Layers")
		PrintTable(layerHeaders, rows)
		return nil
	},
}

var layerVariantCmd = &cobra.Command{
	Use:   "variant <category> <index>",
	Short: "Pick the variant of a base layer",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := parseIndex("index", args[1])
		if err != nil {
			return err
		}

		eng, cleanup, err := newEngine(context.Background())
		if err != nil {
			return err
		}
		defer cleanup()

		changed, err := eng.SetBaseVariant(context.Background(), args[0], idx)
		if err != nil {
			return err
		}
		return reportChange(changed, fmt.Sprintf("%s now uses variant %d", args[0], idx))
	},
}

var layerSetCmd = &cobra.Command{
	Use:   "set <category>",
	Short: "Change the transform, visibility or depth of a base layer",
	Long: `Change fields of a base layer. Only the flags you pass are changed.

Values outside the editor limits are clamped. An explicit --depth is
clamped at 0.`,
	Example: `  rexyz layer set eyes --scale 1.2 --y=-30
  rexyz layer set mouth --visible=false`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, cleanup, err := newEngine(context.Background())
		if err != nil {
			return err
		}
		defer cleanup()

		changed, err := eng.UpdateBase(context.Background(), &engine.BaseUpdateRequest{
			Category: args[0],
			Patch:    layerSetFlags.patch(cmd),
		})
		if err != nil {
			return err
		}
		return reportChange(changed, fmt.Sprintf("Updated %s", args[0]))
	},
}

var layerResetCmd = &cobra.Command{
	Use:   "reset <category>",
	Short: "Center a base layer at natural size and rotation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, cleanup, err := newEngine(context.Background())
		if err != nil {
			return err
		}
		defer cleanup()

		changed, err := eng.ResetBaseTransform(context.Background(), args[0])
		if err != nil {
			return err
		}
		return reportChange(changed, fmt.Sprintf("Reset %s", args[0]))
	},
}

var layerHeaders = []string{"LAYER", "VARIANT", "DEPTH", "SCALE", "ROTATE", "X", "Y", "VISIBLE"}

func layerRow(name string, l layers.Layer, variants int) []string {
	return []string{
		name,
		fmt.Sprintf("%d/%d", l.Variant, variants),
		strconv.Itoa(l.Depth),
		strconv.FormatFloat(l.Scale, 'f', 2, 64),
		strconv.Itoa(l.Rotation),
		strconv.Itoa(l.OffsetX),
		strconv.Itoa(l.OffsetY),
		strconv.FormatBool(l.Visible),
	}
}

func init() {
	layerSetFlags.register(layerSetCmd)

	layerCmd.AddCommand(layerLsCmd)
	layerCmd.AddCommand(layerVariantCmd)
	layerCmd.AddCommand(layerSetCmd)
	layerCmd.AddCommand(layerResetCmd)
}
