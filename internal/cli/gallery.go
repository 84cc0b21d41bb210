package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/rexyz/internal/engine"
)

var galleryClearYes bool

// confirmInput is where confirmation answers are read from.
var confirmInput io.Reader = os.Stdin

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the composition as a PNG",
	Long: `Render the composition and write rexyz-pfp-<unix millis>.png into the
export directory (export.dir, default the current directory).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		eng, cleanup, err := newEngine(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		res, err := eng.Export(ctx)
		if err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(res)
		}
		PrintSuccess(fmt.Sprintf("Exported %s (%dx%d)", res.Path, res.Pixels, res.Pixels))
		return nil
	},
}

var galleryCmd = &cobra.Command{
	Use:   "gallery",
	Short: "Manage locally saved images",
	Long: `Manage the local gallery. Images are kept newest first and addressed by
their 0-based index.`,
}

var galleryLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List saved images",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		eng, cleanup, err := newEngine(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		items, err := eng.ListGallery(ctx)
		if err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(items)
		}

		PrintSection("Gallery")
		if len(items) == 0 {
			PrintEmptyState("No saved images yet. Run 'rexyz gallery save' to store one here.")
			return nil
		}
		rows := make([][]string, 0, len(items))
		for _, it := range items {
			rows = append(rows, []string{strconv.Itoa(it.Index), it.Fingerprint, strconv.Itoa(it.Bytes)})
		}
		PrintTable([]string{"INDEX", "FINGERPRINT", "BYTES"}, rows)
		return nil
	},
}

var gallerySaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save the composition to the gallery",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		eng, cleanup, err := newEngine(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		res, err := eng.SaveToGallery(ctx)
		if err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(res)
		}
		PrintSuccess(fmt.Sprintf("Saved to gallery (%s)", PrintCount(res.Count, "image", "images")))
		return nil
	},
}

var galleryDownloadCmd = &cobra.Command{
	Use:   "download <index>",
	Short: "Write a saved image to the export directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := parseIndex("index", args[0])
		if err != nil {
			return err
		}

		ctx := context.Background()
		eng, cleanup, err := newEngine(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		res, err := eng.DownloadFromGallery(ctx, idx)
		if err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(res)
		}
		PrintSuccess(fmt.Sprintf("Wrote %s", res.Path))
		return nil
	},
}

var galleryRmCmd = &cobra.Command{
	Use:   "rm <index>",
	Short: "Remove a saved image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := parseIndex("index", args[0])
		if err != nil {
			return err
		}

		ctx := context.Background()
		eng, cleanup, err := newEngine(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		changed, err := eng.RemoveFromGallery(ctx, idx)
		if err != nil {
			return err
		}
		return reportChange(changed, fmt.Sprintf("Removed image %d", idx))
	},
}

var galleryClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every saved image",
	Long: `Remove every saved image. You are asked to confirm unless --yes is given.
The current composition is not touched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		eng, cleanup, err := newEngine(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		err = eng.ClearGallery(ctx, func(prompt string) bool {
			return galleryClearYes || promptConfirm(prompt)
		})
		if errors.Is(err, engine.ErrCanceled) {
			if jsonOutput {
				return outputJSON(engine.ChangeResult{Changed: false})
			}
			PrintWarning("Gallery not cleared")
			return nil
		}
		if err != nil {
			return err
		}
		return reportChange(true, "Gallery cleared")
	},
}

// promptConfirm prompts the user for a yes/no confirmation.
func promptConfirm(prompt string) bool {
	fmt.Printf("%s (y/N): ", prompt)
	reader := bufio.NewReader(confirmInput)
	response, err := reader.ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

func init() {
	galleryClearCmd.Flags().BoolVarP(&galleryClearYes, "yes", "y", false, "Clear without asking")

	galleryCmd.AddCommand(galleryLsCmd)
	galleryCmd.AddCommand(gallerySaveCmd)
	galleryCmd.AddCommand(galleryDownloadCmd)
	galleryCmd.AddCommand(galleryRmCmd)
	galleryCmd.AddCommand(galleryClearCmd)
}
