package cli

import (
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danieljhkim/rexyz/internal/catalog"
	"github.com/danieljhkim/rexyz/internal/compose"
	"github.com/danieljhkim/rexyz/internal/engine"
	"github.com/danieljhkim/rexyz/internal/gallery"
	"github.com/danieljhkim/rexyz/internal/layers"
	"github.com/danieljhkim/rexyz/internal/raster"
)

// assetColors gives every variant of a category the same solid color.
var assetColors = map[string]color.RGBA{
	catalog.Background: {B: 0xff, A: 0xff},
	catalog.Body:       {G: 0xff, A: 0xff},
	catalog.Eyes:       {R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	catalog.Mouth:      {R: 0x80, A: 0xff},
	catalog.Brows:      {A: 0xff},
	catalog.Hats:       {R: 0xff, A: 0xff},
	catalog.Masks:      {G: 0x80, A: 0xff},
	catalog.Other:      {B: 0x80, A: 0xff},
	catalog.Effects:    {R: 0xff, G: 0x80, A: 0xff},
}

// setupTestEnv points rexyz at a temporary root holding a 16px asset for
// every variant of the built-in catalog. It returns the root and the
// export directory.
func setupTestEnv(t *testing.T) (string, string) {
	t.Helper()
	root := t.TempDir()
	outDir := t.TempDir()
	t.Setenv("REXYZ_ROOT", root)
	t.Setenv("REXYZ_EXPORT_DIR", outDir)
	t.Setenv("REXYZ_STORAGE_BACKEND", "")

	for _, c := range catalog.Default().All() {
		for _, ref := range c.Variants {
			writeAsset(t, filepath.Join(root, filepath.FromSlash(ref)), 16, 16, assetColors[c.ID])
		}
	}

	confirmInput = strings.NewReader("")
	return root, outDir
}

func writeAsset(t *testing.T, path string, w, h int, c color.RGBA) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
}

// run executes the CLI with args and returns its stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	rootCmd.SetArgs(args)
	var err error
	out := captureStdout(t, func() {
		err = rootCmd.Execute()
	})
	return out, err
}

// mustRun is run failing the test on error.
func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("rexyz %s: %v", strings.Join(args, " "), err)
	}
	return out
}

// runJSON runs args with --json and decodes the output into v.
func runJSON(t *testing.T, v any, args ...string) {
	t.Helper()
	out := mustRun(t, append(args, "--json")...)
	if err := json.Unmarshal([]byte(out), v); err != nil {
		t.Fatalf("rexyz %s: invalid JSON %q: %v", strings.Join(args, " "), out, err)
	}
}

func baseLayer(t *testing.T, category string) layers.BaseLayerState {
	t.Helper()
	var base []layers.BaseLayerState
	runJSON(t, &base, "layer", "ls")
	for _, b := range base {
		if b.Category == category {
			return b
		}
	}
	t.Fatalf("base layer %q missing", category)
	return layers.BaseLayerState{}
}

func accessories(t *testing.T) []layers.AccessoryInstance {
	t.Helper()
	var out []layers.AccessoryInstance
	runJSON(t, &out, "attr", "ls")
	return out
}

func TestStatus_FreshSession(t *testing.T) {
	setupTestEnv(t)

	var st engine.StatusResult
	runJSON(t, &st, "status")

	if len(st.RenderList) != 5 {
		t.Fatalf("render list = %d entries, want 5", len(st.RenderList))
	}
	if st.RenderList[0].Category != catalog.Background || !st.RenderList[0].FullBleed {
		t.Errorf("bottom entry = %+v, want full-bleed background", st.RenderList[0])
	}
	if st.State.Selection.Tab != catalog.TabBody {
		t.Errorf("tab = %q", st.State.Selection.Tab)
	}
}

func TestLayerCommands(t *testing.T) {
	setupTestEnv(t)

	mustRun(t, "layer", "variant", "eyes", "3")
	if got := baseLayer(t, catalog.Eyes).Variant; got != 3 {
		t.Errorf("eyes variant = %d, want 3", got)
	}

	mustRun(t, "layer", "set", "eyes", "--scale", "2", "--x=-300", "--rotate", "45")
	eyes := baseLayer(t, catalog.Eyes)
	if eyes.Scale != layers.MaxScale || eyes.OffsetX != -layers.MaxOffset || eyes.Rotation != 45 {
		t.Errorf("eyes = %+v, want clamped scale/x and rotation 45", eyes.Layer)
	}
	if eyes.Variant != 3 {
		t.Errorf("unpassed flag changed variant to %d", eyes.Variant)
	}

	mustRun(t, "layer", "set", "mouth", "--visible=false")
	var st engine.StatusResult
	runJSON(t, &st, "status")
	for _, e := range st.RenderList {
		if e.Category == catalog.Mouth {
			t.Error("hidden mouth is still rendered")
		}
	}

	mustRun(t, "layer", "reset", "eyes")
	eyes = baseLayer(t, catalog.Eyes)
	if eyes.Scale != 1 || eyes.OffsetX != 0 || eyes.Rotation != 0 || eyes.Variant != 3 {
		t.Errorf("eyes after reset = %+v", eyes.Layer)
	}
}

func TestLayerSet_NoFlags(t *testing.T) {
	setupTestEnv(t)

	_, err := run(t, "layer", "set", "eyes")
	if !errors.Is(err, engine.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestLayerVariant_OutOfRangeIsNoChange(t *testing.T) {
	setupTestEnv(t)

	var res engine.ChangeResult
	runJSON(t, &res, "layer", "variant", "body", "5")
	if res.Changed {
		t.Error("out of range variant reported a change")
	}
}

func TestNegativeIndex_IsNoChange(t *testing.T) {
	setupTestEnv(t)
	mustRun(t, "gallery", "save")

	// "--" keeps cobra from reading -1 as a flag.
	decode := func(v any, args ...string) {
		t.Helper()
		out := mustRun(t, append([]string{"--json"}, args...)...)
		if err := json.Unmarshal([]byte(out), v); err != nil {
			t.Fatalf("decode %q: %v", out, err)
		}
	}

	var changed engine.ChangeResult
	decode(&changed, "layer", "variant", "eyes", "--", "-1")
	if changed.Changed {
		t.Error("negative variant reported a change")
	}
	decode(&changed, "gallery", "rm", "--", "-1")
	if changed.Changed {
		t.Error("negative gallery index reported a removal")
	}

	var added engine.AddResult
	decode(&added, "attr", "add", "hats", "--", "-1")
	if added.Added {
		t.Error("negative accessory variant was added")
	}

	if _, err := run(t, "gallery", "download", "--", "-1"); !errors.Is(err, engine.ErrNotFound) {
		t.Errorf("download -1 err = %v, want ErrNotFound", err)
	}

	var items []gallery.Item
	runJSON(t, &items, "gallery", "ls")
	if len(items) != 1 {
		t.Errorf("gallery items = %d, want 1", len(items))
	}
	if got := accessories(t); len(got) != 0 {
		t.Errorf("accessories = %d, want 0", len(got))
	}
}

func TestAttrCommands(t *testing.T) {
	setupTestEnv(t)

	var added engine.AddResult
	runJSON(t, &added, "attr", "add", "hats", "2")
	if !added.Added || added.Instance.Depth != 5 || added.Instance.Variant != 2 {
		t.Fatalf("add = %+v", added)
	}
	if !strings.HasPrefix(added.Instance.ID, "hats-") {
		t.Errorf("id = %q", added.Instance.ID)
	}

	mustRun(t, "attr", "set", added.Instance.ID, "--rotate=-30", "--y", "12")
	got := accessories(t)
	if len(got) != 1 || got[0].Rotation != -30 || got[0].OffsetY != 12 {
		t.Fatalf("accessories = %+v", got)
	}

	mustRun(t, "depth", added.Instance.ID, "down")
	if d := accessories(t)[0].Depth; d != 4 {
		t.Errorf("depth after down = %d, want 4", d)
	}

	mustRun(t, "attr", "rm", added.Instance.ID)
	if got := accessories(t); len(got) != 0 {
		t.Errorf("accessories after rm = %+v", got)
	}

	var res engine.ChangeResult
	runJSON(t, &res, "attr", "rm", added.Instance.ID)
	if res.Changed {
		t.Error("second rm reported a change")
	}
}

func TestAttrBrowseAndAdd(t *testing.T) {
	setupTestEnv(t)

	mustRun(t, "attr", "select", "hats")
	mustRun(t, "attr", "prev")
	mustRun(t, "attr", "next")
	mustRun(t, "attr", "next")

	var sel layers.Selection
	runJSON(t, &sel, "tab")
	if sel.Tab != catalog.TabAttributes || sel.Category != catalog.Hats || sel.Index != 1 {
		t.Fatalf("selection = %+v", sel)
	}

	var added engine.AddResult
	runJSON(t, &added, "attr", "add")
	if !added.Added || added.Instance.Variant != 1 {
		t.Errorf("add selected = %+v", added)
	}

	mustRun(t, "attr", "back")
	runJSON(t, &added, "attr", "add")
	if added.Added {
		t.Error("added with nothing browsed")
	}
}

func TestAttrAdd_WrongArgCount(t *testing.T) {
	setupTestEnv(t)

	if _, err := run(t, "attr", "add", "hats"); err == nil {
		t.Error("expected error for a single argument")
	}
}

func TestDepth_Base(t *testing.T) {
	setupTestEnv(t)

	mustRun(t, "depth", "bg", "down")
	if d := baseLayer(t, catalog.Background).Depth; d != 1 {
		t.Errorf("bg depth = %d, want 1", d)
	}
	mustRun(t, "depth", "mouth", "up")
	if d := baseLayer(t, catalog.Mouth).Depth; d != 4 {
		t.Errorf("mouth depth = %d, want 4", d)
	}

	if _, err := run(t, "depth", "mouth", "sideways"); !errors.Is(err, engine.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestTabCommand(t *testing.T) {
	setupTestEnv(t)

	mustRun(t, "attr", "select", "masks")
	mustRun(t, "tab", "Background")

	var sel layers.Selection
	runJSON(t, &sel, "tab")
	if sel.Tab != catalog.TabBackground || sel.Category != "" {
		t.Errorf("selection = %+v", sel)
	}

	var res engine.ChangeResult
	runJSON(t, &res, "tab", "Settings")
	if res.Changed {
		t.Error("unknown tab reported a change")
	}
}

func TestResetCommand(t *testing.T) {
	setupTestEnv(t)

	mustRun(t, "attr", "add", "hats", "0")
	mustRun(t, "layer", "variant", "eyes", "4")
	mustRun(t, "gallery", "save")
	mustRun(t, "reset")

	if got := accessories(t); len(got) != 0 {
		t.Errorf("accessories after reset = %d", len(got))
	}
	if v := baseLayer(t, catalog.Eyes).Variant; v != 0 {
		t.Errorf("eyes variant after reset = %d", v)
	}
	var items []gallery.Item
	runJSON(t, &items, "gallery", "ls")
	if len(items) != 1 {
		t.Errorf("gallery items after reset = %d, want 1", len(items))
	}
}

func TestCatalogCommand(t *testing.T) {
	setupTestEnv(t)

	var cats []catalog.Category
	runJSON(t, &cats, "catalog")
	if len(cats) != 9 {
		t.Errorf("categories = %d, want 9", len(cats))
	}

	runJSON(t, &cats, "catalog", "--tab", "Attributes")
	if len(cats) != 4 {
		t.Errorf("attribute categories = %d, want 4", len(cats))
	}
	for _, c := range cats {
		if c.Kind != catalog.KindAccessory {
			t.Errorf("%s kind = %v", c.ID, c.Kind)
		}
	}
}

func TestExportCommand(t *testing.T) {
	_, outDir := setupTestEnv(t)
	mustRun(t, "attr", "add", "hats", "0")

	var res struct {
		Path   string `json:"path"`
		Pixels int    `json:"pixels"`
	}
	runJSON(t, &res, "export")

	if filepath.Dir(res.Path) != outDir {
		t.Errorf("export dir = %q, want %q", filepath.Dir(res.Path), outDir)
	}
	name := filepath.Base(res.Path)
	if !strings.HasPrefix(name, "rexyz-pfp-") || !strings.HasSuffix(name, ".png") {
		t.Errorf("export name = %q", name)
	}

	f, err := os.Open(res.Path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if img.Bounds().Dx() != 1536 || res.Pixels != 1536 {
		t.Errorf("export width = %d (reported %d), want 1536", img.Bounds().Dx(), res.Pixels)
	}

	// the hat is centered on top of every base layer
	r, g, b, _ := img.At(768, 768).RGBA()
	if r>>8 != 0xff || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("center pixel = %d,%d,%d, want red", r>>8, g>>8, b>>8)
	}
	// outside the sprites only the background shows
	r, g, b, _ = img.At(10, 10).RGBA()
	if r>>8 != 0 || g>>8 != 0 || b>>8 != 0xff {
		t.Errorf("corner pixel = %d,%d,%d, want blue", r>>8, g>>8, b>>8)
	}
}

func TestExportCommand_MissingAsset(t *testing.T) {
	root, outDir := setupTestEnv(t)
	if err := os.Remove(filepath.Join(root, "assets", "bg1.png")); err != nil {
		t.Fatal(err)
	}

	_, err := run(t, "export")
	if !errors.Is(err, raster.ErrAssetMissing) {
		t.Errorf("err = %v, want ErrAssetMissing", err)
	}
	entries, _ := os.ReadDir(outDir)
	if len(entries) != 0 {
		t.Errorf("export dir has %d entries after failure", len(entries))
	}
}

func TestGalleryCommands(t *testing.T) {
	_, outDir := setupTestEnv(t)

	var saved engine.SaveResult
	runJSON(t, &saved, "gallery", "save")
	mustRun(t, "layer", "variant", "body", "0")
	mustRun(t, "attr", "add", "hats", "1")
	runJSON(t, &saved, "gallery", "save")
	if saved.Count != 2 {
		t.Errorf("count = %d, want 2", saved.Count)
	}

	var items []gallery.Item
	runJSON(t, &items, "gallery", "ls")
	if len(items) != 2 || items[0].Fingerprint == items[1].Fingerprint {
		t.Fatalf("items = %+v", items)
	}
	oldest := items[1].Fingerprint

	var dl struct {
		Path string `json:"path"`
	}
	runJSON(t, &dl, "gallery", "download", "1")
	if !strings.HasPrefix(filepath.Base(dl.Path), "rexyz-gallery-1-") || filepath.Dir(dl.Path) != outDir {
		t.Errorf("download path = %q", dl.Path)
	}
	f, err := os.Open(dl.Path)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(f)
	f.Close()
	if err != nil {
		t.Fatalf("decode download: %v", err)
	}
	if img.Bounds().Dx() != 1024 {
		t.Errorf("gallery image width = %d, want 1024", img.Bounds().Dx())
	}

	if _, err := run(t, "gallery", "download", "9"); !errors.Is(err, engine.ErrNotFound) {
		t.Errorf("download out of range err = %v, want ErrNotFound", err)
	}

	mustRun(t, "gallery", "rm", "0")
	runJSON(t, &items, "gallery", "ls")
	if len(items) != 1 || items[0].Fingerprint != oldest {
		t.Errorf("items after rm = %+v", items)
	}
}

func TestGalleryClear_Confirmation(t *testing.T) {
	setupTestEnv(t)
	mustRun(t, "gallery", "save")

	confirmInput = strings.NewReader("n\n")
	out := mustRun(t, "gallery", "clear")
	if !strings.Contains(out, gallery.ClearPrompt) {
		t.Errorf("prompt not shown, output %q", out)
	}
	var items []gallery.Item
	runJSON(t, &items, "gallery", "ls")
	if len(items) != 1 {
		t.Fatalf("declined clear removed images: %d left", len(items))
	}

	confirmInput = strings.NewReader("yes\n")
	mustRun(t, "gallery", "clear")
	runJSON(t, &items, "gallery", "ls")
	if len(items) != 0 {
		t.Errorf("items after confirmed clear = %d", len(items))
	}

	mustRun(t, "gallery", "save")
	confirmInput = strings.NewReader("")
	mustRun(t, "gallery", "clear", "--yes")
	runJSON(t, &items, "gallery", "ls")
	if len(items) != 0 {
		t.Errorf("items after clear --yes = %d", len(items))
	}
}

func TestSQLiteBackend(t *testing.T) {
	root, _ := setupTestEnv(t)
	t.Setenv("REXYZ_STORAGE_BACKEND", "sqlite")

	mustRun(t, "attr", "add", "effects", "0")
	mustRun(t, "gallery", "save")

	if _, err := os.Stat(filepath.Join(root, "rexyz.db")); err != nil {
		t.Fatalf("database missing: %v", err)
	}
	if got := accessories(t); len(got) != 1 || got[0].Category != catalog.Effects {
		t.Errorf("accessories = %+v", got)
	}
	if _, err := os.Stat(filepath.Join(root, "storage", "rexyzSession.json")); !os.IsNotExist(err) {
		t.Error("file backend was written while sqlite is selected")
	}
}

func TestCorruptSession_StartsFresh(t *testing.T) {
	root, _ := setupTestEnv(t)
	path := filepath.Join(root, "storage", "rexyzSession.json")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	var st engine.StatusResult
	runJSON(t, &st, "status")
	if len(st.RenderList) != 5 {
		t.Errorf("render list = %d, want defaults", len(st.RenderList))
	}

	logData, err := os.ReadFile(filepath.Join(root, "logs", "rexyz.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(logData), "failed parsing saved session") {
		t.Errorf("log does not mention the bad session:\n%s", logData)
	}
}

func TestStatus_RenderListMatchesCompose(t *testing.T) {
	setupTestEnv(t)
	mustRun(t, "attr", "add", "hats", "0")
	mustRun(t, "attr", "add", "hats", "1")

	var st engine.StatusResult
	runJSON(t, &st, "status")

	want := compose.Build(catalog.Default(), st.State)
	if len(want) != len(st.RenderList) {
		t.Fatalf("render list = %d entries, want %d", len(st.RenderList), len(want))
	}
	for i := range want {
		if want[i] != st.RenderList[i] {
			t.Errorf("entry %d = %+v, want %+v", i, st.RenderList[i], want[i])
		}
	}
}
