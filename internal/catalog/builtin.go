package catalog

import "fmt"

// LayerOrder is the default stacking order of categories, bottom first.
// A base category's initial depth is its index in this list.
var LayerOrder = []string{Background, Body, Eyes, Mouth, Brows, Hats, Masks, Other, Effects}

// Default returns the built-in catalog.
func Default() *Catalog {
	cat, err := New(builtin())
	if err != nil {
		panic(fmt.Sprintf("catalog: invalid built-in table: %v", err))
	}
	return cat
}

func builtin() []Category {
	return []Category{
		{ID: Body, Label: "Body", Kind: KindBase, Tab: TabBody, Depth: depthOf(Body), Variants: numbered("body", 1)},
		{ID: Eyes, Label: "Eyes", Kind: KindBase, Tab: TabBody, Depth: depthOf(Eyes), Variants: numbered("eyes", 10)},
		{ID: Mouth, Label: "Mouth", Kind: KindBase, Tab: TabBody, Depth: depthOf(Mouth), Variants: numbered("mouth", 12)},
		{ID: Brows, Label: "Eyebrows", Kind: KindBase, Tab: TabBody, Depth: depthOf(Brows), Variants: numbered("brows", 11)},
		{ID: Hats, Label: "Hats", Kind: KindAccessory, Tab: TabAttributes, Variants: numbered("hat", 8)},
		{ID: Masks, Label: "Masks", Kind: KindAccessory, Tab: TabAttributes, Variants: numbered("mask", 1)},
		{ID: Other, Label: "Other", Kind: KindAccessory, Tab: TabAttributes, Variants: numbered("other", 1)},
		{ID: Effects, Label: "Effects", Kind: KindAccessory, Tab: TabAttributes, Variants: numbered("effect", 4)},
		{ID: Background, Label: "Background", Kind: KindBase, Tab: TabBackground, Depth: depthOf(Background), Variants: numbered("bg", 13)},
	}
}

// numbered produces /assets/<stem>1.png ... /assets/<stem><n>.png.
func numbered(stem string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("/assets/%s%d.png", stem, i+1)
	}
	return out
}

// depthOf returns the index of id in LayerOrder, or len(LayerOrder) when absent.
func depthOf(id string) int {
	for i, v := range LayerOrder {
		if v == id {
			return i
		}
	}
	return len(LayerOrder)
}
