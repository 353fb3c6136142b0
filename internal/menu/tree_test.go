package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dineguide/dineguide/internal/model"
)

func sampleMenu() []model.MenuSection {
	return []model.MenuSection{
		{Key: "s1", Name: "Starters", Items: []model.MenuItem{
			{Key: "i1", Name: "Soup", Price: 5},
			{Key: "i2", Name: "Bread", Price: 2, Image: &model.ImageRef{AssetID: "bread.jpg"}},
		}},
		{Key: "s2", Name: "Mains", Items: []model.MenuItem{{Key: "i3", Name: "Steak", Price: 21}}},
	}
}

func TestTransformsDoNotMutateInput(t *testing.T) {
	orig := sampleMenu()
	snapshot := sampleMenu()
	name := "Renamed"
	price := 9.5

	_ = AppendSection(orig, "s3", "Desserts")
	_ = PatchSection(orig, "s1", model.SectionPatch{Name: &name})
	_ = RemoveSection(orig, "s1")
	_ = AppendItem(orig, "s1", model.MenuItem{Key: "i9", Name: "Olives"})
	_ = PatchItem(orig, "i2", model.ItemPatch{Price: &price, Image: &model.ImageRef{AssetID: "new.jpg"}})
	_ = RemoveItem(orig, "i1")

	assert.Equal(t, snapshot, orig)
}

func TestCloneIsDeep(t *testing.T) {
	orig := sampleMenu()
	c := Clone(orig)
	c[0].Items[1].Image.AssetID = "changed"
	c[0].Items[0].Name = "changed"
	assert.Equal(t, "bread.jpg", orig[0].Items[1].Image.AssetID)
	assert.Equal(t, "Soup", orig[0].Items[0].Name)

	assert.NotNil(t, Clone(nil))
}

func TestPatchItemSearchesAllSections(t *testing.T) {
	name := "Ribeye"
	out := PatchItem(sampleMenu(), "i3", model.ItemPatch{Name: &name})
	it, sectionKey, ok := FindItem(out, "i3")
	require.True(t, ok)
	assert.Equal(t, "s2", sectionKey)
	assert.Equal(t, "Ribeye", it.Name)
	assert.Equal(t, 21.0, it.Price)
}

func TestPatchItemImageClearsPending(t *testing.T) {
	m := sampleMenu()
	m[0].Items[0].PendingImage = &model.Upload{Filename: "soup.png"}
	out := PatchItem(m, "i1", model.ItemPatch{Image: &model.ImageRef{AssetID: "soup.png"}})
	assert.Nil(t, out[0].Items[0].PendingImage)
	assert.Equal(t, "soup.png", out[0].Items[0].Image.AssetID)
}

func TestRemoveItem(t *testing.T) {
	out := RemoveItem(sampleMenu(), "i1")
	require.Len(t, out[0].Items, 1)
	assert.Equal(t, "i2", out[0].Items[0].Key)
}

func TestUnknownKeysLeaveContentsUnchanged(t *testing.T) {
	name := "x"
	for label, out := range map[string][]model.MenuSection{
		"patch section":  PatchSection(sampleMenu(), "nope", model.SectionPatch{Name: &name}),
		"remove section": RemoveSection(sampleMenu(), "nope"),
		"append item":    AppendItem(sampleMenu(), "nope", model.MenuItem{Key: "z"}),
		"patch item":     PatchItem(sampleMenu(), "nope", model.ItemPatch{Name: &name}),
		"remove item":    RemoveItem(sampleMenu(), "nope"),
	} {
		assert.Equal(t, sampleMenu(), out, label)
	}
}

func TestSectionByName(t *testing.T) {
	s, ok := SectionByName(sampleMenu(), "Mains")
	require.True(t, ok)
	assert.Equal(t, "s2", s.Key)

	_, ok = SectionByName(sampleMenu(), "Drinks")
	assert.False(t, ok)
}
