// Package menu edits the nested section/item tree of one restaurant's menu.
//
// Every transform returns a fresh tree and never mutates its input, so callers
// can compare snapshots to detect changes.
package menu

import "github.com/dineguide/dineguide/internal/model"

// Clone deep-copies the section and item slices of a menu.
func Clone(menu []model.MenuSection) []model.MenuSection {
	if menu == nil {
		return []model.MenuSection{}
	}
	out := make([]model.MenuSection, len(menu))
	for i, s := range menu {
		out[i] = cloneSection(s)
	}
	return out
}

func cloneSection(s model.MenuSection) model.MenuSection {
	items := make([]model.MenuItem, len(s.Items))
	for i, it := range s.Items {
		if it.Image != nil {
			img := *it.Image
			it.Image = &img
		}
		items[i] = it
	}
	s.Items = items
	return s
}

// AppendSection adds a section with an empty item list at the end.
func AppendSection(menu []model.MenuSection, key, name string) []model.MenuSection {
	out := Clone(menu)
	return append(out, model.MenuSection{Key: key, Name: name, Items: []model.MenuItem{}})
}

// PatchSection merges patch into the section with the given key.
// An unknown key leaves the contents unchanged.
func PatchSection(menu []model.MenuSection, key string, patch model.SectionPatch) []model.MenuSection {
	out := Clone(menu)
	for i := range out {
		if out[i].Key == key {
			if patch.Name != nil {
				out[i].Name = *patch.Name
			}
			break
		}
	}
	return out
}

// RemoveSection drops the section with the given key.
func RemoveSection(menu []model.MenuSection, key string) []model.MenuSection {
	out := make([]model.MenuSection, 0, len(menu))
	for _, s := range menu {
		if s.Key != key {
			out = append(out, cloneSection(s))
		}
	}
	return out
}

// AppendItem adds item to the end of the matching section.
func AppendItem(menu []model.MenuSection, sectionKey string, item model.MenuItem) []model.MenuSection {
	out := Clone(menu)
	for i := range out {
		if out[i].Key == sectionKey {
			out[i].Items = append(out[i].Items, item)
			break
		}
	}
	return out
}

// PatchItem merges patch into the item with the given key, searching every section.
func PatchItem(menu []model.MenuSection, key string, patch model.ItemPatch) []model.MenuSection {
	out := Clone(menu)
	for i := range out {
		for j := range out[i].Items {
			if out[i].Items[j].Key != key {
				continue
			}
			applyItemPatch(&out[i].Items[j], patch)
			return out
		}
	}
	return out
}

func applyItemPatch(it *model.MenuItem, patch model.ItemPatch) {
	if patch.Name != nil {
		it.Name = *patch.Name
	}
	if patch.Description != nil {
		it.Description = *patch.Description
	}
	if patch.Price != nil {
		it.Price = *patch.Price
	}
	if patch.Image != nil {
		img := *patch.Image
		it.Image = &img
		it.PendingImage = nil
	}
}

// RemoveItem drops the item with the given key from whichever section holds it.
func RemoveItem(menu []model.MenuSection, key string) []model.MenuSection {
	out := Clone(menu)
	for i := range out {
		kept := out[i].Items[:0]
		for _, it := range out[i].Items {
			if it.Key != key {
				kept = append(kept, it)
			}
		}
		out[i].Items = kept
	}
	return out
}

// FindSection returns the section with the given key.
func FindSection(menu []model.MenuSection, key string) (model.MenuSection, bool) {
	for _, s := range menu {
		if s.Key == key {
			return s, true
		}
	}
	return model.MenuSection{}, false
}

// FindItem returns the item with the given key and the key of its section.
func FindItem(menu []model.MenuSection, key string) (model.MenuItem, string, bool) {
	for _, s := range menu {
		for _, it := range s.Items {
			if it.Key == key {
				return it, s.Key, true
			}
		}
	}
	return model.MenuItem{}, "", false
}

// SectionByName returns the first section whose name equals name.
func SectionByName(menu []model.MenuSection, name string) (model.MenuSection, bool) {
	for _, s := range menu {
		if s.Name == name {
			return s, true
		}
	}
	return model.MenuSection{}, false
}

// addedSectionKey returns the key of a section present in after but not in before.
func addedSectionKey(before, after []model.MenuSection) string {
	seen := make(map[string]bool, len(before))
	for _, s := range before {
		seen[s.Key] = true
	}
	for i := len(after) - 1; i >= 0; i-- {
		if !seen[after[i].Key] {
			return after[i].Key
		}
	}
	return ""
}

// addedItemKey returns the key of an item of sectionKey present in after but not in before.
func addedItemKey(before, after []model.MenuSection, sectionKey string) string {
	seen := map[string]bool{}
	if s, ok := FindSection(before, sectionKey); ok {
		for _, it := range s.Items {
			seen[it.Key] = true
		}
	}
	s, ok := FindSection(after, sectionKey)
	if !ok {
		return ""
	}
	for i := len(s.Items) - 1; i >= 0; i-- {
		if !seen[s.Items[i].Key] {
			return s.Items[i].Key
		}
	}
	return ""
}
