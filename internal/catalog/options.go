package catalog

import (
	"sort"

	"github.com/dineguide/dineguide/internal/model"
)

// Option is one selectable value of a listing dropdown.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// FilterOptions holds the values offered by the listing dropdowns.
type FilterOptions struct {
	Locations       []Option `json:"locations"`
	Cuisines        []Option `json:"cuisines"`
	Tags            []Option `json:"tags"`
	PriceCategories []Option `json:"priceCategories"`
}

// BuildFilterOptions collects distinct values across records, sorted by value.
// Price categories are always listed in display order, even when unused.
func BuildFilterOptions(records []*model.Restaurant) FilterOptions {
	locations := map[string]int{}
	cuisines := map[string]int{}
	tags := map[string]int{}
	prices := map[PriceCategory]int{}

	for _, r := range records {
		if r.Neighbourhood != "" {
			locations[r.Neighbourhood]++
		}
		if r.Cuisine != "" {
			cuisines[r.Cuisine]++
		}
		seen := map[string]bool{}
		for _, t := range SplitTags(r.Tags) {
			if !seen[t] {
				tags[t]++
				seen[t] = true
			}
		}
		prices[ClassifyPriceRange(r.PriceRange)]++
	}

	opts := FilterOptions{
		Locations: sortedOptions(locations),
		Cuisines:  sortedOptions(cuisines),
		Tags:      sortedOptions(tags),
	}
	for _, pc := range PriceCategories {
		opts.PriceCategories = append(opts.PriceCategories, Option{Value: string(pc), Label: pc.Label(), Count: prices[pc]})
	}
	return opts
}

func sortedOptions(m map[string]int) []Option {
	out := make([]Option, 0, len(m))
	for v, n := range m {
		out = append(out, Option{Value: v, Label: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}
