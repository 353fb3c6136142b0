// Package catalog decides which restaurants match a listing filter.
package catalog

import "strings"

// PriceCategory is one of the four fixed price buckets shown on the listing page.
type PriceCategory string

const (
	AffordableMeals PriceCategory = "affordable"
	StandardPricing PriceCategory = "standard"
	UpscaleDining   PriceCategory = "upscale"
	WidePriceRange  PriceCategory = "wide"
)

// PriceCategories lists every category in display order.
var PriceCategories = []PriceCategory{AffordableMeals, StandardPricing, UpscaleDining, WidePriceRange}

// Label returns the human-readable name of the category.
func (c PriceCategory) Label() string {
	switch c {
	case AffordableMeals:
		return "Affordable Meals"
	case UpscaleDining:
		return "Upscale Dining"
	case WidePriceRange:
		return "Wide Price Range"
	default:
		return "Standard Pricing"
	}
}

// ParsePriceCategory accepts either the slug or the label, ignoring case.
func ParsePriceCategory(v string) (PriceCategory, bool) {
	v = strings.TrimSpace(v)
	for _, c := range PriceCategories {
		if strings.EqualFold(v, string(c)) || strings.EqualFold(v, c.Label()) {
			return c, true
		}
	}
	return "", false
}

// ClassifyPriceRange maps a free-text price descriptor to a category.
// Rules are checked in order and the first match wins.
func ClassifyPriceRange(priceRange string) PriceCategory {
	p := strings.ToLower(strings.TrimSpace(priceRange))
	switch {
	case p == "":
		return StandardPricing
	case strings.Contains(p, "$") && !strings.Contains(p, "$$"):
		return AffordableMeals
	case strings.Contains(p, "$$$$"), strings.Contains(p, "expensive"), strings.Contains(p, "upscale"):
		return UpscaleDining
	case strings.Contains(p, "$$$"), strings.Contains(p, "moderate"):
		return StandardPricing
	case strings.Contains(p, "varied"), strings.Contains(p, "range"):
		return WidePriceRange
	default:
		return StandardPricing
	}
}
