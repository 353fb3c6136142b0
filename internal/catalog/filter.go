package catalog

import (
	"net/url"
	"strings"

	"github.com/dineguide/dineguide/internal/model"
)

// Criteria is the set of listing filters. Empty fields match everything.
type Criteria struct {
	SearchTerm    string        `json:"search,omitempty"`
	Location      string        `json:"location,omitempty"`
	Cuisine       string        `json:"cuisine,omitempty"`
	PriceCategory PriceCategory `json:"price,omitempty"`
	Tag           string        `json:"tag,omitempty"`
}

// Field names a single criterion.
type Field string

const (
	FieldSearch   Field = "search"
	FieldLocation Field = "location"
	FieldCuisine  Field = "cuisine"
	FieldPrice    Field = "price"
	FieldTag      Field = "tag"
)

// Fields lists every criterion in query order.
var Fields = []Field{FieldSearch, FieldLocation, FieldCuisine, FieldPrice, FieldTag}

// With returns a copy of c with one field replaced. Unknown fields return c unchanged.
func (c Criteria) With(f Field, value string) Criteria {
	switch f {
	case FieldSearch:
		c.SearchTerm = value
	case FieldLocation:
		c.Location = value
	case FieldCuisine:
		c.Cuisine = value
	case FieldPrice:
		if pc, ok := ParsePriceCategory(value); ok {
			c.PriceCategory = pc
		} else {
			c.PriceCategory = ""
		}
	case FieldTag:
		c.Tag = value
	}
	return c
}

// IsEmpty reports whether no criterion is set.
func (c Criteria) IsEmpty() bool {
	return c == Criteria{}
}

// CriteriaFromQuery reads criteria from URL query parameters.
func CriteriaFromQuery(q url.Values) Criteria {
	var c Criteria
	for _, f := range Fields {
		c = c.With(f, strings.TrimSpace(q.Get(string(f))))
	}
	return c
}

// Query encodes the non-empty criteria as URL query parameters.
func (c Criteria) Query() url.Values {
	q := url.Values{}
	set := func(f Field, v string) {
		if v != "" {
			q.Set(string(f), v)
		}
	}
	set(FieldSearch, c.SearchTerm)
	set(FieldLocation, c.Location)
	set(FieldCuisine, c.Cuisine)
	set(FieldPrice, string(c.PriceCategory))
	set(FieldTag, c.Tag)
	return q
}

// Matches reports whether r satisfies every non-empty criterion.
//
// Search and cuisine are case-insensitive substring matches, location is an
// exact match on the neighbourhood and tag is membership in the atomic tags.
func Matches(r *model.Restaurant, c Criteria) bool {
	if r == nil {
		return false
	}
	if c.SearchTerm != "" && !containsFold(r.Name, c.SearchTerm) {
		return false
	}
	if c.Location != "" && r.Neighbourhood != c.Location {
		return false
	}
	if c.Cuisine != "" && !containsFold(r.Cuisine, c.Cuisine) {
		return false
	}
	if c.PriceCategory != "" && ClassifyPriceRange(r.PriceRange) != c.PriceCategory {
		return false
	}
	if c.Tag != "" && !hasTag(r.Tags, c.Tag) {
		return false
	}
	return true
}

// Filter returns the records matching c, in input order.
func Filter(records []*model.Restaurant, c Criteria) []*model.Restaurant {
	out := make([]*model.Restaurant, 0, len(records))
	for _, r := range records {
		if Matches(r, c) {
			out = append(out, r)
		}
	}
	return out
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func hasTag(tags []string, tag string) bool {
	for _, t := range SplitTags(tags) {
		if t == tag {
			return true
		}
	}
	return false
}
