package listing

import (
	"encoding/json"
	"strconv"
	"strings"
)

// PageLink is one entry of the page strip: either a page number or an ellipsis.
type PageLink struct {
	Number   int
	Ellipsis bool
}

// Page returns a numeric link.
func Page(n int) PageLink { return PageLink{Number: n} }

// Ellipsis returns a non-interactive gap marker.
func Ellipsis() PageLink { return PageLink{Ellipsis: true} }

func (p PageLink) String() string {
	if p.Ellipsis {
		return "…"
	}
	return strconv.Itoa(p.Number)
}

// MarshalJSON encodes as {"page":n} or {"ellipsis":true}.
func (p PageLink) MarshalJSON() ([]byte, error) {
	if p.Ellipsis {
		return []byte(`{"ellipsis":true}`), nil
	}
	return json.Marshal(struct {
		Page int `json:"page"`
	}{p.Number})
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (p *PageLink) UnmarshalJSON(b []byte) error {
	var raw struct {
		Page     int  `json:"page"`
		Ellipsis bool `json:"ellipsis"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*p = PageLink{Number: raw.Page, Ellipsis: raw.Ellipsis}
	return nil
}

// PageNumbers builds the page strip. Up to five pages are listed in full;
// beyond that the first and last page are always shown along with the
// neighbours of the current page, separated by ellipses.
func PageNumbers(current, total int) []PageLink {
	if total <= 0 {
		return []PageLink{}
	}
	if total <= 5 {
		out := make([]PageLink, 0, total)
		for i := 1; i <= total; i++ {
			out = append(out, Page(i))
		}
		return out
	}

	out := []PageLink{Page(1)}
	if current > 3 {
		out = append(out, Ellipsis())
	}
	for i := max(2, current-1); i <= min(total-1, current+1); i++ {
		out = append(out, Page(i))
	}
	if current < total-1 {
		out = append(out, Ellipsis())
	}
	return append(out, Page(total))
}

// FormatPageNumbers renders a strip such as "1 … 4 [5] 6 … 10".
func FormatPageNumbers(links []PageLink, current int) string {
	parts := make([]string, 0, len(links))
	for _, l := range links {
		if !l.Ellipsis && l.Number == current {
			parts = append(parts, "["+l.String()+"]")
			continue
		}
		parts = append(parts, l.String())
	}
	return strings.Join(parts, " ")
}
