package catalog

import "strings"

// SplitTags expands compound "a; b" entries into atomic tags.
// Order is preserved, blanks are dropped and duplicates are kept.
func SplitTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		for _, part := range strings.Split(t, ";") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
