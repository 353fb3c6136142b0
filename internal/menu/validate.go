package menu

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/dineguide/dineguide/internal/model"
)

// Validate applies the submit-time rules to a menu and reports the first violation.
// A nil or empty menu is valid; every section needs a name and at least one
// item, and every item needs a name and a finite price.
func Validate(menu []model.MenuSection) error {
	for i, s := range menu {
		if strings.TrimSpace(s.Name) == "" {
			return invalid("section %d must have a name", i+1)
		}
		if len(s.Items) == 0 {
			return invalid("section %q must have at least one item", s.Name)
		}
		for j, it := range s.Items {
			if strings.TrimSpace(it.Name) == "" {
				return invalid("item %d in section %q must have a name", j+1, s.Name)
			}
			if math.IsNaN(it.Price) || math.IsInf(it.Price, 0) {
				return invalid("item %q in section %q must have a valid price", it.Name, s.Name)
			}
		}
	}
	return nil
}

// ValidateJSON applies the same rules to an undecoded menu field, which may be
// absent or null. Prices must be JSON numbers.
func ValidateJSON(raw json.RawMessage) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var sections []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &sections); err != nil {
		return invalid("menu must be a list of sections")
	}
	for i, s := range sections {
		name, ok := jsonString(s["name"])
		if !ok || strings.TrimSpace(name) == "" {
			return invalid("section %d must have a name", i+1)
		}
		var items []map[string]json.RawMessage
		if rawItems, present := s["items"]; present && !isNull(rawItems) {
			if err := json.Unmarshal(rawItems, &items); err != nil {
				return invalid("items of section %q must be a list", name)
			}
		}
		if len(items) == 0 {
			return invalid("section %q must have at least one item", name)
		}
		for j, it := range items {
			itemName, ok := jsonString(it["name"])
			if !ok || strings.TrimSpace(itemName) == "" {
				return invalid("item %d in section %q must have a name", j+1, name)
			}
			var price float64
			if err := json.Unmarshal(it["price"], &price); err != nil || isNull(it["price"]) {
				return invalid("item %q in section %q must have a valid price", itemName, name)
			}
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return model.NewValidationError("menu", fmt.Sprintf(format, args...))
}

func jsonString(raw json.RawMessage) (string, bool) {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return "", false
	}
	return s, true
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
