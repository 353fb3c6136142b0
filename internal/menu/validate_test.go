package menu

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dineguide/dineguide/internal/model"
)

func section(name string, items ...model.MenuItem) model.MenuSection {
	if items == nil {
		items = []model.MenuItem{}
	}
	return model.MenuSection{Name: name, Items: items}
}

func TestValidate_EmptyAndNilMenus(t *testing.T) {
	assert.NoError(t, Validate(nil))
	assert.NoError(t, Validate([]model.MenuSection{}))
}

func TestValidate_SectionWithoutItems(t *testing.T) {
	err := Validate([]model.MenuSection{section("Mains")})
	require.Error(t, err)
	assert.True(t, model.IsValidationError(err))
	assert.Contains(t, err.Error(), "Mains")
}

func TestValidate_ValidMenu(t *testing.T) {
	assert.NoError(t, Validate([]model.MenuSection{section("Mains", model.MenuItem{Name: "Soup", Price: 5})}))
}

func TestValidate_Items(t *testing.T) {
	cases := []struct {
		item model.MenuItem
		ok   bool
	}{
		{model.MenuItem{Name: "Soup", Price: math.NaN()}, false},
		{model.MenuItem{Name: "Soup", Price: math.Inf(1)}, false},
		{model.MenuItem{Name: "", Price: 5}, false},
		{model.MenuItem{Name: "  ", Price: 5}, false},
		{model.MenuItem{Name: "Soup", Price: 0}, true},
	}
	for _, tc := range cases {
		err := Validate([]model.MenuSection{section("Mains", tc.item)})
		if tc.ok {
			assert.NoError(t, err, "%+v", tc.item)
		} else {
			assert.Error(t, err, "%+v", tc.item)
		}
	}
}

func TestValidate_SectionName(t *testing.T) {
	err := Validate([]model.MenuSection{section("", model.MenuItem{Name: "Soup", Price: 1})})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "section 1 must have a name")
}

func TestValidate_ReportsFirstFailureOnly(t *testing.T) {
	err := Validate([]model.MenuSection{
		section("Starters", model.MenuItem{Name: "", Price: 1}),
		section("Mains"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Starters")
	assert.NotContains(t, err.Error(), "Mains")
}

func TestValidateJSON(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{``, ""},
		{`null`, ""},
		{`[]`, ""},
		{`[{"name":"Mains","items":[{"name":"Soup","price":5}]}]`, ""},
		{`[{"name":"Mains","items":[{"name":"Soup","price":0}]}]`, ""},
		{`{"name":"Mains"}`, "must be a list"},
		{`[{"name":"Mains","items":[]}]`, `section "Mains" must have at least one item`},
		{`[{"name":"Mains"}]`, `section "Mains" must have at least one item`},
		{`[{"name":"","items":[{"name":"Soup","price":5}]}]`, "section 1 must have a name"},
		{`[{"name":7,"items":[{"name":"Soup","price":5}]}]`, "section 1 must have a name"},
		{`[{"name":"Mains","items":[{"name":"","price":5}]}]`, "item 1"},
		{`[{"name":"Mains","items":[{"name":"Soup","price":"5"}]}]`, "valid price"},
		{`[{"name":"Mains","items":[{"name":"Soup","price":null}]}]`, "valid price"},
		{`[{"name":"Mains","items":[{"name":"Soup"}]}]`, "valid price"},
		{`[{"name":"Mains","items":{"name":"Soup"}}]`, "must be a list"},
	}
	for _, tc := range cases {
		err := ValidateJSON(json.RawMessage(tc.raw))
		if tc.want == "" {
			assert.NoError(t, err, tc.raw)
			continue
		}
		require.Error(t, err, tc.raw)
		assert.Contains(t, err.Error(), tc.want, tc.raw)
	}
}
