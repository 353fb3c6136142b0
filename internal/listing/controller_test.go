package listing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dineguide/dineguide/internal/catalog"
	"github.com/dineguide/dineguide/internal/model"
)

func makeRecords(n int, cuisine string) []*model.Restaurant {
	out := make([]*model.Restaurant, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &model.Restaurant{ID: fmt.Sprintf("%s-%d", cuisine, i), Name: fmt.Sprintf("%s %d", cuisine, i), Cuisine: cuisine})
	}
	return out
}

func TestNew_DefaultsPageSize(t *testing.T) {
	c := New(nil, 0)
	assert.Equal(t, DefaultPageSize, c.PageSize())
	assert.Equal(t, 1, c.CurrentPage())
	assert.Equal(t, 0, c.TotalPages())
	assert.Empty(t, c.Page())
	assert.Empty(t, c.PageNumbers())
}

func TestPaging(t *testing.T) {
	c := New(makeRecords(20, "thai"), 8)
	require.Equal(t, 3, c.TotalPages())
	assert.Len(t, c.Page(), 8)

	c.SetPage(3)
	assert.Equal(t, 3, c.CurrentPage())
	page := c.Page()
	require.Len(t, page, 4)
	assert.Equal(t, "thai-16", page[0].ID)
}

func TestSetPage_OutOfRangeIsNoop(t *testing.T) {
	c := New(makeRecords(20, "thai"), 8)
	c.SetPage(2)

	for _, n := range []int{0, -1, 4, 100} {
		c.SetPage(n)
		assert.Equal(t, 2, c.CurrentPage(), "page %d", n)
	}
}

func TestSetPage_EmptyResultStaysOnFirstPage(t *testing.T) {
	c := New(nil, 8)
	c.SetPage(1)
	assert.Equal(t, 1, c.CurrentPage())
}

func TestSetCriterion_ResetsPage(t *testing.T) {
	records := append(makeRecords(40, "thai"), makeRecords(40, "thai food")...)
	c := New(records, 10)
	c.SetPage(3)
	require.Equal(t, 3, c.CurrentPage())

	// the new result set still has more than three pages, yet the page resets
	c.SetCriterion(catalog.FieldCuisine, "thai")
	assert.Equal(t, 1, c.CurrentPage())
	assert.Equal(t, 8, c.TotalPages())

	c.SetPage(5)
	c.SetCriterion(catalog.FieldCuisine, "thai food")
	assert.Equal(t, 1, c.CurrentPage())
	assert.Equal(t, 4, c.TotalPages())
	assert.Equal(t, 40, c.TotalCount())
}

func TestSetCriteria_ResetsPage(t *testing.T) {
	c := New(makeRecords(30, "thai"), 10)
	c.SetPage(2)
	c.SetCriteria(catalog.Criteria{SearchTerm: "thai 1"})
	assert.Equal(t, 1, c.CurrentPage())
	assert.Equal(t, "thai 1", c.Criteria().SearchTerm)
}

func TestClearAll(t *testing.T) {
	records := append(makeRecords(12, "thai"), makeRecords(12, "greek")...)
	c := New(records, 5)
	c.SetCriterion(catalog.FieldCuisine, "greek")
	c.SetPage(2)
	require.Equal(t, 12, c.TotalCount())

	c.ClearAll()
	assert.Equal(t, catalog.Criteria{}, c.Criteria())
	assert.Equal(t, 1, c.CurrentPage())
	assert.Equal(t, 24, c.TotalCount())
	assert.Equal(t, 5, c.TotalPages())
}

func TestPageNumbersFollowController(t *testing.T) {
	c := New(makeRecords(100, "thai"), 10)
	c.SetPage(5)
	assert.Equal(t, "1 … 4 [5] 6 … 10", FormatPageNumbers(c.PageNumbers(), c.CurrentPage()))
}
