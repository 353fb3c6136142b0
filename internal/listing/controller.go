// Package listing holds the filter and pagination state behind a restaurant listing page.
package listing

import (
	"github.com/dineguide/dineguide/internal/catalog"
	"github.com/dineguide/dineguide/internal/model"
)

// DefaultPageSize is used when a controller is built with a non-positive page size.
const DefaultPageSize = 16

// Controller keeps the current criteria and 1-indexed page over a fixed record set.
// Derived values are recomputed on every read.
type Controller struct {
	records  []*model.Restaurant
	criteria catalog.Criteria
	page     int
	pageSize int
}

// New creates a controller on page 1 with no criteria.
func New(records []*model.Restaurant, pageSize int) *Controller {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Controller{records: records, page: 1, pageSize: pageSize}
}

// Criteria returns the active criteria.
func (c *Controller) Criteria() catalog.Criteria { return c.criteria }

// CurrentPage returns the active 1-indexed page.
func (c *Controller) CurrentPage() int { return c.page }

// PageSize returns the configured page size.
func (c *Controller) PageSize() int { return c.pageSize }

// SetCriterion updates one filter field and always returns to page 1.
func (c *Controller) SetCriterion(f catalog.Field, value string) {
	c.criteria = c.criteria.With(f, value)
	c.page = 1
}

// SetCriteria replaces every filter field and returns to page 1.
func (c *Controller) SetCriteria(criteria catalog.Criteria) {
	c.criteria = criteria
	c.page = 1
}

// SetPage moves to page n. Pages outside [1, TotalPages] are ignored.
func (c *Controller) SetPage(n int) {
	if n < 1 || n > c.TotalPages() {
		return
	}
	c.page = n
}

// ClearAll resets every criterion and returns to page 1.
func (c *Controller) ClearAll() {
	c.criteria = catalog.Criteria{}
	c.page = 1
}

// Filtered returns every record matching the active criteria.
func (c *Controller) Filtered() []*model.Restaurant {
	return catalog.Filter(c.records, c.criteria)
}

// TotalCount returns the number of matching records.
func (c *Controller) TotalCount() int {
	return len(c.Filtered())
}

// TotalPages returns ceil(matching / pageSize); zero when nothing matches.
func (c *Controller) TotalPages() int {
	return totalPages(len(c.Filtered()), c.pageSize)
}

// Page returns the records visible on the current page.
func (c *Controller) Page() []*model.Restaurant {
	filtered := c.Filtered()
	start := (c.page - 1) * c.pageSize
	if start >= len(filtered) {
		return []*model.Restaurant{}
	}
	end := start + c.pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end]
}

// PageNumbers returns the compact page strip for the current state.
func (c *Controller) PageNumbers() []PageLink {
	return PageNumbers(c.page, c.TotalPages())
}

func totalPages(n, size int) int {
	if n == 0 {
		return 0
	}
	return (n + size - 1) / size
}
