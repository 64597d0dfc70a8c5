// Package query holds the immutable filter, paging and view settings applied
// to collection requests.
package query

import (
	"fmt"
	"maps"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mitchellh/copystructure"
)

// DefaultPerPage is the page size used when none is set.
const DefaultPerPage = 100

// Views understood by list endpoints.
const (
	ViewCount    = "count"
	ViewIDs      = "ids"
	ViewExpanded = "expanded"
)

// Constraints is a value type. Every method that changes a setting returns a
// new Constraints and leaves the receiver untouched, so a Constraints can be
// shared between collections safely.
type Constraints struct {
	where    map[string]any
	limit    int
	hasLimit bool
	offset   int
	perPage  int
	view     string
	search   string
}

// New returns constraints with no filters, no limit and the default page
// size.
func New() Constraints {
	return Constraints{perPage: DefaultPerPage}
}

// Where returns constraints with filters merged in. Later values replace
// earlier ones for the same key.
func (c Constraints) Where(filters map[string]any) Constraints {
	next := c
	next.where = make(map[string]any, len(c.where)+len(filters))
	maps.Copy(next.where, c.where)
	for k, v := range filters {
		next.where[k] = copyValue(v)
	}
	return next
}

// Merge returns constraints combining c with other. Filters are unioned with
// other's values taking precedence; every other setting in other that is set
// replaces c's.
func (c Constraints) Merge(other Constraints) Constraints {
	next := c.Where(other.where)
	if other.hasLimit {
		next.limit, next.hasLimit = other.limit, true
	}
	if other.offset != 0 {
		next.offset = other.offset
	}
	if other.perPage != 0 && other.perPage != DefaultPerPage {
		next.perPage = other.perPage
	}
	if other.view != "" {
		next.view = other.view
	}
	if other.search != "" {
		next.search = other.search
	}
	return next
}

// WithLimit caps the total number of items fetched.
func (c Constraints) WithLimit(n int) Constraints {
	c.limit, c.hasLimit = n, true
	return c
}

// WithoutLimit removes any limit.
func (c Constraints) WithoutLimit() Constraints {
	c.limit, c.hasLimit = 0, false
	return c
}

// WithOffset sets the index of the first item fetched.
func (c Constraints) WithOffset(n int) Constraints {
	c.offset = n
	return c
}

// WithPerPage sets the page size.
func (c Constraints) WithPerPage(n int) Constraints {
	c.perPage = n
	return c
}

// WithView sets the response view, e.g. ViewCount.
func (c Constraints) WithView(view string) Constraints {
	c.view = view
	return c
}

// WithSearch sets the free-text search query.
func (c Constraints) WithSearch(q string) Constraints {
	c.search = q
	return c
}

// Limit returns the limit and whether one is set.
func (c Constraints) Limit() (int, bool) { return c.limit, c.hasLimit }

// Offset returns the index of the first item fetched.
func (c Constraints) Offset() int { return c.offset }

// PerPage returns the page size.
func (c Constraints) PerPage() int {
	if c.perPage <= 0 {
		return DefaultPerPage
	}
	return c.perPage
}

// View returns the response view.
func (c Constraints) View() string { return c.view }

// Search returns the free-text search query.
func (c Constraints) Search() string { return c.search }

// Filters returns a copy of the filters.
func (c Constraints) Filters() map[string]any {
	out := make(map[string]any, len(c.where))
	for k, v := range c.where {
		out[k] = copyValue(v)
	}
	return out
}

// NextPage returns constraints advanced by one page.
func (c Constraints) NextPage() Constraints {
	c.offset += c.PerPage()
	return c
}

// Query returns the query parameters for one page request: the filters plus
// offset, limit (the page size) and view.
func (c Constraints) Query() map[string]any {
	q := c.Filters()
	q["offset"] = c.offset
	q["limit"] = c.PerPage()
	if c.view != "" {
		q["view"] = c.view
	}
	if c.search != "" {
		q["q"] = c.search
	}
	return q
}

// Validate reports settings the service would reject.
func (c Constraints) Validate() error {
	errs := validation.Errors{
		"offset":   validation.Validate(c.offset, validation.Min(0)),
		"per_page": validation.Validate(c.perPage, validation.Min(0)),
		"view": validation.Validate(c.view,
			validation.In(ViewCount, ViewIDs, ViewExpanded)),
	}
	if c.hasLimit {
		errs["limit"] = validation.Validate(c.limit, validation.Min(0))
	}
	return errs.Filter()
}

// String returns a readable form, used in log lines.
func (c Constraints) String() string {
	limit := "none"
	if c.hasLimit {
		limit = fmt.Sprint(c.limit)
	}
	return fmt.Sprintf("where=%v limit=%s offset=%d per_page=%d view=%q",
		c.where, limit, c.offset, c.PerPage(), c.view)
}

func copyValue(v any) any {
	if v == nil {
		return nil
	}
	dup, err := copystructure.Copy(v)
	if err != nil {
		return v
	}
	return dup
}
