// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package listquery

import (
	"maps"
	"slices"
)

// Order is a sort direction.
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// Flip returns the opposite direction.
func (o Order) Flip() Order {
	if o == Desc {
		return Asc
	}
	return Desc
}

// State is the list screen state. Transitions never mutate the receiver;
// maps are copied before they change.
type State struct {
	schema *Schema

	Page      int               `json:"page"`
	PageSize  int               `json:"page_size"`
	Search    string            `json:"search,omitempty"`
	Filters   map[string]string `json:"filters,omitempty"`
	SortBy    string            `json:"sort_by"`
	SortOrder Order             `json:"sort_order"`
	Selected  Selection         `json:"selected,omitempty"`
}

// New returns the default state for a screen.
func New(schema *Schema) State {
	return State{
		schema:    schema,
		Page:      1,
		PageSize:  schema.pageSize(),
		SortBy:    schema.DefaultSort,
		SortOrder: schema.defaultOrder(),
	}
}

// Schema returns the screen schema the state was created with.
func (s State) Schema() *Schema { return s.schema }

// SetFilter sets a filter field and resets to the first page. An empty
// value, a value that does not fit the field, or an unknown field leaves
// the filter unset.
func (s State) SetFilter(name, value string) State {
	next := s
	next.Filters = maps.Clone(s.Filters)
	if next.Filters == nil {
		next.Filters = map[string]string{}
	}
	delete(next.Filters, name)

	if value != "" {
		if s.schema == nil {
			next.Filters[name] = value
		} else if f, ok := s.schema.field(name); ok {
			if v, err := f.normalize(value); err == nil && v != "" {
				next.Filters[name] = v
			}
		}
	}
	if len(next.Filters) == 0 {
		next.Filters = nil
	}
	next.Page = 1
	return next
}

// Filter returns the value of a filter field, or "" when unset.
func (s State) Filter(name string) string {
	return s.Filters[name]
}

// SetSearch sets the free-text search and resets to the first page.
func (s State) SetSearch(q string) State {
	next := s
	next.Search = q
	next.Page = 1
	return next
}

// SetSort toggles the direction when field is already the sort column,
// otherwise sorts ascending by field. Either way the page resets to 1.
// Fields the schema does not list as sortable are ignored.
func (s State) SetSort(field string) State {
	if s.schema != nil && !s.schema.sortable(field) {
		return s
	}
	next := s
	if s.SortBy == field {
		next.SortOrder = s.SortOrder.Flip()
	} else {
		next.SortBy = field
		next.SortOrder = Asc
	}
	next.Page = 1
	return next
}

// SetPage moves to page n. Callers clamp n to the page count; values
// below 1 become 1.
func (s State) SetPage(n int) State {
	next := s
	next.Page = max(n, 1)
	return next
}

// SetPageSize changes the page size within the schema bounds and resets
// to the first page.
func (s State) SetPageSize(n int) State {
	limit := fallbackMaxSize
	if s.schema != nil {
		limit = s.schema.maxPageSize()
	}
	next := s
	next.PageSize = min(max(n, 1), limit)
	next.Page = 1
	return next
}

// SelectAll selects every visible row, or clears the selection.
func (s State) SelectAll(visible []string, checked bool) State {
	next := s
	if !checked {
		next.Selected = nil
		return next
	}
	next.Selected = NewSelection(visible...)
	return next
}

// SelectRow adds or removes one row from the selection.
func (s State) SelectRow(id string, checked bool) State {
	next := s
	next.Selected = s.Selected.with(id, checked)
	return next
}

// ClearSelection empties the selection, typically after a bulk mutation.
func (s State) ClearSelection() State {
	next := s
	next.Selected = nil
	return next
}

// RetainVisible drops selected rows that are no longer in the result set.
func (s State) RetainVisible(visible []string) State {
	if len(s.Selected) == 0 {
		return s
	}
	next := s
	kept := Selection{}
	for _, id := range visible {
		if s.Selected.Has(id) {
			kept[id] = struct{}{}
		}
	}
	if len(kept) == 0 {
		kept = nil
	}
	next.Selected = kept
	return next
}

// Selection is a set of row IDs.
type Selection map[string]struct{}

// NewSelection builds a selection from IDs.
func NewSelection(ids ...string) Selection {
	if len(ids) == 0 {
		return nil
	}
	sel := make(Selection, len(ids))
	for _, id := range ids {
		sel[id] = struct{}{}
	}
	return sel
}

// Has reports whether id is selected.
func (sel Selection) Has(id string) bool {
	_, ok := sel[id]
	return ok
}

// IDs returns the selected IDs in sorted order.
func (sel Selection) IDs() []string {
	return slices.Sorted(maps.Keys(sel))
}

// MarshalJSON encodes the selection as a sorted array.
func (sel Selection) MarshalJSON() ([]byte, error) {
	return marshalIDs(sel.IDs())
}

func (sel Selection) with(id string, checked bool) Selection {
	out := maps.Clone(sel)
	if checked {
		if out == nil {
			out = Selection{}
		}
		out[id] = struct{}{}
		return out
	}
	delete(out, id)
	if len(out) == 0 {
		return nil
	}
	return out
}
