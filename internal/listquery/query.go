// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package listquery

import (
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Query string keys.
const (
	ParamPage     = "page"
	ParamPageSize = "page_size"
	ParamSearch   = "search"
	ParamSort     = "sort"
	ParamOrder    = "order"
)

// FieldErrors maps query parameters to validation messages.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + fe[k]
	}
	return "invalid list query: " + strings.Join(parts, "; ")
}

// Parse builds a State from a query string, validating every parameter
// against the schema. Unknown parameters are ignored.
func Parse(schema *Schema, v url.Values) (State, error) {
	s := New(schema)
	errs := FieldErrors{}

	if raw := v.Get(ParamPage); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			errs[ParamPage] = "must be a positive integer"
		} else {
			s.Page = n
		}
	}
	if raw := v.Get(ParamPageSize); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > schema.maxPageSize() {
			errs[ParamPageSize] = "must be between 1 and " + strconv.Itoa(schema.maxPageSize())
		} else {
			s.PageSize = n
		}
	}

	s.Search = strings.TrimSpace(v.Get(ParamSearch))

	if raw := v.Get(ParamSort); raw != "" {
		if !schema.sortable(raw) {
			errs[ParamSort] = "cannot sort by " + strconv.Quote(raw)
		} else {
			s.SortBy = raw
		}
	}
	switch Order(strings.ToLower(v.Get(ParamOrder))) {
	case "":
	case Asc:
		s.SortOrder = Asc
	case Desc:
		s.SortOrder = Desc
	default:
		errs[ParamOrder] = "must be asc or desc"
	}

	for _, f := range schema.Fields {
		raw := v.Get(f.Name)
		if raw == "" {
			continue
		}
		norm, err := f.normalize(raw)
		if err != nil {
			errs[f.Name] = err.Error()
			continue
		}
		if s.Filters == nil {
			s.Filters = map[string]string{}
		}
		s.Filters[f.Name] = norm
	}

	if len(errs) > 0 {
		return s, errs
	}
	return s, nil
}

// Encode renders the state back to query parameters, omitting defaults.
// Selection is client state and is never encoded.
func (s State) Encode() url.Values {
	v := url.Values{}
	if s.Page > 1 {
		v.Set(ParamPage, strconv.Itoa(s.Page))
	}
	if s.schema == nil || s.PageSize != s.schema.pageSize() {
		v.Set(ParamPageSize, strconv.Itoa(s.PageSize))
	}
	if s.Search != "" {
		v.Set(ParamSearch, s.Search)
	}
	if s.SortBy != "" && (s.schema == nil || s.SortBy != s.schema.DefaultSort) {
		v.Set(ParamSort, s.SortBy)
	}
	if s.schema == nil || s.SortOrder != s.schema.defaultOrder() {
		v.Set(ParamOrder, string(s.SortOrder))
	}
	for k, val := range s.Filters {
		v.Set(k, val)
	}
	return v
}

// Op is a filter comparison.
type Op string

// OpEq is the only comparison list screens use today.
const OpEq Op = "eq"

// Filter is one typed condition for the data layer. Value holds a string,
// uuid.UUID or bool depending on the field kind.
type Filter struct {
	Field string `json:"field"`
	Op    Op     `json:"op"`
	Value any    `json:"value"`
}

// Query is what a store needs to fetch one page.
type Query struct {
	Limit     int      `json:"limit"`
	Offset    int      `json:"offset"`
	Search    string   `json:"search,omitempty"`
	Filters   []Filter `json:"filters,omitempty"`
	SortBy    string   `json:"sort_by"`
	SortOrder Order    `json:"sort_order"`
}

// Page returns the 1-based page number the query addresses.
func (q Query) Page() int {
	if q.Limit <= 0 {
		return 1
	}
	return q.Offset/q.Limit + 1
}

// Filter returns the value of the named filter and whether it is set.
func (q Query) Filter(field string) (any, bool) {
	for _, f := range q.Filters {
		if f.Field == field {
			return f.Value, true
		}
	}
	return nil, false
}

// Query derives the data layer parameters. Filters follow schema order.
func (s State) Query() Query {
	q := Query{
		Limit:     s.PageSize,
		Offset:    (max(s.Page, 1) - 1) * s.PageSize,
		Search:    s.Search,
		SortBy:    s.SortBy,
		SortOrder: s.SortOrder,
	}
	if s.schema != nil {
		for _, f := range s.schema.Fields {
			if v, ok := s.Filters[f.Name]; ok {
				q.Filters = append(q.Filters, Filter{Field: f.Name, Op: OpEq, Value: f.typed(v)})
			}
		}
		return q
	}
	keys := make([]string, 0, len(s.Filters))
	for k := range s.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		q.Filters = append(q.Filters, Filter{Field: k, Op: OpEq, Value: s.Filters[k]})
	}
	return q
}

// Page is one page of results with its totals.
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// NewPage wraps items with totals computed from the query.
func NewPage[T any](items []T, total int, q Query) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		Total:      total,
		Page:       q.Page(),
		PageSize:   q.Limit,
		TotalPages: TotalPages(total, q.Limit),
	}
}

// TotalPages returns ceil(total / size), or 0 when there is nothing.
func TotalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// ClampPage limits n to [1, totalPages].
func ClampPage(n, totalPages int) int {
	return max(1, min(n, totalPages))
}

// Icon is the glyph shown next to a column header.
type Icon string

const (
	IconUnsorted Icon = "↕"
	IconAsc      Icon = "↑"
	IconDesc     Icon = "↓"
)

// SortIcon returns the header glyph for field given the active sort.
func SortIcon(sortBy string, order Order, field string) Icon {
	if sortBy != field {
		return IconUnsorted
	}
	if order == Desc {
		return IconDesc
	}
	return IconAsc
}

// SortIcon is the glyph for field under this state's sort.
func (s State) SortIcon(field string) Icon {
	return SortIcon(s.SortBy, s.SortOrder, field)
}

func marshalIDs(ids []string) ([]byte, error) {
	if ids == nil {
		ids = []string{}
	}
	return json.Marshal(ids)
}
