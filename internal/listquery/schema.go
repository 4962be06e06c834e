// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package listquery holds the filter, sort, pagination and selection state
// behind every admin list screen. Each screen declares a Schema naming the
// fields it can filter and sort on; State transitions are pure and return
// a new State, and Query derives the parameters handed to the data layer.
package listquery

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Kind is the value type of a filter field.
type Kind int

const (
	KindString Kind = iota
	KindEnum
	KindUUID
	KindBool
)

// Field declares one filterable field of a screen.
type Field struct {
	Name string
	Kind Kind
	// Values lists the accepted values of a KindEnum field.
	Values []string
}

// Schema is the closed set of filters and sort columns a screen accepts.
type Schema struct {
	Fields          []Field
	Sorts           []string
	DefaultSort     string
	DefaultOrder    Order
	DefaultPageSize int
	MaxPageSize     int
}

const (
	fallbackPageSize = 20
	fallbackMaxSize  = 100
)

func (s *Schema) field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (s *Schema) sortable(name string) bool {
	return slices.Contains(s.Sorts, name)
}

func (s *Schema) pageSize() int {
	if s.DefaultPageSize > 0 {
		return s.DefaultPageSize
	}
	return fallbackPageSize
}

func (s *Schema) maxPageSize() int {
	if s.MaxPageSize > 0 {
		return s.MaxPageSize
	}
	return fallbackMaxSize
}

func (s *Schema) defaultOrder() Order {
	if s.DefaultOrder == "" {
		return Asc
	}
	return s.DefaultOrder
}

// WithPageSizes returns a copy of the schema with the given page size
// bounds. Zero values keep the schema's own.
func (s Schema) WithPageSizes(def, max int) Schema {
	if def > 0 {
		s.DefaultPageSize = def
	}
	if max > 0 {
		s.MaxPageSize = max
	}
	return s
}

// normalize validates a raw filter value against its field kind and
// returns the canonical string form.
func (f Field) normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	switch f.Kind {
	case KindEnum:
		for _, v := range f.Values {
			if strings.EqualFold(v, raw) {
				return v, nil
			}
		}
		return "", fmt.Errorf("must be one of %s", strings.Join(f.Values, ", "))
	case KindUUID:
		id, err := uuid.Parse(raw)
		if err != nil {
			return "", fmt.Errorf("must be a valid id")
		}
		return id.String(), nil
	case KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return "", fmt.Errorf("must be true or false")
		}
		return strconv.FormatBool(b), nil
	}
	return raw, nil
}

// typed converts a canonical value to the Go type the data layer expects.
func (f Field) typed(v string) any {
	switch f.Kind {
	case KindUUID:
		id, _ := uuid.Parse(v)
		return id
	case KindBool:
		b, _ := strconv.ParseBool(v)
		return b
	}
	return v
}
