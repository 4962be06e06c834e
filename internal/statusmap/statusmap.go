// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package statusmap maps enum values (post status, user role, customer
// status) to display labels and color tokens. Lookups never fail: unknown
// values fall back to the raw value and the neutral color.
package statusmap

import "pressdesk/internal/models"

// Color is a UI severity token.
type Color string

const (
	Neutral Color = "gray"
	Info    Color = "blue"
	Success Color = "green"
	Warning Color = "yellow"
	Danger  Color = "red"
	Accent  Color = "purple"
)

// Entry configures one enum value.
type Entry[T ~string] struct {
	Value T
	Label string
	Color Color
}

// Option is a {value, label} pair for a select control.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Color Color  `json:"color"`
}

// Map is an ordered, read-only status table.
type Map[T ~string] struct {
	entries  []Entry[T]
	index    map[T]int
	fallback Color
}

// New builds a map from entries in display order. Later duplicates are
// ignored.
func New[T ~string](entries ...Entry[T]) *Map[T] {
	m := &Map[T]{index: make(map[T]int, len(entries)), fallback: Neutral}
	for _, e := range entries {
		if _, dup := m.index[e.Value]; dup {
			continue
		}
		m.index[e.Value] = len(m.entries)
		m.entries = append(m.entries, e)
	}
	return m
}

// WithFallback returns a copy of the map using c for unknown values.
func (m *Map[T]) WithFallback(c Color) *Map[T] {
	cp := *m
	cp.fallback = c
	return &cp
}

// Has reports whether v is configured.
func (m *Map[T]) Has(v T) bool {
	_, ok := m.index[v]
	return ok
}

// Label returns the display label of v, or v itself when unknown.
func (m *Map[T]) Label(v T) string {
	if i, ok := m.index[v]; ok && m.entries[i].Label != "" {
		return m.entries[i].Label
	}
	return string(v)
}

// Color returns the color token of v, or the fallback when unknown.
func (m *Map[T]) Color(v T) Color {
	if i, ok := m.index[v]; ok && m.entries[i].Color != "" {
		return m.entries[i].Color
	}
	return m.fallback
}

// Options lists every configured value in display order.
func (m *Map[T]) Options() []Option {
	out := make([]Option, len(m.entries))
	for i, e := range m.entries {
		out[i] = Option{Value: string(e.Value), Label: m.Label(e.Value), Color: m.Color(e.Value)}
	}
	return out
}

// Values returns the configured values as strings, for enum filters.
func (m *Map[T]) Values() []string {
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = string(e.Value)
	}
	return out
}

// PostStatus labels post statuses.
var PostStatus = New(
	Entry[models.PostStatus]{models.PostStatusDraft, "Draft", Neutral},
	Entry[models.PostStatus]{models.PostStatusPublished, "Published", Success},
	Entry[models.PostStatus]{models.PostStatusScheduled, "Scheduled", Info},
	Entry[models.PostStatus]{models.PostStatusArchived, "Archived", Warning},
)

// UserRole labels user roles.
var UserRole = New(
	Entry[models.Role]{models.RoleAdmin, "Administrator", Danger},
	Entry[models.Role]{models.RoleEditor, "Editor", Accent},
	Entry[models.Role]{models.RoleAuthor, "Author", Info},
)

// CustomerStatus labels customer statuses.
var CustomerStatus = New(
	Entry[models.CustomerStatus]{models.CustomerStatusLead, "Lead", Info},
	Entry[models.CustomerStatus]{models.CustomerStatusActive, "Active", Success},
	Entry[models.CustomerStatus]{models.CustomerStatusInactive, "Inactive", Neutral},
	Entry[models.CustomerStatus]{models.CustomerStatusChurned, "Churned", Danger},
)
