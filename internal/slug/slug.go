// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings
// and tracks whether an edited slug should keep following its title.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// separators matches every run of characters that cannot appear in a slug.
	separators = regexp.MustCompile(`[^a-z0-9]+`)
	// valid matches a well-formed slug: lowercase words joined by single hyphens.
	valid = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	// apostrophes are dropped so "How's" becomes "hows", not "how-s".
	apostrophes = strings.NewReplacer("'", "", "’", "")
)

// MaxLength is the longest slug the stores accept.
const MaxLength = 300

// Generate creates a URL-friendly slug from the given string.
// Example: "Hello, World! 2024" → "hello-world-2024"
func Generate(s string) string {
	result := foldAccents(s)
	result = strings.ToLower(strings.TrimSpace(result))
	result = apostrophes.Replace(result)
	result = separators.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// Valid reports whether s is already a well-formed slug.
func Valid(s string) bool {
	return len(s) <= MaxLength && valid.MatchString(s)
}

// foldAccents strips combining marks so "Café" becomes "Cafe".
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Tracker keeps a slug in step with its title until the user edits the
// slug by hand. After that, title changes no longer touch it; clearing
// the slug or setting it back to the derived value re-enables following.
type Tracker struct {
	title string
	slug  string
}

// NewTracker starts from an existing title and slug. An empty slug is
// derived from the title.
func NewTracker(title, current string) *Tracker {
	t := &Tracker{title: title, slug: current}
	if current == "" {
		t.slug = Generate(title)
	}
	return t
}

// Following reports whether the slug still equals the value derived from
// the current title.
func (t *Tracker) Following() bool {
	return t.slug == Generate(t.title)
}

// SetTitle updates the title and, while the slug is following, the slug.
func (t *Tracker) SetTitle(title string) {
	follow := t.Following()
	t.title = title
	if follow {
		t.slug = Generate(title)
	}
}

// SetSlug records a manual slug edit. An empty value reverts to the
// derived slug.
func (t *Tracker) SetSlug(s string) {
	if strings.TrimSpace(s) == "" {
		t.slug = Generate(t.title)
		return
	}
	t.slug = s
}

// Title returns the current title.
func (t *Tracker) Title() string { return t.title }

// Slug returns the current slug.
func (t *Tracker) Slug() string { return t.slug }
