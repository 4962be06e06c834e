// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package sanitize cleans rich-text HTML from the editor before it is
// stored, and derives plain text from it.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// WordsPerMinute is the reading speed used for reading time estimates.
const WordsPerMinute = 200

var (
	ugc    = newUGCPolicy()
	strict = bluemonday.StrictPolicy()
)

func newUGCPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("img", "figure", "figcaption")
	p.AllowAttrs("src", "alt", "title", "width", "height").OnElements("img")
	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "pre", "span")
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// HTML removes scripts, event handlers and other unsafe markup while
// keeping the formatting the editor produces.
func HTML(s string) string {
	return ugc.Sanitize(s)
}

// Text strips all markup. The result stays HTML-escaped, so entities in
// the input such as &lt;script&gt; never turn back into tags.
func Text(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}

// ReadingMinutes estimates how long the content takes to read. Any
// non-empty content takes at least one minute.
func ReadingMinutes(content string) int {
	// Decoded only for counting.
	words := len(strings.Fields(html.UnescapeString(Text(content))))
	if words == 0 {
		return 0
	}
	return (words + WordsPerMinute - 1) / WordsPerMinute
}
