// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"pressdesk/internal/listquery"
	"pressdesk/internal/statusmap"
)

// List screen schemas. Every field and sort named here has a column in
// the matching listMapping.
var (
	CategoryList = listquery.Schema{
		Fields: []listquery.Field{
			{Name: "parent_id", Kind: listquery.KindUUID},
			{Name: "root", Kind: listquery.KindBool},
		},
		Sorts:        []string{"name", "slug", "sort_order", "created_at", "post_count"},
		DefaultSort:  "sort_order",
		DefaultOrder: listquery.Asc,
	}

	PostList = listquery.Schema{
		Fields: []listquery.Field{
			{Name: "status", Kind: listquery.KindEnum, Values: statusmap.PostStatus.Values()},
			{Name: "category_id", Kind: listquery.KindUUID},
			{Name: "author_id", Kind: listquery.KindUUID},
			{Name: "featured", Kind: listquery.KindBool},
		},
		Sorts:        []string{"title", "status", "created_at", "updated_at", "published_at", "view_count"},
		DefaultSort:  "created_at",
		DefaultOrder: listquery.Desc,
	}

	// PublicPostList is the blog listing: published posts only, so no
	// status filter.
	PublicPostList = listquery.Schema{
		Fields: []listquery.Field{
			{Name: "category_id", Kind: listquery.KindUUID},
			{Name: "featured", Kind: listquery.KindBool},
		},
		Sorts:        []string{"published_at", "view_count", "title"},
		DefaultSort:  "published_at",
		DefaultOrder: listquery.Desc,
	}

	UserList = listquery.Schema{
		Fields: []listquery.Field{
			{Name: "role", Kind: listquery.KindEnum, Values: statusmap.UserRole.Values()},
			{Name: "active", Kind: listquery.KindBool},
		},
		Sorts:        []string{"display_name", "email", "role", "created_at"},
		DefaultSort:  "created_at",
		DefaultOrder: listquery.Desc,
	}

	CustomerList = listquery.Schema{
		Fields: []listquery.Field{
			{Name: "status", Kind: listquery.KindEnum, Values: statusmap.CustomerStatus.Values()},
			{Name: "company", Kind: listquery.KindString},
		},
		Sorts:        []string{"name", "email", "company", "status", "created_at"},
		DefaultSort:  "created_at",
		DefaultOrder: listquery.Desc,
	}
)
