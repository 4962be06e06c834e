// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"pressdesk/internal/models"
	"pressdesk/internal/notify"
	"pressdesk/internal/statusmap"
)

func TestSettingsUpdate_SavesAndReturnsForm(t *testing.T) {
	env := newTestEnv(t)
	admin := testUser(t, env, models.RoleAdmin)

	before, err := env.Stores.Settings.All(t.Context())
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	t.Cleanup(func() {
		restore := map[string]string{}
		for _, k := range models.SettingKeys {
			restore[k] = before[k]
		}
		env.Stores.Settings.SetMany(context.Background(), restore)
	})

	in := map[string]string{models.SettingSiteName: "  Test Site  ", models.SettingPostsPerPage: "12"}
	rec := serve(env.Admin.SettingsUpdate, withSession(jsonRequest(t, http.MethodPut, "/", in), sessionFor(admin)))
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", rec.Code, rec.Body.String())
	}

	form := decodeBody[map[string]string](t, rec)
	if len(form) != len(models.SettingKeys) {
		t.Errorf("form has %d keys, want %d", len(form), len(models.SettingKeys))
	}
	if form[models.SettingSiteName] != "Test Site" || form[models.SettingPostsPerPage] != "12" {
		t.Errorf("form = %v", form)
	}

	rec = serve(env.Admin.SettingsGet, httptest.NewRequest(http.MethodGet, "/", nil))
	if got := decodeBody[map[string]string](t, rec); got[models.SettingSiteName] != "Test Site" {
		t.Errorf("GET site_name = %q", got[models.SettingSiteName])
	}
}

func TestSettingsUpdate_UnknownKey_Returns422(t *testing.T) {
	admin := NewAdmin(Stores{}, nil, nil, nil, PageSizes{})

	rec := serve(admin.SettingsUpdate, jsonRequest(t, http.MethodPut, "/", map[string]string{"theme": "dark"}))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("got status %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
}

func TestMetaStatuses_ListsEveryValue(t *testing.T) {
	admin := NewAdmin(Stores{}, nil, nil, nil, PageSizes{})

	rec := serve(admin.MetaStatuses, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d", rec.Code)
	}

	got := decodeBody[statusesResponse](t, rec)
	if len(got.PostStatus) != len(models.PostStatuses) {
		t.Errorf("post statuses = %d, want %d", len(got.PostStatus), len(models.PostStatuses))
	}
	if len(got.CustomerStatus) != len(models.CustomerStatuses) {
		t.Errorf("customer statuses = %d, want %d", len(got.CustomerStatus), len(models.CustomerStatuses))
	}
	if len(got.UserRole) != len(statusmap.UserRole.Values()) {
		t.Errorf("user roles = %d", len(got.UserRole))
	}
}

func TestNotifications_NoFeed_ReturnsEmptyList(t *testing.T) {
	admin := NewAdmin(Stores{}, nil, nil, nil, PageSizes{})

	rec := serve(admin.Notifications, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "[]\n" {
		t.Fatalf("got %d %q, want 200 []", rec.Code, rec.Body.String())
	}
}

func TestNotifications_DrainsFeed(t *testing.T) {
	env := newTestEnv(t)
	user := testUser(t, env, models.RoleEditor)

	if err := env.Feed.Notify(t.Context(), user.ID, notify.KindInfo, "Hello", "first"); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	req := withSession(httptest.NewRequest(http.MethodGet, "/", nil), sessionFor(user))
	rec := serve(env.Admin.Notifications, req)
	if got := decodeBody[[]notify.Notice](t, rec); len(got) != 1 || got[0].Title != "Hello" {
		t.Fatalf("first drain = %+v", got)
	}

	rec = serve(env.Admin.Notifications, req)
	if got := decodeBody[[]notify.Notice](t, rec); len(got) != 0 {
		t.Errorf("second drain = %+v, want empty", got)
	}
}

func TestDashboard_ReturnsCounts(t *testing.T) {
	env := newTestEnv(t)
	author := testUser(t, env, models.RoleAuthor)
	createPost(t, env, author, postInput{Title: unique("Counted")})

	rec := serve(env.Admin.Dashboard, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", rec.Code, rec.Body.String())
	}
	got := decodeBody[dashboardResponse](t, rec)
	if got.Counts == nil || got.Counts.Posts < 1 || got.Counts.Users < 1 {
		t.Errorf("counts = %+v", got.Counts)
	}
}
