// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"pressdesk/internal/cache"
	"pressdesk/internal/middleware"
	"pressdesk/internal/notify"
	"pressdesk/internal/statusmap"
	"pressdesk/internal/store"
)

type dashboardResponse struct {
	Counts *store.Counts `json:"counts"`
	Cache  cache.Stats   `json:"cache"`
}

// Dashboard returns entity counts and response cache counters.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	counts, err := a.stores.Stats.Counts(r.Context())
	if err != nil {
		respondError(w, r, "dashboard counts", err)
		return
	}
	writeJSON(w, http.StatusOK, dashboardResponse{Counts: counts, Cache: a.cache.Stats()})
}

type statusesResponse struct {
	PostStatus     []statusmap.Option `json:"post_status"`
	UserRole       []statusmap.Option `json:"user_role"`
	CustomerStatus []statusmap.Option `json:"customer_status"`
}

// MetaStatuses returns the label and color of every enum value, in
// display order, for select controls and badges.
func (a *Admin) MetaStatuses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusesResponse{
		PostStatus:     statusmap.PostStatus.Options(),
		UserRole:       statusmap.UserRole.Options(),
		CustomerStatus: statusmap.CustomerStatus.Options(),
	})
}

// Notifications drains the caller's notice feed, newest first.
func (a *Admin) Notifications(w http.ResponseWriter, r *http.Request) {
	if a.feed == nil {
		writeJSON(w, http.StatusOK, []notify.Notice{})
		return
	}
	sess := middleware.SessionFromCtx(r.Context())
	notices, err := a.feed.Drain(r.Context(), sess.UserID)
	if err != nil {
		respondError(w, r, "drain notifications", err)
		return
	}
	writeJSON(w, http.StatusOK, notices)
}
