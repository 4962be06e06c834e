// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"pressdesk/internal/models"
)

// settingsForm returns every known setting key, filled from the store.
func (a *Admin) settingsForm(r *http.Request) (models.SiteSettings, error) {
	stored, err := a.stores.Settings.All(r.Context())
	if err != nil {
		return nil, err
	}
	form := make(models.SiteSettings, len(models.SettingKeys))
	for _, k := range models.SettingKeys {
		form[k] = stored[k]
	}
	return form, nil
}

// SettingsGet returns the site configuration form.
func (a *Admin) SettingsGet(w http.ResponseWriter, r *http.Request) {
	form, err := a.settingsForm(r)
	if err != nil {
		respondError(w, r, "load settings", err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// SettingsUpdate saves the submitted settings in one transaction. Keys
// missing from the body are left unchanged.
func (a *Admin) SettingsUpdate(w http.ResponseWriter, r *http.Request) {
	var in map[string]string
	if !decodeJSON(w, r, &in) {
		return
	}
	for k, v := range in {
		in[k] = strings.TrimSpace(v)
	}
	if err := validateSettings(in); err != nil {
		respondError(w, r, "save settings", err)
		return
	}

	if err := a.stores.Settings.SetMany(r.Context(), in); err != nil {
		a.fail(w, r, "save settings", "Save failed", err)
		return
	}
	a.invalidatePosts(r.Context())

	form, err := a.settingsForm(r)
	if err != nil {
		respondError(w, r, "load settings", err)
		return
	}
	a.succeed(r, "Settings saved", "")
	writeJSON(w, http.StatusOK, form)
}
