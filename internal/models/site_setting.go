// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// SiteSetting represents a single configuration key-value pair.
type SiteSetting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SiteSettings is a convenience map for accessing settings by key.
type SiteSettings map[string]string

// Get returns the value for a key, or the fallback if the key doesn't exist.
func (s SiteSettings) Get(key, fallback string) string {
	if v, ok := s[key]; ok && v != "" {
		return v
	}
	return fallback
}

// Keys accepted by the site configuration form.
const (
	SettingSiteName        = "site_name"
	SettingSiteTagline     = "site_tagline"
	SettingContactEmail    = "contact_email"
	SettingPostsPerPage    = "posts_per_page"
	SettingDefaultCategory = "default_category"
	SettingFooterText      = "footer_text"
)

// SettingKeys lists the editable setting keys in form order.
var SettingKeys = []string{
	SettingSiteName, SettingSiteTagline, SettingContactEmail,
	SettingPostsPerPage, SettingDefaultCategory, SettingFooterText,
}

// IsSettingKey reports whether key is one of the editable settings.
func IsSettingKey(key string) bool {
	for _, k := range SettingKeys {
		if k == key {
			return true
		}
	}
	return false
}
