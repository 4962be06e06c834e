package handlers

import (
	"net/mail"
	"strconv"
	"strings"
	"unicode/utf8"

	"pressdesk/internal/models"
	"pressdesk/internal/slug"
)

// Validation limits for form fields.
const (
	maxTitleLen       = 300
	maxNameLen        = 200
	maxBodyLen        = 100_000
	maxExcerptLen     = 1_000
	maxDescriptionLen = 2_000
	maxMetaTitleLen   = 200
	maxMetaDescLen    = 500
	maxMetaKeywordLen = 500
	maxURLLen         = 2_000
	maxEmailLen       = 254
	maxPhoneLen       = 50
	maxNotesLen       = 10_000
	maxSettingLen     = 5_000
	minPasswordLen    = 8
	maxPasswordLen    = 72 // bcrypt ignores anything longer
)

func required(fe fieldErrors, field, value string) {
	if strings.TrimSpace(value) == "" {
		fe.add(field, "is required")
	}
}

func maxLen(fe fieldErrors, field, value string, n int) {
	if utf8.RuneCountInString(value) > n {
		fe.add(field, "is too long (max "+strconv.Itoa(n)+" characters)")
	}
}

func maxLenPtr(fe fieldErrors, field string, value *string, n int) {
	if value != nil {
		maxLen(fe, field, *value, n)
	}
}

// validSlug flags a slug the user typed that is not URL safe. An empty
// slug is derived from the title or name later.
func validSlug(fe fieldErrors, value string) {
	if value == "" {
		return
	}
	if utf8.RuneCountInString(value) > slug.MaxLength {
		fe.add("slug", "is too long (max "+strconv.Itoa(slug.MaxLength)+" characters)")
		return
	}
	if !slug.Valid(value) {
		fe.add("slug", "may only contain lowercase letters, digits and single hyphens")
	}
}

func validEmail(fe fieldErrors, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		fe.add("email", "is required")
		return
	}
	if utf8.RuneCountInString(value) > maxEmailLen {
		fe.add("email", "is too long")
		return
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		fe.add("email", "is not a valid email address")
	}
}

// validPassword checks the strength rules: minimum length, and at least
// one letter and one digit.
func validPassword(fe fieldErrors, value string) {
	if len(value) < minPasswordLen {
		fe.add("password", "must be at least "+strconv.Itoa(minPasswordLen)+" characters")
		return
	}
	if len(value) > maxPasswordLen {
		fe.add("password", "must be at most "+strconv.Itoa(maxPasswordLen)+" bytes")
		return
	}
	var letter, digit bool
	for _, r := range value {
		switch {
		case r >= '0' && r <= '9':
			digit = true
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			letter = true
		}
	}
	if !letter || !digit {
		fe.add("password", "must contain at least one letter and one digit")
	}
}

// validateCategory checks category form inputs.
func validateCategory(in *categoryInput) error {
	fe := fieldErrors{}
	required(fe, "name", in.Name)
	maxLen(fe, "name", in.Name, maxNameLen)
	validSlug(fe, in.Slug)
	maxLenPtr(fe, "description", in.Description, maxDescriptionLen)
	if in.SortOrder != nil && *in.SortOrder < 0 {
		fe.add("sort_order", "must not be negative")
	}
	return fe.err()
}

// validatePost checks post form inputs.
func validatePost(in *postInput) error {
	fe := fieldErrors{}
	required(fe, "title", in.Title)
	maxLen(fe, "title", in.Title, maxTitleLen)
	validSlug(fe, in.Slug)
	maxLen(fe, "content", in.Content, maxBodyLen)
	maxLenPtr(fe, "excerpt", in.Excerpt, maxExcerptLen)
	maxLenPtr(fe, "cover_image", in.CoverImage, maxURLLen)
	maxLenPtr(fe, "meta_title", in.MetaTitle, maxMetaTitleLen)
	maxLenPtr(fe, "meta_description", in.MetaDescription, maxMetaDescLen)
	maxLenPtr(fe, "keywords", in.Keywords, maxMetaKeywordLen)
	if in.Status != "" && !in.Status.Valid() {
		fe.add("status", "is not a known status")
	}
	if in.Status == models.PostStatusScheduled && in.ScheduledAt == nil {
		fe.add("scheduled_at", "is required for scheduled posts")
	}
	return fe.err()
}

// validateUser checks user form inputs. The password is required when
// creating and optional when updating.
func validateUser(in *userInput, creating bool) error {
	fe := fieldErrors{}
	validEmail(fe, in.Email)
	required(fe, "display_name", in.DisplayName)
	maxLen(fe, "display_name", in.DisplayName, maxNameLen)
	if !in.Role.Valid() {
		fe.add("role", "is not a known role")
	}
	if creating || in.Password != "" {
		validPassword(fe, in.Password)
	}
	return fe.err()
}

// validateCustomer checks customer form inputs.
func validateCustomer(in *customerInput) error {
	fe := fieldErrors{}
	required(fe, "name", in.Name)
	maxLen(fe, "name", in.Name, maxNameLen)
	validEmail(fe, in.Email)
	maxLenPtr(fe, "company", in.Company, maxNameLen)
	maxLenPtr(fe, "phone", in.Phone, maxPhoneLen)
	maxLenPtr(fe, "notes", in.Notes, maxNotesLen)
	if in.Status != "" && !in.Status.Valid() {
		fe.add("status", "is not a known status")
	}
	return fe.err()
}

// validateSettings checks the site configuration form. Only known keys
// are accepted.
func validateSettings(in map[string]string) error {
	fe := fieldErrors{}
	for k, v := range in {
		if !models.IsSettingKey(k) {
			fe.add(k, "is not a known setting")
			continue
		}
		maxLen(fe, k, v, maxSettingLen)
	}
	if v, ok := in[models.SettingContactEmail]; ok && v != "" {
		sub := fieldErrors{}
		validEmail(sub, v)
		if msg, bad := sub["email"]; bad {
			fe.add(models.SettingContactEmail, msg)
		}
	}
	if v, ok := in[models.SettingPostsPerPage]; ok && v != "" {
		if n, err := strconv.Atoi(v); err != nil || n < 1 || n > 100 {
			fe.add(models.SettingPostsPerPage, "must be a number between 1 and 100")
		}
	}
	return fe.err()
}
