package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Development credentials created by Seed.
const (
	SeedAdminEmail    = "admin@pressdesk.local"
	SeedAdminPassword = "admin"
)

// seedCategories is a small two-level tree so the category screens have
// something to show on a fresh install. Parents precede their children.
var seedCategories = []struct {
	name, slug, parent string
	order              int
}{
	{"Technology", "technology", "", 0},
	{"Artificial Intelligence", "artificial-intelligence", "technology", 0},
	{"Web Development", "web-development", "technology", 1},
	{"Business", "business", "", 1},
	{"Marketing", "marketing", "business", 0},
}

var seedSettings = map[string]string{
	"site_name":      "PressDesk",
	"site_tagline":   "Content, customers and everything between",
	"posts_per_page": "10",
}

// Seed populates the database with initial development data.
// It creates a default admin user, a starter category tree and default
// site settings. Each part is skipped when its table already has rows.
func Seed(db *sql.DB) error {
	if err := seedAdmin(db); err != nil {
		return err
	}
	if err := seedCategoryTree(db); err != nil {
		return err
	}
	return seedSiteSettings(db)
}

func seedAdmin(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}
	if count > 0 {
		slog.Info("users already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(SeedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, role, active)
		VALUES ($1, $2, $3, $4, TRUE)
	`, SeedAdminEmail, string(hash), "Admin", "ADMIN")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", SeedAdminEmail,
		"password", SeedAdminPassword,
	)
	return nil
}

func seedCategoryTree(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	for _, c := range seedCategories {
		_, err := tx.Exec(`
			INSERT INTO categories (name, slug, parent_id, sort_order)
			VALUES ($1, $2, (SELECT id FROM categories WHERE slug = NULLIF($3, '')), $4)
		`, c.name, c.slug, c.parent, c.order)
		if err != nil {
			return fmt.Errorf("seed insert category %s: %w", c.slug, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}
	slog.Info("database seeded with starter categories", "count", len(seedCategories))
	return nil
}

func seedSiteSettings(db *sql.DB) error {
	for key, value := range seedSettings {
		_, err := db.Exec(`
			INSERT INTO site_settings (key, value) VALUES ($1, $2)
			ON CONFLICT (key) DO NOTHING
		`, key, value)
		if err != nil {
			return fmt.Errorf("seed setting %s: %w", key, err)
		}
	}
	return nil
}
