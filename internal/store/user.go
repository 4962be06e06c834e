// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"pressdesk/internal/listquery"
	"pressdesk/internal/models"
)

// UserStore handles all user-related database operations.
type UserStore struct {
	db   *sql.DB
	cost int
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db, cost: bcrypt.DefaultCost}
}

const userColumns = `id, email, password_hash, display_name, role, active, created_at, updated_at`

var userListMapping = listMapping{
	name:  "users",
	query: `SELECT ` + userColumns + ` FROM users`,
	count: `SELECT COUNT(*) FROM users`,
	columns: map[string]string{
		"role":         "role",
		"active":       "active",
		"display_name": "display_name",
		"email":        "email",
		"created_at":   "created_at",
	},
	search:   []string{"email", "display_name"},
	tiebreak: "id",
}

func scanUser(scanner rowScanner) (*models.User, error) {
	u := &models.User{}
	err := scanner.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Role,
		&u.Active, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func scanUserValue(scanner rowScanner) (models.User, error) {
	u, err := scanUser(scanner)
	if err != nil {
		return models.User{}, err
	}
	return *u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FindByEmail retrieves a user by their email address. Returns nil if not found.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, normalizeEmail(email)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// FindByID retrieves a user by their UUID. Returns nil if not found.
func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// List returns one page of users.
func (s *UserStore) List(ctx context.Context, q listquery.Query) (listquery.Page[models.User], error) {
	return runList(ctx, s.db, userListMapping, q, scanUserValue)
}

// Create inserts a new user with a bcrypt-hashed password.
func (s *UserStore) Create(ctx context.Context, email, password, displayName string, role models.Role) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := scanUser(s.db.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash, display_name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		normalizeEmail(email), string(hash), strings.TrimSpace(displayName), role,
	))
	if err != nil {
		return nil, fmt.Errorf("create user: %w", mapWriteError(err, ErrEmailTaken))
	}
	return u, nil
}

// Update changes a user's profile, role and active flag. The password is
// left alone; use UpdateWithPassword to change it.
func (s *UserStore) Update(ctx context.Context, u *models.User) (*models.User, error) {
	return s.UpdateWithPassword(ctx, u, "")
}

// UpdateWithPassword changes a user's profile and, when password is not
// empty, the password hash, in a single statement.
func (s *UserStore) UpdateWithPassword(ctx context.Context, u *models.User, password string) (*models.User, error) {
	var hash sql.NullString
	if password != "" {
		b, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hash = sql.NullString{String: string(b), Valid: true}
	}

	result, err := scanUser(s.db.QueryRowContext(ctx, `
		UPDATE users SET
			email = $1, display_name = $2, role = $3, active = $4,
			password_hash = COALESCE($5, password_hash), updated_at = NOW()
		WHERE id = $6
		RETURNING `+userColumns,
		normalizeEmail(u.Email), strings.TrimSpace(u.DisplayName), u.Role, u.Active, hash, u.ID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update user: %w", mapWriteError(err, ErrEmailTaken))
	}
	return result, nil
}

// Delete removes a user by ID. actorID is the user performing the delete;
// nobody can delete their own account.
func (s *UserStore) Delete(ctx context.Context, userID, actorID uuid.UUID) error {
	if userID == actorID {
		return ErrSelfDelete
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return ErrInUse
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return affected(res)
}

// BatchDelete removes the given users in one statement. The batch is
// refused if it contains actorID or if any user still owns posts.
func (s *UserStore) BatchDelete(ctx context.Context, ids []uuid.UUID, actorID uuid.UUID) (int, error) {
	if slices.Contains(ids, actorID) {
		return 0, ErrSelfDelete
	}
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ANY($1::uuid[])`, idStrings(ids))
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return 0, ErrInUse
		}
		return 0, fmt.Errorf("batch delete users: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// CheckPassword verifies a plaintext password against the user's stored hash.
func (s *UserStore) CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}
