// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"pressdesk/internal/listquery"
	"pressdesk/internal/models"
)

// CustomerStore manages customers in the database.
type CustomerStore struct {
	db *sql.DB
}

// NewCustomerStore returns a new CustomerStore.
func NewCustomerStore(db *sql.DB) *CustomerStore {
	return &CustomerStore{db: db}
}

const customerColumns = `id, name, email, company, phone, status, notes, created_at, updated_at`

var customerListMapping = listMapping{
	name:  "customers",
	query: `SELECT ` + customerColumns + ` FROM customers`,
	count: `SELECT COUNT(*) FROM customers`,
	columns: map[string]string{
		"status":     "status",
		"company":    "company",
		"name":       "name",
		"email":      "email",
		"created_at": "created_at",
	},
	search:   []string{"name", "email", "company", "phone"},
	tiebreak: "id",
}

func scanCustomer(scanner rowScanner) (*models.Customer, error) {
	var c models.Customer
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Email, &c.Company, &c.Phone,
		&c.Status, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func scanCustomerValue(scanner rowScanner) (models.Customer, error) {
	c, err := scanCustomer(scanner)
	if err != nil {
		return models.Customer{}, err
	}
	return *c, nil
}

// List returns one page of customers.
func (s *CustomerStore) List(ctx context.Context, q listquery.Query) (listquery.Page[models.Customer], error) {
	return runList(ctx, s.db, customerListMapping, q, scanCustomerValue)
}

// FindByID retrieves a customer by ID. Returns nil if not found.
func (s *CustomerStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	c, err := scanCustomer(s.db.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find customer by id: %w", err)
	}
	return c, nil
}

// Create inserts a new customer. An empty status defaults to LEAD.
func (s *CustomerStore) Create(ctx context.Context, c *models.Customer) (*models.Customer, error) {
	if c.Status == "" {
		c.Status = models.CustomerStatusLead
	}
	result, err := scanCustomer(s.db.QueryRowContext(ctx, `
		INSERT INTO customers (name, email, company, phone, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+customerColumns,
		c.Name, normalizeEmail(c.Email), c.Company, c.Phone, c.Status, c.Notes,
	))
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", mapWriteError(err, ErrEmailTaken))
	}
	return result, nil
}

// Update modifies an existing customer.
func (s *CustomerStore) Update(ctx context.Context, c *models.Customer) (*models.Customer, error) {
	result, err := scanCustomer(s.db.QueryRowContext(ctx, `
		UPDATE customers SET
			name = $1, email = $2, company = $3, phone = $4, status = $5,
			notes = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING `+customerColumns,
		c.Name, normalizeEmail(c.Email), c.Company, c.Phone, c.Status, c.Notes, c.ID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update customer: %w", mapWriteError(err, ErrEmailTaken))
	}
	return result, nil
}

// SetStatus moves a customer to another lifecycle status.
func (s *CustomerStore) SetStatus(ctx context.Context, id uuid.UUID, status models.CustomerStatus) (*models.Customer, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("set customer status: unknown status %q", status)
	}
	result, err := scanCustomer(s.db.QueryRowContext(ctx, `
		UPDATE customers SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+customerColumns,
		status, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("set customer status: %w", err)
	}
	return result, nil
}

// Delete removes a customer by ID.
func (s *CustomerStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return affected(res)
}

// BatchDelete removes the given customers and returns how many existed.
func (s *CustomerStore) BatchDelete(ctx context.Context, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ANY($1::uuid[])`, idStrings(ids))
	if err != nil {
		return 0, fmt.Errorf("batch delete customers: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}
