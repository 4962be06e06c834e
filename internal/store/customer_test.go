// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pressdesk/internal/listquery"
	"pressdesk/internal/models"
)

func TestCustomerStoreLifecycle(t *testing.T) {
	db := testDB(t)
	s := NewCustomerStore(db)
	ctx := context.Background()

	company := "Acme " + unique("co")
	c, err := s.Create(ctx, &models.Customer{Name: "Ada", Email: unique("ada") + "@customer-test.local", Company: &company})
	require.NoError(t, err)
	t.Cleanup(func() { db.Exec("DELETE FROM customers WHERE id = $1", c.ID) })
	assert.Equal(t, models.CustomerStatusLead, c.Status)

	_, err = s.Create(ctx, &models.Customer{Name: "Copy", Email: c.Email})
	assert.ErrorIs(t, err, ErrEmailTaken)

	active, err := s.SetStatus(ctx, c.ID, models.CustomerStatusActive)
	require.NoError(t, err)
	assert.Equal(t, models.CustomerStatusActive, active.Status)

	active.Name = "Ada Lovelace"
	updated, err := s.Update(ctx, active)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", updated.Name)

	page, err := s.List(ctx, listquery.New(&CustomerList).SetFilter("company", company).SetFilter("status", "ACTIVE").Query())
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, c.ID, page.Items[0].ID)

	_, err = s.SetStatus(ctx, uuid.New(), models.CustomerStatusChurned)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.SetStatus(ctx, c.ID, "VIP")
	assert.Error(t, err)

	n, err := s.BatchDelete(ctx, []uuid.UUID{c.ID, uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.ErrorIs(t, s.Delete(ctx, c.ID), ErrNotFound)
}
