// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"pressdesk/internal/models"
)

// customerInput is the body of customer create and update requests.
type customerInput struct {
	Name    string                `json:"name"`
	Email   string                `json:"email"`
	Company *string               `json:"company"`
	Phone   *string               `json:"phone"`
	Status  models.CustomerStatus `json:"status"`
	Notes   *string               `json:"notes"`
}

func (in *customerInput) apply(c *models.Customer) {
	c.Name = strings.TrimSpace(in.Name)
	c.Email = strings.TrimSpace(in.Email)
	c.Company = trimmed(in.Company)
	c.Phone = trimmed(in.Phone)
	c.Notes = trimmed(in.Notes)
	if in.Status != "" {
		c.Status = in.Status
	}
}

// CustomersList serves the customers table.
func (a *Admin) CustomersList(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, "list customers", &a.schemas.customers, a.stores.Customers.List)
}

// CustomerGet returns one customer.
func (a *Admin) CustomerGet(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	c, err := a.stores.Customers.FindByID(r.Context(), id)
	if err != nil {
		respondError(w, r, "get customer", err)
		return
	}
	if c == nil {
		respondError(w, r, "get customer", errNotFound)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// CustomerCreate adds a customer. Status defaults to LEAD.
func (a *Admin) CustomerCreate(w http.ResponseWriter, r *http.Request) {
	var in customerInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := validateCustomer(&in); err != nil {
		respondError(w, r, "create customer", err)
		return
	}

	c := &models.Customer{}
	in.apply(c)
	created, err := a.stores.Customers.Create(r.Context(), c)
	if err != nil {
		a.fail(w, r, "create customer", "Create failed", err)
		return
	}

	a.succeed(r, "Customer created", created.Name)
	writeJSON(w, http.StatusCreated, created)
}

// CustomerUpdate replaces a customer's fields. An empty status keeps the
// current one.
func (a *Admin) CustomerUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var in customerInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := validateCustomer(&in); err != nil {
		respondError(w, r, "update customer", err)
		return
	}

	ctx := r.Context()
	existing, err := a.stores.Customers.FindByID(ctx, id)
	if err != nil {
		respondError(w, r, "update customer", err)
		return
	}
	if existing == nil {
		respondError(w, r, "update customer", errNotFound)
		return
	}
	in.apply(existing)

	updated, err := a.stores.Customers.Update(ctx, existing)
	if err != nil {
		a.fail(w, r, "update customer", "Update failed", err)
		return
	}

	a.succeed(r, "Customer updated", updated.Name)
	writeJSON(w, http.StatusOK, updated)
}

// CustomerSetStatus moves a customer to another lifecycle status.
func (a *Admin) CustomerSetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	status := models.CustomerStatus(req.Status)
	if !status.Valid() {
		respondError(w, r, "set customer status", fieldErrors{"status": "is not a known status"})
		return
	}

	updated, err := a.stores.Customers.SetStatus(r.Context(), id, status)
	if err != nil {
		a.fail(w, r, "set customer status", "Status change failed", err)
		return
	}

	a.succeed(r, "Customer status changed", fmt.Sprintf("%s is now %s", updated.Name, updated.Status))
	writeJSON(w, http.StatusOK, updated)
}

// CustomerDelete removes a customer.
func (a *Admin) CustomerDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	if err := a.stores.Customers.Delete(r.Context(), id); err != nil {
		a.fail(w, r, "delete customer", "Delete failed", err)
		return
	}

	a.succeed(r, "Customer deleted", "")
	w.WriteHeader(http.StatusNoContent)
}

// CustomersBatchDelete removes the selected customers.
func (a *Admin) CustomersBatchDelete(w http.ResponseWriter, r *http.Request) {
	ids, ok := decodeIDs(w, r)
	if !ok {
		return
	}
	n, err := a.stores.Customers.BatchDelete(r.Context(), ids)
	if err != nil {
		a.fail(w, r, "batch delete customers", "Delete failed", err)
		return
	}

	a.succeed(r, "Customers deleted", fmt.Sprintf("%d deleted", n))
	writeJSON(w, http.StatusOK, countResponse{Count: n})
}
