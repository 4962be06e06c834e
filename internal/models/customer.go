// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// CustomerStatus tracks where a customer is in the sales lifecycle.
type CustomerStatus string

const (
	CustomerStatusLead     CustomerStatus = "LEAD"
	CustomerStatusActive   CustomerStatus = "ACTIVE"
	CustomerStatusInactive CustomerStatus = "INACTIVE"
	CustomerStatusChurned  CustomerStatus = "CHURNED"
)

// CustomerStatuses lists every customer status in display order.
var CustomerStatuses = []CustomerStatus{
	CustomerStatusLead, CustomerStatusActive, CustomerStatusInactive, CustomerStatusChurned,
}

// Valid reports whether s is a known customer status.
func (s CustomerStatus) Valid() bool {
	for _, v := range CustomerStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Customer is a contact managed from the admin dashboard.
type Customer struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Company   *string        `json:"company,omitempty"`
	Phone     *string        `json:"phone,omitempty"`
	Status    CustomerStatus `json:"status"`
	Notes     *string        `json:"notes,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
