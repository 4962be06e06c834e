// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"pressdesk/internal/middleware"
	"pressdesk/internal/models"
)

// userInput is the body of user create and update requests. Password is
// required on create; on update an empty password keeps the current one.
type userInput struct {
	Email       string      `json:"email"`
	DisplayName string      `json:"display_name"`
	Role        models.Role `json:"role"`
	Active      *bool       `json:"active"`
	Password    string      `json:"password"`
}

// UsersList serves the users table. Admin only.
func (a *Admin) UsersList(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, "list users", &a.schemas.users, a.stores.Users.List)
}

// UserGet returns one user.
func (a *Admin) UserGet(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	u, err := a.stores.Users.FindByID(r.Context(), id)
	if err != nil {
		respondError(w, r, "get user", err)
		return
	}
	if u == nil {
		respondError(w, r, "get user", errNotFound)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// UserCreate adds a user.
func (a *Admin) UserCreate(w http.ResponseWriter, r *http.Request) {
	var in userInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := validateUser(&in, true); err != nil {
		respondError(w, r, "create user", err)
		return
	}

	ctx := r.Context()
	created, err := a.stores.Users.Create(ctx, strings.TrimSpace(in.Email), in.Password, in.DisplayName, in.Role)
	if err != nil {
		a.fail(w, r, "create user", "Create failed", err)
		return
	}
	if in.Active != nil && !*in.Active {
		created.Active = false
		if created, err = a.stores.Users.Update(ctx, created); err != nil {
			a.fail(w, r, "create user", "Create failed", err)
			return
		}
	}

	a.succeed(r, "User created", created.Email)
	writeJSON(w, http.StatusCreated, created)
}

// UserUpdate changes a user's profile, role, active flag and optionally
// password. Admins cannot demote or deactivate themselves.
func (a *Admin) UserUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)

	var in userInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := validateUser(&in, false); err != nil {
		respondError(w, r, "update user", err)
		return
	}

	existing, err := a.stores.Users.FindByID(ctx, id)
	if err != nil {
		respondError(w, r, "update user", err)
		return
	}
	if existing == nil {
		respondError(w, r, "update user", errNotFound)
		return
	}

	prevRole, prevActive := existing.Role, existing.Active
	existing.Email = strings.TrimSpace(in.Email)
	existing.DisplayName = in.DisplayName
	existing.Role = in.Role
	if in.Active != nil {
		existing.Active = *in.Active
	}
	if sess != nil && existing.ID == sess.UserID {
		fe := fieldErrors{}
		if existing.Role != sess.Role {
			fe.add("role", "you cannot change your own role")
		}
		if !existing.Active {
			fe.add("active", "you cannot deactivate your own account")
		}
		if err := fe.err(); err != nil {
			respondError(w, r, "update user", err)
			return
		}
	}

	updated, err := a.stores.Users.UpdateWithPassword(ctx, existing, in.Password)
	if err != nil {
		a.fail(w, r, "update user", "Update failed", err)
		return
	}
	// Sessions carry the role, so a changed role or revoked access
	// takes effect immediately.
	if updated.Role != prevRole || updated.Active != prevActive {
		a.revokeSessions(r, updated.ID)
	}

	a.succeed(r, "User updated", updated.Email)
	writeJSON(w, http.StatusOK, updated)
}

// UserDelete removes a user. Deleting yourself, or a user who still
// authors posts, is refused with 409.
func (a *Admin) UserDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	sess := middleware.SessionFromCtx(r.Context())
	if err := a.stores.Users.Delete(r.Context(), id, sess.UserID); err != nil {
		a.fail(w, r, "delete user", "Delete failed", err)
		return
	}
	a.revokeSessions(r, id)

	a.succeed(r, "User deleted", "")
	w.WriteHeader(http.StatusNoContent)
}

// UsersBatchDelete removes the selected users.
func (a *Admin) UsersBatchDelete(w http.ResponseWriter, r *http.Request) {
	ids, ok := decodeIDs(w, r)
	if !ok {
		return
	}
	sess := middleware.SessionFromCtx(r.Context())
	n, err := a.stores.Users.BatchDelete(r.Context(), ids, sess.UserID)
	if err != nil {
		a.fail(w, r, "batch delete users", "Delete failed", err)
		return
	}
	a.revokeSessions(r, ids...)

	a.succeed(r, "Users deleted", fmt.Sprintf("%d deleted", n))
	writeJSON(w, http.StatusOK, countResponse{Count: n})
}
