package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"pressdesk/internal/middleware"
	"pressdesk/internal/models"
	"pressdesk/internal/session"
	"pressdesk/internal/store"
)

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	sessions  *session.Store
	userStore *store.UserStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, userStore *store.UserStore) *Auth {
	return &Auth{
		sessions:  sessions,
		userStore: userStore,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// meResponse describes the signed-in user and the CSRF token the
// dashboard must echo on mutations.
type meResponse struct {
	User      *models.User `json:"user"`
	CSRFToken string       `json:"csrf_token"`
}

// Login checks credentials and starts a session.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	fe := fieldErrors{}
	required(fe, "email", req.Email)
	required(fe, "password", req.Password)
	if err := fe.err(); err != nil {
		respondError(w, r, "login", err)
		return
	}

	user, err := a.userStore.FindByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		respondError(w, r, "login lookup", err)
		return
	}

	// Unknown email, wrong password and disabled account look the same.
	if user == nil || !a.userStore.CheckPassword(user, req.Password) || !user.Active {
		writeError(w, http.StatusUnauthorized, "Invalid email or password.", nil)
		return
	}

	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
	})
	if err != nil {
		respondError(w, r, "session create", err)
		return
	}

	slog.Info("user signed in", "user_id", user.ID, "role", user.Role)
	writeJSON(w, http.StatusOK, meResponse{User: user, CSRFToken: middleware.GetCSRFToken(r)})
}

// Logout destroys the session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the signed-in user. A session whose user was deleted or
// deactivated is ended.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	user, err := a.userStore.FindByID(r.Context(), sess.UserID)
	if err != nil {
		respondError(w, r, "load current user", err)
		return
	}
	if user == nil || !user.Active {
		if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
			slog.Warn("session destroy failed", "error", err)
		}
		writeError(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	// Keep the session in step with role or profile changes.
	if user.Role != sess.Role || user.DisplayName != sess.DisplayName || user.Email != sess.Email {
		sess.Role, sess.DisplayName, sess.Email = user.Role, user.DisplayName, user.Email
		if err := a.sessions.Update(r.Context(), r, sess); err != nil {
			slog.Warn("session refresh failed", "error", err)
		}
	}

	writeJSON(w, http.StatusOK, meResponse{User: user, CSRFToken: middleware.GetCSRFToken(r)})
}
