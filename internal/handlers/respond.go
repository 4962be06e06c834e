// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"pressdesk/internal/listquery"
	"pressdesk/internal/store"
	"pressdesk/internal/tree"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// errorPayload is the body of every error response.
type errorPayload struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// fieldErrors maps input fields to validation messages.
type fieldErrors map[string]string

func (fe fieldErrors) Error() string {
	return listquery.FieldErrors(fe).Error()
}

// add records msg for field unless the field already has a message.
func (fe fieldErrors) add(field, msg string) {
	if _, ok := fe[field]; !ok {
		fe[field] = msg
	}
}

// err returns fe as an error, or nil when it is empty.
func (fe fieldErrors) err() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}

var (
	// errForbidden is returned by permission checks inside handlers.
	errForbidden = errors.New("you do not have permission to perform this action")

	errNotFound = store.ErrNotFound
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Debug("write json failed", "error", err)
	}
}

// writeError writes {"error":{"message":...,"fields":...}}.
func writeError(w http.ResponseWriter, status int, message string, fields map[string]string) {
	writeJSON(w, status, errorPayload{Error: errorDetail{Message: message, Fields: fields}})
}

// classify maps an error to its HTTP status and a message safe to show
// the user. Status 500 means the error was not expected.
func classify(err error) (int, string, map[string]string) {
	var fe fieldErrors
	var qe listquery.FieldErrors
	switch {
	case errors.As(err, &fe):
		return http.StatusUnprocessableEntity, "Please correct the highlighted fields.", fe
	case errors.As(err, &qe):
		return http.StatusUnprocessableEntity, "Invalid list parameters.", qe
	case errors.Is(err, store.ErrNotFound), errors.Is(err, tree.ErrUnknown):
		return http.StatusNotFound, "The requested record was not found.", nil
	case errors.Is(err, store.ErrSlugTaken):
		return http.StatusConflict, "That slug is already in use.", map[string]string{"slug": "is already in use"}
	case errors.Is(err, store.ErrEmailTaken):
		return http.StatusConflict, "That email is already in use.", map[string]string{"email": "is already in use"}
	case errors.Is(err, store.ErrInvalidReference):
		return http.StatusUnprocessableEntity, "A referenced record does not exist.", nil
	case errors.Is(err, store.ErrCategoryCycle):
		return http.StatusConflict, "A category cannot be moved under itself or one of its descendants.",
			map[string]string{"parent_id": "would create a cycle"}
	case errors.Is(err, store.ErrCategoryHasChildren):
		return http.StatusConflict, "Delete or move the child categories first.", nil
	case errors.Is(err, store.ErrInUse):
		return http.StatusConflict, "The record is still in use and cannot be deleted.", nil
	case errors.Is(err, store.ErrSelfDelete):
		return http.StatusConflict, "You cannot delete your own account.", nil
	case errors.Is(err, errForbidden):
		return http.StatusForbidden, "You do not have permission to perform this action.", nil
	}
	return http.StatusInternalServerError, "Something went wrong. Please try again.", nil
}

// userMessage is the message classify would show for err.
func userMessage(err error) string {
	_, msg, _ := classify(err)
	return msg
}

// respondError writes the mapped error response. Unexpected errors are
// logged with action; the client only sees a generic message.
func respondError(w http.ResponseWriter, r *http.Request, action string, err error) {
	status, msg, fields := classify(err)
	if status == http.StatusInternalServerError {
		slog.Error(action+" failed", "error", err, "method", r.Method, "path", r.URL.Path)
	}
	writeError(w, status, msg, fields)
}

// decodeJSON reads a single JSON object into dst. Unknown fields are
// rejected so typos surface as errors instead of silently doing nothing.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, decodeMessage(err), nil)
		return false
	}
	if dec.Decode(&struct{}{}) != io.EOF {
		writeError(w, http.StatusBadRequest, "Request body must contain a single JSON object.", nil)
		return false
	}
	return true
}

func decodeMessage(err error) string {
	var syntax *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var tooBig *http.MaxBytesError
	switch {
	case errors.Is(err, io.EOF):
		return "Request body is empty."
	case errors.As(err, &syntax):
		return fmt.Sprintf("Malformed JSON at position %d.", syntax.Offset)
	case errors.As(err, &typeErr):
		return fmt.Sprintf("Field %q has the wrong type.", typeErr.Field)
	case errors.As(err, &tooBig):
		return "Request body is too large."
	}
	return "Invalid request body: " + err.Error()
}

// urlID parses the {id} route parameter, answering 400 when malformed.
func urlID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ID.", nil)
		return uuid.Nil, false
	}
	return id, true
}

// idsRequest is the body of every batch endpoint.
type idsRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

// maxBatch caps the number of ids a batch request may carry.
const maxBatch = 500

func decodeIDs(w http.ResponseWriter, r *http.Request) ([]uuid.UUID, bool) {
	var req idsRequest
	if !decodeJSON(w, r, &req) {
		return nil, false
	}
	if len(req.IDs) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "Select at least one row.", map[string]string{"ids": "required"})
		return nil, false
	}
	if len(req.IDs) > maxBatch {
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Select at most %d rows.", maxBatch),
			map[string]string{"ids": "too many"})
		return nil, false
	}
	return req.IDs, true
}

// countResponse answers batch operations.
type countResponse struct {
	Count int `json:"count"`
}
