// internal/app/system/apierr/apierr.go

// Package apierr carries the app tier's failure taxonomy and renders the
// JSON envelopes clients expect.
//
// Kinds and how they surface:
//   - Unauthenticated → 401 {"error":"Not authorized"} (never more detail)
//   - BadRequest      → 400 {"success":false,"message":…}
//   - Forbidden       → 400 {"success":false,"message":…} (400, not 403 —
//     clients treat guard failures as bad requests)
//   - NotFound        → 400 {"success":false,"message":…}
//   - Upstream        → 500 {"success":false,"error":…} with the data
//     service's own error text passed through when it sent one
package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// Kind classifies a failure for status mapping at the gateway surface.
type Kind int

const (
	Unauthenticated Kind = iota
	BadRequest
	Forbidden
	NotFound
	Upstream
)

// Error is a classified failure. Message is client-facing; Err, when set,
// is the wrapped cause (kept for logs, never rendered except for Upstream).
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "request failed"
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a classified error with a client-facing message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// FromUpstream wraps a data service failure. The message, when present, is
// the downstream error text and is passed through to the client verbatim.
func FromUpstream(err error, message string) *Error {
	if message == "" {
		message = "data service error"
	}
	return &Error{Kind: Upstream, Message: message, Err: err}
}

// KindOf extracts the kind from err. Unclassified errors count as Upstream.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Upstream
}

// Success writes the 200 {"success":true,"message":payload} envelope.
func Success(w http.ResponseWriter, payload any) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": payload,
	})
}

// Render maps err to its response per the taxonomy above. Upstream failures
// are logged; the rest are client mistakes and stay quiet.
func Render(w http.ResponseWriter, log *zap.Logger, err error) {
	var ae *Error
	if !errors.As(err, &ae) {
		ae = FromUpstream(err, "")
	}

	switch ae.Kind {
	case Unauthenticated:
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"error": "Not authorized",
		})
	case BadRequest, Forbidden, NotFound:
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": ae.Message,
		})
	default:
		if log != nil {
			log.Error("data service call failed", zap.Error(ae))
		}
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   ae.Message,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
