// Package webutil holds the HTTP response helpers shared by every feature's handlers:
// the `{message, data}` envelope, JSON encoding, and translation of service errors
// into status codes.
package webutil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/user/taskmanager-go/apperror"
)

const (
	HeaderContentType = "Content-Type"
	ContentTypeJSON   = "application/json"
)

// genericInternalMessage replaces InternalError messages when masking is enabled.
const genericInternalMessage = "Internal server error."

// Envelope is the response body used by almost every endpoint.
// Data is `null` on errors and on empty result sets.
type Envelope struct {
	Message string `json:"message" example:"Tasks fetched successfully."`
	Data    any    `json:"data"`
}

// TokenEnvelope is the sign-in response, which carries the token at the top level
// instead of inside `data`. Existing clients depend on that shape.
type TokenEnvelope struct {
	Message string `json:"message" example:"User signed in successfully."`
	Token   string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// Responder writes JSON responses and error envelopes.
// With MaskInternal set, 5xx messages are replaced by a generic one so store
// failures don't leak to clients.
type Responder struct {
	Logger       *slog.Logger
	MaskInternal bool
}

// NewResponder creates a Responder. A nil logger falls back to slog.Default().
func NewResponder(logger *slog.Logger, maskInternal bool) *Responder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Responder{Logger: logger, MaskInternal: maskInternal}
}

// JSON serializes payload with the given status.
func (rs *Responder) JSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		rs.Logger.Error("failed to marshal JSON response", "error", err)
		w.Header().Set(HeaderContentType, ContentTypeJSON)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"Internal server error.","data":null}`))
		return
	}

	w.Header().Set(HeaderContentType, ContentTypeJSON)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// Message writes an Envelope.
func (rs *Responder) Message(w http.ResponseWriter, status int, message string, data any) {
	rs.JSON(w, status, Envelope{Message: message, Data: data})
}

// Error converts err into an AppError, logs it and writes the error envelope.
// Client errors are logged as warnings, server errors as errors.
func (rs *Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperror.FromError(err)

	level := slog.LevelWarn
	if appErr.IsServerError() {
		level = slog.LevelError
	}
	attrs := []any{
		"status", appErr.StatusCode(),
		"message", appErr.Message,
		"path", r.URL.Path,
		"method", r.Method,
	}
	if cause := appErr.Unwrap(); cause != nil {
		attrs = append(attrs, "cause", cause)
	}
	rs.Logger.Log(r.Context(), level, "request failed", attrs...)

	resp := appErr.ToResponse()
	if rs.MaskInternal && appErr.IsServerError() {
		resp.Message = genericInternalMessage
	}
	rs.JSON(w, appErr.StatusCode(), resp)
}
