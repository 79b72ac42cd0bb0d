// AngelaMos | 2026
// response.go

package core

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Envelope is the body of every response. Status duplicates the HTTP code.
type Envelope struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   any    `json:"error,omitempty"`
	Status  int    `json:"status"`
}

func JSON(w http.ResponseWriter, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(env.Status)

	//nolint:errcheck // best-effort response write
	_ = json.NewEncoder(w).Encode(env)
}

func OK(w http.ResponseWriter, message string, data any) {
	JSON(w, Envelope{Message: message, Data: data, Status: http.StatusOK})
}

func Created(w http.ResponseWriter, message string, data any) {
	JSON(w, Envelope{Message: message, Data: data, Status: http.StatusCreated})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func JSONError(w http.ResponseWriter, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		InternalServerError(w, err)
		return
	}

	var detail any = appErr.Message
	if appErr.Details != nil {
		detail = appErr.Details
	}

	JSON(w, Envelope{
		Message: appErr.Message,
		Error:   detail,
		Status:  appErr.StatusCode,
	})
}

func BadRequest(w http.ResponseWriter, message string) {
	JSONError(w, BadRequestError(message))
}

func ValidationFailed(w http.ResponseWriter, fields FieldErrors) {
	JSONError(w, ValidationError(fields))
}

func Unauthorized(w http.ResponseWriter, message string) {
	JSONError(w, UnauthorizedError(message))
}

func Forbidden(w http.ResponseWriter, message string) {
	JSONError(w, ForbiddenError(message))
}

func NotFound(w http.ResponseWriter, resource string) {
	JSONError(w, NotFoundError(resource))
}

func InternalServerError(w http.ResponseWriter, err error) {
	slog.Error("internal server error", "error", err)

	JSON(w, Envelope{
		Message: "Internal server error",
		Error:   "Internal server error",
		Status:  http.StatusInternalServerError,
	})
}
