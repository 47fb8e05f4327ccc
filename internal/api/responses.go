// Package api holds the JSON envelopes shared by every HTTP handler.
package api

import "storefront_backend/internal/shared/apperr"

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// MessageResponse is a success body that carries only a human readable message.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// NewErrorResponse builds an ErrorResponse from err. Errors without a domain
// code are replaced by a generic message so internal details never leak.
func NewErrorResponse(err error) ErrorResponse {
	if !apperr.IsDomain(err) {
		return ErrorResponse{Error: "internal server error", Code: apperr.CodeInternal}
	}
	return ErrorResponse{Error: err.Error(), Code: apperr.CodeOf(err)}
}

// MissingField is returned when a request body fails binding or required-field validation.
func MissingField(detail string) ErrorResponse {
	msg := "missing required fields"
	if detail != "" {
		msg = msg + ": " + detail
	}
	return ErrorResponse{Error: msg, Code: "MissingField"}
}
