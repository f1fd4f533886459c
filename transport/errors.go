package transport

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// CodeUnknown is used when the server did not supply an error code.
const CodeUnknown = "UNKNOWN_ERROR"

// CodeNetwork marks failures that never produced an HTTP response.
const CodeNetwork = "NETWORK_ERROR"

// APIError is the normalized shape of every terminal request failure:
// transport-level, HTTP-level and business-logic errors all end up here.
type APIError struct {
	// Status is the HTTP status code, 0 for network failures.
	Status int
	// Code is the server-supplied error code when parseable.
	Code string
	// Message is the server-supplied or fallback human-readable message.
	Message string
	// Details carries the raw error details payload when present.
	Details string

	cause error
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error { return e.cause }

// AsAPIError unwraps err into an *APIError when possible.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// statusMessages maps status codes to fallback messages used when the
// response body carries no parseable error payload.
var statusMessages = map[int]string{
	http.StatusBadRequest:          "request parameter error",
	http.StatusUnauthorized:        "unauthorized, please sign in again",
	http.StatusForbidden:           "access forbidden",
	http.StatusNotFound:            "resource not found",
	http.StatusConflict:            "resource conflict",
	http.StatusUnprocessableEntity: "validation failed",
	http.StatusTooManyRequests:     "too many requests, slow down",
	http.StatusInternalServerError: "server internal error",
	http.StatusBadGateway:          "bad gateway",
	http.StatusServiceUnavailable:  "service unavailable",
	http.StatusGatewayTimeout:      "gateway timeout",
}

func statusMessage(status int) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	return fmt.Sprintf("request failed with status %d", status)
}

// parseAPIError builds an APIError from a response body. It tolerates both
// the platform envelope ({error: {code, message, details}}) and bare error
// payloads ({message: ...} or {detail: ...}).
func parseAPIError(body []byte, status int) *APIError {
	apiErr := &APIError{
		Status:  status,
		Code:    CodeUnknown,
		Message: statusMessage(status),
	}
	if len(body) == 0 {
		return apiErr
	}

	if code := gjson.GetBytes(body, "error.code"); code.Exists() {
		apiErr.Code = code.String()
	}
	if details := gjson.GetBytes(body, "error.details"); details.Exists() {
		apiErr.Details = details.Raw
	}

	for _, path := range []string{"error.message", "message", "detail"} {
		if msg := gjson.GetBytes(body, path); msg.Exists() && msg.String() != "" {
			apiErr.Message = msg.String()
			return apiErr
		}
	}
	return apiErr
}

func networkError(err error) *APIError {
	return &APIError{
		Code:    CodeNetwork,
		Message: "network error, please check your connection",
		cause:   err,
	}
}
