package api

import (
	"errors"
	"net/http"

	service "github.com/okian/wapoints/internal/app"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrBodyTooLarge = errors.New("request body too large")
)

// API-only error codes.
const (
	codeBadRequest   = "bad_request"
	codeBodyTooLarge = "body_too_large"
)

// statusFor maps an error to its HTTP status and client-facing code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge, codeBodyTooLarge
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, codeBadRequest
	}

	code := service.ErrorCode(err)
	switch code {
	case service.CodeUnknownEvent, service.CodeUnknownCategory:
		return http.StatusNotFound, code
	case service.CodeNotStarted:
		return http.StatusServiceUnavailable, code
	case service.CodeInternal:
		return http.StatusInternalServerError, code
	default:
		return http.StatusBadRequest, code
	}
}
