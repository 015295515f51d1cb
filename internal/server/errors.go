// Package server provides the SmartHire HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/jonathan/smarthire/internal/agents"
	"github.com/jonathan/smarthire/internal/recruiting"
)

// ErrBadRequest marks request bodies and parameters that could not be decoded.
type ErrBadRequest struct {
	Message string
}

func (e *ErrBadRequest) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		badRequest *ErrBadRequest
		apiErr     *agents.APICallError
		parseErr   *agents.ParseError
		validErr   *agents.ValidationError
	)
	switch {
	case errors.As(err, &badRequest), errors.Is(err, recruiting.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, recruiting.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, recruiting.ErrInFlight),
		errors.Is(err, recruiting.ErrNotScreened),
		errors.Is(err, recruiting.ErrNoNextStage):
		return http.StatusConflict
	case errors.Is(err, agents.ErrMissingAPIKey):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &apiErr), errors.As(err, &parseErr), errors.As(err, &validErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
