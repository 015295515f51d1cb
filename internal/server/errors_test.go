package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jonathan/smarthire/internal/agents"
	"github.com/jonathan/smarthire/internal/recruiting"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"bad request", &ErrBadRequest{Message: "bad json"}, http.StatusBadRequest},
		{"invalid input", fmt.Errorf("%w: title is required", recruiting.ErrInvalidInput), http.StatusBadRequest},
		{"not found", fmt.Errorf("%w: job j1", recruiting.ErrNotFound), http.StatusNotFound},
		{"in flight", fmt.Errorf("%w: offer", recruiting.ErrInFlight), http.StatusConflict},
		{"not screened", recruiting.ErrNotScreened, http.StatusConflict},
		{"no next stage", recruiting.ErrNoNextStage, http.StatusConflict},
		{"missing api key", agents.ErrMissingAPIKey, http.StatusServiceUnavailable},
		{"timeout", &agents.APICallError{Agent: "offer", Message: "failed", Cause: context.DeadlineExceeded}, http.StatusGatewayTimeout},
		{"api error", &agents.APICallError{Agent: "offer", Message: "failed", Cause: errors.New("quota")}, http.StatusBadGateway},
		{"parse error", &agents.ParseError{Agent: "screening", Message: "not JSON"}, http.StatusBadGateway},
		{"validation error", &agents.ValidationError{Agent: "screening", Message: "fit_score missing"}, http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

func TestErrBadRequest(t *testing.T) {
	err := &ErrBadRequest{Message: "Invalid request body: EOF"}
	assert.Equal(t, "Invalid request body: EOF", err.Error())
}
