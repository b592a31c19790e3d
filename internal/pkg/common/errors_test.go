package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", NewValidationError("bad"), http.StatusBadRequest, ErrCodeInvalidRequest},
		{"wrapped validation", fmt.Errorf("ctx: %w", NewValidationError("bad")), http.StatusBadRequest, ErrCodeInvalidRequest},
		{"custom", ErrProfileMissing, http.StatusNotFound, "PROFILE_NOT_FOUND"},
		{"wrapped custom", ErrAIServiceError.Wrap(errors.New("quota")), http.StatusServiceUnavailable, "AI_SERVICE_ERROR"},
		{"plain", errors.New("boom"), http.StatusInternalServerError, ErrCodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := HTTPStatus(tt.err)
			if status != tt.status || code != tt.code {
				t.Errorf("HTTPStatus = %d %q, want %d %q", status, code, tt.status, tt.code)
			}
		})
	}
}

func TestCustomErrorIsMatchesCode(t *testing.T) {
	wrapped := ErrAIServiceError.Wrap(errors.New("quota"))
	if !errors.Is(wrapped, ErrAIServiceError) {
		t.Error("wrapped error should match its template")
	}
	if errors.Is(wrapped, ErrNotFound) {
		t.Error("wrapped error should not match a different code")
	}
}

func TestNewErrorResponse(t *testing.T) {
	status, resp := NewErrorResponse(NewValidationError("ratios must sum to 1.0"), false)
	if status != http.StatusBadRequest || resp.Message != "ratios must sum to 1.0" || resp.Details != "" {
		t.Errorf("validation = %d %+v", status, resp)
	}

	status, resp = NewErrorResponse(errors.New("disk full"), false)
	if status != http.StatusInternalServerError || resp.Message != ErrInternalError.Message || resp.Details != "" {
		t.Errorf("internal = %d %+v", status, resp)
	}

	_, resp = NewErrorResponse(ErrAIServiceError.Wrap(errors.New("quota")), true)
	if resp.Message != ErrAIServiceError.Message || resp.Details == "" {
		t.Errorf("debug details missing: %+v", resp)
	}
}

func TestMarshalOrderedKeepsOrder(t *testing.T) {
	b, err := MarshalOrdered([]OrderedField{{Key: "lunes", Value: 1}, {Key: "domingo", Value: "x"}, {Key: "martes", Value: nil}})
	if err != nil {
		t.Fatal(err)
	}
	if got := string(b); got != `{"lunes":1,"domingo":"x","martes":null}` {
		t.Errorf("MarshalOrdered = %s", got)
	}
	if Round2(2.345678) != 2.35 {
		t.Errorf("Round2(2.345678) = %v", Round2(2.345678))
	}
}
