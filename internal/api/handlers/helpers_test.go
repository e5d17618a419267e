package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"runmap-service/internal/domain"
	"testing"
)

func TestWriteRunErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"routing", fmt.Errorf("add point: %w", domain.ErrRoutingLookupFailed), http.StatusBadGateway},
		{"malformed", fmt.Errorf("load: %w", domain.ErrMalformedRunDocument), http.StatusBadRequest},
		{"road following off", domain.ErrRoadFollowingUnavailable, http.StatusBadRequest},
		{"busy", domain.ErrAppendInProgress, http.StatusConflict},
		{"discontinuous", &domain.DiscontinuousPathError{}, http.StatusConflict},
		{"client gone", fmt.Errorf("add point: %w", context.Canceled), statusClientClosedRequest},
		{"deadline", fmt.Errorf("replay segment 2: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/run/points", nil)

			writeRunError(rec, req, "test", tt.err)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
