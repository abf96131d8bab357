package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/nufcvault/vault/pkg/footballdata"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "rate limit",
			err:         &footballdata.UpstreamError{StatusCode: 429, Class: footballdata.ErrorClassRateLimit, Message: "Rate limited by football-data.org (429). x"},
			wantStatus:  http.StatusTooManyRequests,
			wantMessage: RateLimitMessage,
		},
		{
			name:        "wrapped rate limit",
			err:         fmt.Errorf("load: %w", &footballdata.UpstreamError{StatusCode: 429}),
			wantStatus:  http.StatusTooManyRequests,
			wantMessage: RateLimitMessage,
		},
		{
			name:        "missing token",
			err:         &footballdata.UpstreamError{StatusCode: 401, Class: footballdata.ErrorClassAuth, Message: "Missing FOOTBALL_DATA_TOKEN", Err: footballdata.ErrMissingToken},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Missing FOOTBALL_DATA_TOKEN",
		},
		{
			name:        "provider rejects configured token",
			err:         &footballdata.UpstreamError{StatusCode: 401, Class: footballdata.ErrorClassAuth, Message: "football-data error 401: bad token"},
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "football-data error 401: bad token",
		},
		{
			name:        "timeout",
			err:         &footballdata.UpstreamError{StatusCode: 504, Class: footballdata.ErrorClassTimeout, Message: "slow"},
			wantStatus:  http.StatusGatewayTimeout,
			wantMessage: "slow",
		},
		{
			name:        "network",
			err:         &footballdata.UpstreamError{StatusCode: 502, Class: footballdata.ErrorClassNetwork, Message: "unreachable"},
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "unreachable",
		},
		{
			name:        "team not found",
			err:         &errTeamNotFound{name: "newcastle"},
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Could not find newcastle team id",
		},
		{
			name:        "plain error",
			err:         errors.New("decode cached matches: boom"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "decode cached matches: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := statusFor(tt.err)
			if status != tt.wantStatus || message != tt.wantMessage {
				t.Errorf("statusFor() = %d %q, want %d %q", status, message, tt.wantStatus, tt.wantMessage)
			}
		})
	}
}
