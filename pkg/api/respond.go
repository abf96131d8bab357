package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/nufcvault/vault/pkg/footballdata"
)

// RateLimitMessage is shown to callers whenever the provider is rate limiting.
const RateLimitMessage = "Rate limit hit. Please wait ~30 seconds and refresh."

// Envelope is the JSON body of every failed API call.
type Envelope struct {
	Error   bool   `json:"error"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// errTeamNotFound is returned when the configured team name matches no team.
type errTeamNotFound struct {
	name string
}

func (e *errTeamNotFound) Error() string {
	return fmt.Sprintf("Could not find %s team id", e.name)
}

// statusFor maps a load failure to the HTTP status and message returned.
// Only a missing local token is a 401; provider auth failures are a 500.
func statusFor(err error) (int, string) {
	if upstreamErr, ok := footballdata.AsUpstreamError(err); ok {
		switch {
		case upstreamErr.IsRateLimited():
			return http.StatusTooManyRequests, RateLimitMessage
		case errors.Is(upstreamErr, footballdata.ErrMissingToken):
			return http.StatusUnauthorized, upstreamErr.Message
		case upstreamErr.Class == footballdata.ErrorClassTimeout:
			return http.StatusGatewayTimeout, upstreamErr.Message
		default:
			return http.StatusInternalServerError, upstreamErr.Message
		}
	}

	var notFound *errTeamNotFound
	if errors.As(err, &notFound) {
		return http.StatusInternalServerError, notFound.Error()
	}

	if err.Error() == "" {
		return http.StatusInternalServerError, "Unknown server error"
	}
	return http.StatusInternalServerError, err.Error()
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	w.Write(body)
}

func writeEnvelope(w http.ResponseWriter, status int, message string) {
	body, _ := json.Marshal(Envelope{Error: true, Status: status, Message: message})
	writeJSON(w, status, body)
}

// writeError logs err and writes its envelope.
func (s *Server) writeError(w http.ResponseWriter, route string, err error) {
	status, message := statusFor(err)

	event := s.logger.Error()
	if status == http.StatusTooManyRequests {
		event = s.logger.Warn()
	}
	event.Err(err).Str("route", route).Int("status", status).Msg("Route failed")

	routeRequestsTotal.WithLabelValues(route, fmt.Sprint(status)).Inc()
	writeEnvelope(w, status, message)
}

func (s *Server) writeOK(w http.ResponseWriter, route string, body []byte) {
	routeRequestsTotal.WithLabelValues(route, "200").Inc()
	writeJSON(w, http.StatusOK, body)
}
