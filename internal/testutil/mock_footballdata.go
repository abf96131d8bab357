// Package testutil provides testing utilities for the vault packages.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"time"
)

// NewcastleID is the provider's id for Newcastle United.
const NewcastleID = 67

// MockResponse defines the behavior for a mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockFootballData is a configurable mock football-data.org server.
type MockFootballData struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	RequestCount      int
	PathCounts        map[string]int
	LastQuery         map[string]url.Values
	LastRequestHeader http.Header
}

// NewMockFootballData creates a new mock football-data.org server.
func NewMockFootballData() *MockFootballData {
	mock := &MockFootballData{
		handlers:   make(map[string]func(w http.ResponseWriter, r *http.Request)),
		PathCounts: make(map[string]int),
		LastQuery:  make(map[string]url.Values),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.PathCounts[r.URL.Path]++
		mock.LastQuery[r.URL.Path] = r.URL.Query()
		mock.LastRequestHeader = r.Header.Clone()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockFootballData) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockFootballData) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockFootballData) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.PathCounts = make(map[string]int)
	m.LastQuery = make(map[string]url.Values)
	m.LastRequestHeader = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockFootballData) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockFootballData) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			select {
			case <-time.After(resp.Delay):
			case <-r.Context().Done():
				return
			}
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetJSON configures a 200 response with v encoded as JSON.
func (m *MockFootballData) SetJSON(path string, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("testutil: marshal mock body: %v", err))
	}
	m.SetResponse(path, NewHealthyResponse(string(body)))
}

// SetTeamMatches configures /teams/{id}/matches.
func (m *MockFootballData) SetTeamMatches(teamID int, matches ...map[string]any) {
	m.SetJSON(fmt.Sprintf("/teams/%d/matches", teamID), map[string]any{"matches": nonNil(matches)})
}

// SetCompetitionMatches configures /competitions/{code}/matches.
func (m *MockFootballData) SetCompetitionMatches(code string, matches ...map[string]any) {
	m.SetJSON(fmt.Sprintf("/competitions/%s/matches", code), map[string]any{"matches": nonNil(matches)})
}

func nonNil(matches []map[string]any) []map[string]any {
	if matches == nil {
		return []map[string]any{}
	}
	return matches
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockFootballData) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetPathCount returns the number of requests made to path.
func (m *MockFootballData) GetPathCount(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.PathCounts[path]
}

// GetLastQuery returns the query of the most recent request to path.
func (m *MockFootballData) GetLastQuery(path string) url.Values {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastQuery[path]
}

// GetLastHeader returns the headers of the most recent request.
func (m *MockFootballData) GetLastHeader() http.Header {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastRequestHeader
}

// defaultHandler answers unknown paths like the provider does.
func (m *MockFootballData) defaultHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Requests-Available-Minute", "9")
	w.Header().Set("X-RequestCounter-Reset", "60")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"message": "The resource you are looking for does not exist.", "errorCode": 404}`))
}

// NewHealthyResponse creates a standard 200 OK response with quota headers.
func NewHealthyResponse(data string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       data,
		Headers: map[string]string{
			"X-Requests-Available-Minute": "9",
			"X-RequestCounter-Reset":      "60",
			"Content-Type":                "application/json",
		},
	}
}

// NewRateLimitResponse creates a 429 Too Many Requests response.
func NewRateLimitResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"message": "You reached your request limit. Wait 42 seconds.", "errorCode": 429}`,
		Headers: map[string]string{
			"X-Requests-Available-Minute": "0",
			"X-RequestCounter-Reset":      "42",
			"Content-Type":                "application/json",
		},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"message": "Internal server error"}`,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}
}

// NewForbiddenResponse creates the 403 the provider sends for a bad token.
func NewForbiddenResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusForbidden,
		Body:       `{"message": "The resource you are looking for is restricted.", "errorCode": 403}`,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}
}

// Match builds a provider-shaped match.
func Match(id int, utcDate time.Time, status, home, away string) map[string]any {
	return map[string]any{
		"id":          id,
		"utcDate":     utcDate.UTC().Format(time.RFC3339),
		"status":      status,
		"competition": map[string]any{"id": 2021, "code": "PL", "name": "Premier League"},
		"homeTeam":    map[string]any{"id": teamID(home), "name": home + " FC", "shortName": home},
		"awayTeam":    map[string]any{"id": teamID(away), "name": away + " FC", "shortName": away},
		"score": map[string]any{
			"winner":   nil,
			"fullTime": map[string]any{"home": nil, "away": nil},
			"halfTime": map[string]any{"home": nil, "away": nil},
		},
	}
}

// WithScore sets the full-time score of a match built by Match.
func WithScore(match map[string]any, home, away int) map[string]any {
	match["score"] = map[string]any{
		"fullTime": map[string]any{"home": home, "away": away},
		"halfTime": map[string]any{"home": nil, "away": nil},
	}
	return match
}

func teamID(name string) int {
	if name == "Newcastle" {
		return NewcastleID
	}
	id := 1000
	for _, r := range name {
		id += int(r)
	}
	return id
}

// PremierLeagueTeams is a /competitions/PL/teams body.
const PremierLeagueTeams = `{
  "count": 3,
  "teams": [
    {"id": 57, "name": "Arsenal FC", "shortName": "Arsenal", "tla": "ARS"},
    {"id": 67, "name": "Newcastle United FC", "shortName": "Newcastle", "tla": "NEW"},
    {"id": 73, "name": "Tottenham Hotspur FC", "shortName": "Tottenham", "tla": "TOT"}
  ]
}`

// PremierLeagueStandings is a /competitions/PL/standings body.
const PremierLeagueStandings = `{
  "competition": {"id": 2021, "name": "Premier League", "code": "PL"},
  "standings": [
    {"stage": "REGULAR_SEASON", "type": "HOME", "table": [{"position": 1, "team": {"id": 57, "name": "Arsenal FC"}, "points": 12}]},
    {"stage": "REGULAR_SEASON", "type": "TOTAL", "table": [
      {"position": 1, "team": {"id": 67, "name": "Newcastle United FC", "shortName": "Newcastle"}, "playedGames": 10, "form": "W,W,D,L,W,W", "won": 7, "draw": 2, "lost": 1, "points": 23, "goalsFor": 20, "goalsAgainst": 8, "goalDifference": 12},
      {"position": 2, "team": {"id": 57, "name": "Arsenal FC", "shortName": "Arsenal"}, "playedGames": 10, "form": null, "won": 6, "draw": 3, "lost": 1, "points": 21, "goalsFor": 18, "goalsAgainst": 9, "goalDifference": 9}
    ]},
    {"stage": "REGULAR_SEASON", "type": "AWAY", "table": []}
  ]
}`

// NewcastleTeam is a /teams/67 body.
const NewcastleTeam = `{"id": 67, "name": "Newcastle United FC", "shortName": "Newcastle", "tla": "NEW", "venue": "St. James' Park", "founded": 1892}`
