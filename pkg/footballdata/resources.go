package footballdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// MatchQuery filters a match listing.
type MatchQuery struct {
	// Status is a provider status or LIVE.
	Status string

	// DateFrom and DateTo are inclusive YYYY-MM-DD bounds.
	DateFrom string
	DateTo   string

	// Limit caps the number of matches the provider returns. 0 means no cap.
	Limit int
}

// Encode renders the query string, empty when no filter is set.
func (q MatchQuery) Encode() string {
	values := url.Values{}
	if q.Status != "" {
		values.Set("status", q.Status)
	}
	if q.DateFrom != "" {
		values.Set("dateFrom", q.DateFrom)
	}
	if q.DateTo != "" {
		values.Set("dateTo", q.DateTo)
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}

// Standing is one standings table (TOTAL, HOME or AWAY).
type Standing struct {
	Stage string          `json:"stage"`
	Type  string          `json:"type"`
	Group string          `json:"group,omitempty"`
	Table json.RawMessage `json:"table"`
}

// StandingsRow is one team's line in a table.
type StandingsRow struct {
	Position       int     `json:"position"`
	Team           TeamRef `json:"team"`
	PlayedGames    int     `json:"playedGames"`
	Form           *string `json:"form"`
	Won            int     `json:"won"`
	Draw           int     `json:"draw"`
	Lost           int     `json:"lost"`
	Points         int     `json:"points"`
	GoalsFor       int     `json:"goalsFor"`
	GoalsAgainst   int     `json:"goalsAgainst"`
	GoalDifference int     `json:"goalDifference"`
}

// SelectTable returns the TOTAL table's rows, falling back to the first
// standings entry, or an empty JSON array.
func SelectTable(standings []Standing) json.RawMessage {
	var chosen *Standing
	for i := range standings {
		if standings[i].Type == "TOTAL" {
			chosen = &standings[i]
			break
		}
	}
	if chosen == nil && len(standings) > 0 {
		chosen = &standings[0]
	}
	if chosen == nil || !isJSONArray(chosen.Table) {
		return json.RawMessage(`[]`)
	}
	return chosen.Table
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return strings.HasPrefix(trimmed, "[")
}

type matchesResponse struct {
	Matches []Match `json:"matches"`
}

type standingsResponse struct {
	Standings []Standing `json:"standings"`
}

type teamsResponse struct {
	Teams []TeamRef `json:"teams"`
}

// TeamMatches lists a team's matches.
func (c *Client) TeamMatches(ctx context.Context, teamID int64, q MatchQuery) ([]Match, error) {
	return c.matches(ctx, fmt.Sprintf("/teams/%d/matches%s", teamID, q.Encode()))
}

// CompetitionMatches lists a competition's matches.
func (c *Client) CompetitionMatches(ctx context.Context, code string, q MatchQuery) ([]Match, error) {
	return c.matches(ctx, fmt.Sprintf("/competitions/%s/matches%s", url.PathEscape(code), q.Encode()))
}

func (c *Client) matches(ctx context.Context, endpoint string) ([]Match, error) {
	body, err := c.Fetch(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var resp matchesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode %s: %w", endpointLabel(endpoint), err)
	}
	if resp.Matches == nil {
		resp.Matches = []Match{}
	}
	return resp.Matches, nil
}

// Standings returns a competition's standings tables.
func (c *Client) Standings(ctx context.Context, code string) ([]Standing, error) {
	endpoint := fmt.Sprintf("/competitions/%s/standings", url.PathEscape(code))
	body, err := c.Fetch(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var resp standingsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode standings: %w", err)
	}
	return resp.Standings, nil
}

// Team returns the provider's team object verbatim.
func (c *Client) Team(ctx context.Context, teamID int64) (json.RawMessage, error) {
	body, err := c.Fetch(ctx, fmt.Sprintf("/teams/%d", teamID))
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("decode team: invalid JSON")
	}
	return body, nil
}

// CompetitionTeams lists the teams entered in a competition.
func (c *Client) CompetitionTeams(ctx context.Context, code string) ([]TeamRef, error) {
	body, err := c.Fetch(ctx, fmt.Sprintf("/competitions/%s/teams", url.PathEscape(code)))
	if err != nil {
		return nil, err
	}

	var resp teamsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode teams: %w", err)
	}
	return resp.Teams, nil
}

// FindTeam returns the first team whose name contains needle, ignoring case.
func FindTeam(teams []TeamRef, needle string) (TeamRef, bool) {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return TeamRef{}, false
	}
	for _, team := range teams {
		if team.ID != 0 && strings.Contains(strings.ToLower(team.Name), needle) {
			return team, true
		}
	}
	return TeamRef{}, false
}
