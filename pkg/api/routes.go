package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/nufcvault/vault/pkg/cache"
	"github.com/nufcvault/vault/pkg/footballdata"
)

// Limits for the ?limit= parameter.
const (
	DefaultUpcomingLimit = 5
	DefaultRecentLimit   = 2
	MaxLimit             = 50
)

// upcomingWindow is how far ahead the fixture list looks.
const upcomingWindow = 90 * 24 * time.Hour

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	const route = "live"
	teamID, err := s.teamID(r.Context())
	if err != nil {
		s.writeError(w, route, err)
		return
	}

	key := cache.Key{Resource: route, Params: map[string]string{"team": strconv.FormatInt(teamID, 10)}}
	body, err := s.cached(r.Context(), route, key, s.opts.TTLLive, func(ctx context.Context) (any, error) {
		matches, err := s.upstream.TeamMatches(ctx, teamID, footballdata.MatchQuery{Status: footballdata.StatusLive})
		if err != nil {
			return nil, err
		}
		footballdata.SortByKickoff(matches, true)
		return nonNilMatches(matches), nil
	})
	if err != nil {
		s.writeError(w, route, err)
		return
	}
	s.writeOK(w, route, body)
}

func (s *Server) handleCompetitionLive(w http.ResponseWriter, r *http.Request) {
	const route = "pl-live"
	key := cache.Key{Resource: route, Params: map[string]string{"competition": s.opts.Competition}}
	body, err := s.cached(r.Context(), route, key, s.opts.TTLLive, func(ctx context.Context) (any, error) {
		matches, err := s.upstream.CompetitionMatches(ctx, s.opts.Competition, footballdata.MatchQuery{Status: footballdata.StatusLive})
		if err != nil {
			return nil, err
		}
		footballdata.SortByKickoff(matches, true)
		return nonNilMatches(matches), nil
	})
	if err != nil {
		s.writeError(w, route, err)
		return
	}
	s.writeOK(w, route, body)
}

func (s *Server) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	const route = "upcoming"
	matches, err := s.upcomingMatches(r.Context())
	if err != nil {
		s.writeError(w, route, err)
		return
	}
	s.writeMatches(w, route, matches, parseLimit(r.URL.Query().Get("limit"), DefaultUpcomingLimit))
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	const route = "recent"
	teamID, err := s.teamID(r.Context())
	if err != nil {
		s.writeError(w, route, err)
		return
	}

	key := cache.Key{Resource: route, Params: map[string]string{"team": strconv.FormatInt(teamID, 10)}}
	body, err := s.cached(r.Context(), route, key, s.opts.TTLFixtures, func(ctx context.Context) (any, error) {
		matches, err := s.upstream.TeamMatches(ctx, teamID, footballdata.MatchQuery{Status: footballdata.StatusFinished})
		if err != nil {
			return nil, err
		}
		footballdata.SortByKickoff(matches, false)
		return nonNilMatches(matches), nil
	})
	if err != nil {
		s.writeError(w, route, err)
		return
	}

	matches, err := decodeMatches(body)
	if err != nil {
		s.writeError(w, route, err)
		return
	}
	s.writeMatches(w, route, matches, parseLimit(r.URL.Query().Get("limit"), DefaultRecentLimit))
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	const route = "table"
	key := cache.Key{Resource: route, Params: map[string]string{"competition": s.opts.Competition}}
	body, err := s.cached(r.Context(), route, key, s.opts.TTLStandings, func(ctx context.Context) (any, error) {
		standings, err := s.upstream.Standings(ctx, s.opts.Competition)
		if err != nil {
			return nil, err
		}
		return footballdata.SelectTable(standings), nil
	})
	if err != nil {
		s.writeError(w, route, err)
		return
	}
	s.writeOK(w, route, body)
}

func (s *Server) handleTeam(w http.ResponseWriter, r *http.Request) {
	const route = "team"
	teamID, err := s.teamID(r.Context())
	if err != nil {
		s.writeError(w, route, err)
		return
	}

	key := cache.Key{Resource: route, Params: map[string]string{"team": strconv.FormatInt(teamID, 10)}}
	body, err := s.cached(r.Context(), route, key, s.opts.TTLStandings, func(ctx context.Context) (any, error) {
		return s.upstream.Team(ctx, teamID)
	})
	if err != nil {
		s.writeError(w, route, err)
		return
	}
	s.writeOK(w, route, body)
}

// upcomingMatches returns the team's not-yet-played matches, soonest first.
// The full list is cached; callers slice it.
func (s *Server) upcomingMatches(ctx context.Context) ([]footballdata.Match, error) {
	const route = "upcoming"
	teamID, err := s.teamID(ctx)
	if err != nil {
		return nil, err
	}

	key := cache.Key{Resource: route, Params: map[string]string{"team": strconv.FormatInt(teamID, 10)}}
	body, err := s.cached(ctx, route, key, s.opts.TTLFixtures, func(ctx context.Context) (any, error) {
		now := s.now().UTC()
		matches, err := s.upstream.TeamMatches(ctx, teamID, footballdata.MatchQuery{
			DateFrom: now.Format(time.DateOnly),
			DateTo:   now.Add(upcomingWindow).Format(time.DateOnly),
		})
		if err != nil {
			return nil, err
		}

		pending := make([]footballdata.Match, 0, len(matches))
		for _, m := range matches {
			if m.IsPending() {
				pending = append(pending, m)
			}
		}
		footballdata.SortByKickoff(pending, true)
		return pending, nil
	})
	if err != nil {
		return nil, err
	}
	return decodeMatches(body)
}

func (s *Server) writeMatches(w http.ResponseWriter, route string, matches []footballdata.Match, limit int) {
	if len(matches) > limit {
		matches = matches[:limit]
	}
	body, err := json.Marshal(nonNilMatches(matches))
	if err != nil {
		s.writeError(w, route, fmt.Errorf("encode %s: %w", route, err))
		return
	}
	s.writeOK(w, route, body)
}

func decodeMatches(body []byte) ([]footballdata.Match, error) {
	var matches []footballdata.Match
	if err := json.Unmarshal(body, &matches); err != nil {
		return nil, fmt.Errorf("decode cached matches: %w", err)
	}
	return matches, nil
}

func nonNilMatches(matches []footballdata.Match) []footballdata.Match {
	if matches == nil {
		return []footballdata.Match{}
	}
	return matches
}

// parseLimit reads ?limit=. Unparseable values fall back to def; parsed
// values are clamped to 1..MaxLimit.
func parseLimit(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	if n < 1 {
		return 1
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}
