package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nufcvault/vault/pkg/cache"
	"github.com/nufcvault/vault/pkg/footballdata"
)

// teamIDTTL is how long a resolved team id is cached.
const teamIDTTL = 24 * time.Hour

// teamID returns the configured team id, resolving it by name when unset.
func (s *Server) teamID(ctx context.Context) (int64, error) {
	if s.opts.TeamID > 0 {
		return s.opts.TeamID, nil
	}

	const route = "team-id"
	key := cache.Key{Resource: route, Params: map[string]string{
		"competition": s.opts.Competition,
		"name":        strings.ToLower(s.opts.TeamName),
	}}
	body, err := s.cached(ctx, route, key, teamIDTTL, func(ctx context.Context) (any, error) {
		teams, err := s.upstream.CompetitionTeams(ctx, s.opts.Competition)
		if err != nil {
			return nil, err
		}
		team, ok := footballdata.FindTeam(teams, s.opts.TeamName)
		if !ok {
			return nil, &errTeamNotFound{name: s.opts.TeamName}
		}
		s.logger.Info().Int64("team_id", team.ID).Str("team", team.Name).Msg("Resolved team id")
		return team.ID, nil
	})
	if err != nil {
		return 0, err
	}

	var id int64
	if err := json.Unmarshal(body, &id); err != nil {
		return 0, fmt.Errorf("decode cached team id: %w", err)
	}
	return id, nil
}
