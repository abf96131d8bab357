package api

import (
	"encoding/json"
	"net/http"

	"github.com/nufcvault/vault/pkg/footballdata"
)

func (s *Server) handleNextMatch(w http.ResponseWriter, r *http.Request) {
	const route = "next-match"
	matches, err := s.upcomingMatches(r.Context())
	if err != nil {
		s.writeError(w, route, err)
		return
	}

	now := s.now()
	var upstream, local *footballdata.Match
	if m, ok := footballdata.NextAfter(matches, now); ok {
		upstream = &m
	}
	if m, ok := s.fixtures.Next(now); ok {
		local = &m
	}

	body, err := json.Marshal(pickNext(upstream, local))
	if err != nil {
		s.writeError(w, route, err)
		return
	}
	s.writeOK(w, route, body)
}

// pickNext returns whichever match kicks off first. The provider's match
// wins a tie. Both nil yields nil, which encodes as JSON null.
func pickNext(upstream, local *footballdata.Match) *footballdata.Match {
	switch {
	case upstream == nil:
		return local
	case local == nil:
		return upstream
	}

	upstreamKickoff, okUpstream := upstream.Kickoff()
	localKickoff, okLocal := local.Kickoff()
	switch {
	case !okLocal:
		return upstream
	case !okUpstream:
		return local
	case localKickoff.Before(upstreamKickoff):
		return local
	default:
		return upstream
	}
}
