// Package api serves the vault's JSON routes, health check, metrics and the
// static front-end.
//
// Every data route follows the same cached-route pattern: look the key up in
// the cache and write the stored JSON on a hit; on a miss load from
// football-data.org inside a single-flight group keyed by the cache key,
// shape, store with the route's TTL and respond. Failures are never cached
// and are reported as {"error": true, "status": N, "message": "..."}.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/nufcvault/vault/pkg/cache"
	"github.com/nufcvault/vault/pkg/fixtures"
	"github.com/nufcvault/vault/pkg/footballdata"
	"github.com/nufcvault/vault/pkg/metrics"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Upstream is the subset of the football-data.org client the routes use.
type Upstream interface {
	HasToken() bool
	TeamMatches(ctx context.Context, teamID int64, q footballdata.MatchQuery) ([]footballdata.Match, error)
	CompetitionMatches(ctx context.Context, code string, q footballdata.MatchQuery) ([]footballdata.Match, error)
	Standings(ctx context.Context, code string) ([]footballdata.Standing, error)
	Team(ctx context.Context, teamID int64) (json.RawMessage, error)
	CompetitionTeams(ctx context.Context, code string) ([]footballdata.TeamRef, error)
}

// Options configures the routes.
type Options struct {
	// Port is reported by /health.
	Port int

	// TeamID is the followed team. 0 resolves it from TeamName.
	TeamID   int64
	TeamName string

	// Competition is the provider's competition code (e.g. "PL").
	Competition string

	// StaticDir is served for every path no route claims. Empty disables it.
	StaticDir string

	// Cache TTLs per resource class.
	TTLLive      time.Duration
	TTLFixtures  time.Duration
	TTLStandings time.Duration
}

// DefaultOptions returns the Newcastle / Premier League defaults.
func DefaultOptions() Options {
	return Options{
		Port:         3000,
		TeamID:       67,
		TeamName:     "newcastle",
		Competition:  "PL",
		StaticDir:    "./public",
		TTLLive:      15 * time.Second,
		TTLFixtures:  60 * time.Second,
		TTLStandings: 5 * time.Minute,
	}
}

// Server holds the route dependencies.
type Server struct {
	router   *mux.Router
	store    cache.Store
	upstream Upstream
	fixtures *fixtures.Source
	group    singleflight.Group
	opts     Options
	logger   zerolog.Logger
	now      func() time.Time
}

// NewServer wires the routes. source may be nil when no fixture file is used.
func NewServer(opts Options, store cache.Store, upstream Upstream, source *fixtures.Source) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		store:    store,
		upstream: upstream,
		fixtures: source,
		opts:     opts,
		logger:   log.With().Str("component", "api").Logger(),
		now:      time.Now,
	}
	s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	s.router.Use(s.logRequests)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/next-match", s.handleNextMatch).Methods(http.MethodGet)
	api.HandleFunc("/live", s.handleLive).Methods(http.MethodGet)
	api.HandleFunc("/pl-live", s.handleCompetitionLive).Methods(http.MethodGet)
	api.HandleFunc("/upcoming", s.handleUpcoming).Methods(http.MethodGet)
	api.HandleFunc("/recent", s.handleRecent).Methods(http.MethodGet)
	api.HandleFunc("/table", s.handleTable).Methods(http.MethodGet)
	api.HandleFunc("/team", s.handleTeam).Methods(http.MethodGet)
	api.PathPrefix("/").HandlerFunc(s.handleNotFound)

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	if s.opts.StaticDir != "" {
		s.router.PathPrefix("/").Handler(http.FileServer(http.Dir(s.opts.StaticDir)))
	}
}

type healthResponse struct {
	OK       bool `json:"ok"`
	Port     int  `json:"port"`
	HasToken bool `json:"hasToken"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body, _ := json.Marshal(healthResponse{
		OK:       true,
		Port:     s.opts.Port,
		HasToken: s.upstream.HasToken(),
	})
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(w, http.StatusNotFound, "Unknown API route "+r.URL.Path)
}
