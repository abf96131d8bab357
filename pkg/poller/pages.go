package poller

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nufcvault/vault/pkg/footballdata"
)

// Cadences for pages that poll on a fixed or adaptive schedule.
const (
	LiveInterval   = 10 * time.Second
	IdleInterval   = 30 * time.Second
	TickerInterval = 10 * time.Minute
	TableInterval  = 5 * time.Minute

	// RedrawInterval advances countdowns between loads.
	RedrawInterval = time.Second
)

// Page fetches from one or more vault routes and builds a View. Load never
// fails: problems are rendered into the View.
type Page struct {
	Name  string
	Title string

	// Interval is the polling period for pages without adaptive cadence.
	Interval time.Duration

	// Adaptive pages poll at LiveInterval while a match is live and at
	// IdleInterval otherwise.
	Adaptive bool

	Load func(ctx context.Context, api *APIClient, now time.Time) View
}

// PageOptions names the followed team and competition in page text.
type PageOptions struct {
	TeamID           int64
	TeamLabel        string
	CompetitionLabel string
}

// DefaultPageOptions follows Newcastle in the Premier League.
func DefaultPageOptions() PageOptions {
	return PageOptions{
		TeamID:           67,
		TeamLabel:        "Newcastle",
		CompetitionLabel: "Premier League",
	}
}

// Pages returns every page keyed by name.
func Pages(opts PageOptions) map[string]Page {
	pages := []Page{
		livePage(opts),
		nextPage(opts),
		tickerPage(opts),
		fixturesPage(opts),
		tablePage(opts),
	}
	byName := make(map[string]Page, len(pages))
	for _, p := range pages {
		byName[p.Name] = p
	}
	return byName
}

// PageNames lists page names in sorted order.
func PageNames() []string {
	names := make([]string, 0, 5)
	for name := range Pages(DefaultPageOptions()) {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func livePage(opts PageOptions) Page {
	return Page{
		Name:     "live",
		Title:    "Live scores",
		Adaptive: true,
		Load: func(ctx context.Context, api *APIClient, now time.Time) View {
			team := liveSection(ctx, api, "/api/live", liveText{
				heading: opts.TeamLabel,
				none:    fmt.Sprintf("No %s match live right now.", opts.TeamLabel),
				empty: []string{
					fmt.Sprintf("%s aren’t currently playing (or the API hasn’t marked the match as LIVE yet).", opts.TeamLabel),
					"When matches are live, they’ll appear here automatically.",
				},
				failed:    fmt.Sprintf("Couldn’t load %s live scores. Try refresh in 30 seconds.", opts.TeamLabel),
				failedTip: "There was an error loading NUFC live data.",
			})
			comp := liveSection(ctx, api, "/api/pl-live", liveText{
				heading: opts.CompetitionLabel,
				none:    fmt.Sprintf("No %s matches live right now.", opts.CompetitionLabel),
				empty: []string{
					"When matches are live, they’ll appear here automatically.",
				},
				failed:    fmt.Sprintf("Couldn’t load %s live scores. Try refresh in 30 seconds.", opts.CompetitionLabel),
				failedTip: "There was an error loading PL live data.",
			})
			return View{
				Title:    "Live scores",
				Sections: []Section{team.section, comp.section},
				Live:     team.live || comp.live,
				Matchday: team.live,
			}
		},
	}
}

type liveText struct {
	heading   string
	none      string
	empty     []string
	failed    string
	failedTip string
}

type liveResult struct {
	section Section
	live    bool
}

func liveSection(ctx context.Context, api *APIClient, path string, text liveText) liveResult {
	var matches []footballdata.Match
	if err := api.GetJSON(ctx, path, &matches); err != nil {
		return liveResult{section: Section{
			Heading: text.heading,
			Status:  text.failed,
			Lines:   []string{text.failedTip},
		}}
	}
	if len(matches) == 0 {
		return liveResult{section: Section{
			Heading: text.heading,
			Status:  text.none,
			Lines:   text.empty,
		}}
	}

	lines := make([]string, 0, len(matches))
	live := false
	for _, m := range matches {
		lines = append(lines, liveLine(m))
		live = live || m.IsLive()
	}
	return liveResult{
		section: Section{
			Heading: text.heading,
			Status:  fmt.Sprintf("Live now: %s", plural(len(matches))),
			Lines:   lines,
		},
		live: live,
	}
}

func liveLine(m footballdata.Match) string {
	return fmt.Sprintf("%s | %s %s %s | %s | %s",
		m.CompetitionLabel(),
		m.HomeTeam.DisplayName(), m.ScoreText(), m.AwayTeam.DisplayName(),
		m.StatusLabel(),
		FormatKickoff(m))
}

func nextPage(opts PageOptions) Page {
	return Page{
		Name:     "next",
		Title:    "Next match",
		Interval: IdleInterval,
		Load: func(ctx context.Context, api *APIClient, now time.Time) View {
			var next *footballdata.Match
			if err := api.GetJSON(ctx, "/api/next-match", &next); err != nil {
				return View{Title: "Next match", Sections: []Section{{
					Heading: "Couldn’t load next match",
					Status:  "Check your API token / rate limit, then refresh.",
					Lines:   []string{"If you hit a 429 rate limit, wait ~30 seconds then try again."},
				}}}
			}
			if next == nil {
				return View{Title: "Next match", Sections: []Section{{
					Heading: "No scheduled match found",
					Status:  "football-data.org returned no upcoming fixture.",
					Lines:   []string{"Try again later."},
				}}}
			}

			return nextView(*next, now)
		},
	}
}

func nextView(next footballdata.Match, now time.Time) View {
	countdown := footballdata.Placeholder
	if kickoff, ok := next.Kickoff(); ok {
		countdown = FormatCountdown(kickoff.Sub(now))
	}
	lines := []string{
		"Competition: " + next.CompetitionLabel(),
		"Kick-off:    " + FormatKickoff(next),
		"Countdown:   " + countdown,
		"Status:      " + next.StatusLabel(),
	}
	if next.Stage != "" {
		lines = append(lines, "Stage:       "+next.Stage)
	}
	return View{
		Title: "Next match",
		Sections: []Section{{
			Heading: fmt.Sprintf("%s vs %s",
				orDefault(next.HomeTeam.Name, "Home"),
				orDefault(next.AwayTeam.Name, "Away")),
			Status: "Loaded successfully.",
			Lines:  lines,
		}},
		Live:     next.IsLive(),
		Matchday: IsMatchday(next, now),
		Refresh:  func(now time.Time) View {
			return nextView(next, now)
		},
	}
}

func tickerPage(opts PageOptions) Page {
	return Page{
		Name:     "ticker",
		Title:    "Ticker",
		Interval: TickerInterval,
		Load: func(ctx context.Context, api *APIClient, now time.Time) View {
			var next *footballdata.Match
			if err := api.GetJSON(ctx, "/api/next-match", &next); err != nil {
				return View{Title: "Ticker", Sections: []Section{{
					Status: "Ticker unavailable",
					Lines:  []string{footballdata.Placeholder},
				}}}
			}
			if next == nil {
				return View{Title: "Ticker", Sections: []Section{{
					Status: "No upcoming match found",
					Lines:  []string{footballdata.Placeholder},
				}}}
			}

			return tickerView(*next, now, opts.TeamLabel)
		},
	}
}

func tickerView(next footballdata.Match, now time.Time, teamLabel string) View {
	countdown := "TBC"
	if kickoff, ok := next.Kickoff(); ok {
		countdown = FormatShortCountdown(kickoff.Sub(now))
	}
	return View{
		Title: "Ticker",
		Sections: []Section{{
			Status: fmt.Sprintf("%s vs %s",
				teamName(next.HomeTeam, teamLabel),
				teamName(next.AwayTeam, "Opponent")),
			Lines: []string{countdown},
		}},
		Live:     next.IsLive(),
		Matchday: IsMatchday(next, now),
		Refresh:  func(now time.Time) View {
			return tickerView(next, now, teamLabel)
		},
	}
}

// Fixture list sizes requested by the fixtures page.
const (
	fixturesUpcoming = 5
	fixturesRecent   = 2
)

func fixturesPage(opts PageOptions) Page {
	return Page{
		Name:     "fixtures",
		Title:    "Fixtures & results",
		Interval: IdleInterval,
		Load: func(ctx context.Context, api *APIClient, now time.Time) View {
			var upcoming, recent []footballdata.Match

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return api.GetJSON(gctx, fmt.Sprintf("/api/upcoming?limit=%d", fixturesUpcoming), &upcoming)
			})
			g.Go(func() error {
				return api.GetJSON(gctx, fmt.Sprintf("/api/recent?limit=%d", fixturesRecent), &recent)
			})
			if err := g.Wait(); err != nil {
				return View{Title: "Fixtures & results", Sections: []Section{
					{Status: "Couldn’t load fixtures/results. If you hit a 429 limit, wait ~30s then refresh."},
					{Heading: "Upcoming", Lines: []string{"Unavailable"}},
					{Heading: "Recent", Lines: []string{"Unavailable"}},
				}}
			}

			upcomingSection := Section{Heading: "Upcoming"}
			for _, m := range upcoming {
				upcomingSection.Lines = append(upcomingSection.Lines, fmt.Sprintf("[Scheduled] %s  %s vs %s  (%s)",
					FormatKickoff(m), m.HomeTeam.DisplayName(), m.AwayTeam.DisplayName(), m.CompetitionLabel()))
			}
			if len(upcomingSection.Lines) == 0 {
				upcomingSection.Lines = []string{"No upcoming matches found"}
			}

			recentSection := Section{Heading: "Recent"}
			for _, m := range recent {
				recentSection.Lines = append(recentSection.Lines, fmt.Sprintf("[FT] %s  %s %s %s  (%s)",
					FormatKickoff(m), m.HomeTeam.DisplayName(), m.FullTimeText(), m.AwayTeam.DisplayName(), m.CompetitionLabel()))
			}
			if len(recentSection.Lines) == 0 {
				recentSection.Lines = []string{"No recent results found"}
			}

			matchday := false
			if len(upcoming) > 0 {
				matchday = IsMatchday(upcoming[0], now)
			}
			return View{
				Title:    "Fixtures & results",
				Sections: []Section{{Status: "Updated."}, upcomingSection, recentSection},
				Matchday: matchday,
			}
		},
	}
}

func tablePage(opts PageOptions) Page {
	return Page{
		Name:     "table",
		Title:    opts.CompetitionLabel + " table",
		Interval: TableInterval,
		Load: func(ctx context.Context, api *APIClient, now time.Time) View {
			title := opts.CompetitionLabel + " table"

			var rows []footballdata.StandingsRow
			if err := api.GetJSON(ctx, "/api/table", &rows); err != nil {
				return View{Title: title, Sections: []Section{{
					Status: "Couldn't load table. If you hit a rate limit, wait ~30 seconds then refresh.",
				}}}
			}
			if len(rows) == 0 {
				return View{Title: title, Sections: []Section{{
					Status: "No table data returned.",
				}}}
			}

			lines := make([]string, 0, len(rows)+1)
			lines = append(lines, fmt.Sprintf("  %3s %-24s %3s %3s %3s %3s %4s %4s %4s %4s  %s",
				"#", "Team", "P", "W", "D", "L", "GF", "GA", "GD", "Pts", "Form"))
			for _, r := range rows {
				marker := " "
				if r.Team.ID == opts.TeamID {
					marker = "*"
				}
				lines = append(lines, fmt.Sprintf("%s %3d %-24s %3d %3d %3d %3d %4d %4d %4d %4d  %s",
					marker, r.Position, truncate(r.Team.DisplayName(), 24),
					r.PlayedGames, r.Won, r.Draw, r.Lost,
					r.GoalsFor, r.GoalsAgainst, r.GoalDifference, r.Points,
					FormDots(r.Form)))
			}
			return View{Title: title, Sections: []Section{{
				Status: "Standings loaded.",
				Lines:  lines,
			}}}
		},
	}
}

func teamName(t footballdata.TeamRef, fallback string) string {
	if t.ShortName != "" {
		return t.ShortName
	}
	return orDefault(t.Name, fallback)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n-1])) + "…"
}
