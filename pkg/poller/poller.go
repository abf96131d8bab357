// Package poller renders vault pages to a terminal on a schedule.
//
// A page is loaded, rendered and loaded again after its interval. The live
// page switches between a fast and an idle cadence depending on whether any
// match it observed is in progress. Load failures are rendered, never
// returned, so Run only stops when its context is cancelled.
package poller

import (
	"context"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/nufcvault/vault/pkg/logging"
)

var pollerRenders = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "vault_poller_renders_total",
		Help: "Pages rendered by the terminal poller",
	},
	[]string{"page", "live"},
)

// Poller drives one page.
type Poller struct {
	api    *APIClient
	page   Page
	out    io.Writer
	logger zerolog.Logger
	now    func() time.Time

	redrawEvery time.Duration
}

// New creates a poller that renders page to out.
func New(api *APIClient, page Page, out io.Writer) *Poller {
	return &Poller{
		api:    api,
		page:   page,
		out:    out,
		logger: logging.NewLogger("poller").With().Str("page", page.Name).Logger(),
		now:    time.Now,

		redrawEvery: RedrawInterval,
	}
}

// Tick loads and renders the page once.
func (p *Poller) Tick(ctx context.Context) View {
	view := p.page.Load(ctx, p.api, p.now())
	p.draw(view)
	return view
}

func (p *Poller) draw(view View) {
	if err := Render(p.out, view); err != nil {
		p.logger.Warn().Err(err).Msg("Render failed")
	}
	live := "false"
	if view.Live {
		live = "true"
	}
	pollerRenders.WithLabelValues(p.page.Name, live).Inc()
}

// Interval is the wait before the next load after view was rendered.
func (p *Poller) Interval(view View) time.Duration {
	if !p.page.Adaptive {
		if p.page.Interval > 0 {
			return p.page.Interval
		}
		return IdleInterval
	}
	if view.Live {
		return LiveInterval
	}
	return IdleInterval
}

// Run renders the page immediately and then on every interval until ctx is
// cancelled. Views with a running clock are redrawn every RedrawInterval
// between loads without calling the API.
func (p *Poller) Run(ctx context.Context) error {
	view := p.Tick(ctx)
	interval := p.Interval(view)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	redraw := time.NewTicker(p.redrawEvery)
	defer redraw.Stop()

	p.logger.Debug().Dur("interval", interval).Msg("Polling started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-redraw.C:
			if view.Refresh != nil {
				view = view.Refresh(p.now())
				p.draw(view)
			}
		case <-ticker.C:
			view = p.Tick(ctx)
			next := p.Interval(view)
			if next != interval {
				p.logger.Debug().
					Dur("from", interval).
					Dur("to", next).
					Msg("Cadence changed")
				interval = next
				ticker.Reset(interval)
			}
		}
	}
}
