// Command vault-watch polls one vault page and renders it to stdout.
//
//	vault-watch -page live -base http://localhost:3000
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nufcvault/vault/pkg/logging"
	"github.com/nufcvault/vault/pkg/metrics"
	"github.com/nufcvault/vault/pkg/poller"
)

type options struct {
	page        string
	base        string
	timeout     time.Duration
	logLevel    string
	metricsAddr string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options

	fs := flag.NewFlagSet("vault-watch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.page, "page", "live", "page to render: "+strings.Join(poller.PageNames(), "|"))
	fs.StringVar(&o.base, "base", "http://localhost:3000", "vault server base URL")
	fs.DurationVar(&o.timeout, "timeout", 15*time.Second, "per-request timeout")
	fs.StringVar(&o.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	fs.StringVar(&o.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if _, ok := poller.Pages(poller.DefaultPageOptions())[o.page]; !ok {
		return o, fmt.Errorf("unknown page %q (want %s)", o.page, strings.Join(poller.PageNames(), ", "))
	}
	if o.timeout <= 0 {
		return o, fmt.Errorf("timeout must be positive (got %s)", o.timeout)
	}
	return o, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "vault-watch: %v\n", err)
		os.Exit(2)
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.LogLevel(opts.logLevel)
	logCfg.Pretty = true
	logging.Setup(logCfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.metricsAddr != "" {
		go serveMetrics(opts.metricsAddr)
	}

	page := poller.Pages(poller.DefaultPageOptions())[opts.page]
	p := poller.New(poller.NewAPIClient(opts.base, opts.timeout), page, os.Stdout)

	if err := p.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("Poller stopped")
		os.Exit(1)
	}
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	if err := srv.ListenAndServe(); err != nil {
		log.Warn().Err(err).Str("addr", addr).Msg("Metrics server stopped")
	}
}
