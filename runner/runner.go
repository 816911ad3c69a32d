// Package runner drives the simulated virtual users through a scenario. Each
// user is one sequential goroutine owning its own session, so the cache
// engine never sees concurrent access to a single user's state.
package runner

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/salvo-load/salvo/config"
	"github.com/salvo-load/salvo/httpcache"
	"github.com/salvo-load/salvo/results"
)

type Runner struct {
	cfg      config.Config
	cache    *httpcache.Handler
	recorder *results.Recorder
	log      zerolog.Logger
}

// New creates a runner for the given scenario. The recorder may be nil to
// skip run logging.
func New(cfg config.Config, recorder *results.Recorder, logger zerolog.Logger) *Runner {
	return &Runner{
		cfg:      cfg,
		cache:    httpcache.NewHandler(logger),
		recorder: recorder,
		log:      logger,
	}
}

// Run starts the configured number of virtual users, spread evenly over the
// ramp duration, and waits for all of them to finish their scenario.
func (r *Runner) Run(ctx context.Context) error {
	base, err := url.Parse(r.cfg.Target)
	if err != nil {
		return fmt.Errorf("parse target url: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < r.cfg.Users; i++ {
		var delay time.Duration
		if r.cfg.Users > 1 {
			delay = time.Duration(i) * time.Duration(r.cfg.Ramp) / time.Duration(r.cfg.Users)
		}
		u := r.newUser(i, base)
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			return u.run(ctx)
		})
	}
	return g.Wait()
}
