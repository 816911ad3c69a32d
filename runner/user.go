package runner

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/http2"

	"github.com/salvo-load/salvo/config"
	"github.com/salvo-load/salvo/metrics"
	"github.com/salvo-load/salvo/results"
	"github.com/salvo-load/salvo/session"
)

// user is one virtual user: an HTTP client of its own plus the session value
// threaded forward through every operation.
type user struct {
	id      int
	base    *url.URL
	session session.Session
	client  *http.Client
	runner  *Runner
	log     zerolog.Logger
}

func (r *Runner) newUser(id int, base *url.URL) *user {
	transport := &http.Transport{
		MaxIdleConnsPerHost: 4,
	}
	if err := http2.ConfigureTransport(transport); err != nil {
		r.log.Warn().Err(err).Msg("Could not enable HTTP/2, continuing with HTTP/1.1")
	}
	return &user{
		id:      id,
		base:    base,
		session: session.New(),
		client: &http.Client{
			Transport: transport,
			Timeout:   time.Duration(r.cfg.Timeout),
		},
		runner: r,
		log:    r.log.With().Int("user", id).Logger(),
	}
}

// run walks the scenario resources in order for the configured number of
// iterations. Individual request failures are logged and do not abort the
// user; the session is discarded when the scenario finishes.
func (u *user) run(ctx context.Context) error {
	for iteration := 0; iteration < u.runner.cfg.Iterations; iteration++ {
		for _, res := range u.runner.cfg.Resources {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := u.visit(ctx, res); err != nil {
				u.log.Error().Err(err).Str("resource", res.Name).Msg("Request failed")
			}
		}
	}
	return nil
}

// visit fetches one resource, consulting the cache engine before building the
// request and recording the response metadata afterwards. A resource that is
// still fresh is not fetched at all.
func (u *user) visit(ctx context.Context, res config.Resource) error {
	target := u.base.ResolveReference(&url.URL{Path: res.Path})
	key := Key(http.MethodGet, target)
	enabled := u.runner.cfg.CachingEnabled()

	if epoch, ok := u.runner.cache.Expire(enabled, u.session, key); ok {
		if time.Now().UnixMilli() < epoch {
			u.log.Debug().Str("key", key).Msg("Resource still fresh, skipping fetch")
			metrics.IncCacheHit(res.Name)
			u.record(results.Result{
				User:     u.id,
				Resource: res.Name,
				Cache:    results.StatusHit,
				Start:    time.Now(),
			})
			return nil
		}
		u.session = u.runner.cache.ClearExpire(u.session, key)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	cacheStatus := results.StatusNone
	if etag, ok := u.runner.cache.ETag(enabled, u.session, key); ok {
		req.Header.Set("If-None-Match", etag)
		cacheStatus = results.StatusConditional
	}
	if lastModified, ok := u.runner.cache.LastModified(enabled, u.session, key); ok {
		req.Header.Set("If-Modified-Since", lastModified)
		cacheStatus = results.StatusConditional
	}
	if cacheStatus == results.StatusConditional {
		metrics.IncConditional(res.Name)
	} else if enabled {
		metrics.IncCacheMiss(res.Name)
	}

	start := time.Now()
	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", target, err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	elapsed := time.Since(start)

	if resp.StatusCode == http.StatusNotModified {
		cacheStatus = results.StatusNotModified
		metrics.IncNotModified(res.Name)
	}
	metrics.ObserveRequest(res.Name, strconv.Itoa(resp.StatusCode), elapsed)
	if resp.Header.Get("ETag") != "" {
		metrics.IncValidator(res.Name, "etag")
	}
	if resp.Header.Get("Last-Modified") != "" {
		metrics.IncValidator(res.Name, "last-modified")
	}

	u.session = u.runner.cache.RecordResponse(u.session, enabled, key, resp.Header)

	u.record(results.Result{
		User:     u.id,
		Resource: res.Name,
		Status:   resp.StatusCode,
		Cache:    cacheStatus,
		Duration: elapsed,
		Start:    start,
	})
	return nil
}

func (u *user) record(res results.Result) {
	if u.runner.recorder == nil {
		return
	}
	if err := u.runner.recorder.Record(res); err != nil {
		u.log.Warn().Err(err).Msg("Could not record result")
	}
}
