// Package results writes the per-request log of a simulation run to SQLite
// and aggregates it into a post-run summary. This is the tool's run log only;
// cache metadata itself never leaves the virtual users' in-memory sessions.
package results

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/glebarez/go-sqlite"
)

// CacheStatus labels how the cache engine affected a request.
type CacheStatus string

const (
	// StatusNone marks a plain fetch with no cache metadata involved.
	StatusNone CacheStatus = "none"
	// StatusHit marks a fetch skipped entirely because the resource was fresh.
	StatusHit CacheStatus = "hit"
	// StatusConditional marks a request sent with validators attached.
	StatusConditional CacheStatus = "conditional"
	// StatusNotModified marks a conditional request answered with 304.
	StatusNotModified CacheStatus = "revalidated"
)

// Result is one row of the run log. Status is 0 when the fetch was skipped.
type Result struct {
	User     int
	Resource string
	Status   int
	Cache    CacheStatus
	Duration time.Duration
	Start    time.Time
}

type Recorder struct {
	db         *sql.DB
	writeMutex *sync.Mutex
}

// NewRecorder opens (or creates) the run log database. Pass ":memory:" to
// keep the log in memory only.
func NewRecorder(filename string) (*Recorder, error) {
	db, err := sql.Open("sqlite", filename)
	if err != nil {
		return nil, fmt.Errorf("open results db: %w", err)
	}
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS requests (
		user INTEGER,
		resource TEXT,
		status INTEGER,
		cache TEXT,
		duration_ms INTEGER,
		started INTEGER)`)
	if err != nil {
		return nil, fmt.Errorf("create results schema: %w", err)
	}
	return &Recorder{
		db:         db,
		writeMutex: &sync.Mutex{},
	}, nil
}

func (r *Recorder) Record(res Result) error {
	r.writeMutex.Lock()
	defer r.writeMutex.Unlock()
	_, err := r.db.Exec(
		"INSERT INTO requests (user, resource, status, cache, duration_ms, started) VALUES (?, ?, ?, ?, ?, ?)",
		res.User, res.Resource, res.Status, string(res.Cache), res.Duration.Milliseconds(), res.Start.UnixMilli())
	if err != nil {
		return fmt.Errorf("record result: %w", err)
	}
	return nil
}

// Summary aggregates the run log.
type Summary struct {
	Requests    int
	CacheHits   int
	Conditional int
	NotModified int
	MeanMillis  float64
}

func (r *Recorder) Summary() (Summary, error) {
	var s Summary
	row := r.db.QueryRow(`SELECT COUNT(*),
		COALESCE(SUM(cache = 'hit'), 0),
		COALESCE(SUM(cache = 'conditional'), 0),
		COALESCE(SUM(cache = 'revalidated'), 0),
		COALESCE(AVG(duration_ms), 0)
		FROM requests`)
	if err := row.Scan(&s.Requests, &s.CacheHits, &s.Conditional, &s.NotModified, &s.MeanMillis); err != nil {
		return s, fmt.Errorf("summarize results: %w", err)
	}
	return s, nil
}

func (r *Recorder) Close() error {
	return r.db.Close()
}
