// Package httpcache is the client-side cache-metadata engine of the load
// generator. For each virtual user it records the validators a response
// supplies (expiry instant, ETag, Last-Modified) and answers whether a
// previously visited resource is still fresh, so that synthetic traffic
// caches the way a real browser does instead of refetching every resource.
//
// The engine never performs I/O and never fails: malformed header text of any
// kind resolves to an absent value. All state lives in the virtual user's
// session and every update is a pure copy-on-write transformation.
package httpcache

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/salvo-load/salvo/session"
)

// Session attribute names for the three validator stores. The stores are
// fully independent: a response may supply any subset of the three.
const (
	expireStoreAttr       = "httpcache.expireStore"
	etagStoreAttr         = "httpcache.etagStore"
	lastModifiedStoreAttr = "httpcache.lastModifiedStore"
)

// Handler is the cache-metadata facade used by the request-building and
// response-handling stages of the pipeline. Reads and writes are gated by the
// protocol-level caching flag: with the flag off the stores are never touched.
type Handler struct {
	log zerolog.Logger
	now func() time.Time
}

// NewHandler returns a handler logging through the given logger.
func NewHandler(logger zerolog.Logger) *Handler {
	return &Handler{log: logger, now: time.Now}
}

// RecordResponse records the cache metadata a completed exchange supplies for
// the keyed resource and returns the updated session. The three updates are
// independent and each is a no-op when its source header is absent. With
// caching disabled the session is returned unchanged.
func (h *Handler) RecordResponse(s session.Session, enabled bool, key string, header http.Header) session.Session {
	if !enabled {
		return s
	}
	pragma := header.Get("Pragma")
	cacheControl := header.Get("Cache-Control")
	expires := header.Get("Expires")
	if epoch, ok := ExpiresEpoch(pragma, cacheControl, expires, h.now()); ok {
		h.log.Debug().Str("key", key).Int64("expire", epoch).Msg("Recording expire for resource")
		s = withInt64(s, expireStoreAttr, key, epoch)
	}
	if etag := header.Get("ETag"); etag != "" {
		h.log.Debug().Str("key", key).Str("etag", etag).Msg("Recording ETag for resource")
		s = withString(s, etagStoreAttr, key, etag)
	}
	if lastModified := header.Get("Last-Modified"); lastModified != "" {
		h.log.Debug().Str("key", key).Str("lastModified", lastModified).Msg("Recording Last-Modified for resource")
		s = withString(s, lastModifiedStoreAttr, key, lastModified)
	}
	return s
}

// Expire returns the recorded expiry instant for the keyed resource, in epoch
// milliseconds. An entry may have gone stale since it was recorded; detecting
// that and calling ClearExpire is up to the caller.
func (h *Handler) Expire(enabled bool, s session.Session, key string) (int64, bool) {
	if !enabled {
		return 0, false
	}
	epoch, ok := int64Store(s, expireStoreAttr)[key]
	return epoch, ok
}

// ETag returns the recorded entity tag for the keyed resource, verbatim.
func (h *Handler) ETag(enabled bool, s session.Session, key string) (string, bool) {
	if !enabled {
		return "", false
	}
	etag, ok := stringStore(s, etagStoreAttr)[key]
	return etag, ok
}

// LastModified returns the recorded Last-Modified value for the keyed
// resource, verbatim. It is never re-parsed here, only replayed in a later
// conditional request.
func (h *Handler) LastModified(enabled bool, s session.Session, key string) (string, bool) {
	if !enabled {
		return "", false
	}
	lastModified, ok := stringStore(s, lastModifiedStoreAttr)[key]
	return lastModified, ok
}

// ClearExpire removes the expiry entry for the keyed resource and returns the
// updated session. Clearing an absent key is a no-op.
func (h *Handler) ClearExpire(s session.Session, key string) session.Session {
	store := int64Store(s, expireStoreAttr)
	if _, ok := store[key]; !ok {
		return s
	}
	h.log.Info().Str("key", key).Msg("Resource expired")
	next := make(map[string]int64, len(store))
	for k, v := range store {
		if k != key {
			next[k] = v
		}
	}
	return s.Set(expireStoreAttr, next)
}

func int64Store(s session.Session, attr string) map[string]int64 {
	if v, ok := s.Get(attr); ok {
		if store, ok := v.(map[string]int64); ok {
			return store
		}
	}
	return nil
}

func stringStore(s session.Session, attr string) map[string]string {
	if v, ok := s.Get(attr); ok {
		if store, ok := v.(map[string]string); ok {
			return store
		}
	}
	return nil
}

// withInt64 inserts key into the named store, copying it first so sessions
// derived earlier keep their snapshot.
func withInt64(s session.Session, attr, key string, value int64) session.Session {
	old := int64Store(s, attr)
	next := make(map[string]int64, len(old)+1)
	for k, v := range old {
		next[k] = v
	}
	next[key] = value
	return s.Set(attr, next)
}

func withString(s session.Session, attr, key, value string) session.Session {
	old := stringStore(s, attr)
	next := make(map[string]string, len(old)+1)
	for k, v := range old {
		next[k] = v
	}
	next[key] = value
	return s.Set(attr, next)
}
