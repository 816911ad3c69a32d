package httpcache

import (
	"math"
	"strings"
	"time"
)

const (
	noCache      = "no-cache"
	noStore      = "no-store"
	maxAgeZero   = "max-age=0"
	maxAgePrefix = "max-age="
)

// alreadyExpired is the expiry produced for a negative max-age. It can never
// pass the strictly-positive guard in ExpiresEpoch.
const alreadyExpired int64 = math.MinInt64

// maxAgeEpoch extracts a max-age directive from a Cache-Control value and
// returns the absolute expiry it implies, in epoch milliseconds. A malformed
// directive (no digits after the prefix) contributes no value.
func maxAgeEpoch(cacheControl string, now time.Time) (int64, bool) {
	i := strings.Index(cacheControl, maxAgePrefix)
	if i < 0 {
		return 0, false
	}
	rest := cacheControl[i+len(maxAgePrefix):]
	if rest == "" {
		return 0, false
	}
	if rest[0] == '-' {
		return alreadyExpired, true
	}
	if rest[0] < '0' || rest[0] > '9' {
		return 0, false
	}
	var seconds int64
	for j := 0; j < len(rest) && rest[j] >= '0' && rest[j] <= '9'; j++ {
		seconds = seconds*10 + int64(rest[j]-'0')
	}
	return now.UnixMilli() + seconds*1000, true
}

// ExpiresEpoch resolves the Pragma, Cache-Control and Expires headers of a
// response into one absolute expiry instant in epoch milliseconds.
//
// Pragma: no-cache, and Cache-Control no-cache / no-store / max-age=0, make
// the response uncacheable. Otherwise a max-age directive is authoritative
// over the Expires header whenever present, even when Expires would be more
// restrictive. An Expires value at or before now is discarded.
//
// ok=false covers both "explicitly not cacheable" and "no usable expiry
// information"; callers treat the two identically. Validators (ETag,
// Last-Modified) are recorded independently of this result.
func ExpiresEpoch(pragma, cacheControl, expires string, now time.Time) (int64, bool) {
	if strings.Contains(pragma, noCache) {
		return 0, false
	}
	if strings.Contains(cacheControl, noCache) ||
		strings.Contains(cacheControl, noStore) ||
		strings.Contains(cacheControl, maxAgeZero) {
		return 0, false
	}
	epoch, ok := maxAgeEpoch(cacheControl, now)
	if !ok {
		if headerEpoch, parsed := ParseDate(expires); parsed && headerEpoch > now.UnixMilli() {
			epoch, ok = headerEpoch, true
		}
	}
	if !ok || epoch <= 0 {
		return 0, false
	}
	return epoch, true
}
