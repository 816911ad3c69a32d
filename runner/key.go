package runner

import "net/url"

// Key returns the canonical cache key for a request: the method plus the URL
// with any fragment dropped. The key is stable across semantically equivalent
// requests; the cache engine treats it as opaque.
func Key(method string, u *url.URL) string {
	if u.Fragment != "" {
		c := *u
		c.Fragment = ""
		return method + ":" + c.String()
	}
	return method + ":" + u.String()
}
