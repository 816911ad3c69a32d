package httpcache

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// httpDateLayouts are tried in priority order: RFC 1123 first as the
// preferred format, then the two obsolete forms servers still emit
// (RFC 850 and ANSI C asctime).
var httpDateLayouts = []string{
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
}

// ParseDate parses an HTTP date header value and returns it as UTC epoch
// milliseconds. The input is trimmed of surrounding whitespace only; a value
// wrapped in double quotes is not unquoted and will fail all layouts.
// Exhausting the layouts is a normal outcome reported as ok=false, never an
// error.
func ParseDate(text string) (int64, bool) {
	trimmed := strings.TrimSpace(text)
	for _, layout := range httpDateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.UnixMilli(), true
		}
	}
	log.Debug().Str("date", trimmed).Msg("Unparseable HTTP date")
	return 0, false
}
