package httpcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateFormats(t *testing.T) {
	want := time.Date(1994, time.November, 6, 8, 49, 37, 0, time.UTC).UnixMilli()

	for _, text := range []string{
		"Sun, 06 Nov 1994 08:49:37 GMT",
		"Sunday, 06-Nov-94 08:49:37 GMT",
		"Sun Nov  6 08:49:37 1994",
	} {
		epoch, ok := ParseDate(text)
		require.True(t, ok, "should parse %q", text)
		assert.Equal(t, want, epoch, "all renderings denote the same instant")
	}
}

func TestParseDateTrimsWhitespace(t *testing.T) {
	epoch, ok := ParseDate("  Sun, 06 Nov 1994 08:49:37 GMT\t")
	require.True(t, ok)
	assert.Equal(t, time.Date(1994, time.November, 6, 8, 49, 37, 0, time.UTC).UnixMilli(), epoch)
}

// Surrounding double quotes are deliberately not stripped, so a quoted date
// fails all layouts.
func TestParseDateKeepsQuotes(t *testing.T) {
	_, ok := ParseDate(`"Sun, 06 Nov 1994 08:49:37 GMT"`)
	assert.False(t, ok)
}

func TestParseDateGarbage(t *testing.T) {
	for _, text := range []string{"not-a-date", "", "0", "Sun, 99 Foo 1994"} {
		_, ok := ParseDate(text)
		assert.False(t, ok, "%q should not parse", text)
	}
}
