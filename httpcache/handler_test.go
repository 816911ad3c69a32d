package httpcache

import (
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salvo-load/salvo/session"
)

func testHandler() *Handler {
	h := NewHandler(zerolog.Nop())
	h.now = testTime
	return h
}

func fullHeader() http.Header {
	header := make(http.Header)
	header.Set("Cache-Control", "max-age=120")
	header.Set("ETag", `"abc123"`)
	header.Set("Last-Modified", "Wed, 21 Oct 2015 07:28:00 GMT")
	return header
}

func TestRecordAndReadBack(t *testing.T) {
	h := testHandler()
	s := h.RecordResponse(session.New(), true, "GET:/page", fullHeader())

	epoch, ok := h.Expire(true, s, "GET:/page")
	require.True(t, ok)
	assert.Equal(t, testTime().UnixMilli()+120_000, epoch)

	etag, ok := h.ETag(true, s, "GET:/page")
	require.True(t, ok)
	assert.Equal(t, `"abc123"`, etag)

	lastModified, ok := h.LastModified(true, s, "GET:/page")
	require.True(t, ok)
	assert.Equal(t, "Wed, 21 Oct 2015 07:28:00 GMT", lastModified)
}

func TestReadBackWithDifferentKey(t *testing.T) {
	h := testHandler()
	s := h.RecordResponse(session.New(), true, "GET:/page", fullHeader())

	_, ok := h.Expire(true, s, "GET:/other")
	assert.False(t, ok)
	_, ok = h.ETag(true, s, "GET:/other")
	assert.False(t, ok)
	_, ok = h.LastModified(true, s, "GET:/other")
	assert.False(t, ok)
}

func TestValidatorsAreIndependent(t *testing.T) {
	h := testHandler()
	header := make(http.Header)
	header.Set("ETag", `"only-etag"`)
	s := h.RecordResponse(session.New(), true, "GET:/page", header)

	etag, ok := h.ETag(true, s, "GET:/page")
	require.True(t, ok)
	assert.Equal(t, `"only-etag"`, etag)

	_, ok = h.Expire(true, s, "GET:/page")
	assert.False(t, ok)
	_, ok = h.LastModified(true, s, "GET:/page")
	assert.False(t, ok)
}

func TestUncacheableResponseStillRecordsValidators(t *testing.T) {
	h := testHandler()
	header := make(http.Header)
	header.Set("Cache-Control", "no-store")
	header.Set("ETag", `"v1"`)
	header.Set("Last-Modified", "Wed, 21 Oct 2015 07:28:00 GMT")
	s := h.RecordResponse(session.New(), true, "GET:/page", header)

	_, ok := h.Expire(true, s, "GET:/page")
	assert.False(t, ok)
	_, ok = h.ETag(true, s, "GET:/page")
	assert.True(t, ok)
	_, ok = h.LastModified(true, s, "GET:/page")
	assert.True(t, ok)
}

func TestCachingDisabledSkipsEverything(t *testing.T) {
	h := testHandler()

	s := h.RecordResponse(session.New(), false, "GET:/page", fullHeader())
	assert.Equal(t, session.New(), s, "disabled record must not touch the session")

	// populate with the flag on, then read with the flag off
	s = h.RecordResponse(session.New(), true, "GET:/page", fullHeader())
	_, ok := h.Expire(false, s, "GET:/page")
	assert.False(t, ok)
	_, ok = h.ETag(false, s, "GET:/page")
	assert.False(t, ok)
	_, ok = h.LastModified(false, s, "GET:/page")
	assert.False(t, ok)
}

func TestClearExpire(t *testing.T) {
	h := testHandler()
	s := h.RecordResponse(session.New(), true, "GET:/page", fullHeader())

	cleared := h.ClearExpire(s, "GET:/page")
	_, ok := h.Expire(true, cleared, "GET:/page")
	assert.False(t, ok)

	// validators survive an expiry clear
	_, ok = h.ETag(true, cleared, "GET:/page")
	assert.True(t, ok)

	// clearing again is a no-op
	assert.Equal(t, cleared, h.ClearExpire(cleared, "GET:/page"))

	// the pre-clear session still has the entry
	_, ok = h.Expire(true, s, "GET:/page")
	assert.True(t, ok)
}

func TestClearExpireOnEmptySession(t *testing.T) {
	h := testHandler()
	s := session.New()
	assert.Equal(t, s, h.ClearExpire(s, "GET:/page"))
}

func TestRecordIsCopyOnWrite(t *testing.T) {
	h := testHandler()
	s1 := h.RecordResponse(session.New(), true, "GET:/a", fullHeader())

	header := make(http.Header)
	header.Set("ETag", `"b"`)
	s2 := h.RecordResponse(s1, true, "GET:/b", header)

	_, ok := h.ETag(true, s1, "GET:/b")
	assert.False(t, ok, "earlier session must not see later writes")
	_, ok = h.ETag(true, s2, "GET:/b")
	assert.True(t, ok)
	_, ok = h.ETag(true, s2, "GET:/a")
	assert.True(t, ok)
}

func TestRecordReplacesPriorEntry(t *testing.T) {
	h := testHandler()
	s := h.RecordResponse(session.New(), true, "GET:/page", fullHeader())

	header := make(http.Header)
	header.Set("Cache-Control", "max-age=600")
	header.Set("ETag", `"v2"`)
	s = h.RecordResponse(s, true, "GET:/page", header)

	epoch, ok := h.Expire(true, s, "GET:/page")
	require.True(t, ok)
	assert.Equal(t, testTime().UnixMilli()+600_000, epoch)

	etag, _ := h.ETag(true, s, "GET:/page")
	assert.Equal(t, `"v2"`, etag)
}

func TestHandlerDefaultsToWallClock(t *testing.T) {
	h := NewHandler(zerolog.Nop())
	before := time.Now().UnixMilli()

	header := make(http.Header)
	header.Set("Cache-Control", "max-age=60")
	s := h.RecordResponse(session.New(), true, "GET:/page", header)

	epoch, ok := h.Expire(true, s, "GET:/page")
	require.True(t, ok)
	assert.GreaterOrEqual(t, epoch, before+60_000)
}
