package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureWriter_TracksFullSizePastLimit(t *testing.T) {
	t.Parallel()

	cw := &captureWriter{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK, limit: 4}

	_, err := cw.Write([]byte("abcd"))
	require.NoError(t, err)
	// A write landing exactly on the limit must not freeze the counter.
	_, err = cw.Write([]byte("ef"))
	require.NoError(t, err)

	assert.Equal(t, int64(6), cw.size)
	assert.Equal(t, "abcd", cw.buf.String())
	assert.True(t, cw.size > cw.limit, "oversize response must be detectable")
}

func TestCaptureWriter_Unlimited(t *testing.T) {
	t.Parallel()

	cw := &captureWriter{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}
	_, err := cw.Write([]byte("hello"))
	require.NoError(t, err)
	_, err = cw.Write([]byte(" world"))
	require.NoError(t, err)

	assert.Equal(t, "hello world", cw.buf.String())
	assert.Equal(t, int64(11), cw.size)
}

func TestPayloadRoundTrip(t *testing.T) {
	t.Parallel()

	hdr := http.Header{"Content-Type": {"application/json"}, "X-Cache": {"MISS"}}
	body := []byte(`[{"questionid":1}]`)

	payload, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, body, gotBody)
}

func TestDecodePayload_RejectsShortInput(t *testing.T) {
	t.Parallel()

	for _, bs := range [][]byte{nil, {1, 2, 3}, make([]byte, 7)} {
		_, _, _, ok := decodePayload(bs)
		assert.False(t, ok)
	}
}
