package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	huffman "github.com/chronos-tachyon/huffcode"
	"github.com/chronos-tachyon/huffcode/internal/config"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s, err := New(config.ServerConfig{Addr: ":0", CacheSize: 8}, zerolog.Nop())
	require.NoError(t, err)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func postJSON(t *testing.T, url string, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestCodes(t *testing.T) {
	_, ts := newTestServer(t)

	t.Run("counts map", func(t *testing.T) {
		resp, out := postJSON(t, ts.URL+"/v1/codes", `{"counts":{"A":1,"B":1,"C":2}}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		codes := out["codes"].(map[string]interface{})
		require.Len(t, codes, 3)
		assert.Len(t, codes["C"], 1)
		assert.Len(t, codes["A"], 2)
		assert.Len(t, codes["B"], 2)
		assert.Equal(t, float64(6), out["cost"])
		assert.Equal(t, float64(3), out["symbols"])
	})

	t.Run("ordered symbols", func(t *testing.T) {
		resp, out := postJSON(t, ts.URL+"/v1/codes", `{"symbols":[{"symbol":"A","count":5},{"symbol":"B","count":5}]}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		codes := out["codes"].(map[string]interface{})
		got := []string{codes["A"].(string), codes["B"].(string)}
		assert.ElementsMatch(t, []string{"0", "1"}, got)
	})

	t.Run("empty alphabet", func(t *testing.T) {
		resp, out := postJSON(t, ts.URL+"/v1/codes", `{"counts":{"":3}}`)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Contains(t, out["error"], "empty alphabet")
	})

	t.Run("both forms", func(t *testing.T) {
		resp, _ := postJSON(t, ts.URL+"/v1/codes", `{"counts":{"A":1},"symbols":[{"symbol":"B","count":1}]}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("malformed body", func(t *testing.T) {
		resp, out := postJSON(t, ts.URL+"/v1/codes", `{"counts":`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, out["error"], "invalid request body")
	})

	t.Run("unknown field", func(t *testing.T) {
		resp, _ := postJSON(t, ts.URL+"/v1/codes", `{"weights":{"A":1}}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("cost overflow", func(t *testing.T) {
		// The counts sum to math.MaxUint64; the weighted cost does not fit.
		body := `{"counts":{"a":4611686018427387904,"b":4611686018427387904,"c":9223372036854775807}}`
		resp, out := postJSON(t, ts.URL+"/v1/codes", body)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Contains(t, out["error"], "overflows uint64")
		assert.NotContains(t, out, "cost")
	})

	t.Run("body too large", func(t *testing.T) {
		body := `{"symbols":[{"symbol":"` + strings.Repeat("x", maxBodyBytes) + `","count":1}]}`
		resp, out := postJSON(t, ts.URL+"/v1/codes", body)
		assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
		assert.Contains(t, out["error"], "too large")
	})
}

func TestEncode(t *testing.T) {
	_, ts := newTestServer(t)

	t.Run("characters", func(t *testing.T) {
		resp, out := postJSON(t, ts.URL+"/v1/encode", `{"text":"abracadabra"}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, float64(23), out["bits"])
		assert.Len(t, out["encoded"], 23)
		assert.Len(t, out["codes"], 5)
	})

	t.Run("vocabulary", func(t *testing.T) {
		resp, out := postJSON(t, ts.URL+"/v1/encode", `{"text":"abab","vocabulary":["ab","a","b"]}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		codes := out["codes"].(map[string]interface{})
		encoded := out["encoded"].(string)
		assert.Equal(t, strings.Repeat(codes["ab"].(string), 2), encoded)
	})

	t.Run("unrecognized input", func(t *testing.T) {
		resp, out := postJSON(t, ts.URL+"/v1/encode", `{"text":"abc","vocabulary":["a","b"]}`)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Contains(t, out["error"], "unrecognized input")
	})

	t.Run("empty text", func(t *testing.T) {
		resp, _ := postJSON(t, ts.URL+"/v1/encode", `{"text":""}`)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})
}

func TestHealthzReportsCache(t *testing.T) {
	s, ts := newTestServer(t)

	for i := 0; i < 3; i++ {
		resp, err := http.Post(ts.URL+"/v1/codes", "application/json", bytes.NewBufferString(`{"counts":{"x":1,"y":2}}`))
		require.NoError(t, err)
		resp.Body.Close()
	}
	assert.Equal(t, 1, s.cache.len())

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "ok", out["status"])
	assert.Equal(t, float64(1), out["cached"])
}

func TestMethodNotAllowed(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/v1/codes")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestCodeCache(t *testing.T) {
	cache, err := newCodeCache(2)
	require.NoError(t, err)

	counts := []huffman.SymbolCount{{Symbol: "a", Count: 1}, {Symbol: "b", Count: 3}}
	first, hit, err := cache.dictionary(counts)
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := cache.dictionary(counts)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first.DebugString(), second.DebugString())

	reordered := []huffman.SymbolCount{{Symbol: "b", Count: 3}, {Symbol: "a", Count: 1}}
	_, hit, err = cache.dictionary(reordered)
	require.NoError(t, err)
	assert.False(t, hit)

	_, _, err = cache.dictionary(nil)
	assert.ErrorIs(t, err, huffman.ErrEmptyAlphabet)
	assert.Equal(t, 2, cache.len())
}

func TestFingerprint(t *testing.T) {
	a := fingerprint([]huffman.SymbolCount{{Symbol: "ab", Count: 1}, {Symbol: "c", Count: 2}})
	b := fingerprint([]huffman.SymbolCount{{Symbol: "a", Count: 1}, {Symbol: "bc", Count: 2}})
	c := fingerprint([]huffman.SymbolCount{{Symbol: "ab", Count: 1}, {Symbol: "c", Count: 2}})
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, c)
}
