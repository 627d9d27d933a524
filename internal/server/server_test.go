package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pusher91/urlverdict/internal/config"
	"github.com/Pusher91/urlverdict/internal/domain"
	"github.com/Pusher91/urlverdict/internal/server/api"
)

// fakeProviders stands in for the reputation and network-intelligence
// APIs: every queried URL is unknown (404) and submissions succeed, while
// host lookups return a fixed record for 5.6.7.8.
func fakeProviders(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/urls", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{"id": "u-abc"}})
	})
	mux.HandleFunc("/urls/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/dns/resolve", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{r.URL.Query().Get("hostnames"): "5.6.7.8"})
	})
	mux.HandleFunc("/dns/reverse", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string][]string{"5.6.7.8": {"rdns.example.com"}})
	})
	mux.HandleFunc("/shodan/host/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"org":          "Example Org",
			"country_name": "Germany",
			"ports":        []int{443},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	providers := fakeProviders(t)
	return New(config.Config{
		DataDir:       t.TempDir(),
		VTAPIKey:      "vt-key",
		VTBaseURL:     providers.URL,
		VTDailyQuota:  10,
		ShodanAPIKey:  "shodan-key",
		ShodanBaseURL: providers.URL,
		DoHBaseURL:    providers.URL,
	})
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, api.Response) {
	t.Helper()
	var rd *bytes.Reader
	if body == "" {
		rd = bytes.NewReader(nil)
	} else {
		rd = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, rd)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var resp api.Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp), "body: %s", w.Body.String())
	return w, resp
}

func decodeData(t *testing.T, resp api.Response, dst any) {
	t.Helper()
	b, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, dst))
}

func TestScanAPI_ProducesVerdictAndHistoryEntry(t *testing.T) {
	s := newTestServer(t)
	h := s.Routes()

	w, resp := doJSON(t, h, http.MethodPost, "/api/scan", `{"url":"http://example.com/login"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.OK)

	var rec domain.VerdictRecord
	decodeData(t, resp, &rec)

	assert.Equal(t, 3, rec.HeuristicScore) // http scheme +2, "login" keyword +1
	assert.Equal(t, domain.ReputationSubmitted, rec.Reputation.Status)
	require.NotNil(t, rec.HostIntel)
	assert.Equal(t, "5.6.7.8", rec.HostIntel.IP)
	assert.Equal(t, []string{"rdns.example.com"}, rec.HostIntel.Hostnames)
	assert.Equal(t, domain.VerdictSuspicious, rec.Status)

	_, hist := doJSON(t, h, http.MethodGet, "/api/history", "")
	var hr historyResp
	decodeData(t, hist, &hr)
	require.Len(t, hr.Items, 1)
	assert.Equal(t, "http://example.com/login", hr.Items[0].URL)
}

func TestScanAPI_RejectsMalformedURL(t *testing.T) {
	s := newTestServer(t)

	w, resp := doJSON(t, s.Routes(), http.MethodPost, "/api/scan", `{"url":"notaurl"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.False(t, resp.OK)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "validation_error", resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "url")
}

func TestScanLinksAPI_ReplacesHistory(t *testing.T) {
	s := newTestServer(t)
	h := s.Routes()

	// Accumulate one single-scan record first.
	_, resp := doJSON(t, h, http.MethodPost, "/api/scan", `{"url":"https://example.com/"}`)
	require.True(t, resp.OK)

	w, resp := doJSON(t, h, http.MethodPost, "/api/scan/links",
		`{"urls":["http://a.example/login","bogus","https://b.example/"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.OK)

	var lr scanLinksResp
	decodeData(t, resp, &lr)
	assert.Equal(t, 2, lr.Count)

	_, hist := doJSON(t, h, http.MethodGet, "/api/history", "")
	var hr historyResp
	decodeData(t, hist, &hr)
	assert.Len(t, hr.Items, 2, "a link sweep snapshots history")
}

func TestQuotaAPI_ReflectsSpend(t *testing.T) {
	s := newTestServer(t)
	h := s.Routes()

	_, resp := doJSON(t, h, http.MethodGet, "/api/quota", "")
	var q quotaResp
	decodeData(t, resp, &q)
	assert.Equal(t, 10, q.Remaining)

	// One scan: the 404 query spends nothing, the submission spends one.
	_, scan := doJSON(t, h, http.MethodPost, "/api/scan", `{"url":"https://example.com/"}`)
	require.True(t, scan.OK)

	_, resp = doJSON(t, h, http.MethodGet, "/api/quota", "")
	decodeData(t, resp, &q)
	assert.Equal(t, 9, q.Remaining)
}

func TestScanAPI_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t)
	w, resp := doJSON(t, s.Routes(), http.MethodGet, "/api/scan", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.False(t, resp.OK)
}

func TestScanAPI_BadJSON(t *testing.T) {
	s := newTestServer(t)
	w, resp := doJSON(t, s.Routes(), http.MethodPost, "/api/scan", `{"url":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "bad_json", resp.Error.Code)
}
