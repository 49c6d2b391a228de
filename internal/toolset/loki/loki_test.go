package loki

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const streamsResponse = `{
	"status": "success",
	"data": {
		"resultType": "streams",
		"result": [{"stream": {"service": "checkout"}, "values": [["1700000000000000000", "ERROR db timeout"]]}]
	}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{URL: srv.URL, Username: "admin", Password: "hunter2"})
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresURL(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func TestLogsTool_QueryParamsAndAuth(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	var gotUser, gotPass string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		gotUser, gotPass, _ = r.BasicAuth()
		w.Write([]byte(streamsResponse))
	})
	tool := &LogsTool{client: client}

	res := tool.Execute(context.Background(), map[string]any{
		"query": `{service="checkout"} |= "error"`,
		"limit": float64(25),
	})
	require.True(t, res.Success, res.Error)

	assert.Equal(t, "/loki/api/v1/query_range", gotPath)
	assert.Equal(t, []string{`{service="checkout"} |= "error"`}, gotQuery["query"])
	assert.Equal(t, []string{"25"}, gotQuery["limit"])
	assert.Equal(t, []string{"backward"}, gotQuery["direction"])
	assert.Equal(t, "admin", gotUser)
	assert.Equal(t, "hunter2", gotPass)

	data := res.Data.(map[string]any)
	assert.Equal(t, "streams", data["result_type"])
	assert.Equal(t, "success", res.Metadata["status"])
}

func TestLogsTool_TimeRangeDefaults(t *testing.T) {
	var start, end string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		start = r.URL.Query().Get("start")
		end = r.URL.Query().Get("end")
		w.Write([]byte(streamsResponse))
	})
	tool := &LogsTool{client: client}

	before := time.Now()
	res := tool.Execute(context.Background(), map[string]any{"query": "{service=\"x\"}"})
	require.True(t, res.Success, res.Error)

	startNs, err := strconv.ParseInt(start, 10, 64)
	require.NoError(t, err)
	endNs, err := strconv.ParseInt(end, 10, 64)
	require.NoError(t, err)

	// default window is the last hour ending now
	assert.InDelta(t, before.Add(-time.Hour).UnixNano(), startNs, float64(5*time.Second))
	assert.InDelta(t, before.UnixNano(), endNs, float64(5*time.Second))
}

func TestLogsTool_BadStartTime(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for invalid inputs")
	})
	tool := &LogsTool{client: client}

	res := tool.Execute(context.Background(), map[string]any{
		"query":      "{service=\"x\"}",
		"start_time": "yesterday-ish",
	})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "start_time")
}

func TestLogsTool_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "parse error in logql", http.StatusBadRequest)
	})
	tool := &LogsTool{client: client}

	res := tool.Execute(context.Background(), map[string]any{"query": "{bad"})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "status 400")
	assert.Contains(t, res.Error, "parse error in logql")
}

func TestMetricsTool(t *testing.T) {
	var gotQuery map[string][]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"status": "success", "data": {"resultType": "matrix", "result": []}}`))
	})
	tool := &MetricsTool{client: client}

	res := tool.Execute(context.Background(), map[string]any{
		"query": `rate({service="checkout"} |= "error" [5m])`,
		"step":  "5m",
	})
	require.True(t, res.Success, res.Error)

	assert.Equal(t, []string{"5m"}, gotQuery["step"])
	data := res.Data.(map[string]any)
	assert.Equal(t, "matrix", data["result_type"])
	assert.Equal(t, "5m", res.Metadata["step"])
}

func TestParseTime(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	got, err := parseTime("now", now)
	require.NoError(t, err)
	assert.Equal(t, now, got)

	got, err = parseTime("30m", now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(-30*time.Minute), got)

	got, err = parseTime("2026-08-30T10:00:00Z", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC), got)

	_, err = parseTime("whenever", now)
	assert.Error(t, err)
}
