package loki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/trylogarithm/FixGPT/pkg/tools"
)

type Config struct {
	URL      string
	Username string
	Password string
}

// Client is a minimal Grafana Loki HTTP API client; Loki ships no Go client
// library, the API is two GET endpoints.
type Client struct {
	base     string
	username string
	password string
	http     *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("loki url must be configured")
	}
	return &Client{
		base:     strings.TrimRight(cfg.URL, "/"),
		username: cfg.Username,
		password: cfg.Password,
		http:     &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// NewTools builds the loki tool set.
func NewTools(cfg Config) ([]tools.Tool, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return []tools.Tool{
		&LogsTool{client: client},
		&MetricsTool{client: client},
	}, nil
}

type queryResponse struct {
	Status string `json:"status"`
	Data   struct {
		ResultType string          `json:"resultType"`
		Result     json.RawMessage `json:"result"`
	} `json:"data"`
}

func (c *Client) queryRange(ctx context.Context, params url.Values) (*queryResponse, error) {
	endpoint := c.base + "/loki/api/v1/query_range?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("loki: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("loki: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode loki response: %w", err)
	}
	return &decoded, nil
}

// timeRange resolves the start/end inputs into unix-nanosecond strings the
// loki API expects. Relative values like "1h" mean that long before now.
func timeRange(inputs map[string]any) (string, string, error) {
	now := time.Now()

	start := now.Add(-time.Hour)
	if s := tools.StringInput(inputs, "start_time", ""); s != "" {
		parsed, err := parseTime(s, now)
		if err != nil {
			return "", "", fmt.Errorf("start_time: %w", err)
		}
		start = parsed
	}

	end := now
	if s := tools.StringInput(inputs, "end_time", ""); s != "" {
		parsed, err := parseTime(s, now)
		if err != nil {
			return "", "", fmt.Errorf("end_time: %w", err)
		}
		end = parsed
	}

	return strconv.FormatInt(start.UnixNano(), 10), strconv.FormatInt(end.UnixNano(), 10), nil
}

func parseTime(s string, now time.Time) (time.Time, error) {
	if s == "now" {
		return now, nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		return now.Add(-d), nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable time %q", s)
	}
	return ts, nil
}
