package prom

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/api"
	promv1 "github.com/prometheus/client_golang/api/prometheus/v1"

	"github.com/trylogarithm/FixGPT/pkg/tools"
)

type Config struct {
	URL             string
	AlertmanagerURL string
	Username        string
	Password        string
}

// NewTools builds the prometheus tool set against the HTTP API.
func NewTools(cfg Config) ([]tools.Tool, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("prometheus url must be configured")
	}

	var rt http.RoundTripper = api.DefaultRoundTripper
	if cfg.Username != "" {
		rt = &basicAuthRoundTripper{username: cfg.Username, password: cfg.Password, next: rt}
	}

	client, err := api.NewClient(api.Config{Address: cfg.URL, RoundTripper: rt})
	if err != nil {
		return nil, fmt.Errorf("prometheus client: %w", err)
	}
	v1api := promv1.NewAPI(client)

	return []tools.Tool{
		&QueryTool{api: v1api},
		&AlertsTool{api: v1api, alertmanagerURL: cfg.AlertmanagerURL, http: &http.Client{Transport: rt, Timeout: 30 * time.Second}},
		&TargetsTool{api: v1api},
	}, nil
}

type basicAuthRoundTripper struct {
	username, password string
	next               http.RoundTripper
}

func (rt *basicAuthRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.SetBasicAuth(rt.username, rt.password)
	return rt.next.RoundTrip(req)
}

// parseTime accepts RFC3339 timestamps, relative windows like "15m"/"2h"
// (meaning that long ago) and "now".
func parseTime(s string, def time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "", "now":
		return def, nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		return time.Now().Add(-d), nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable time %q", s)
	}
	return ts, nil
}
