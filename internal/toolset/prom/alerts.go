package prom

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	promv1 "github.com/prometheus/client_golang/api/prometheus/v1"

	"github.com/trylogarithm/FixGPT/pkg/tools"
)

// AlertsTool reads firing alerts from Prometheus or, when configured, the
// richer Alertmanager view (silences, inhibition state).
type AlertsTool struct {
	api             promv1.API
	alertmanagerURL string
	http            *http.Client
}

func (t *AlertsTool) Describe() tools.Descriptor {
	return tools.Descriptor{
		ID:          "prometheus_alerts",
		Name:        "Prometheus Alerts",
		Category:    tools.CategoryAlerts,
		Description: "Query active alerts from Prometheus and Alertmanager. Shows current firing alerts and their details.",
		Inputs: []tools.InputSpec{
			{Name: "source", Type: tools.TypeString, Description: "'prometheus' or 'alertmanager'", Default: "prometheus"},
			{Name: "state", Type: tools.TypeString, Description: "alert state filter: 'firing', 'pending' (prometheus) or 'active', 'suppressed' (alertmanager)"},
			{Name: "filter", Type: tools.TypeString, Description: "alertmanager label filter (e.g. 'alertname=HighErrorRate')"},
		},
	}
}

func (t *AlertsTool) Validate(inputs map[string]any) error {
	return tools.ValidateInputs(t.Describe(), inputs)
}

func (t *AlertsTool) Execute(ctx context.Context, inputs map[string]any) tools.Result {
	source := tools.StringInput(inputs, "source", "prometheus")
	state := tools.StringInput(inputs, "state", "")

	if source == "alertmanager" {
		return t.alertmanagerAlerts(ctx, state, tools.StringInput(inputs, "filter", ""))
	}

	res, err := t.api.Alerts(ctx)
	if err != nil {
		return tools.Fail("prometheus alerts: %v", err)
	}

	alerts := filterAlerts(res.Alerts, state)
	return tools.OkMeta(map[string]any{
		"source": "prometheus",
		"alerts": alerts,
	}, map[string]any{"total": len(res.Alerts), "returned": len(alerts)})
}

func filterAlerts(alerts []promv1.Alert, state string) []promv1.Alert {
	if state == "" {
		return alerts
	}
	out := make([]promv1.Alert, 0, len(alerts))
	for _, a := range alerts {
		if strings.EqualFold(string(a.State), state) {
			out = append(out, a)
		}
	}
	return out
}

func (t *AlertsTool) alertmanagerAlerts(ctx context.Context, state, filter string) tools.Result {
	if t.alertmanagerURL == "" {
		return tools.Fail("alertmanager url not configured")
	}

	q := url.Values{}
	if filter != "" {
		q.Set("filter", filter)
	}
	if state == "suppressed" {
		q.Set("silenced", "true")
	} else if state == "active" {
		q.Set("active", "true")
		q.Set("silenced", "false")
		q.Set("inhibited", "false")
	}

	endpoint := fmt.Sprintf("%s/api/v2/alerts?%s", strings.TrimRight(t.alertmanagerURL, "/"), q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return tools.Fail("build request: %v", err)
	}

	resp, err := t.http.Do(req)
	if err != nil {
		return tools.Fail("alertmanager: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return tools.Fail("alertmanager: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var alerts []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&alerts); err != nil {
		return tools.Fail("decode alertmanager response: %v", err)
	}

	return tools.OkMeta(map[string]any{
		"source": "alertmanager",
		"alerts": alerts,
	}, map[string]any{"returned": len(alerts)})
}

// TargetsTool shows which scrape targets are up, down or dropped.
type TargetsTool struct {
	api promv1.API
}

func (t *TargetsTool) Describe() tools.Descriptor {
	return tools.Descriptor{
		ID:          "prometheus_targets",
		Name:        "Prometheus Targets",
		Category:    tools.CategoryHealth,
		Description: "Check status of Prometheus targets and service discovery. Shows which services are being monitored.",
		Inputs: []tools.InputSpec{
			{Name: "state", Type: tools.TypeString, Description: "target state filter: 'active', 'dropped' or 'any'", Default: "active"},
		},
	}
}

func (t *TargetsTool) Validate(inputs map[string]any) error {
	return tools.ValidateInputs(t.Describe(), inputs)
}

func (t *TargetsTool) Execute(ctx context.Context, inputs map[string]any) tools.Result {
	state := tools.StringInput(inputs, "state", "active")

	res, err := t.api.Targets(ctx)
	if err != nil {
		return tools.Fail("prometheus targets: %v", err)
	}

	data := map[string]any{}
	meta := map[string]any{}
	if state == "active" || state == "any" {
		data["active"] = res.Active
		meta["active"] = len(res.Active)
		down := 0
		for _, target := range res.Active {
			if target.Health != promv1.HealthGood {
				down++
			}
		}
		meta["unhealthy"] = down
	}
	if state == "dropped" || state == "any" {
		data["dropped"] = res.Dropped
		meta["dropped"] = len(res.Dropped)
	}

	return tools.OkMeta(data, meta)
}
