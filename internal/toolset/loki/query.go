package loki

import (
	"context"
	"net/url"
	"strconv"

	"github.com/trylogarithm/FixGPT/pkg/tools"
)

// LogsTool runs a LogQL log query against Loki.
type LogsTool struct {
	client *Client
}

func (t *LogsTool) Describe() tools.Descriptor {
	return tools.Descriptor{
		ID:          "loki_logs",
		Name:        "Loki Logs Query",
		Category:    tools.CategoryLogs,
		Description: "Query logs from Grafana Loki using LogQL. Supports historical queries over a time range.",
		Inputs: []tools.InputSpec{
			{Name: "query", Type: tools.TypeString, Description: "LogQL query string (e.g. '{service=\"my-app\"} |= \"error\"')", Required: true},
			{Name: "start_time", Type: tools.TypeString, Description: "start time, RFC3339 or relative like '1h'", Default: "1h"},
			{Name: "end_time", Type: tools.TypeString, Description: "end time, RFC3339 or 'now'", Default: "now"},
			{Name: "limit", Type: tools.TypeInteger, Description: "maximum number of log lines to return", Default: 100},
			{Name: "direction", Type: tools.TypeString, Description: "'forward' or 'backward'", Default: "backward"},
		},
	}
}

func (t *LogsTool) Validate(inputs map[string]any) error {
	return tools.ValidateInputs(t.Describe(), inputs)
}

func (t *LogsTool) Execute(ctx context.Context, inputs map[string]any) tools.Result {
	query := tools.StringInput(inputs, "query", "")
	limit := tools.IntInput(inputs, "limit", 100)
	direction := tools.StringInput(inputs, "direction", "backward")

	start, end, err := timeRange(inputs)
	if err != nil {
		return tools.Fail("%v", err)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("start", start)
	params.Set("end", end)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("direction", direction)

	resp, err := t.client.queryRange(ctx, params)
	if err != nil {
		return tools.Fail("%v", err)
	}

	return tools.OkMeta(map[string]any{
		"query":       query,
		"result_type": resp.Data.ResultType,
		"result":      resp.Data.Result,
	}, map[string]any{"status": resp.Status})
}

// MetricsTool runs a LogQL metric query (rates and aggregations over logs).
type MetricsTool struct {
	client *Client
}

func (t *MetricsTool) Describe() tools.Descriptor {
	return tools.Descriptor{
		ID:          "loki_metrics",
		Name:        "Loki Metrics Query",
		Category:    tools.CategoryMetrics,
		Description: "Query metrics from Grafana Loki using LogQL metric queries. Useful for log-based metrics and aggregations.",
		Inputs: []tools.InputSpec{
			{Name: "query", Type: tools.TypeString, Description: "LogQL metric query (e.g. 'rate({service=\"my-app\"} |= \"error\" [5m])')", Required: true},
			{Name: "start_time", Type: tools.TypeString, Description: "start time, RFC3339 or relative like '1h'", Default: "1h"},
			{Name: "end_time", Type: tools.TypeString, Description: "end time, RFC3339 or 'now'", Default: "now"},
			{Name: "step", Type: tools.TypeString, Description: "step size for the range (e.g. '1m', '5m')", Default: "1m"},
		},
	}
}

func (t *MetricsTool) Validate(inputs map[string]any) error {
	return tools.ValidateInputs(t.Describe(), inputs)
}

func (t *MetricsTool) Execute(ctx context.Context, inputs map[string]any) tools.Result {
	query := tools.StringInput(inputs, "query", "")
	step := tools.StringInput(inputs, "step", "1m")

	start, end, err := timeRange(inputs)
	if err != nil {
		return tools.Fail("%v", err)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("start", start)
	params.Set("end", end)
	params.Set("step", step)

	resp, err := t.client.queryRange(ctx, params)
	if err != nil {
		return tools.Fail("%v", err)
	}

	return tools.OkMeta(map[string]any{
		"query":       query,
		"result_type": resp.Data.ResultType,
		"result":      resp.Data.Result,
	}, map[string]any{"status": resp.Status, "step": step})
}
