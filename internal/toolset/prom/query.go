package prom

import (
	"context"
	"time"

	promv1 "github.com/prometheus/client_golang/api/prometheus/v1"

	"github.com/trylogarithm/FixGPT/pkg/tools"
)

// QueryTool evaluates a PromQL expression, instant or over a range.
type QueryTool struct {
	api promv1.API
}

func (t *QueryTool) Describe() tools.Descriptor {
	return tools.Descriptor{
		ID:          "prometheus_query",
		Name:        "Prometheus Query",
		Category:    tools.CategoryMetrics,
		Description: "Query metrics from Prometheus using PromQL. Supports instant and range queries.",
		Inputs: []tools.InputSpec{
			{Name: "query", Type: tools.TypeString, Description: "PromQL query string (e.g. 'up', 'rate(http_requests_total[5m])')", Required: true},
			{Name: "query_type", Type: tools.TypeString, Description: "'instant' or 'range'", Default: "instant"},
			{Name: "start_time", Type: tools.TypeString, Description: "range start, RFC3339 or relative like '1h'", Default: "1h"},
			{Name: "end_time", Type: tools.TypeString, Description: "range end, RFC3339 or 'now'", Default: "now"},
			{Name: "step", Type: tools.TypeString, Description: "range resolution step (e.g. '15s', '1m')", Default: "15s"},
		},
	}
}

func (t *QueryTool) Validate(inputs map[string]any) error {
	return tools.ValidateInputs(t.Describe(), inputs)
}

func (t *QueryTool) Execute(ctx context.Context, inputs map[string]any) tools.Result {
	query := tools.StringInput(inputs, "query", "")
	queryType := tools.StringInput(inputs, "query_type", "instant")

	if queryType == "range" {
		return t.rangeQuery(ctx, query, inputs)
	}

	val, warnings, err := t.api.Query(ctx, query, time.Now())
	if err != nil {
		return tools.Fail("prometheus query: %v", err)
	}
	return tools.OkMeta(map[string]any{
		"query":       query,
		"result_type": val.Type().String(),
		"result":      val,
	}, map[string]any{"warnings": warnings})
}

func (t *QueryTool) rangeQuery(ctx context.Context, query string, inputs map[string]any) tools.Result {
	start, err := parseTime(tools.StringInput(inputs, "start_time", "1h"), time.Now().Add(-time.Hour))
	if err != nil {
		return tools.Fail("start_time: %v", err)
	}
	end, err := parseTime(tools.StringInput(inputs, "end_time", "now"), time.Now())
	if err != nil {
		return tools.Fail("end_time: %v", err)
	}
	step, err := time.ParseDuration(tools.StringInput(inputs, "step", "15s"))
	if err != nil {
		return tools.Fail("step: %v", err)
	}

	val, warnings, err := t.api.QueryRange(ctx, query, promv1.Range{Start: start, End: end, Step: step})
	if err != nil {
		return tools.Fail("prometheus range query: %v", err)
	}
	return tools.OkMeta(map[string]any{
		"query":       query,
		"result_type": val.Type().String(),
		"result":      val,
	}, map[string]any{"warnings": warnings, "start": start, "end": end})
}
