package kube

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/trylogarithm/FixGPT/pkg/tools"
)

// ConnectivityTool probes a service's health endpoint over its cluster DNS
// name, so it only reaches private services when the agent runs in-cluster.
type ConnectivityTool struct {
	client    *http.Client
	namespace string
}

func (t *ConnectivityTool) Describe() tools.Descriptor {
	return tools.Descriptor{
		ID:          "service_connectivity",
		Name:        "Service Connectivity Testing",
		Category:    tools.CategoryHealth,
		Description: "Test actual service connectivity, health endpoints, and end-to-end functionality",
		Inputs: []tools.InputSpec{
			{Name: "service_name", Type: tools.TypeString, Description: "name of the service to test", Required: true},
			{Name: "namespace", Type: tools.TypeString, Description: "kubernetes namespace", Default: "default"},
			{Name: "port", Type: tools.TypeInteger, Description: "service port to test", Default: 8080},
			{Name: "protocol", Type: tools.TypeString, Description: "protocol to use: 'http' or 'https'", Default: "http"},
			{Name: "health_path", Type: tools.TypeString, Description: "health check endpoint path", Default: "/health"},
			{Name: "timeout_seconds", Type: tools.TypeInteger, Description: "connection timeout in seconds", Default: 30},
		},
	}
}

func (t *ConnectivityTool) Validate(inputs map[string]any) error {
	return tools.ValidateInputs(t.Describe(), inputs)
}

func (t *ConnectivityTool) Execute(ctx context.Context, inputs map[string]any) tools.Result {
	service := tools.StringInput(inputs, "service_name", "")
	namespace := tools.StringInput(inputs, "namespace", t.namespace)
	port := tools.IntInput(inputs, "port", 8080)
	protocol := tools.StringInput(inputs, "protocol", "http")
	path := tools.StringInput(inputs, "health_path", "/health")
	timeout := tools.IntInput(inputs, "timeout_seconds", 30)

	url := fmt.Sprintf("%s://%s.%s.svc.cluster.local:%d%s", protocol, service, namespace, port, path)

	reqCtx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return tools.Fail("build request: %v", err)
	}

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		return tools.Fail("connect to %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	return tools.OkMeta(map[string]any{
		"url":         url,
		"status_code": resp.StatusCode,
		"reachable":   true,
		"healthy":     resp.StatusCode >= 200 && resp.StatusCode < 300,
		"body":        string(body),
	}, map[string]any{"latency_ms": time.Since(start).Milliseconds()})
}
