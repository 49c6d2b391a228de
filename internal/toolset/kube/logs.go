package kube

import (
	"context"
	"fmt"
	"strings"

	"github.com/trylogarithm/FixGPT/pkg/tools"
)

// LogsTool pulls recent container logs for every pod backing a service.
type LogsTool struct {
	run       runner
	namespace string
}

func (t *LogsTool) Describe() tools.Descriptor {
	return tools.Descriptor{
		ID:          "k8s_logs",
		Name:        "K8s Logs Query",
		Category:    tools.CategoryLogs,
		Description: "Query logs from Kubernetes services using kubectl. Requires kubectl to be configured and authenticated.",
		Inputs: []tools.InputSpec{
			{Name: "service_name", Type: tools.TypeString, Description: "name of the kubernetes service/deployment", Required: true},
			{Name: "namespace", Type: tools.TypeString, Description: "kubernetes namespace", Default: "default"},
			{Name: "time_window_minutes", Type: tools.TypeInteger, Description: "time window in minutes to query", Default: 60},
			{Name: "log_level", Type: tools.TypeString, Description: "log level filter (ERROR/WARN/INFO/DEBUG)"},
			{Name: "limit", Type: tools.TypeInteger, Description: "maximum number of log lines per pod", Default: 100},
		},
	}
}

func (t *LogsTool) Validate(inputs map[string]any) error {
	return tools.ValidateInputs(t.Describe(), inputs)
}

func (t *LogsTool) Execute(ctx context.Context, inputs map[string]any) tools.Result {
	service := tools.StringInput(inputs, "service_name", "")
	namespace := tools.StringInput(inputs, "namespace", t.namespace)
	window := tools.IntInput(inputs, "time_window_minutes", 60)
	level := strings.ToUpper(tools.StringInput(inputs, "log_level", ""))
	limit := tools.IntInput(inputs, "limit", 100)

	pods, err := findPods(ctx, t.run, namespace, service)
	if err != nil {
		return tools.Fail("%v", err)
	}
	if len(pods) == 0 {
		return tools.Fail("no pods found for service %q in namespace %q", service, namespace)
	}

	logs := map[string]any{}
	errorCount, warnCount := 0, 0
	for _, pod := range pods {
		out, err := t.run(ctx, "logs", pod,
			"--namespace", namespace,
			fmt.Sprintf("--since=%dm", window),
			fmt.Sprintf("--tail=%d", limit))
		if err != nil {
			logs[pod] = fmt.Sprintf("log fetch failed: %v", err)
			continue
		}

		lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
		kept := make([]string, 0, len(lines))
		for _, line := range lines {
			if line == "" {
				continue
			}
			upper := strings.ToUpper(line)
			if strings.Contains(upper, "ERROR") {
				errorCount++
			} else if strings.Contains(upper, "WARN") {
				warnCount++
			}
			if level != "" && !strings.Contains(upper, level) {
				continue
			}
			kept = append(kept, line)
		}
		logs[pod] = kept
	}

	return tools.OkMeta(map[string]any{
		"service":   service,
		"namespace": namespace,
		"logs":      logs,
	}, map[string]any{"pods": len(pods), "error_lines": errorCount, "warn_lines": warnCount})
}

// findPods lists pods in the namespace whose name carries the service name,
// which covers deployment-generated pod names without needing the selector.
func findPods(ctx context.Context, run runner, namespace, service string) ([]string, error) {
	out, err := run(ctx, "get", "pods", "--namespace", namespace, "-o", "name")
	if err != nil {
		return nil, err
	}

	var pods []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		name := strings.TrimPrefix(line, "pod/")
		if name != "" && strings.HasPrefix(name, service) {
			pods = append(pods, name)
		}
	}
	// cap fan-out per action, the timeout budget covers the whole call
	if len(pods) > 3 {
		pods = pods[:3]
	}
	return pods, nil
}

// ServiceHealthTool aggregates pod status into a healthy/degraded verdict.
type ServiceHealthTool struct {
	run       runner
	namespace string
}

func (t *ServiceHealthTool) Describe() tools.Descriptor {
	return tools.Descriptor{
		ID:          "k8s_service_health",
		Name:        "K8s Service Health",
		Category:    tools.CategoryHealth,
		Description: "Check health and status of Kubernetes services including pods, deployments, and events.",
		Inputs: []tools.InputSpec{
			{Name: "service_name", Type: tools.TypeString, Description: "name of the kubernetes service/deployment", Required: true},
			{Name: "namespace", Type: tools.TypeString, Description: "kubernetes namespace", Default: "default"},
		},
	}
}

func (t *ServiceHealthTool) Validate(inputs map[string]any) error {
	return tools.ValidateInputs(t.Describe(), inputs)
}

func (t *ServiceHealthTool) Execute(ctx context.Context, inputs map[string]any) tools.Result {
	service := tools.StringInput(inputs, "service_name", "")
	namespace := tools.StringInput(inputs, "namespace", t.namespace)

	out, err := t.run(ctx, "get", "pods", "--namespace", namespace, "-o", "wide")
	if err != nil {
		return tools.Fail("%v", err)
	}

	pods, healthy := podStatuses(out, service)
	if len(pods) == 0 {
		return tools.Fail("no pods found for service %q in namespace %q", service, namespace)
	}

	return tools.OkMeta(map[string]any{
		"service":   service,
		"namespace": namespace,
		"healthy":   healthy,
		"pods":      pods,
	}, map[string]any{"pods": len(pods)})
}

type podStatus struct {
	Name     string `json:"name"`
	Ready    string `json:"ready"`
	Status   string `json:"status"`
	Restarts string `json:"restarts"`
}

func podStatuses(out, service string) ([]podStatus, bool) {
	var pods []podStatus
	healthy := true
	for i, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		if i == 0 || line == "" { // header
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 || !strings.HasPrefix(fields[0], service) {
			continue
		}
		p := podStatus{Name: fields[0], Ready: fields[1], Status: fields[2], Restarts: fields[3]}
		pods = append(pods, p)
		ready := strings.Split(p.Ready, "/")
		if p.Status != "Running" || len(ready) != 2 || ready[0] != ready[1] {
			healthy = false
		}
	}
	return pods, healthy
}
