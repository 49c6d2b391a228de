package kube

import (
	"context"
	"strings"

	"github.com/trylogarithm/FixGPT/pkg/tools"
)

// CommandTool runs an arbitrary kubectl subcommand for deep cluster
// inspection; the planner uses it for discovery before anything else.
type CommandTool struct {
	run       runner
	namespace string
}

func (t *CommandTool) Describe() tools.Descriptor {
	return tools.Descriptor{
		ID:          "kubectl_command",
		Name:        "Kubectl Command Execution",
		Category:    tools.CategoryHealth,
		Description: "Execute kubectl commands directly for deep cluster inspection and verification",
		Inputs: []tools.InputSpec{
			{Name: "command", Type: tools.TypeString, Description: "kubectl subcommand to execute (e.g. 'get pods', 'describe pod my-pod', 'top nodes')", Required: true},
			{Name: "namespace", Type: tools.TypeString, Description: "kubernetes namespace", Default: "default"},
			{Name: "output_format", Type: tools.TypeString, Description: "output format: 'json', 'yaml' or 'text'", Default: "text"},
			{Name: "additional_flags", Type: tools.TypeString, Description: "additional kubectl flags"},
		},
	}
}

func (t *CommandTool) Validate(inputs map[string]any) error {
	return tools.ValidateInputs(t.Describe(), inputs)
}

func (t *CommandTool) Execute(ctx context.Context, inputs map[string]any) tools.Result {
	command := tools.StringInput(inputs, "command", "")
	namespace := tools.StringInput(inputs, "namespace", t.namespace)
	format := tools.StringInput(inputs, "output_format", "text")
	flags := tools.StringInput(inputs, "additional_flags", "")

	args := strings.Fields(command)
	if !hasFlag(args, "-n", "--namespace", "-A", "--all-namespaces") {
		args = append(args, "--namespace", namespace)
	}
	if (format == "json" || format == "yaml") && !hasFlag(args, "-o", "--output") {
		args = append(args, "-o", format)
	}
	if flags != "" {
		args = append(args, strings.Fields(flags)...)
	}

	out, err := t.run(ctx, args...)
	if err != nil {
		return tools.Fail("%v", err)
	}
	return tools.OkMeta(map[string]any{
		"command": "kubectl " + strings.Join(args, " "),
		"output":  out,
	}, map[string]any{"lines": countLines(out)})
}

// reasons that almost always explain an incident on their own
var criticalReasons = []string{"OOMKilled", "OOMKilling", "Unhealthy", "BackOff", "CrashLoopBackOff", "Failed", "FailedScheduling", "ErrImagePull", "ImagePullBackOff", "Evicted", "NodeNotReady"}

// EventsTool surfaces recent cluster events, flagging the critical reasons.
type EventsTool struct {
	run       runner
	namespace string
}

func (t *EventsTool) Describe() tools.Descriptor {
	return tools.Descriptor{
		ID:          "kubectl_events",
		Name:        "Kubernetes Events Analysis",
		Category:    tools.CategoryHealth,
		Description: "Analyze Kubernetes events with filtering for OOMKilled, probe failures, and other critical events",
		Inputs: []tools.InputSpec{
			{Name: "namespace", Type: tools.TypeString, Description: "kubernetes namespace", Default: "default"},
			{Name: "event_type", Type: tools.TypeString, Description: "filter by event type: 'Warning', 'Normal' or 'all'", Default: "all"},
			{Name: "reason_filter", Type: tools.TypeString, Description: "filter by reason, e.g. 'OOMKilled', 'Unhealthy', 'BackOff'"},
			{Name: "limit", Type: tools.TypeInteger, Description: "maximum number of events to return", Default: 50},
		},
	}
}

func (t *EventsTool) Validate(inputs map[string]any) error {
	return tools.ValidateInputs(t.Describe(), inputs)
}

func (t *EventsTool) Execute(ctx context.Context, inputs map[string]any) tools.Result {
	namespace := tools.StringInput(inputs, "namespace", t.namespace)
	eventType := tools.StringInput(inputs, "event_type", "all")
	reason := tools.StringInput(inputs, "reason_filter", "")
	limit := tools.IntInput(inputs, "limit", 50)

	args := []string{"get", "events", "--sort-by=.lastTimestamp", "--namespace", namespace}
	if eventType == "Warning" || eventType == "Normal" {
		args = append(args, "--field-selector", "type="+eventType)
	}

	out, err := t.run(ctx, args...)
	if err != nil {
		return tools.Fail("%v", err)
	}

	events := filterEvents(out, reason, limit)
	critical := 0
	for _, line := range events {
		for _, r := range criticalReasons {
			if strings.Contains(line, r) {
				critical++
				break
			}
		}
	}

	return tools.OkMeta(map[string]any{
		"namespace": namespace,
		"events":    events,
	}, map[string]any{"returned": len(events), "critical": critical})
}

func filterEvents(out, reason string, limit int) []string {
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	events := make([]string, 0, limit)
	for i, line := range lines {
		if i == 0 && strings.HasPrefix(line, "LAST SEEN") {
			continue // header
		}
		if line == "" {
			continue
		}
		if reason != "" && !strings.Contains(line, reason) {
			continue
		}
		events = append(events, line)
	}
	// most recent last in kubectl output, keep the tail
	if len(events) > limit {
		events = events[len(events)-limit:]
	}
	return events
}
