package gitlog

import (
	"context"
	"fmt"
	"strings"

	"github.com/trylogarithm/FixGPT/pkg/tools"
)

// CommitHistoryTool correlates recent code changes with the incident window.
type CommitHistoryTool struct {
	run runner
}

func (t *CommitHistoryTool) Describe() tools.Descriptor {
	return tools.Descriptor{
		ID:          "git_commit_history",
		Name:        "Git Commit History",
		Category:    tools.CategoryCode,
		Description: "Query Git commit history to correlate code changes with production issues. Helps identify recent deployments and changes.",
		Inputs: []tools.InputSpec{
			{Name: "since", Type: tools.TypeString, Description: "time range (e.g. '1 hour ago', '2 days ago') or ISO date", Default: "24 hours ago"},
			{Name: "until", Type: tools.TypeString, Description: "end time (ISO date or relative)"},
			{Name: "author", Type: tools.TypeString, Description: "filter by commit author"},
			{Name: "grep", Type: tools.TypeString, Description: "search commit messages for keywords"},
			{Name: "file_path", Type: tools.TypeString, Description: "filter commits affecting a specific file/directory"},
			{Name: "limit", Type: tools.TypeInteger, Description: "maximum number of commits to return", Default: 50},
			{Name: "branch", Type: tools.TypeString, Description: "branch to query (default: current branch)"},
		},
	}
}

func (t *CommitHistoryTool) Validate(inputs map[string]any) error {
	return tools.ValidateInputs(t.Describe(), inputs)
}

func (t *CommitHistoryTool) Execute(ctx context.Context, inputs map[string]any) tools.Result {
	args := buildHistoryArgs(inputs)

	out, err := t.run(ctx, args...)
	if err != nil {
		return tools.Fail("%v", err)
	}

	commits := parseCommits(out)
	return tools.OkMeta(map[string]any{
		"commits": commits,
	}, map[string]any{"returned": len(commits), "since": tools.StringInput(inputs, "since", "24 hours ago")})
}

func buildHistoryArgs(inputs map[string]any) []string {
	args := []string{"log", logFormat,
		"--since=" + tools.StringInput(inputs, "since", "24 hours ago"),
		fmt.Sprintf("--max-count=%d", tools.IntInput(inputs, "limit", 50)),
	}
	if v := tools.StringInput(inputs, "until", ""); v != "" {
		args = append(args, "--until="+v)
	}
	if v := tools.StringInput(inputs, "author", ""); v != "" {
		args = append(args, "--author="+v)
	}
	if v := tools.StringInput(inputs, "grep", ""); v != "" {
		args = append(args, "--grep="+v, "-i")
	}
	if v := tools.StringInput(inputs, "branch", ""); v != "" {
		args = append(args, v)
	}
	if v := tools.StringInput(inputs, "file_path", ""); v != "" {
		args = append(args, "--", v)
	}
	return args
}

// markers in commit subjects that indicate a deployment-related change
var deploymentPatterns = []string{"deploy", "release", "rollback", "hotfix", "revert", "bump", "helm", "k8s", "docker"}

// DeploymentAnalysisTool looks for deployment-shaped commits in the recent
// history and reports their frequency per day.
type DeploymentAnalysisTool struct {
	run runner
}

func (t *DeploymentAnalysisTool) Describe() tools.Descriptor {
	return tools.Descriptor{
		ID:          "git_deployment_analysis",
		Name:        "Git Deployment Analysis",
		Category:    tools.CategoryCode,
		Description: "Analyze recent deployments, releases, and merge patterns to correlate with production issues.",
		Inputs: []tools.InputSpec{
			{Name: "since", Type: tools.TypeString, Description: "time range to analyze (e.g. '48 hours ago', '1 week ago')", Default: "48 hours ago"},
			{Name: "include_merges", Type: tools.TypeBoolean, Description: "include merge commits", Default: true},
		},
	}
}

func (t *DeploymentAnalysisTool) Validate(inputs map[string]any) error {
	return tools.ValidateInputs(t.Describe(), inputs)
}

func (t *DeploymentAnalysisTool) Execute(ctx context.Context, inputs map[string]any) tools.Result {
	args := []string{"log", logFormat, "--since=" + tools.StringInput(inputs, "since", "48 hours ago")}
	if !tools.BoolInput(inputs, "include_merges", true) {
		args = append(args, "--no-merges")
	}

	out, err := t.run(ctx, args...)
	if err != nil {
		return tools.Fail("%v", err)
	}

	commits := parseCommits(out)
	deployments := classifyDeployments(commits)
	perDay := map[string]int{}
	for _, c := range deployments {
		if len(c.Date) >= 10 {
			perDay[c.Date[:10]]++
		}
	}

	return tools.OkMeta(map[string]any{
		"deployments":         deployments,
		"deployments_per_day": perDay,
	}, map[string]any{"commits_scanned": len(commits), "deployments": len(deployments)})
}

func classifyDeployments(commits []commit) []commit {
	var out []commit
	for _, c := range commits {
		subject := strings.ToLower(c.Subject)
		for _, p := range deploymentPatterns {
			if strings.Contains(subject, p) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}
