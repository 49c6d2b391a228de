package gitlog

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/trylogarithm/FixGPT/pkg/tools"
)

type Config struct {
	RepoPath string
}

type runner func(ctx context.Context, args ...string) (string, error)

// NewTools builds the git tool set against a local checkout of the service's
// repository. Fails when the path is not a git repository.
func NewTools(cfg Config) ([]tools.Tool, error) {
	if cfg.RepoPath == "" {
		cfg.RepoPath = "."
	}
	run := newRunner(cfg.RepoPath)
	if _, err := run(context.Background(), "rev-parse", "--git-dir"); err != nil {
		return nil, fmt.Errorf("%s is not a git repository: %w", cfg.RepoPath, err)
	}

	return []tools.Tool{
		&CommitHistoryTool{run: run},
		&DeploymentAnalysisTool{run: run},
	}, nil
}

func newRunner(repoPath string) runner {
	return func(ctx context.Context, args ...string) (string, error) {
		args = append([]string{"-C", repoPath}, args...)
		cmd := exec.CommandContext(ctx, "git", args...)
		out, err := cmd.CombinedOutput()
		if err != nil {
			return "", fmt.Errorf("git %s: %s: %w", strings.Join(args, " "), strings.TrimSpace(string(out)), err)
		}
		return string(out), nil
	}
}

// commit is one parsed `git log` entry.
type commit struct {
	Hash    string `json:"hash"`
	Author  string `json:"author"`
	Date    string `json:"date"`
	Subject string `json:"subject"`
}

const logFormat = "--pretty=format:%h%x1f%an%x1f%aI%x1f%s"

func parseCommits(out string) []commit {
	var commits []commit
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		fields := strings.Split(line, "\x1f")
		if len(fields) != 4 {
			continue
		}
		commits = append(commits, commit{Hash: fields[0], Author: fields[1], Date: fields[2], Subject: fields[3]})
	}
	return commits
}
