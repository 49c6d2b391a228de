package kube

import (
	"context"
	"fmt"
	"net/http"
	"os/exec"
	"strings"
	"time"

	"github.com/trylogarithm/FixGPT/pkg/tools"
)

type Config struct {
	Kubectl   string // kubectl binary, defaults to "kubectl" on PATH
	Context   string // optional kubeconfig context
	Namespace string // fallback namespace for tools
}

// runner executes kubectl with the given args and returns combined output.
// Injectable so argument construction is testable without a cluster.
type runner func(ctx context.Context, args ...string) (string, error)

// NewTools builds the kubernetes tool set. Fails when kubectl is not
// available, which is fatal at registry-build time.
func NewTools(cfg Config) ([]tools.Tool, error) {
	if cfg.Kubectl == "" {
		cfg.Kubectl = "kubectl"
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "default"
	}
	if _, err := exec.LookPath(cfg.Kubectl); err != nil {
		return nil, fmt.Errorf("kubectl not available: %w", err)
	}

	run := newRunner(cfg)
	return []tools.Tool{
		&CommandTool{run: run, namespace: cfg.Namespace},
		&EventsTool{run: run, namespace: cfg.Namespace},
		&LogsTool{run: run, namespace: cfg.Namespace},
		&ServiceHealthTool{run: run, namespace: cfg.Namespace},
		&ConnectivityTool{client: &http.Client{Timeout: 30 * time.Second}, namespace: cfg.Namespace},
	}, nil
}

func newRunner(cfg Config) runner {
	return func(ctx context.Context, args ...string) (string, error) {
		if cfg.Context != "" {
			args = append([]string{"--context", cfg.Context}, args...)
		}
		cmd := exec.CommandContext(ctx, cfg.Kubectl, args...)
		out, err := cmd.CombinedOutput()
		if err != nil {
			return "", fmt.Errorf("kubectl %s: %s: %w", strings.Join(args, " "), strings.TrimSpace(string(out)), err)
		}
		return string(out), nil
	}
}

func hasFlag(args []string, flags ...string) bool {
	for _, a := range args {
		for _, f := range flags {
			if a == f || strings.HasPrefix(a, f+"=") {
				return true
			}
		}
	}
	return false
}

func countLines(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}
