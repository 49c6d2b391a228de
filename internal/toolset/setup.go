package toolset

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/trylogarithm/FixGPT/internal/toolset/gitlog"
	"github.com/trylogarithm/FixGPT/internal/toolset/kube"
	"github.com/trylogarithm/FixGPT/internal/toolset/loki"
	"github.com/trylogarithm/FixGPT/internal/toolset/prom"
	"github.com/trylogarithm/FixGPT/pkg/config"
	"github.com/trylogarithm/FixGPT/pkg/tools"
)

// Build assembles the tool registry from the enabled categories. A category
// whose tools cannot be constructed is fatal: a misconfigured registry at
// startup is a setup error, not something to discover mid-investigation.
func Build(cfg *config.Config) (*tools.Registry, error) {
	registry := tools.NewRegistry()

	if cfg.Kubernetes.Enabled {
		ts, err := kube.NewTools(kube.Config{Context: cfg.Kubernetes.Context, Namespace: cfg.Kubernetes.Namespace})
		if err != nil {
			return nil, fmt.Errorf("kubernetes tools: %w", err)
		}
		if err := registerAll(registry, ts); err != nil {
			return nil, err
		}
		log.Info().Msg("kubernetes tools enabled")
	}

	if cfg.Loki.Enabled {
		ts, err := loki.NewTools(loki.Config{URL: cfg.Loki.URL, Username: cfg.Loki.Username, Password: cfg.Loki.Password})
		if err != nil {
			return nil, fmt.Errorf("loki tools: %w", err)
		}
		if err := registerAll(registry, ts); err != nil {
			return nil, err
		}
		log.Info().Msg("loki tools enabled")
	}

	if cfg.Prometheus.Enabled {
		ts, err := prom.NewTools(prom.Config{
			URL:             cfg.Prometheus.URL,
			AlertmanagerURL: cfg.Prometheus.AlertmanagerURL,
			Username:        cfg.Prometheus.Username,
			Password:        cfg.Prometheus.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("prometheus tools: %w", err)
		}
		if err := registerAll(registry, ts); err != nil {
			return nil, err
		}
		log.Info().Msg("prometheus tools enabled")
	}

	if cfg.Git.Enabled {
		ts, err := gitlog.NewTools(gitlog.Config{RepoPath: cfg.Git.RepoPath})
		if err != nil {
			return nil, fmt.Errorf("git tools: %w", err)
		}
		if err := registerAll(registry, ts); err != nil {
			return nil, err
		}
		log.Info().Msg("git tools enabled")
	}

	if registry.Count() == 0 {
		return nil, errors.New("no tools registered, cannot run investigations")
	}
	return registry, nil
}

func registerAll(registry *tools.Registry, ts []tools.Tool) error {
	for _, t := range ts {
		if err := registry.Register(t); err != nil {
			return fmt.Errorf("register %s: %w", t.Describe().ID, err)
		}
	}
	return nil
}
