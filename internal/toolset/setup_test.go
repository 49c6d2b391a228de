package toolset

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trylogarithm/FixGPT/pkg/config"
)

func TestBuild_NoCategoriesEnabled(t *testing.T) {
	cfg := config.Default()
	cfg.Kubernetes.Enabled = false
	cfg.Loki.Enabled = false
	cfg.Prometheus.Enabled = false
	cfg.Git.Enabled = false

	_, err := Build(cfg)
	assert.ErrorContains(t, err, "no tools registered")
}

func TestBuild_LokiOnly(t *testing.T) {
	cfg := config.Default()
	cfg.Kubernetes.Enabled = false
	cfg.Git.Enabled = false
	cfg.Loki.Enabled = true
	cfg.Loki.URL = "http://loki.monitoring:3100"

	registry, err := Build(cfg)
	assert.NoError(t, err)
	assert.Equal(t, 2, registry.Count())

	menu := registry.ListEnabled()
	assert.Equal(t, "loki_logs", menu[0].ID)
	assert.Equal(t, "loki_metrics", menu[1].ID)
}
