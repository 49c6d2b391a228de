package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config mirrors config.yaml: global loop limits plus one section per tool
// category. Read once at startup to build the registry and the loop limits.
type Config struct {
	Global     Global     `yaml:"global"`
	Server     Server     `yaml:"server"`
	Kubernetes Kubernetes `yaml:"kubernetes"`
	Loki       Loki       `yaml:"loki"`
	Prometheus Prometheus `yaml:"prometheus"`
	Git        Git        `yaml:"git"`
}

type Global struct {
	MaxSteps           int    `yaml:"max_steps" validate:"min=1"`
	StallWindow        int    `yaml:"stall_window" validate:"min=0"`
	ToolTimeoutSeconds int    `yaml:"tool_timeout_seconds" validate:"min=1"`
	PlanTimeoutSeconds int    `yaml:"plan_timeout_seconds" validate:"min=1"`
	LogLevel           string `yaml:"log_level" validate:"oneof=trace debug info warn error"`
	PrettyLogging      bool   `yaml:"pretty_logging"`
}

func (g Global) ToolTimeout() time.Duration {
	return time.Duration(g.ToolTimeoutSeconds) * time.Second
}

func (g Global) PlanTimeout() time.Duration {
	return time.Duration(g.PlanTimeoutSeconds) * time.Second
}

type Server struct {
	Port int `yaml:"port" validate:"min=1,max=65535"`
}

type Kubernetes struct {
	Enabled   bool   `yaml:"enabled"`
	Context   string `yaml:"context"`
	Namespace string `yaml:"namespace"`
}

type Loki struct {
	Enabled  bool   `yaml:"enabled"`
	URL      string `yaml:"url" validate:"required_if=Enabled true,omitempty,url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type Prometheus struct {
	Enabled         bool   `yaml:"enabled"`
	URL             string `yaml:"url" validate:"required_if=Enabled true,omitempty,url"`
	AlertmanagerURL string `yaml:"alertmanager_url" validate:"omitempty,url"`
	Username        string `yaml:"username"`
	Password        string `yaml:"password"`
}

type Git struct {
	Enabled  bool   `yaml:"enabled"`
	RepoPath string `yaml:"repo_path"`
}

// Default matches the fallback the agent ships with: short investigations
// against the local cluster and repo, log/metric backends opt-in.
func Default() *Config {
	return &Config{
		Global: Global{
			MaxSteps:           5,
			StallWindow:        3,
			ToolTimeoutSeconds: 60,
			PlanTimeoutSeconds: 120,
			LogLevel:           "info",
			PrettyLogging:      true,
		},
		Server:     Server{Port: 8080},
		Kubernetes: Kubernetes{Enabled: true, Namespace: "default"},
		Git:        Git{Enabled: true, RepoPath: "."},
	}
}

// Load reads the config file over the defaults. A missing file is not an
// error; a malformed or invalid one is fatal to startup.
func Load(path string) (*Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, cfg.Validate()
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	if !c.Kubernetes.Enabled && !c.Loki.Enabled && !c.Prometheus.Enabled && !c.Git.Enabled {
		return errors.New("validate config: no tool categories enabled")
	}
	return nil
}
