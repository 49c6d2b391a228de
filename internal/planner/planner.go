package planner

import (
	"context"

	"github.com/trylogarithm/FixGPT/internal/investigation"
	"github.com/trylogarithm/FixGPT/pkg/tools"
)

// Action is a proposed next step: which tool to run and with what inputs.
type Action struct {
	Tool      string         `json:"tool"`
	Inputs    map[string]any `json:"inputs"`
	Rationale string         `json:"rationale,omitempty"`
}

// Step is the outcome of one planning call: either a next action or a
// terminate signal, optionally folding new evidence into the findings.
type Step struct {
	Action   *Action
	Findings string
	Done     bool
}

// Planner decides the next diagnostic action from the investigation so far
// and the menu of available tools. The loop treats it as opaque: a non-nil
// error from Plan is a planning fault that ends the investigation as failed.
type Planner interface {
	Plan(ctx context.Context, snap investigation.Snapshot, menu []tools.Descriptor) (Step, error)
	Summarize(ctx context.Context, snap investigation.Snapshot) (string, error)
}

// Factory hands out one Planner per investigation so runs keep no shared
// mutable state between them.
type Factory interface {
	NewRun() Planner
}
