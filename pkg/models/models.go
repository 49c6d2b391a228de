package models

import (
	"github.com/trylogarithm/FixGPT/pkg/memory/buffer"
)

type State string

const (
	Init          State = "init"
	Investigating State = "investigating"
	Failed        State = "failed" // dead state
	Finished      State = "finished"
)

// Report is the presentation shape of an investigation, live or terminal.
// Exchanges carries the raw planner prompt/answer pairs so a report can be
// audited beyond the structured step records.
type Report struct {
	ID        string          `json:"id"`
	Goal      string          `json:"goal"`
	State     State           `json:"state"`
	Status    string          `json:"status"`
	Findings  string          `json:"findings,omitempty"`
	Summary   string          `json:"summary,omitempty"`
	Steps     []StepRecord    `json:"steps"`
	Exchanges []buffer.Memory `json:"exchanges,omitempty"`
	Error     string          `json:"error,omitempty"`
}

type StepRecord struct {
	Index      int            `json:"index"`
	Tool       string         `json:"tool"`
	Inputs     map[string]any `json:"inputs"`
	Rationale  string         `json:"rationale,omitempty"`
	Success    bool           `json:"success"`
	Output     any            `json:"output,omitempty"`
	Error      string         `json:"error,omitempty"`
	DurationMs int64          `json:"duration_ms"`
}
