package investigation

import (
	"errors"
	"time"

	"github.com/trylogarithm/FixGPT/pkg/tools"
)

type Status string

const (
	StatusInProgress     Status = "in_progress"
	StatusCompleted      Status = "completed"
	StatusFailed         Status = "failed"
	StatusStoppedAtLimit Status = "stopped_at_limit"
)

// ErrAlreadyTerminated signals a double finalization, which is a bug in the
// caller rather than a recoverable condition.
var ErrAlreadyTerminated = errors.New("investigation already terminated")

// ActionRecord is one loop iteration's evidence. Immutable once appended.
type ActionRecord struct {
	Index     int            `json:"index"`
	Tool      string         `json:"tool"`
	Inputs    map[string]any `json:"inputs"`
	Rationale string         `json:"rationale,omitempty"`
	Result    tools.Result   `json:"result"`
	Duration  time.Duration  `json:"duration"`
}

// Context is the accumulating record of one investigation: goal, executed
// actions in execution order, the planner's running findings and the status.
// It is owned by the loop driving the investigation; everyone else reads it
// through Snapshot.
type Context struct {
	goal     string
	records  []ActionRecord
	findings string
	status   Status
	summary  string
	started  time.Time
}

// Snapshot is a read-only view handed to the planning stage.
type Snapshot struct {
	Goal     string         `json:"goal"`
	Records  []ActionRecord `json:"records"`
	Findings string         `json:"findings,omitempty"`
	Status   Status         `json:"status"`
}

func NewContext(goal string) *Context {
	return &Context{
		goal:    goal,
		records: make([]ActionRecord, 0),
		status:  StatusInProgress,
		started: time.Now(),
	}
}

func (c *Context) Goal() string { return c.goal }

func (c *Context) Len() int { return len(c.records) }

func (c *Context) StartedAt() time.Time { return c.started }

// Append adds a record to the end of the sequence, assigning its index.
func (c *Context) Append(rec ActionRecord) ActionRecord {
	rec.Index = len(c.records)
	c.records = append(c.records, rec)
	return rec
}

func (c *Context) Findings() string { return c.findings }

func (c *Context) UpdateFindings(text string) { c.findings = text }

func (c *Context) Status() Status { return c.status }

// SetStatus is the one-way transition out of in_progress.
func (c *Context) SetStatus(s Status) error {
	if c.status != StatusInProgress {
		return ErrAlreadyTerminated
	}
	c.status = s
	return nil
}

func (c *Context) Summary() string { return c.summary }

func (c *Context) SetSummary(text string) { c.summary = text }

// Snapshot copies the record sequence so the planner can never mutate
// history, only extend it by proposing new actions.
func (c *Context) Snapshot() Snapshot {
	records := make([]ActionRecord, len(c.records))
	copy(records, c.records)
	return Snapshot{
		Goal:     c.goal,
		Records:  records,
		Findings: c.findings,
		Status:   c.status,
	}
}
