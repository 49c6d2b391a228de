package loop

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/trylogarithm/FixGPT/internal/gateway"
	"github.com/trylogarithm/FixGPT/internal/investigation"
	"github.com/trylogarithm/FixGPT/internal/planner"
	"github.com/trylogarithm/FixGPT/pkg/logger"
	"github.com/trylogarithm/FixGPT/pkg/tools"
)

var errEmptyPlan = errors.New("planner returned neither an action nor a terminate signal")

type Config struct {
	// MaxSteps caps the number of recorded actions per investigation.
	MaxSteps int

	// StallWindow terminates the run after this many consecutive proposals of
	// the identical tool+inputs pair. 0 disables stall detection.
	StallWindow int

	// ToolTimeout is the wall-clock budget the gateway enforces per action.
	ToolTimeout time.Duration

	// PlanTimeout bounds each planning and summarization call so a hung
	// model call cannot block the run forever. 0 leaves the caller's
	// context in charge.
	PlanTimeout time.Duration
}

// Loop drives one investigation through its PLANNING -> EXECUTING ->
// RECORDING cycle until the planner signals done, the step budget runs out,
// the planner stalls, or planning faults. The loop owns the context for the
// lifetime of the run; recording happens at exactly one point per iteration,
// so context length always equals iterations completed.
type Loop struct {
	cfg      Config
	planner  planner.Planner
	gateway  *gateway.Gateway
	registry *tools.Registry
	inv      *investigation.Context
	l        zerolog.Logger

	lastSig string
	repeat  int
	outcome investigation.Status
	planErr error
	done    bool
}

func New(cfg Config, p planner.Planner, gw *gateway.Gateway, registry *tools.Registry, inv *investigation.Context) *Loop {
	return &Loop{
		cfg:      cfg,
		planner:  p,
		gateway:  gw,
		registry: registry,
		inv:      inv,
		l:        log.With().Str("goal", inv.Goal()).Logger(),
	}
}

func (lp *Loop) Context() *investigation.Context { return lp.inv }

// PlanningFault returns the error that ended the run, if planning faulted.
func (lp *Loop) PlanningFault() error { return lp.planErr }

// Run drives the loop to termination and finalizes the context.
func (lp *Loop) Run(ctx context.Context) *investigation.Context {
	for !lp.Next(ctx) {
	}
	lp.Finalize(ctx)
	return lp.inv
}

// Next performs one iteration. It returns true once a termination condition
// is met; the caller must then call Finalize exactly once.
func (lp *Loop) Next(ctx context.Context) bool {
	if lp.done {
		return true
	}

	if lp.inv.Len() >= lp.cfg.MaxSteps {
		lp.l.Info().Int(logger.StepField, lp.inv.Len()).Msgf("reached maximum number of steps (%d), stopping investigation", lp.cfg.MaxSteps)
		return lp.terminate(investigation.StatusStoppedAtLimit)
	}

	// PLANNING
	planCtx, cancel := lp.planContext(ctx)
	step, err := lp.planner.Plan(planCtx, lp.inv.Snapshot(), lp.registry.ListEnabled())
	cancel()
	if err != nil {
		// one bad planning call ends the investigation gracefully, history
		// stays intact
		lp.l.Error().Err(err).Msg("planning fault, finalizing investigation as failed")
		lp.planErr = err
		return lp.terminate(investigation.StatusFailed)
	}
	if step.Done {
		lp.l.Info().Msg("planner signaled the investigation is complete")
		if step.Findings != "" {
			lp.inv.UpdateFindings(step.Findings)
		}
		return lp.terminate(investigation.StatusCompleted)
	}
	if step.Action == nil {
		lp.l.Error().Msg("planner returned neither an action nor a terminate signal")
		lp.planErr = errEmptyPlan
		return lp.terminate(investigation.StatusFailed)
	}

	// EXECUTING
	action := step.Action
	lp.l.Info().Str(logger.ToolField, action.Tool).Int(logger.StepField, lp.inv.Len()).Msgf("executing step %d/%d", lp.inv.Len()+1, lp.cfg.MaxSteps)
	res, dur := lp.gateway.Run(ctx, action.Tool, action.Inputs, lp.cfg.ToolTimeout)

	// RECORDING: failed calls are evidence too, the planner sees them on the
	// next iteration
	lp.inv.Append(investigation.ActionRecord{
		Tool:      action.Tool,
		Inputs:    action.Inputs,
		Rationale: action.Rationale,
		Result:    res,
		Duration:  dur,
	})
	if step.Findings != "" {
		lp.inv.UpdateFindings(step.Findings)
	}
	if !res.Success {
		lp.l.Warn().Str(logger.ToolField, action.Tool).Msgf("step failed: %s", res.Error)
	}

	sig := signature(action.Tool, action.Inputs)
	if sig == lp.lastSig {
		lp.repeat++
	} else {
		lp.lastSig = sig
		lp.repeat = 1
	}
	if lp.cfg.StallWindow > 0 && lp.repeat >= lp.cfg.StallWindow {
		lp.l.Info().Str(logger.ToolField, action.Tool).Msgf("stalled on the same action %d times, stopping investigation", lp.repeat)
		return lp.terminate(investigation.StatusStoppedAtLimit)
	}

	return false
}

// Finalize sets the terminal status and asks the planner for a summary over
// the full history. A summarization fault leaves the summary empty; the
// context is already finalized at that point.
func (lp *Loop) Finalize(ctx context.Context) {
	if err := lp.inv.SetStatus(lp.outcome); err != nil {
		lp.l.Error().Err(err).Msg("finalize called on a terminated investigation, this is a bug")
		return
	}

	sumCtx, cancel := lp.planContext(ctx)
	defer cancel()
	summary, err := lp.planner.Summarize(sumCtx, lp.inv.Snapshot())
	if err != nil {
		lp.l.Warn().Err(err).Msg("summarization failed, report will have no summary")
		return
	}
	lp.inv.SetSummary(summary)
}

func (lp *Loop) planContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if lp.cfg.PlanTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, lp.cfg.PlanTimeout)
}

func (lp *Loop) terminate(s investigation.Status) bool {
	lp.outcome = s
	lp.done = true
	return true
}

// signature canonicalizes an action for stall comparison; json.Marshal sorts
// map keys, so equal input maps produce equal signatures.
func signature(tool string, inputs map[string]any) string {
	b, err := json.Marshal(inputs)
	if err != nil {
		return tool
	}
	return tool + "|" + string(b)
}
