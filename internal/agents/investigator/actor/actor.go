package actor

import (
	"context"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/trylogarithm/FixGPT/internal/gateway"
	"github.com/trylogarithm/FixGPT/internal/investigation"
	"github.com/trylogarithm/FixGPT/internal/loop"
	"github.com/trylogarithm/FixGPT/internal/planner"
	"github.com/trylogarithm/FixGPT/pkg/logger"
	"github.com/trylogarithm/FixGPT/pkg/memory/buffer"
	"github.com/trylogarithm/FixGPT/pkg/messages"
	"github.com/trylogarithm/FixGPT/pkg/models"
	"github.com/trylogarithm/FixGPT/pkg/tools"
)

// Deps is everything an investigation run needs. The registry, gateway and
// planner factory are shared and read-only; the planner run itself is created
// per investigation.
type Deps struct {
	LoopConfig loop.Config
	Planner    planner.Factory
	Gateway    *gateway.Gateway
	Registry   *tools.Registry
}

// Investigator hosts one investigation. It drives the loop one iteration per
// self-sent StepInvestigation message, so report requests are answered
// between steps instead of queueing behind the whole run.
type Investigator struct {
	deps  Deps
	id    uuid.UUID
	goal  string
	run   planner.Planner
	lp    *loop.Loop
	state models.State
}

func New(deps Deps) actor.Actor {
	return &Investigator{
		deps:  deps,
		id:    uuid.Nil,
		state: models.Init,
	}
}

func (agent *Investigator) Receive(ac actor.Context) {
	l := log.With().Fields(map[string]interface{}{logger.ActorIDField: ac.Self().GetId(), logger.InvestigationIDField: agent.id.String()}).Logger()
	switch msg := ac.Message().(type) {
	case *actor.Started:
		l.Debug().Msg("starting actor")
	case *actor.Stopping:
		l.Debug().Msg("stopping actor")
	case *actor.Stopped:
		l.Debug().Msg("stopped actor")
	case *actor.Restarting:
		l.Debug().Msg("restarting actor")
	case messages.StartInvestigation:
		l.Debug().Msgf("StartInvestigation received: %v", msg)
		agent.id = msg.RequestID
		agent.goal = msg.Goal
		agent.run = agent.deps.Planner.NewRun()
		agent.lp = loop.New(agent.deps.LoopConfig, agent.run, agent.deps.Gateway, agent.deps.Registry, investigation.NewContext(msg.Goal))
		agent.state = models.Investigating

		l.Info().Str(logger.InvestigationIDField, agent.id.String()).Msgf("investigating: %s", msg.Goal)
		ac.Send(ac.Self(), messages.StepInvestigation{})
	case messages.StepInvestigation:
		if agent.lp == nil {
			l.Warn().Msg("step requested before an investigation was started")
			return
		}
		if agent.state != models.Investigating {
			return
		}
		if !agent.lp.Next(context.Background()) {
			ac.Send(ac.Self(), messages.StepInvestigation{})
			return
		}

		agent.lp.Finalize(context.Background())
		if agent.lp.Context().Status() == investigation.StatusFailed {
			agent.state = models.Failed
		} else {
			agent.state = models.Finished
		}
		l.Info().Str(logger.InvestigationIDField, agent.id.String()).Msgf("investigation finished with status %s after %d steps", agent.lp.Context().Status(), agent.lp.Context().Len())
	case messages.GetReport:
		l.Debug().Msg("GetReport received from user")
		ac.Respond(agent.report())
	default:
		l.Warn().Msgf("unknown message: %v", msg)
	}
}

func (agent *Investigator) report() models.Report {
	report := models.Report{
		ID:    agent.id.String(),
		Goal:  agent.goal,
		State: agent.state,
		Steps: make([]models.StepRecord, 0),
	}
	if agent.lp == nil {
		return report
	}

	snap := agent.lp.Context().Snapshot()
	report.Status = string(snap.Status)
	report.Findings = snap.Findings
	report.Summary = agent.lp.Context().Summary()
	if err := agent.lp.PlanningFault(); err != nil {
		report.Error = err.Error()
	}
	if ex, ok := agent.run.(interface{ Exchanges() []buffer.Memory }); ok {
		report.Exchanges = ex.Exchanges()
	}
	for _, rec := range snap.Records {
		report.Steps = append(report.Steps, models.StepRecord{
			Index:      rec.Index,
			Tool:       rec.Tool,
			Inputs:     rec.Inputs,
			Rationale:  rec.Rationale,
			Success:    rec.Result.Success,
			Output:     rec.Result.Data,
			Error:      rec.Result.Error,
			DurationMs: rec.Duration.Milliseconds(),
		})
	}
	return report
}
