package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/trylogarithm/FixGPT/pkg/logger"
	"github.com/trylogarithm/FixGPT/pkg/tools"
)

// Gateway invokes registered tools with validated inputs under a wall-clock
// timeout. It is the last line of defense: every failure mode, including a
// panicking tool, comes back as a failed Result and never escapes to the
// loop. No retries happen here; the planner sees failed results in the
// history and decides what to do next.
type Gateway struct {
	registry *tools.Registry
}

func New(registry *tools.Registry) *Gateway {
	return &Gateway{registry: registry}
}

// Run resolves the tool, validates the inputs and executes the tool with the
// given timeout. Duration is measured start-to-finish regardless of outcome.
func (g *Gateway) Run(ctx context.Context, toolID string, inputs map[string]any, timeout time.Duration) (tools.Result, time.Duration) {
	start := time.Now()

	tool, err := g.registry.Get(toolID)
	if err != nil {
		return tools.Fail("unknown tool %q", toolID), time.Since(start)
	}

	if err := tool.Validate(inputs); err != nil {
		return tools.Fail("%s", err), time.Since(start)
	}

	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan tools.Result, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().Str(logger.ToolField, toolID).Msgf("tool panicked: %v", rec)
				done <- tools.Fail("tool %s panicked: %v", toolID, rec)
			}
		}()
		done <- tool.Execute(execCtx, inputs)
	}()

	select {
	case res := <-done:
		return normalize(res), time.Since(start)
	case <-execCtx.Done():
		// best-effort cancellation: the abandoned call may run on in the
		// background but its result is discarded
		if errors.Is(execCtx.Err(), context.DeadlineExceeded) {
			return tools.Fail("timeout after %s", timeout), time.Since(start)
		}
		return tools.Fail("canceled: %v", execCtx.Err()), time.Since(start)
	}
}

// normalize guards the Result invariant against tools that violate their
// contract: a failed result carries no payload, a successful one no error.
func normalize(res tools.Result) tools.Result {
	if res.Success {
		res.Error = ""
	} else {
		res.Data = nil
	}
	return res
}
