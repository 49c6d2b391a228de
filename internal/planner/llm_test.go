package planner

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/chains"
	langChainMemory "github.com/tmc/langchaingo/memory"
	"github.com/tmc/langchaingo/schema"

	"github.com/trylogarithm/FixGPT/internal/investigation"
	"github.com/trylogarithm/FixGPT/pkg/memory/buffer"
	"github.com/trylogarithm/FixGPT/pkg/tools"
)

// fakeChain answers every call with a fixed completion.
type fakeChain struct {
	answer string
}

func (c fakeChain) Call(context.Context, map[string]any, ...chains.ChainCallOption) (map[string]any, error) {
	return map[string]any{"text": c.answer}, nil
}

func (c fakeChain) GetMemory() schema.Memory { return langChainMemory.NewSimple() }

func (c fakeChain) GetInputKeys() []string { return nil }

func (c fakeChain) GetOutputKeys() []string { return []string{"text"} }

func newTestLLM(planAnswer, summaryAnswer string) *LLM {
	return &LLM{
		planChain:    fakeChain{answer: planAnswer},
		summaryChain: fakeChain{answer: summaryAnswer},
	}
}

func snapshotFor(goal string) investigation.Snapshot {
	return investigation.NewContext(goal).Snapshot()
}

func TestParsePlanAnswer_Action(t *testing.T) {
	answer := "```json\n{\"tool\": \"prometheus_query\", \"inputs\": {\"query\": \"up == 0\"}, \"rationale\": \"find dead targets\", \"findings\": \"two targets down\"}\n```"

	step, err := parsePlanAnswer(answer)
	require.NoError(t, err)
	assert.False(t, step.Done)
	require.NotNil(t, step.Action)
	assert.Equal(t, "prometheus_query", step.Action.Tool)
	assert.Equal(t, map[string]any{"query": "up == 0"}, step.Action.Inputs)
	assert.Equal(t, "find dead targets", step.Action.Rationale)
	assert.Equal(t, "two targets down", step.Findings)
}

func TestParsePlanAnswer_Complete(t *testing.T) {
	step, err := parsePlanAnswer("The evidence is conclusive.\nPLAN COMPLETE")
	require.NoError(t, err)
	assert.True(t, step.Done)
	assert.Nil(t, step.Action)
}

func TestParsePlanAnswer_BareJSON(t *testing.T) {
	step, err := parsePlanAnswer(`Sure, next I would run {"tool": "k8s_logs", "inputs": {"pod": "checkout", "tail": 100}} to confirm.`)
	require.NoError(t, err)
	require.NotNil(t, step.Action)
	assert.Equal(t, "k8s_logs", step.Action.Tool)
	assert.Equal(t, float64(100), step.Action.Inputs["tail"])
}

func TestParsePlanAnswer_NilInputsBecomesEmptyMap(t *testing.T) {
	step, err := parsePlanAnswer(`{"tool": "prometheus_alerts"}`)
	require.NoError(t, err)
	require.NotNil(t, step.Action)
	assert.NotNil(t, step.Action.Inputs)
	assert.Empty(t, step.Action.Inputs)
}

func TestParsePlanAnswer_Errors(t *testing.T) {
	tests := []struct {
		name   string
		answer string
	}{
		{"no json at all", "I am not sure what to do next."},
		{"json without tool", `{"rationale": "hmm"}`},
		{"broken json", "```json\n{\"tool\": \n```"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parsePlanAnswer(tt.answer)
			assert.Error(t, err)
		})
	}
}

func TestRenderMenu(t *testing.T) {
	menu := []tools.Descriptor{
		{
			ID:          "loki_logs",
			Category:    tools.CategoryLogs,
			Description: "query log lines from loki",
			Inputs: []tools.InputSpec{
				{Name: "query", Type: tools.TypeString, Required: true},
				{Name: "limit", Type: tools.TypeInteger},
			},
		},
		{
			ID:          "prometheus_alerts",
			Category:    tools.CategoryAlerts,
			Description: "list firing alerts",
		},
	}

	out := renderMenu(menu)
	assert.Contains(t, out, "- loki_logs (logs): query log lines from loki (inputs: query, limit?)")
	assert.Contains(t, out, "- prometheus_alerts (alerts): list firing alerts (inputs: )")
}

func TestMarshalHistory_Empty(t *testing.T) {
	assert.Equal(t, "[]", marshalHistory(nil))
}

func TestNewRun_ExposesExchanges(t *testing.T) {
	llm := newTestLLM(`{"tool": "probe", "inputs": {}}`, "all clear")
	run := llm.NewRun()

	ex, ok := run.(interface{ Exchanges() []buffer.Memory })
	require.True(t, ok)
	assert.Empty(t, ex.Exchanges())

	_, err := run.Plan(context.Background(), snapshotFor("checkout 503s"), nil)
	require.NoError(t, err)
	summary, err := run.Summarize(context.Background(), snapshotFor("checkout 503s"))
	require.NoError(t, err)
	assert.Equal(t, "all clear", summary)

	exchanges := ex.Exchanges()
	require.Len(t, exchanges, 2)
	assert.Contains(t, exchanges[0].Question, "checkout 503s")
	assert.Equal(t, `{"tool": "probe", "inputs": {}}`, exchanges[0].Answer)
	assert.Equal(t, "summarize checkout 503s", exchanges[1].Question)
	assert.Equal(t, "all clear", exchanges[1].Answer)
}

func TestNewRun_BuffersAreIndependent(t *testing.T) {
	llm := newTestLLM(`{"tool": "probe", "inputs": {}}`, "done")
	first := llm.NewRun().(*Run)
	second := llm.NewRun().(*Run)

	_, err := first.Plan(context.Background(), snapshotFor("goal one"), nil)
	require.NoError(t, err)
	_, err = first.Plan(context.Background(), snapshotFor("goal one"), nil)
	require.NoError(t, err)
	_, err = second.Plan(context.Background(), snapshotFor("goal two"), nil)
	require.NoError(t, err)

	assert.Len(t, first.Exchanges(), 2)
	require.Len(t, second.Exchanges(), 1)
	assert.Contains(t, second.Exchanges()[0].Question, "goal two")
}

func TestNewRun_ConcurrentRunsDoNotInterleave(t *testing.T) {
	llm := newTestLLM(`{"tool": "probe", "inputs": {}}`, "done")

	const runs, calls = 8, 25
	var wg sync.WaitGroup
	results := make([]*Run, runs)
	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			run := llm.NewRun().(*Run)
			results[i] = run
			goal := fmt.Sprintf("goal %d", i)
			for j := 0; j < calls; j++ {
				if _, err := run.Plan(context.Background(), snapshotFor(goal), nil); err != nil {
					t.Error(err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	for i, run := range results {
		require.Len(t, run.Exchanges(), calls)
		for _, ex := range run.Exchanges() {
			assert.Contains(t, ex.Question, fmt.Sprintf("goal %d", i))
		}
	}
}
