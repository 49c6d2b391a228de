package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms/openai"
	langChainPrompts "github.com/tmc/langchaingo/prompts"

	"github.com/trylogarithm/FixGPT/internal/investigation"
	"github.com/trylogarithm/FixGPT/pkg/data"
	"github.com/trylogarithm/FixGPT/pkg/memory/buffer"
	"github.com/trylogarithm/FixGPT/pkg/prompts"
	"github.com/trylogarithm/FixGPT/pkg/template"
	"github.com/trylogarithm/FixGPT/pkg/tools"
)

var (
	PlanPrompt    = langChainPrompts.NewPromptTemplate(prompts.PlanNextStep, []string{"Goal", "Tools", "History", "Findings"})
	SummaryPrompt = langChainPrompts.NewPromptTemplate(prompts.SummarizeInvestigation, []string{"Goal", "History", "Findings"})
)

// LLM holds the model chains, which are safe to share across investigations.
// Per-investigation state lives on the Run sessions it hands out.
type LLM struct {
	planChain    chains.Chain
	summaryChain chains.Chain
}

func NewLLM() (*LLM, error) {
	llm, err := openai.New()
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}
	return &LLM{
		planChain:    chains.NewLLMChain(llm, PlanPrompt),
		summaryChain: chains.NewLLMChain(llm, SummaryPrompt),
	}, nil
}

func (p *LLM) NewRun() Planner {
	return &Run{planChain: p.planChain, summaryChain: p.summaryChain}
}

// Run plans one investigation, a step per call. Each run owns its exchange
// buffer; investigations never observe another run's prompts or answers.
type Run struct {
	planChain    chains.Chain
	summaryChain chains.Chain
	memory       buffer.Memories
}

type planInput struct {
	Goal     string
	Tools    string
	History  string
	Findings string
}

func (r *Run) Plan(ctx context.Context, snap investigation.Snapshot, menu []tools.Descriptor) (Step, error) {
	in := planInput{
		Goal:     snap.Goal,
		Tools:    renderMenu(menu),
		History:  marshalHistory(snap.Records),
		Findings: snap.Findings,
	}
	completion, err := chains.Call(ctx, r.planChain, map[string]any{
		"Goal": in.Goal, "Tools": in.Tools, "History": in.History, "Findings": in.Findings,
	})
	if err != nil {
		return Step{}, fmt.Errorf("call: %w", err)
	}
	answer, _ := completion["text"].(string)

	question, err := template.Parse(prompts.PlanNextStep, in)
	if err != nil {
		return Step{}, fmt.Errorf("render question: %w", err)
	}
	r.memory.Add(buffer.Memory{Question: question, Answer: answer})

	return parsePlanAnswer(answer)
}

func (r *Run) Summarize(ctx context.Context, snap investigation.Snapshot) (string, error) {
	completion, err := chains.Call(ctx, r.summaryChain, map[string]any{
		"Goal":     snap.Goal,
		"History":  marshalHistory(snap.Records),
		"Findings": snap.Findings,
	})
	if err != nil {
		return "", fmt.Errorf("call: %w", err)
	}
	answer, _ := completion["text"].(string)
	r.memory.Add(buffer.Memory{Question: "summarize " + snap.Goal, Answer: answer})
	return strings.TrimSpace(answer), nil
}

// Exchanges returns the raw prompt/answer pairs exchanged with the model.
func (r *Run) Exchanges() []buffer.Memory {
	return r.memory.Items
}

type planAnswer struct {
	Tool      string         `json:"tool"`
	Inputs    map[string]any `json:"inputs"`
	Rationale string         `json:"rationale"`
	Findings  string         `json:"findings"`
}

func parsePlanAnswer(answer string) (Step, error) {
	if strings.Contains(answer, prompts.PlanComplete) {
		return Step{Done: true}, nil
	}

	match, err := data.SanitizeAnswer(answer)
	if err != nil {
		return Step{}, fmt.Errorf("sanitize: %w", err)
	}

	var parsed planAnswer
	if err := json.Unmarshal([]byte(match), &parsed); err != nil {
		return Step{}, fmt.Errorf("unmarshal: %w", err)
	}
	if parsed.Tool == "" {
		return Step{}, fmt.Errorf("planner answer has no tool: %s", match)
	}
	if parsed.Inputs == nil {
		parsed.Inputs = map[string]any{}
	}

	return Step{
		Action: &Action{
			Tool:      parsed.Tool,
			Inputs:    parsed.Inputs,
			Rationale: parsed.Rationale,
		},
		Findings: parsed.Findings,
	}, nil
}

func renderMenu(menu []tools.Descriptor) string {
	var b strings.Builder
	for _, d := range menu {
		names := make([]string, 0, len(d.Inputs))
		for _, in := range d.Inputs {
			name := in.Name
			if !in.Required {
				name += "?"
			}
			names = append(names, name)
		}
		fmt.Fprintf(&b, "- %s (%s): %s (inputs: %s)\n", d.ID, d.Category, d.Description, strings.Join(names, ", "))
	}
	return b.String()
}

func marshalHistory(records []investigation.ActionRecord) string {
	if len(records) == 0 {
		return "[]"
	}
	res, err := json.Marshal(records)
	if err != nil {
		return "[]"
	}
	return string(res)
}
