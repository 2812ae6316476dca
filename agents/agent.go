package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/va6996/tickerdesk/config"
	"github.com/va6996/tickerdesk/log"
	"github.com/va6996/tickerdesk/tools"
)

// Definition describes an agent: who it is and which registered tools it may call
type Definition struct {
	Name         string
	Role         string
	Instructions []string
	Tools        []string
}

// Agent pairs a model with a tool set and a fixed system prompt.
// The tool-call loop itself is run by Genkit.
type Agent struct {
	Definition

	genkit        *genkit.Genkit
	model         ai.Model
	tools         []ai.ToolRef
	maxTurns      int
	markdown      bool
	showToolCalls bool
	now           func() time.Time
}

// ToolCall is one tool invocation made while answering
type ToolCall struct {
	Name   string `json:"name"`
	Input  any    `json:"input,omitempty"`
	Output any    `json:"output,omitempty"`
}

// Response is the agent's final answer
type Response struct {
	Agent     string     `json:"agent"`
	Text      string     `json:"text"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// New builds an agent from def, resolving its tools in registry
func New(gk *genkit.Genkit, model ai.Model, registry *tools.Registry, def Definition, cfg config.AgentConfig) (*Agent, error) {
	if model == nil {
		return nil, fmt.Errorf("agent %q: model is required", def.Name)
	}
	refs, err := registry.Select(def.Tools...)
	if err != nil {
		return nil, fmt.Errorf("agent %q: %w", def.Name, err)
	}
	maxTurns := cfg.MaxTurns
	if maxTurns < 1 {
		maxTurns = 1
	}
	return &Agent{
		Definition:    def,
		genkit:        gk,
		model:         model,
		tools:         refs,
		maxTurns:      maxTurns,
		markdown:      cfg.Markdown,
		showToolCalls: cfg.ShowToolCalls,
		now:           time.Now,
	}, nil
}

// SystemPrompt renders the agent's role and instructions
func (a *Agent) SystemPrompt() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Today is %s.\n", a.now().Format("2006-01-02"))
	if a.Name != "" {
		fmt.Fprintf(&b, "You are %s.\n", a.Name)
	}
	if a.Role != "" {
		fmt.Fprintf(&b, "Your role: %s\n", a.Role)
	}

	instructions := append([]string{}, a.Instructions...)
	if a.markdown {
		instructions = append(instructions, "Use markdown to format your answers.")
	}
	if len(instructions) > 0 {
		b.WriteString("\nInstructions:\n")
		for _, in := range instructions {
			fmt.Fprintf(&b, "- %s\n", in)
		}
	}
	return b.String()
}

// Run answers prompt once, letting the model call the agent's tools
func (a *Agent) Run(ctx context.Context, prompt string) (*Response, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("agent %q: prompt is required", a.Name)
	}
	log.Infof(ctx, "%s: answering %q with %d tools", a.Name, prompt, len(a.tools))

	resp, err := genkit.Generate(ctx, a.genkit,
		ai.WithModel(a.model),
		ai.WithSystem(a.SystemPrompt()),
		ai.WithPrompt(prompt),
		ai.WithTools(a.tools...),
		ai.WithMaxTurns(a.maxTurns),
	)
	if err != nil {
		log.Errorf(ctx, "%s: generate failed: %v", a.Name, err)
		return nil, fmt.Errorf("agent %q: %w", a.Name, err)
	}

	out := &Response{Agent: a.Name, Text: resp.Text()}
	if a.showToolCalls {
		out.ToolCalls = toolCalls(resp.History())
	}
	log.WithField(ctx, "agent", a.Name).Debugf("finished (%s) after %d tool calls", resp.FinishReason, len(out.ToolCalls))
	return out, nil
}

// toolCalls pairs tool requests in history with their responses, in call order
func toolCalls(history []*ai.Message) []ToolCall {
	var calls []ToolCall
	pending := map[string][]int{}

	for _, msg := range history {
		if msg == nil {
			continue
		}
		for _, part := range msg.Content {
			switch {
			case part.IsToolRequest():
				req := part.ToolRequest
				key := req.Name + "/" + req.Ref
				pending[key] = append(pending[key], len(calls))
				calls = append(calls, ToolCall{Name: req.Name, Input: req.Input})
			case part.IsToolResponse():
				res := part.ToolResponse
				key := res.Name + "/" + res.Ref
				if idx := pending[key]; len(idx) > 0 {
					calls[idx[0]].Output = res.Output
					pending[key] = idx[1:]
				}
			}
		}
	}
	return calls
}

// String renders a tool call the way it was requested, e.g.
// get_company_news(company_ticker=NVDA, num_stories=3)
func (c ToolCall) String() string {
	args, ok := c.Input.(map[string]any)
	if !ok {
		b, _ := json.Marshal(c.Input)
		return fmt.Sprintf("%s(%s)", c.Name, b)
	}
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, args[k]))
	}
	return fmt.Sprintf("%s(%s)", c.Name, strings.Join(parts, ", "))
}
