package agents

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/va6996/tickerdesk/config"
	"github.com/va6996/tickerdesk/log"
	"github.com/va6996/tickerdesk/tools"
)

type echoInput struct {
	Text string `json:"text"`
}

type echoOutput struct {
	Echo string `json:"echo"`
}

// scriptedModel asks for the echo tool once, then answers with the system prompt it saw
type scriptedModel struct {
	calls  int
	system string
}

func (m *scriptedModel) generate(ctx context.Context, req *ai.ModelRequest, cb ai.ModelStreamCallback) (*ai.ModelResponse, error) {
	m.calls++
	for _, msg := range req.Messages {
		if msg.Role == ai.RoleSystem {
			m.system = msg.Text()
		}
	}

	last := req.Messages[len(req.Messages)-1]
	for _, p := range last.Content {
		if p.IsToolResponse() {
			return &ai.ModelResponse{
				Message:      ai.NewModelTextMessage("NVDA looks strong."),
				FinishReason: ai.FinishReasonStop,
			}, nil
		}
	}
	return &ai.ModelResponse{
		Message: &ai.Message{
			Role: ai.RoleModel,
			Content: []*ai.Part{ai.NewToolRequestPart(&ai.ToolRequest{
				Name:  "echo",
				Ref:   "1",
				Input: map[string]any{"text": "hi"},
			})},
		},
		FinishReason: ai.FinishReasonStop,
	}, nil
}

func setupAgent(t *testing.T, cfg config.AgentConfig) (*Agent, *scriptedModel) {
	gk := genkit.Init(context.Background())
	reg := tools.NewRegistry()
	tools.Define(gk, reg, "echo", "Echoes text back",
		func(ctx context.Context, in *echoInput) (*echoOutput, error) {
			return &echoOutput{Echo: in.Text}, nil
		})

	sm := &scriptedModel{}
	model := genkit.DefineModel(gk, "test/scripted", &ai.ModelOptions{
		Supports: &ai.ModelSupports{Multiturn: true, Tools: true, SystemRole: true},
	}, sm.generate)

	a, err := New(gk, model, reg, Definition{
		Name:         "Echo Agent",
		Role:         "Echo things.",
		Instructions: []string{"Always echo."},
		Tools:        []string{"echo"},
	}, cfg)
	require.NoError(t, err)
	a.now = func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) }
	return a, sm
}

func TestAgent_Run(t *testing.T) {
	a, sm := setupAgent(t, config.AgentConfig{MaxTurns: 3, ShowToolCalls: true, Markdown: true})

	resp, err := a.Run(context.Background(), "How is NVDA doing?")
	require.NoError(t, err)

	assert.Equal(t, "Echo Agent", resp.Agent)
	assert.Equal(t, "NVDA looks strong.", resp.Text)
	assert.Equal(t, 2, sm.calls)
	assert.Contains(t, sm.system, "You are Echo Agent.")
	assert.Contains(t, sm.system, "- Always echo.")

	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "echo", resp.ToolCalls[0].Name)
	assert.Equal(t, map[string]any{"text": "hi"}, resp.ToolCalls[0].Input)
	assert.NotNil(t, resp.ToolCalls[0].Output)
}

func TestAgent_Run_HidesToolCalls(t *testing.T) {
	a, _ := setupAgent(t, config.AgentConfig{MaxTurns: 3})

	resp, err := a.Run(context.Background(), "How is NVDA doing?")
	require.NoError(t, err)
	assert.Empty(t, resp.ToolCalls)
}

func TestAgent_Run_LogsAgentField(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger.Out
	require.NoError(t, log.Init("debug"))
	log.SetOutput(&buf)
	t.Cleanup(func() {
		log.SetOutput(prev)
		_ = log.SetLevel("info")
	})

	a, _ := setupAgent(t, config.AgentConfig{MaxTurns: 3})
	_, err := a.Run(context.Background(), "How is NVDA doing?")
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "finished (stop) after 0 tool calls agent=Echo Agent")
}

func TestAgent_Run_EmptyPrompt(t *testing.T) {
	a, sm := setupAgent(t, config.AgentConfig{MaxTurns: 3})

	_, err := a.Run(context.Background(), "   ")
	assert.ErrorContains(t, err, "prompt is required")
	assert.Zero(t, sm.calls)
}

func TestNew_Errors(t *testing.T) {
	gk := genkit.Init(context.Background())
	reg := tools.NewRegistry()

	_, err := New(gk, nil, reg, Definition{Name: "A"}, config.AgentConfig{})
	assert.ErrorContains(t, err, "model is required")

	model := genkit.DefineModel(gk, "test/noop", &ai.ModelOptions{}, func(ctx context.Context, req *ai.ModelRequest, cb ai.ModelStreamCallback) (*ai.ModelResponse, error) {
		return &ai.ModelResponse{Message: ai.NewModelTextMessage("ok")}, nil
	})
	_, err = New(gk, model, reg, Definition{Name: "A", Tools: []string{"missing"}}, config.AgentConfig{})
	assert.ErrorIs(t, err, tools.ErrToolNotFound)
	assert.ErrorContains(t, err, `agent "A"`)
}

func TestAgent_SystemPrompt(t *testing.T) {
	a := &Agent{
		Definition: FinanceDefinition(),
		markdown:   true,
		now:        func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) },
	}
	want := strings.Join([]string{
		"Today is 2026-03-14.",
		"You are Finance AI Agent.",
		"Your role: Retrieve and display structured financial data for a given stock ticker.",
		"",
		"Instructions:",
		"- Use Markdown tables to display all financial data clearly.",
		"- Use markdown to format your answers.",
		"",
	}, "\n")
	assert.Equal(t, want, a.SystemPrompt())

	a.markdown = false
	assert.NotContains(t, a.SystemPrompt(), "Use markdown to format")
}

func TestToolCalls_Pairing(t *testing.T) {
	history := []*ai.Message{
		ai.NewUserTextMessage("news please"),
		{Role: ai.RoleModel, Content: []*ai.Part{
			ai.NewToolRequestPart(&ai.ToolRequest{Name: "get_company_news", Ref: "a", Input: map[string]any{"company_ticker": "NVDA", "num_stories": 3}}),
			ai.NewToolRequestPart(&ai.ToolRequest{Name: "get_company_news", Ref: "b", Input: map[string]any{"company_ticker": "AMD", "num_stories": "two"}}),
		}},
		{Role: ai.RoleTool, Content: []*ai.Part{
			ai.NewToolResponsePart(&ai.ToolResponse{Name: "get_company_news", Ref: "b", Output: "amd"}),
			ai.NewToolResponsePart(&ai.ToolResponse{Name: "get_company_news", Ref: "a", Output: "nvda"}),
		}},
		nil,
		ai.NewModelTextMessage("done"),
	}

	calls := toolCalls(history)
	require.Len(t, calls, 2)
	assert.Equal(t, "nvda", calls[0].Output)
	assert.Equal(t, "amd", calls[1].Output)
	assert.Equal(t, "get_company_news(company_ticker=NVDA, num_stories=3)", calls[0].String())
	assert.Equal(t, "get_company_news(company_ticker=AMD, num_stories=two)", calls[1].String())
}

func TestToolCall_StringNonObject(t *testing.T) {
	assert.Equal(t, `dateTool("now")`, ToolCall{Name: "dateTool", Input: "now"}.String())
	assert.Equal(t, "dateTool(null)", ToolCall{Name: "dateTool"}.String())
}

func TestDefinitions(t *testing.T) {
	web := WebSearchDefinition("duckduckgo_search")
	assert.Equal(t, WebSearchAgentName, web.Name)
	assert.Contains(t, web.Tools, "duckduckgo_search")
	assert.Contains(t, web.Instructions[0], "cite your sources")

	fin := FinanceDefinition()
	assert.Contains(t, fin.Tools, "get_company_news")
	assert.Contains(t, fin.Tools, "get_analyst_recommendations")
}
