package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/va6996/tickerdesk/agents"
	"github.com/va6996/tickerdesk/bootstrap"
	"github.com/va6996/tickerdesk/config"
	"github.com/va6996/tickerdesk/log"
	"github.com/va6996/tickerdesk/tools"
)

// MockRunner
type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Run(ctx context.Context, prompt string) (*agents.Response, error) {
	args := m.Called(ctx, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*agents.Response), args.Error(1)
}

// run executes the command tree against an absent config file so only defaults apply
func run(t *testing.T, c *cli, args ...string) (string, error) {
	t.Setenv("AI_PLUGIN", "groq")
	t.Setenv("SEARCH_PROVIDER", "duckduckgo")
	t.Setenv("CACHE_DRIVER", "memory")

	prev := log.Logger.Out
	log.SetOutput(&bytes.Buffer{})
	t.Cleanup(func() { log.SetOutput(prev) })

	root := c.rootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func withRunner(r agents.Runner, gotName *string) *cli {
	c := newCLI()
	c.setup = func(ctx context.Context, cfg *config.Config) (*bootstrap.App, error) {
		return &bootstrap.App{}, nil
	}
	c.runner = func(app *bootstrap.App, name string) (agents.Runner, error) {
		*gotName = name
		return r, nil
	}
	return c
}

func TestAsk_DefaultPrompt(t *testing.T) {
	runner := new(MockRunner)
	runner.On("Run", mock.Anything, DefaultPrompt).Return(&agents.Response{
		Agent: agents.FinanceAgentName,
		Text:  "Analysts mostly rate NVDA a buy.",
		ToolCalls: []agents.ToolCall{
			{Name: "get_company_news", Input: map[string]any{"company_ticker": "NVDA", "num_stories": 3}},
		},
	}, nil)

	var name string
	out, err := run(t, withRunner(runner, &name), "ask")
	require.NoError(t, err)

	assert.Equal(t, "finance", name)
	assert.Equal(t, "Running:\n  - get_company_news(company_ticker=NVDA, num_stories=3)\n\nAnalysts mostly rate NVDA a buy.\n", out)
	runner.AssertExpectations(t)
}

func TestAsk_WebAgentJSON(t *testing.T) {
	runner := new(MockRunner)
	runner.On("Run", mock.Anything, "what moved AMD today?").Return(&agents.Response{
		Agent: agents.WebSearchAgentName,
		Text:  "Earnings.",
	}, nil)

	var name string
	out, err := run(t, withRunner(runner, &name), "ask", "--agent", "web", "--json", "what", "moved", "AMD", "today?")
	require.NoError(t, err)

	assert.Equal(t, "web", name)
	var resp agents.Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, agents.WebSearchAgentName, resp.Agent)
	assert.Equal(t, "Earnings.", resp.Text)
	runner.AssertExpectations(t)
}

func TestAsk_RunError(t *testing.T) {
	runner := new(MockRunner)
	runner.On("Run", mock.Anything, "hi").Return(nil, errors.New("rate limited"))

	var name string
	_, err := run(t, withRunner(runner, &name), "ask", "hi")
	assert.ErrorContains(t, err, "rate limited")
}

func TestAsk_SetupError(t *testing.T) {
	c := newCLI()
	c.setup = func(ctx context.Context, cfg *config.Config) (*bootstrap.App, error) {
		return nil, errors.New("GROQ_API_KEY must be set")
	}
	_, err := run(t, c, "ask", "hi")
	assert.ErrorContains(t, err, "setup failed: GROQ_API_KEY must be set")
}

func TestTool_Currency(t *testing.T) {
	out, err := run(t, newCLI(), "tool", "core_get_currency", `{"country_code":"JP"}`)
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "JPY", got["currency"])
}

func TestTool_Errors(t *testing.T) {
	_, err := run(t, newCLI(), "tool", "core_get_currency", `[1,2]`)
	assert.ErrorContains(t, err, "must be a JSON object")

	_, err = run(t, newCLI(), "tool", "no_such_tool")
	assert.ErrorIs(t, err, tools.ErrToolNotFound)

	_, err = run(t, newCLI(), "tool")
	assert.Error(t, err)
}

func TestTools_List(t *testing.T) {
	out, err := run(t, newCLI(), "tools")
	require.NoError(t, err)
	assert.Contains(t, out, "get_company_news\n")
	assert.Contains(t, out, "duckduckgo_search\n")
	assert.Contains(t, out, "dateTool\n")
}

func TestAgents_List(t *testing.T) {
	out, err := run(t, newCLI(), "agents")
	require.NoError(t, err)
	assert.Contains(t, out, "Finance AI Agent (--agent finance)")
	assert.Contains(t, out, "Web Search Agent (--agent web)")
	assert.Contains(t, out, "duckduckgo_search, dateTool")
}

func TestRoot_BadLogLevel(t *testing.T) {
	_, err := run(t, newCLI(), "--log-level", "loud", "agents")
	assert.ErrorContains(t, err, `invalid log level "loud"`)
}
