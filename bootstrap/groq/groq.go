// Groq plugin for Firebase Genkit Go.
// Groq serves an OpenAI-compatible chat completions API.

package groq

import (
	"context"
	"os"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/core/api"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/compat_oai"
	"github.com/openai/openai-go/option"
)

const (
	provider       = "groq"
	DefaultBaseURL = "https://api.groq.com/openai/v1/"
	DefaultModel   = "openai/gpt-oss-20b"
)

// textTools is what Groq's chat models support; none of them take media
var textTools = ai.ModelSupports{
	Multiturn:  true,
	Tools:      true,
	SystemRole: true,
	Media:      false,
}

// Groq is a plugin that provides integration with Groq-hosted models.
type Groq struct {
	// APIKey for the Groq API. If empty, GROQ_API_KEY is consulted.
	APIKey string
	// BaseURL defaults to https://api.groq.com/openai/v1/
	BaseURL string
	// Models are defined in addition to the built-in list
	Models []string

	openAICompatible *compat_oai.OpenAICompatible
}

// SupportedModels returns the models defined on Init
func SupportedModels() map[string]ai.ModelOptions {
	return map[string]ai.ModelOptions{
		"openai/gpt-oss-20b": {
			Label:    "Groq GPT-OSS 20B",
			Supports: &textTools,
			Versions: []string{"openai/gpt-oss-20b"},
		},
		"openai/gpt-oss-120b": {
			Label:    "Groq GPT-OSS 120B",
			Supports: &textTools,
			Versions: []string{"openai/gpt-oss-120b"},
		},
		"llama-3.3-70b-versatile": {
			Label:    "Groq Llama 3.3 70B",
			Supports: &textTools,
			Versions: []string{"llama-3.3-70b-versatile"},
		},
		"llama-3.1-8b-instant": {
			Label:    "Groq Llama 3.1 8B",
			Supports: &textTools,
			Versions: []string{"llama-3.1-8b-instant"},
		},
	}
}

// Name implements genkit.Plugin.
func (g *Groq) Name() string {
	return provider
}

// Init implements genkit.Plugin.
func (g *Groq) Init(ctx context.Context) []api.Action {
	apiKey := g.APIKey
	baseURL := g.BaseURL

	if apiKey == "" {
		apiKey = os.Getenv("GROQ_API_KEY")
	}
	if apiKey == "" {
		panic("groq plugin initialization failed: apiKey is required (set GROQ_API_KEY or pass APIKey)")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	if g.openAICompatible == nil {
		g.openAICompatible = &compat_oai.OpenAICompatible{}
	}
	g.openAICompatible.Opts = []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
	}
	g.openAICompatible.Provider = provider

	var actions []api.Action
	actions = append(actions, g.openAICompatible.Init(ctx)...)

	models := SupportedModels()
	for _, id := range g.Models {
		if _, ok := models[id]; !ok && id != "" {
			models[id] = ai.ModelOptions{Label: "Groq " + id, Supports: &textTools}
		}
	}
	for id, opts := range models {
		actions = append(actions, g.DefineModel(id, opts).(api.Action))
	}
	return actions
}

// Model returns a model by name.
func (g *Groq) Model(gk *genkit.Genkit, name string) ai.Model {
	return g.openAICompatible.Model(gk, api.NewName(provider, name))
}

// DefineModel defines a model with the given ID and options.
func (g *Groq) DefineModel(id string, opts ai.ModelOptions) ai.Model {
	return g.openAICompatible.DefineModel(provider, id, opts)
}

// ListActions returns a list of actions provided by this plugin.
func (g *Groq) ListActions(ctx context.Context) []api.ActionDesc {
	return g.openAICompatible.ListActions(ctx)
}

// ResolveAction resolves an action by type and name.
func (g *Groq) ResolveAction(atype api.ActionType, name string) api.Action {
	return g.openAICompatible.ResolveAction(atype, name)
}
