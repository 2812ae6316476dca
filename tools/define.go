package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	tdcontext "github.com/va6996/tickerdesk/context"
)

// Define registers execute as a Genkit tool and as a registry executor.
// Both paths tag the context with the tool name; the registry path decodes
// its untyped arguments with DecodeArgs first.
func Define[In, Out any](gk *genkit.Genkit, registry *Registry, name, description string, execute func(ctx context.Context, input In) (Out, error)) ai.Tool {
	tool := genkit.DefineTool(gk, name, description,
		func(ctx *ai.ToolContext, input In) (Out, error) {
			return execute(tdcontext.WithToolCall(ctx, name), input)
		},
	)
	registry.Register(tool, func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		input, err := DecodeArgs[In](args)
		if err != nil {
			return nil, err
		}
		return execute(ctx, input)
	})
	return tool
}

// DecodeArgs converts JSON-decoded tool arguments into T by round-tripping
// them through encoding/json. Fields typed any keep whatever the caller sent.
func DecodeArgs[T any](args map[string]interface{}) (T, error) {
	var out T
	b, err := json.Marshal(args)
	if err != nil {
		return out, fmt.Errorf("failed to encode arguments: %w", err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("failed to parse arguments: %w", err)
	}
	return out, nil
}
