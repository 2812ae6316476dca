package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	tdcontext "github.com/va6996/tickerdesk/context"
)

// ErrToolNotFound is returned for lookups of unregistered tool names
var ErrToolNotFound = errors.New("tool not found")

// ToolPlugin defines the interface for plugins that provide tools
type ToolPlugin interface {
	RegisterTools(gk *genkit.Genkit, registry *Registry)
}

// ToolExecutor is the function signature for executing a tool with
// untyped, JSON-decoded arguments
type ToolExecutor func(ctx context.Context, args map[string]interface{}) (interface{}, error)

// Registry manages the registration of AI tools
type Registry struct {
	mu        sync.RWMutex
	tools     []ai.Tool
	byName    map[string]ai.Tool
	executors map[string]ToolExecutor
}

// NewRegistry creates a new tool registry
func NewRegistry() *Registry {
	return &Registry{
		tools:     make([]ai.Tool, 0),
		byName:    make(map[string]ai.Tool),
		executors: make(map[string]ToolExecutor),
	}
}

// Register adds a tool to the registry with its executor.
// Registering a name twice replaces the earlier tool.
func (r *Registry) Register(tool ai.Tool, executor ToolExecutor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := tool.Definition().Name
	if _, exists := r.byName[name]; exists {
		for i, t := range r.tools {
			if t.Definition().Name == name {
				r.tools = append(r.tools[:i], r.tools[i+1:]...)
				break
			}
		}
	}
	r.tools = append(r.tools, tool)
	r.byName[name] = tool
	r.executors[name] = executor
}

// GetTools returns all registered tools in registration order
func (r *Registry) GetTools() []ai.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ai.Tool, len(r.tools))
	copy(out, r.tools)
	return out
}

// Names returns the sorted names of all registered tools
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select returns the named tools as refs for a Generate call
func (r *Registry) Select(names ...string) ([]ai.ToolRef, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	refs := make([]ai.ToolRef, 0, len(names))
	for _, name := range names {
		tool, ok := r.byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
		}
		refs = append(refs, tool)
	}
	return refs, nil
}

// ExecuteTool runs a registered tool by name
func (r *Registry) ExecuteTool(ctx context.Context, name string, args map[string]interface{}) (interface{}, error) {
	r.mu.RLock()
	executor, ok := r.executors[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	if args == nil {
		args = map[string]interface{}{}
	}
	return executor(tdcontext.WithToolCall(ctx, name), args)
}
