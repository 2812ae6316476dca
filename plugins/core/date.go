package core

import (
	"context"
	"fmt"
	"time"

	"github.com/dop251/goja"
	"github.com/va6996/tickerdesk/log"
)

// DateToolName is the registered tool name
const DateToolName = "dateTool"

// DateInput defines the input for the date tool
type DateInput struct {
	Expression string `json:"expression" description:"JavaScript expression to calculate a date. Variable 'now' is available as current timestamp in milliseconds."`
}

// DateTool evaluates date arithmetic so relative periods in a prompt
// ("last week", "since Monday") can be turned into concrete dates
type DateTool struct {
	Now func() time.Time
}

func (t *DateTool) Description() string {
	return `Executes JavaScript expression to calculate dates. Variable 'now' is available holding the current timestamp (milliseconds).
Return a Date object or ISO string. The last expression is the return value.
Examples:
- Today: "new Date(now)"
- One week ago: "new Date(now - 7 * 86400000)"
- Start of the current quarter: "var d = new Date(now); new Date(Date.UTC(d.getUTCFullYear(), Math.floor(d.getUTCMonth() / 3) * 3, 1))"`
}

func (t *DateTool) Execute(ctx context.Context, input *DateInput) (*time.Time, error) {
	if input == nil || input.Expression == "" {
		return nil, fmt.Errorf("expression is required")
	}
	log.Debugf(ctx, "[DateTool] Executing expression: %s", input.Expression)

	vm := goja.New()
	if err := vm.Set("now", t.Now().UnixMilli()); err != nil {
		return nil, fmt.Errorf("failed to set 'now': %w", err)
	}

	val, err := vm.RunString(input.Expression)
	if err != nil {
		return nil, fmt.Errorf("js execution failed: %w", err)
	}

	exported := val.Export()
	log.Debugf(ctx, "[DateTool] Exported result: %v (Type: %T)", exported, exported)

	if exported == nil {
		return nil, fmt.Errorf("result is null or undefined")
	}

	// goja exports JS Date as time.Time
	if dateObj, ok := exported.(time.Time); ok {
		return &dateObj, nil
	}

	if str, ok := exported.(string); ok {
		if parsed, err := time.Parse(time.RFC3339, str); err == nil {
			return &parsed, nil
		}
		if parsed, err := time.Parse("2006-01-02", str); err == nil {
			return &parsed, nil
		}
	}

	return nil, fmt.Errorf("result is not a valid Date object or ISO string")
}
