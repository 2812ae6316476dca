package agents

import (
	"context"
)

// Runner answers a single prompt
type Runner interface {
	Run(ctx context.Context, prompt string) (*Response, error)
}

var _ Runner = (*Agent)(nil)
