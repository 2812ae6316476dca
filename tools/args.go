package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/va6996/tickerdesk/log"
)

// DefaultCount is substituted for count arguments that cannot be parsed
const DefaultCount = 5

type countKind int

const (
	countOther countKind = iota
	countInteger
	countString
)

// CountArg is a count argument as it arrived from a model-driven tool call.
// Models send counts as numbers, numeric strings, or garbage; CountArg
// sorts the raw value into one of those shapes before it is parsed.
type CountArg struct {
	kind countKind
	n    int64
	s    string
	raw  any
}

// NewCountArg classifies raw. Numbers that do not fit an int64 (NaN, Inf,
// huge floats) are classified as other.
func NewCountArg(raw any) CountArg {
	c := CountArg{raw: raw}
	switch v := raw.(type) {
	case int:
		c.kind, c.n = countInteger, int64(v)
	case int8:
		c.kind, c.n = countInteger, int64(v)
	case int16:
		c.kind, c.n = countInteger, int64(v)
	case int32:
		c.kind, c.n = countInteger, int64(v)
	case int64:
		c.kind, c.n = countInteger, v
	case uint:
		c.setUnsigned(uint64(v))
	case uint8:
		c.setUnsigned(uint64(v))
	case uint16:
		c.setUnsigned(uint64(v))
	case uint32:
		c.setUnsigned(uint64(v))
	case uint64:
		c.setUnsigned(v)
	case float32:
		c.setFloat(float64(v))
	case float64:
		c.setFloat(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			c.kind, c.n = countInteger, n
		} else if f, err := v.Float64(); err == nil {
			c.setFloat(f)
		}
	case string:
		c.kind, c.s = countString, v
	}
	return c
}

func (c *CountArg) setUnsigned(v uint64) {
	if v <= math.MaxInt64 {
		c.kind, c.n = countInteger, int64(v)
	}
}

// setFloat truncates toward zero, so 3.0 and 3.9 both become 3.
func (c *CountArg) setFloat(f float64) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return
	}
	t := math.Trunc(f)
	if t < math.MinInt64 || t >= math.MaxInt64 {
		return
	}
	c.kind, c.n = countInteger, int64(t)
}

// Int returns the count as an int, or an error if the raw value is not a
// well-formed integer.
func (c CountArg) Int() (int, error) {
	var n int64
	switch c.kind {
	case countInteger:
		n = c.n
	case countString:
		parsed, err := strconv.ParseInt(strings.TrimSpace(c.s), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("count %q is not an integer literal", c.s)
		}
		n = parsed
	default:
		return 0, fmt.Errorf("count of type %T is not a number", c.raw)
	}
	if n < math.MinInt || n > math.MaxInt {
		return 0, fmt.Errorf("count %d out of range", n)
	}
	return int(n), nil
}

// Raw returns the value CountArg was built from
func (c CountArg) Raw() any {
	return c.raw
}

// ParseCount interprets raw as an integer count
func ParseCount(raw any) (int, error) {
	return NewCountArg(raw).Int()
}

// ResolveCount returns the integer value of raw, or DefaultCount after
// logging a warning when raw cannot be parsed. Zero and negative values
// pass through; rejecting them is left to the callee. The warning obeys the
// configured log level, so levels above warn suppress it.
func ResolveCount(ctx context.Context, raw any) int {
	n, err := ParseCount(raw)
	if err != nil {
		log.Warnf(ctx, "Invalid count format ('%v'). Defaulting to %d.", raw, DefaultCount)
		return DefaultCount
	}
	return n
}

// FetchFunc fetches count items for a resource key
type FetchFunc[T any] func(ctx context.Context, key string, count int) (T, error)

// NormalizeAndFetch resolves rawCount and calls fetch with key untouched.
// Whatever fetch returns, including its error, is returned as is.
func NormalizeAndFetch[T any](ctx context.Context, key string, rawCount any, fetch FetchFunc[T]) (T, error) {
	return fetch(ctx, key, ResolveCount(ctx, rawCount))
}
