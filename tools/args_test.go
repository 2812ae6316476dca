package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/va6996/tickerdesk/log"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger.Out
	require.NoError(t, log.Init("info"))
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(prev) })
	return &buf
}

func countLines(s string) int {
	return strings.Count(s, "\n")
}

func TestParseCount_WellFormed(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want int
	}{
		{"int", 3, 3},
		{"int64", int64(12), 12},
		{"uint8", uint8(9), 9},
		{"negative int", -2, -2},
		{"zero", 0, 0},
		{"float integral", 3.0, 3},
		{"float32 integral", float32(4), 4},
		{"float truncates", 3.9, 3},
		{"negative float truncates", -3.9, -3},
		{"json number", json.Number("8"), 8},
		{"json number float", json.Number("8.0"), 8},
		{"string", "7", 7},
		{"string signed", "+3", 3},
		{"string negative", "-2", -2},
		{"string padded", " 6\n", 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCount(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCount_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  any
	}{
		{"word", "seven"},
		{"nil", nil},
		{"empty string", ""},
		{"map", map[string]interface{}{}},
		{"slice", []int{3}},
		{"bool", true},
		{"trailing garbage", "3.5x"},
		{"decimal string", "3.0"},
		{"underscore", "1_000"},
		{"nan", math.NaN()},
		{"inf", math.Inf(1)},
		{"huge float", 1e30},
		{"huge uint", uint64(math.MaxUint64)},
		{"string overflow", "99999999999999999999"},
		{"json number garbage", json.Number("five")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCount(tt.raw)
			assert.Error(t, err)
		})
	}
}

func TestResolveCount_FallbackLogsOnce(t *testing.T) {
	for _, raw := range []any{"five", nil, map[string]interface{}{}, "3.5x"} {
		buf := captureLog(t)
		got := ResolveCount(context.Background(), raw)
		assert.Equal(t, DefaultCount, got)
		assert.Equal(t, 1, countLines(buf.String()), "raw=%v", raw)
		assert.Contains(t, buf.String(), "Invalid count format (")
		assert.Contains(t, buf.String(), "Defaulting to 5.")
	}
}

func TestResolveCount_WellFormedIsSilent(t *testing.T) {
	buf := captureLog(t)
	assert.Equal(t, 3, ResolveCount(context.Background(), "3"))
	assert.Empty(t, buf.String())
}

type fetchCall struct {
	key   string
	count int
}

type recordingFetcher struct {
	mu    sync.Mutex
	calls []fetchCall
	err   error
}

func (r *recordingFetcher) fetch(ctx context.Context, key string, count int) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, fetchCall{key, count})
	if r.err != nil {
		return "", r.err
	}
	return "result:" + key, nil
}

func TestNormalizeAndFetch_Scenarios(t *testing.T) {
	tests := []struct {
		name    string
		raw     any
		want    int
		warning string
	}{
		{"integer", 3, 3, ""},
		{"numeric string", "7", 7, ""},
		{"word", "seven", 5, "'seven'"},
		{"nil", nil, 5, "Invalid count format"},
		{"negative passes through", -2, -2, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLog(t)
			f := &recordingFetcher{}

			res, err := NormalizeAndFetch(context.Background(), "NVDA", tt.raw, f.fetch)
			require.NoError(t, err)
			assert.Equal(t, "result:NVDA", res)
			assert.Equal(t, []fetchCall{{"NVDA", tt.want}}, f.calls)

			if tt.warning == "" {
				assert.Empty(t, buf.String())
			} else {
				assert.Contains(t, buf.String(), tt.warning)
				assert.Equal(t, 1, countLines(buf.String()))
			}
		})
	}
}

func TestNormalizeAndFetch_KeyPassedThrough(t *testing.T) {
	captureLog(t)
	f := &recordingFetcher{}
	key := "  brk.b\x00ü "

	_, err := NormalizeAndFetch(context.Background(), key, 1, f.fetch)
	require.NoError(t, err)
	assert.Equal(t, key, f.calls[0].key)
}

func TestNormalizeAndFetch_PropagatesFetchError(t *testing.T) {
	captureLog(t)
	sentinel := errors.New("unknown symbol")
	f := &recordingFetcher{err: sentinel}

	_, err := NormalizeAndFetch(context.Background(), "ZZZZ", "bad", f.fetch)
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 5, f.calls[0].count)
}

func TestNormalizeAndFetch_ConcurrentAndIdempotent(t *testing.T) {
	captureLog(t)
	f := &recordingFetcher{}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = NormalizeAndFetch(context.Background(), "NVDA", "4", f.fetch)
		}()
	}
	wg.Wait()

	require.Len(t, f.calls, 20)
	for _, c := range f.calls {
		assert.Equal(t, fetchCall{"NVDA", 4}, c)
	}
}
