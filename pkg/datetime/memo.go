package datetime

import (
	"context"
	"sync"
)

type memoResult struct {
	ts  int64
	err error
}

// Memo deduplicates normalization of identical strings. A Memo is meant to
// live for one validation run: relative dates such as "now" must not be
// reused across invocations. Calls are serialized.
type Memo struct {
	next Normalizer

	mu      sync.Mutex
	results map[string]memoResult
	calls   int
}

// NewMemo wraps next.
func NewMemo(next Normalizer) *Memo {
	return &Memo{
		next:    next,
		results: make(map[string]memoResult),
	}
}

// Normalize implements Normalizer.
func (m *Memo) Normalize(ctx context.Context, value string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.results[value]
	if !ok {
		r.ts, r.err = m.next.Normalize(ctx, value)
		m.results[value] = r
		m.calls++
	}
	if r.err != nil {
		return 0, r.err
	}
	return r.ts, nil
}

// Calls returns how many times the wrapped normalizer ran.
func (m *Memo) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
