/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package datetime

import (
	"context"
	"errors"
	"os/exec"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayouts_Normalize(t *testing.T) {
	fixed := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewLayouts(time.UTC)
	l.Now = func() time.Time { return fixed }

	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"2024-01-01 09:00", time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC).Unix(), false},
		{"2024-01-01 10:00:30", time.Date(2024, 1, 1, 10, 0, 30, 0, time.UTC).Unix(), false},
		{"31/01/2024 08:15", time.Date(2024, 1, 31, 8, 15, 0, 0, time.UTC).Unix(), false},
		{"2024-02-29", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC).Unix(), false},
		{"now", fixed.Unix(), false},
		{" Now ", fixed.Unix(), false},
		{"next tuesday", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := l.Normalize(context.Background(), tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnparseable))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMemo_DeduplicatesCalls(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]int{}
	inner := NormalizerFunc(func(_ context.Context, v string) (int64, error) {
		mu.Lock()
		seen[v]++
		mu.Unlock()
		if v == "bad" {
			return 0, ErrUnparseable
		}
		return int64(len(v)), nil
	})

	m := NewMemo(inner)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ts, err := m.Normalize(ctx, "abcd")
		require.NoError(t, err)
		assert.Equal(t, int64(4), ts)
	}
	for i := 0; i < 2; i++ {
		_, err := m.Normalize(ctx, "bad")
		require.ErrorIs(t, err, ErrUnparseable)
	}

	assert.Equal(t, 1, seen["abcd"])
	assert.Equal(t, 1, seen["bad"])
	assert.Equal(t, 2, m.Calls())
}

func TestMemo_ConcurrentSameValue(t *testing.T) {
	inner := NormalizerFunc(func(_ context.Context, _ string) (int64, error) {
		time.Sleep(10 * time.Millisecond)
		return 42, nil
	})
	m := NewMemo(inner)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ts, err := m.Normalize(context.Background(), "x")
			assert.NoError(t, err)
			assert.Equal(t, int64(42), ts)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, m.Calls())
}

func TestCommand_Normalize(t *testing.T) {
	path, err := exec.LookPath("date")
	if err != nil {
		t.Skip("date(1) not available")
	}

	c := NewCommand(WithPath(path), WithTimeout(2*time.Second), WithEnv("TZ=UTC"))

	got, err := c.Normalize(context.Background(), "1970-01-02 00:00")
	if err != nil {
		t.Skipf("date(1) does not support --date: %v", err)
	}
	assert.Equal(t, int64(86400), got)

	_, err = c.Normalize(context.Background(), "not a date at all")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnparseable)
}

func TestCommand_MissingBinary(t *testing.T) {
	c := NewCommand(WithPath("/nonexistent/date"))
	_, err := c.Normalize(context.Background(), "now")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnparseable))
}
