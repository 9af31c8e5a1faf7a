package driver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/themizzi/shopcheck/internal/locator"
)

func TestPollUntil_SucceedsAfterRetries(t *testing.T) {
	// GIVEN a condition that becomes true on the third poll
	calls := 0
	cond := func(ctx context.Context) (string, bool, error) {
		calls++
		if calls < 3 {
			return "", false, nil
		}
		return "ready", true, nil
	}

	// WHEN
	value, err := PollUntil(context.Background(), time.Second, 5*time.Millisecond, cond)

	// THEN
	require.NoError(t, err)
	assert.Equal(t, "ready", value)
	assert.Equal(t, 3, calls)
}

func TestPollUntil_NotFoundKeepsPolling(t *testing.T) {
	calls := 0
	cond := func(ctx context.Context) (int, bool, error) {
		calls++
		if calls < 2 {
			return 0, false, NotFound(locator.Selector{Strategy: locator.StrategyCSS, Value: ".late"})
		}
		return 42, true, nil
	}

	value, err := PollUntil(context.Background(), time.Second, 5*time.Millisecond, cond)

	require.NoError(t, err)
	assert.Equal(t, 42, value)
}

func TestPollUntil_Timeout(t *testing.T) {
	cond := func(ctx context.Context) (int, bool, error) {
		return 0, false, NotFound(locator.Selector{Strategy: locator.StrategyCSS, Value: ".never"})
	}

	start := time.Now()
	_, err := PollUntil(context.Background(), 50*time.Millisecond, 10*time.Millisecond, cond)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout))
	assert.Contains(t, err.Error(), ".never")
	assert.Less(t, time.Since(start), time.Second)
}

func TestPollUntil_FatalErrorStops(t *testing.T) {
	boom := errors.New("browser crashed")
	calls := 0
	cond := func(ctx context.Context) (int, bool, error) {
		calls++
		return 0, false, boom
	}

	_, err := PollUntil(context.Background(), time.Second, 5*time.Millisecond, cond)

	require.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, ErrTimeout))
	assert.Equal(t, 1, calls)
}

func TestPollUntil_ParentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := PollUntil(ctx, time.Second, 5*time.Millisecond, func(ctx context.Context) (int, bool, error) {
		return 0, false, nil
	})

	require.ErrorIs(t, err, context.Canceled)
}

func TestNotFound(t *testing.T) {
	err := NotFound(locator.Selector{Strategy: locator.StrategyXPath, Value: "//x"})
	assert.ErrorIs(t, err, ErrElementNotFound)
	assert.Equal(t, "element not found: xpath=//x", err.Error())
}
