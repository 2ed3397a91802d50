package poller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshAppliesLatest(t *testing.T) {
	p := New(func(ctx context.Context) (int, error) { return 42, nil }, time.Minute)

	_, _, ok := p.Latest()
	assert.False(t, ok, "no snapshot before the first refresh")

	p.Refresh(context.Background())

	value, fetchedAt, ok := p.Latest()
	require.True(t, ok)
	assert.Equal(t, 42, value)
	assert.WithinDuration(t, time.Now(), fetchedAt, time.Second)
}

func TestRefreshFailureKeepsPrevious(t *testing.T) {
	calls := 0
	p := New(func(ctx context.Context) (int, error) {
		calls++
		if calls > 1 {
			return 0, errors.New("backend down")
		}
		return 7, nil
	}, time.Minute)

	p.Refresh(context.Background())
	p.Refresh(context.Background())

	value, _, ok := p.Latest()
	require.True(t, ok)
	assert.Equal(t, 7, value, "failed refresh must not clobber the snapshot")
}

func TestStopDiscardsInFlightResult(t *testing.T) {
	gate := make(chan struct{})
	started := make(chan struct{})
	p := New(func(ctx context.Context) (int, error) {
		close(started)
		<-gate
		return 99, nil
	}, time.Minute)

	done := make(chan struct{})
	go func() {
		p.Refresh(context.Background())
		close(done)
	}()

	<-started
	p.Stop()
	close(gate)
	<-done

	_, _, ok := p.Latest()
	assert.False(t, ok, "a result arriving after Stop must be discarded")
}

func TestRefreshAfterStopIsNoop(t *testing.T) {
	calls := 0
	p := New(func(ctx context.Context) (int, error) {
		calls++
		return calls, nil
	}, time.Minute)

	p.Stop()
	p.Refresh(context.Background())

	assert.Zero(t, calls, "a stopped poller must not fetch")
}

func TestStartSchedulesAndStopHalts(t *testing.T) {
	hits := make(chan struct{}, 16)
	p := New(func(ctx context.Context) (int, error) {
		hits <- struct{}{}
		return 1, nil
	}, 10*time.Millisecond)

	require.NoError(t, p.Start(context.Background()))

	// the immediate refresh plus at least one scheduled tick
	for i := 0; i < 2; i++ {
		select {
		case <-hits:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for refresh")
		}
	}

	p.Stop()

	value, _, ok := p.Latest()
	require.True(t, ok)
	assert.Equal(t, 1, value)
}

func TestDoubleStartRejected(t *testing.T) {
	p := New(func(ctx context.Context) (int, error) { return 1, nil }, time.Minute)
	require.NoError(t, p.Start(context.Background()))
	defer p.Stop()

	assert.Error(t, p.Start(context.Background()))
}
