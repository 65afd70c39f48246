package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskGroup_ContinuationRunsOnLoop(t *testing.T) {
	loop := startLoop(t)
	group := newTaskGroup(loop)

	var order []string
	release := make(chan struct{})
	require.NoError(t, loop.Do(context.Background(), func() error {
		group.Go(func() func() {
			<-release
			return func() { order = append(order, "continuation") }
		})
		order = append(order, "started")
		return nil
	}))

	assert.Equal(t, 1, group.Active())
	close(release)
	require.NoError(t, group.Wait(context.Background()))

	require.NoError(t, loop.Do(context.Background(), func() error {
		assert.Equal(t, []string{"started", "continuation"}, order)
		return nil
	}))
	assert.Equal(t, 0, group.Active())
}

func TestTaskGroup_WaitIncludesNestedTasks(t *testing.T) {
	loop := startLoop(t)
	group := newTaskGroup(loop)

	done := false
	require.NoError(t, loop.Do(context.Background(), func() error {
		group.Go(func() func() {
			return func() {
				group.Go(func() func() {
					time.Sleep(10 * time.Millisecond)
					return func() { done = true }
				})
			}
		})
		return nil
	}))

	require.NoError(t, group.Wait(context.Background()))
	require.NoError(t, loop.Do(context.Background(), func() error {
		assert.True(t, done)
		return nil
	}))
}

func TestTaskGroup_WaitHonoursContext(t *testing.T) {
	loop := startLoop(t)
	group := newTaskGroup(loop)
	release := make(chan struct{})
	defer close(release)

	group.Go(func() func() {
		<-release
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, group.Wait(ctx), context.DeadlineExceeded)
}

func TestTaskGroup_StoppedLoopStillSettles(t *testing.T) {
	captureLog(t)
	loop := NewEventLoop()
	loop.Stop()
	group := newTaskGroup(loop)

	group.Go(func() func() { return func() {} })

	require.NoError(t, group.Wait(context.Background()))
	assert.Equal(t, 0, group.Active())
}

func TestTaskGroup_RecoversPanickingWork(t *testing.T) {
	buf := captureLog(t)
	loop := startLoop(t)
	group := newTaskGroup(loop)

	group.Go(func() func() { panic("worker failed") })

	require.NoError(t, group.Wait(context.Background()))
	require.NoError(t, loop.Do(context.Background(), func() error { return nil }))
	assert.Contains(t, buf.String(), "worker failed")
}
