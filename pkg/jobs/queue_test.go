package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnqueueBeforeStartFails(t *testing.T) {
	q := NewQueue("mail", QueueConfig{})
	_, err := q.Enqueue("send", nil)
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestQueueDispatchesByType(t *testing.T) {
	q := NewQueue("mail", QueueConfig{Workers: 2})
	done := make(chan interface{}, 1)
	q.Handle("send", func(_ context.Context, j Job) error {
		done <- j.Payload
		return nil
	})
	q.Start(context.Background())
	defer q.Stop()

	id, err := q.Enqueue("send", "hello")
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	select {
	case got := <-done:
		assert.Equal(t, "hello", got)
	case <-time.After(2 * time.Second):
		t.Fatal("job not processed")
	}
}

func TestQueueRetriesFailedJobs(t *testing.T) {
	q := NewQueue("mail", QueueConfig{MaxRetries: 2, RetryDelay: 10 * time.Millisecond})
	var calls int32
	succeeded := make(chan struct{})
	q.Handle("send", func(context.Context, Job) error {
		if atomic.AddInt32(&calls, 1) < 3 {
			return errors.New("smtp down")
		}
		close(succeeded)
		return nil
	})
	q.Start(context.Background())
	defer q.Stop()

	_, err := q.Enqueue("send", nil)
	require.NoError(t, err)

	select {
	case <-succeeded:
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	case <-time.After(2 * time.Second):
		t.Fatal("job was not retried")
	}
}

func TestQueueFullDoesNotBlock(t *testing.T) {
	q := NewQueue("mail", QueueConfig{Workers: 1, BufferSize: 1})
	block := make(chan struct{})
	q.Handle("send", func(context.Context, Job) error {
		<-block
		return nil
	})
	q.Start(context.Background())
	defer func() {
		close(block)
		q.Stop()
	}()

	var full bool
	for i := 0; i < 5; i++ {
		if _, err := q.Enqueue("send", i); errors.Is(err, ErrQueueFull) {
			full = true
			break
		}
	}
	assert.True(t, full)
}
