package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunExecutesEveryTask(t *testing.T) {
	// 队列容量为 1，溢出的任务在调用方执行
	p := New(&Config{MaxWorkers: 1, QueueSize: 1}, nil)
	defer p.Shutdown(context.Background())

	var n atomic.Int64
	fns := make([]func(context.Context) error, 20)
	for i := range fns {
		fns[i] = func(context.Context) error {
			n.Add(1)
			return nil
		}
	}
	require.NoError(t, p.Run(context.Background(), fns...))
	assert.EqualValues(t, 20, n.Load())
}

func TestRunReturnsFirstError(t *testing.T) {
	p := New(nil, nil)
	defer p.Shutdown(context.Background())

	boom := errors.New("boom")
	err := p.Run(context.Background(),
		func(context.Context) error { return nil },
		func(context.Context) error { return boom },
	)
	assert.ErrorIs(t, err, boom)
}

func TestPanicIsRecovered(t *testing.T) {
	p := New(&Config{MaxWorkers: 1}, nil)
	defer p.Shutdown(context.Background())

	ch, err := p.Submit(context.Background(), func(context.Context) error { panic("bad template") })
	require.NoError(t, err)
	assert.Error(t, <-ch)

	// worker 仍然可用
	ch, err = p.Submit(context.Background(), func(context.Context) error { return nil })
	require.NoError(t, err)
	assert.NoError(t, <-ch)
}

func TestCancelledContextSkipsTask(t *testing.T) {
	p := New(nil, nil)
	defer p.Shutdown(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var ran atomic.Bool
	ch, err := p.Submit(ctx, func(context.Context) error {
		ran.Store(true)
		return nil
	})
	require.NoError(t, err)
	assert.ErrorIs(t, <-ch, context.Canceled)
	assert.False(t, ran.Load())
}

func TestSubmitAfterShutdown(t *testing.T) {
	p := New(nil, nil)
	require.NoError(t, p.Shutdown(context.Background()))
	require.NoError(t, p.Shutdown(context.Background()))

	_, err := p.Submit(context.Background(), func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrWorkerPoolClosed)
	assert.EqualValues(t, 0, p.Stats().Active)
}
