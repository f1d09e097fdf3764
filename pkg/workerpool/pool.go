// Package workerpool bounds the number of goroutines running background work
// Package workerpool 限制后台任务的并发 goroutine 数量
package workerpool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	// ErrWorkerPoolFull 任务队列已满
	ErrWorkerPoolFull = errors.New("worker pool queue is full")
	// ErrWorkerPoolClosed 任务池已关闭
	ErrWorkerPoolClosed = errors.New("worker pool is closed")
)

// Config worker pool configuration
// Config 任务池配置
type Config struct {
	// MaxWorkers 最大并发 worker 数量
	MaxWorkers int
	// QueueSize 任务队列大小
	QueueSize int
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		MaxWorkers: 8,
		QueueSize:  256,
	}
}

type task struct {
	ctx  context.Context
	fn   func(context.Context) error
	done chan error
}

// Pool fixed set of workers reading from one queue
// Pool 固定数量 worker 共享一个任务队列
type Pool struct {
	config Config
	logger *zap.Logger

	tasks chan task
	wg    sync.WaitGroup

	active    atomic.Int64
	completed atomic.Int64

	mu     sync.RWMutex
	closed bool
}

// New 创建任务池，cfg 为 nil 时使用默认配置
func New(cfg *Config, logger *zap.Logger) *Pool {
	c := DefaultConfig()
	if cfg != nil {
		if cfg.MaxWorkers > 0 {
			c.MaxWorkers = cfg.MaxWorkers
		}
		if cfg.QueueSize > 0 {
			c.QueueSize = cfg.QueueSize
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Pool{
		config: c,
		logger: logger,
		tasks:  make(chan task, c.QueueSize),
	}
	for i := 0; i < c.MaxWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	p.logger.Debug("worker pool started",
		zap.Int("maxWorkers", c.MaxWorkers),
		zap.Int("queueSize", c.QueueSize))
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for t := range p.tasks {
		p.execute(t)
	}
}

func (p *Pool) execute(t task) {
	p.active.Add(1)
	defer func() {
		p.active.Add(-1)
		p.completed.Add(1)
		if r := recover(); r != nil {
			p.logger.Error("worker pool task panic", zap.Any("panic", r))
			t.done <- errors.New("task panicked")
		}
	}()

	if err := t.ctx.Err(); err != nil {
		t.done <- err
		return
	}
	t.done <- t.fn(t.ctx)
}

// Submit queues fn and returns a channel that receives its result once
// Submit 提交任务，返回接收其结果的通道
func (p *Pool) Submit(ctx context.Context, fn func(context.Context) error) (<-chan error, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return nil, ErrWorkerPoolClosed
	}

	t := task{ctx: ctx, fn: fn, done: make(chan error, 1)}
	select {
	case p.tasks <- t:
		return t.done, nil
	default:
		return nil, ErrWorkerPoolFull
	}
}

// Run submits every fn and waits for all of them, returning the first error
// Run 提交全部任务并等待完成，返回第一个错误
func (p *Pool) Run(ctx context.Context, fns ...func(context.Context) error) error {
	results := make([]<-chan error, 0, len(fns))
	var firstErr error
	for _, fn := range fns {
		ch, err := p.Submit(ctx, fn)
		if err != nil {
			// 队列满时在调用方 goroutine 中执行
			if errors.Is(err, ErrWorkerPoolFull) {
				if err := fn(ctx); err != nil && firstErr == nil {
					firstErr = err
				}
				continue
			}
			return err
		}
		results = append(results, ch)
	}
	for _, ch := range results {
		if err := <-ch; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Stats 任务池运行统计
type Stats struct {
	MaxWorkers int
	Active     int64
	Queued     int
	Completed  int64
}

// Stats 返回当前统计
func (p *Pool) Stats() Stats {
	return Stats{
		MaxWorkers: p.config.MaxWorkers,
		Active:     p.active.Load(),
		Queued:     len(p.tasks),
		Completed:  p.completed.Load(),
	}
}

// Shutdown 关闭任务池并等待已提交任务结束
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Debug("worker pool shutdown completed")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
