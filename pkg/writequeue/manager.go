// Package writequeue serializes read-modify-write cycles per storage key
// Package writequeue 按存储键串行化"读-改-写"操作
package writequeue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrWriteQueueFull the queue of a key has no free slot
	// ErrWriteQueueFull 键对应的队列已满
	ErrWriteQueueFull = errors.New("write queue is full")
	// ErrWriteQueueClosed the manager has been shut down
	// ErrWriteQueueClosed 管理器已关闭
	ErrWriteQueueClosed = errors.New("write queue is closed")
	// ErrWriteTimeout the operation was still queued when WriteTimeout elapsed, it never runs
	// ErrWriteTimeout 超时时操作仍在排队，之后也不会执行
	ErrWriteTimeout = errors.New("write operation timeout")
)

// Config write queue configuration
// Config 写队列配置
type Config struct {
	// QueueCapacity pending operations per key
	// QueueCapacity 每个键的排队容量
	QueueCapacity int
	// WriteTimeout upper bound an operation may wait in the queue before it starts
	// WriteTimeout 操作开始执行前在队列中等待的上限
	WriteTimeout time.Duration
	// IdleTimeout idle queues are reclaimed after this
	// IdleTimeout 空闲队列回收时间
	IdleTimeout time.Duration
}

// DefaultConfig returns default configuration
// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		QueueCapacity: 64,
		WriteTimeout:  30 * time.Second,
		IdleTimeout:   5 * time.Minute,
	}
}

// operation states, moved by CAS so exactly one of worker and caller wins
// 操作状态，通过 CAS 切换，worker 与调用方只有一方成功
const (
	opPending int32 = iota
	opStarted
	opAbandoned
)

type writeOp struct {
	ctx    context.Context
	fn     func() error
	result chan error
	state  *atomic.Int32
}

type keyQueue struct {
	key      string
	ch       chan writeOp
	stopCh   chan struct{}
	lastUsed time.Time
	done     sync.WaitGroup
}

// Manager owns one FIFO worker per key
// Manager 为每个键维护一个 FIFO worker
type Manager struct {
	config Config
	logger *zap.Logger

	mu     sync.Mutex
	queues map[string]*keyQueue
	closed bool

	stopCleanup chan struct{}
	cleanupDone chan struct{}
}

// New creates write queue manager, nil cfg means DefaultConfig
// New 创建写队列管理器，cfg 为 nil 时使用默认配置
func New(cfg *Config, logger *zap.Logger) *Manager {
	c := DefaultConfig()
	if cfg != nil {
		if cfg.QueueCapacity > 0 {
			c.QueueCapacity = cfg.QueueCapacity
		}
		if cfg.WriteTimeout > 0 {
			c.WriteTimeout = cfg.WriteTimeout
		}
		if cfg.IdleTimeout > 0 {
			c.IdleTimeout = cfg.IdleTimeout
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		config:      c,
		logger:      logger,
		queues:      make(map[string]*keyQueue),
		stopCleanup: make(chan struct{}),
		cleanupDone: make(chan struct{}),
	}
	go m.reapIdle()

	m.logger.Debug("write queue manager started",
		zap.Int("queueCapacity", c.QueueCapacity),
		zap.Duration("writeTimeout", c.WriteTimeout))
	return m
}

// Execute runs fn after every earlier operation queued for the same key.
// If ctx ends or WriteTimeout elapses while fn is still queued, fn is dropped and the error returned.
// Once fn has started Execute always waits for it and returns its result, so a reported failure means nothing was written by this call.
// Execute 在同一键之前排队的操作全部完成后执行 fn。
// fn 仍在排队时 ctx 结束或超时，fn 被丢弃并返回错误；fn 一旦开始执行，Execute 总是等待并返回其结果。
func (m *Manager) Execute(ctx context.Context, key string, fn func() error) error {
	q, err := m.queueFor(key)
	if err != nil {
		return err
	}

	op := writeOp{ctx: ctx, fn: fn, result: make(chan error, 1), state: &atomic.Int32{}}
	select {
	case q.ch <- op:
	default:
		return ErrWriteQueueFull
	}

	timer := time.NewTimer(m.config.WriteTimeout)
	defer timer.Stop()

	var giveUp error
	select {
	case err := <-op.result:
		return err
	case <-ctx.Done():
		giveUp = ctx.Err()
	case <-timer.C:
		giveUp = ErrWriteTimeout
	}

	if op.state.CompareAndSwap(opPending, opAbandoned) {
		return giveUp
	}
	// 已开始执行，等待真实结果
	return <-op.result
}

func (m *Manager) queueFor(key string) (*keyQueue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrWriteQueueClosed
	}
	q, ok := m.queues[key]
	if !ok {
		q = &keyQueue{
			key:    key,
			ch:     make(chan writeOp, m.config.QueueCapacity),
			stopCh: make(chan struct{}),
		}
		m.queues[key] = q
		q.done.Add(1)
		go m.work(q)
		m.logger.Debug("write queue created", zap.String("key", key))
	}
	q.lastUsed = time.Now()
	return q, nil
}

func (m *Manager) work(q *keyQueue) {
	defer q.done.Done()
	for {
		select {
		case op := <-q.ch:
			m.run(op)
		case <-q.stopCh:
			// 退出前把已入队的操作执行完
			for {
				select {
				case op := <-q.ch:
					m.run(op)
				default:
					return
				}
			}
		}
	}
}

func (m *Manager) run(op writeOp) {
	if err := op.ctx.Err(); err != nil {
		if op.state.CompareAndSwap(opPending, opAbandoned) {
			op.result <- err
		}
		return
	}
	if !op.state.CompareAndSwap(opPending, opStarted) {
		return
	}
	op.result <- op.fn()
}

func (m *Manager) reapIdle() {
	defer close(m.cleanupDone)

	ticker := time.NewTicker(m.config.IdleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCleanup:
			return
		case now := <-ticker.C:
			m.mu.Lock()
			for key, q := range m.queues {
				if len(q.ch) == 0 && now.Sub(q.lastUsed) > m.config.IdleTimeout {
					close(q.stopCh)
					delete(m.queues, key)
					m.logger.Debug("write queue reclaimed", zap.String("key", key))
				}
			}
			m.mu.Unlock()
		}
	}
}

// Shutdown stops accepting work and waits for queued operations
// Shutdown 停止接收新操作，并等待已排队操作完成
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	queues := make([]*keyQueue, 0, len(m.queues))
	for key, q := range m.queues {
		close(q.stopCh)
		queues = append(queues, q)
		delete(m.queues, key)
	}
	m.mu.Unlock()

	close(m.stopCleanup)

	done := make(chan struct{})
	go func() {
		for _, q := range queues {
			q.done.Wait()
		}
		<-m.cleanupDone
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("write queue manager shutdown completed")
		return nil
	case <-ctx.Done():
		m.logger.Warn("write queue manager shutdown timeout")
		return ctx.Err()
	}
}

// QueueCount returns the number of live key queues
// QueueCount 返回当前活跃队列数
func (m *Manager) QueueCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queues)
}
