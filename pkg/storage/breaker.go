package storage

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ErrUnavailable returned while the breaker rejects calls
// ErrUnavailable 熔断器拒绝请求时返回
var ErrUnavailable = errors.New("storage backend temporarily unavailable")

// Breaker wraps a remote Storager so a dead backend fails fast
// Breaker 包装远程 Storager，后端不可用时快速失败
type Breaker struct {
	next Storager
	cb   *gobreaker.CircuitBreaker
}

type getResult struct {
	value string
	ok    bool
}

// NewBreaker 创建带熔断的 Storager
func NewBreaker(next Storager, name string, cfg BreakerConfig, logger *zap.Logger) *Breaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	minRequests := cfg.MinRequests
	threshold := cfg.FailureThreshold

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "storage-" + name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= threshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("storage circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
		// 调用方取消不算后端故障
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &Breaker{next: next, cb: cb}
}

func (b *Breaker) execute(fn func() (any, error)) (any, error) {
	v, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, errors.Wrap(ErrUnavailable, err.Error())
	}
	return v, err
}

func (b *Breaker) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := b.execute(func() (any, error) {
		value, ok, err := b.next.Get(ctx, key)
		return getResult{value: value, ok: ok}, err
	})
	if err != nil {
		return "", false, err
	}
	r := v.(getResult)
	return r.value, r.ok, nil
}

func (b *Breaker) Set(ctx context.Context, key string, value string) error {
	_, err := b.execute(func() (any, error) {
		return nil, b.next.Set(ctx, key, value)
	})
	return err
}

func (b *Breaker) Remove(ctx context.Context, key string) error {
	_, err := b.execute(func() (any, error) {
		return nil, b.next.Remove(ctx, key)
	})
	return err
}

// State 当前熔断状态
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}
