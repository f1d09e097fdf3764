package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/haierkeys/fast-latex-notes/pkg/code"
	"github.com/haierkeys/fast-latex-notes/pkg/storage"
	"github.com/haierkeys/fast-latex-notes/pkg/storage/local_fs"
	"github.com/haierkeys/fast-latex-notes/pkg/storage/memory"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_Local(t *testing.T) {
	client, err := storage.NewClient(&storage.Config{
		Type:     storage.LOCAL,
		SavePath: t.TempDir(),
	}, nil)
	require.NoError(t, err)

	_, ok := client.(*local_fs.LocalFS)
	assert.True(t, ok)
}

func TestNewClient_Memory(t *testing.T) {
	client, err := storage.NewClient(&storage.Config{Type: storage.Memory}, nil)
	require.NoError(t, err)
	_, ok := client.(*memory.Memory)
	assert.True(t, ok)
}

func TestNewClient_Invalid(t *testing.T) {
	for _, typ := range []string{"invalid", storage.Database} {
		_, err := storage.NewClient(&storage.Config{Type: typ}, nil)
		assert.ErrorIs(t, err, code.ErrorInvalidStorageType, typ)
	}
}

type flaky struct {
	calls int
	err   error
}

func (f *flaky) Get(ctx context.Context, key string) (string, bool, error) {
	f.calls++
	return "", false, f.err
}

func (f *flaky) Set(ctx context.Context, key string, value string) error {
	f.calls++
	return f.err
}

func (f *flaky) Remove(ctx context.Context, key string) error {
	f.calls++
	return f.err
}

func TestBreaker_OpensAfterFailures(t *testing.T) {
	backend := &flaky{err: errors.New("connection refused")}
	b := storage.NewBreaker(backend, "test", storage.BreakerConfig{
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		MinRequests:      3,
		FailureThreshold: 0.5,
	}, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.Error(t, b.Set(ctx, "k", "v"))
	}
	assert.Equal(t, gobreaker.StateOpen, b.State())

	err := b.Set(ctx, "k", "v")
	assert.ErrorIs(t, err, storage.ErrUnavailable)
	assert.Equal(t, 3, backend.calls)
}

func TestBreaker_PassesThrough(t *testing.T) {
	b := storage.NewBreaker(memory.NewClient(), "mem", storage.BreakerConfig{MinRequests: 1, FailureThreshold: 1}, nil)
	ctx := context.Background()

	_, ok, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Set(ctx, "k", "v"))
	v, ok, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	require.NoError(t, b.Remove(ctx, "k"))
	_, ok, _ = b.Get(ctx, "k")
	assert.False(t, ok)
}
