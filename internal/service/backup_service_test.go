package service

import (
	"context"
	"errors"
	"testing"

	"github.com/haierkeys/fast-latex-notes/internal/dao"
	"github.com/haierkeys/fast-latex-notes/pkg/code"
	"github.com/haierkeys/fast-latex-notes/pkg/storage/memory"
	"github.com/haierkeys/fast-latex-notes/pkg/writequeue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupSnapshotAndPrune(t *testing.T) {
	ctx := context.Background()
	store := memory.NewClient()
	wq := writequeue.New(nil, nil)
	defer wq.Shutdown(context.Background())

	cfg := &ServiceConfig{Backup: BackupServiceConfig{Keep: 2}}
	svc := NewBackupService(dao.NewBackupRepository(store, testKey, nil), testKey, wq, cfg, nil)

	snap, ok, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "empty store has nothing to snapshot")
	assert.Nil(t, snap)

	require.NoError(t, store.Set(ctx, testKey, `[]`))

	var keys []string
	for i := 0; i < 4; i++ {
		snap, ok, err := svc.Snapshot(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		keys = append(keys, snap.Key)
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, keys[2], list[0].Key)
	assert.Equal(t, keys[3], list[1].Key)

	_, ok, err = store.Get(ctx, keys[0])
	require.NoError(t, err)
	assert.False(t, ok, "pruned snapshot removed from storage")
}

func TestBackupSnapshotFailure(t *testing.T) {
	wq := writequeue.New(nil, nil)
	defer wq.Shutdown(context.Background())

	svc := NewBackupService(dao.NewBackupRepository(failingStore{}, testKey, nil), testKey, wq, nil, nil)
	_, _, err := svc.Snapshot(context.Background())
	assert.True(t, errors.Is(err, code.ErrorBackupSnapshotFails))
}
