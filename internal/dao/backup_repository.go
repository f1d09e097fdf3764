package dao

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/haierkeys/fast-latex-notes/internal/domain"
	"github.com/haierkeys/fast-latex-notes/pkg/storage"
	"github.com/haierkeys/fast-latex-notes/pkg/util"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// snapshotRecord 快照索引条目
type snapshotRecord struct {
	Key       string    `json:"key"`
	CreatedAt time.Time `json:"createdAt"`
}

// backupRepository 实现 domain.BackupRepository 接口
// 快照写入 <key>.backup.<yyyymmddHHMMSS>，索引保存在 <key>.backup.index
type backupRepository struct {
	store  storage.Storager
	key    string
	logger *zap.Logger
	now    func() time.Time
}

// NewBackupRepository 创建 BackupRepository 实例
func NewBackupRepository(store storage.Storager, key string, lg *zap.Logger) domain.BackupRepository {
	if key == "" {
		key = DefaultEquationKey
	}
	if lg == nil {
		lg = zap.NewNop()
	}
	return &backupRepository{store: store, key: key, logger: lg, now: time.Now}
}

func (r *backupRepository) indexKey() string {
	return r.key + ".backup.index"
}

func (r *backupRepository) snapshotKey(t time.Time) string {
	return r.key + ".backup." + util.SnapshotStamp(t)
}

// nextKey appends a sequence above every existing one when the second is already taken
// nextKey 同一秒已有快照时追加比现有序号更大的序号
func (r *backupRepository) nextKey(index []*snapshotRecord, t time.Time) string {
	base := r.snapshotKey(t)
	seq := -1
	for _, s := range index {
		if s.Key == base {
			seq = max(seq, 0)
			continue
		}
		if n, ok := strings.CutPrefix(s.Key, base+"-"); ok {
			if i, err := strconv.Atoi(n); err == nil {
				seq = max(seq, i)
			}
		}
	}
	if seq < 0 {
		return base
	}
	return base + "-" + strconv.Itoa(seq+1)
}

func (r *backupRepository) loadIndex(ctx context.Context) ([]*snapshotRecord, error) {
	raw, ok, err := r.store.Get(ctx, r.indexKey())
	if err != nil {
		return nil, errors.Wrap(err, "load backup index")
	}
	if !ok || raw == "" {
		return []*snapshotRecord{}, nil
	}
	var index []*snapshotRecord
	if err := sonic.UnmarshalString(raw, &index); err != nil {
		return nil, errors.Wrap(err, "decode backup index")
	}
	sort.SliceStable(index, func(i, j int) bool {
		return index[i].CreatedAt.Before(index[j].CreatedAt)
	})
	return index, nil
}

func (r *backupRepository) saveIndex(ctx context.Context, index []*snapshotRecord) error {
	raw, err := sonic.MarshalString(index)
	if err != nil {
		return errors.Wrap(err, "encode backup index")
	}
	if err := r.store.Set(ctx, r.indexKey(), raw); err != nil {
		return errors.Wrap(err, "save backup index")
	}
	return nil
}

func (r *backupRepository) Create(ctx context.Context) (*domain.Snapshot, bool, error) {
	raw, ok, err := r.store.Get(ctx, r.key)
	if err != nil {
		return nil, false, errors.Wrap(err, "read equations for backup")
	}
	if !ok {
		return nil, false, nil
	}

	index, err := r.loadIndex(ctx)
	if err != nil {
		return nil, false, err
	}

	now := r.now()
	key := r.nextKey(index, now)

	if err := r.store.Set(ctx, key, raw); err != nil {
		return nil, false, errors.Wrap(err, "write snapshot")
	}
	index = append(index, &snapshotRecord{Key: key, CreatedAt: now})
	if err := r.saveIndex(ctx, index); err != nil {
		return nil, false, err
	}

	return &domain.Snapshot{Key: key, CreatedAt: now}, true, nil
}

func (r *backupRepository) List(ctx context.Context) ([]*domain.Snapshot, error) {
	index, err := r.loadIndex(ctx)
	if err != nil {
		return nil, err
	}
	list := make([]*domain.Snapshot, 0, len(index))
	for _, s := range index {
		list = append(list, &domain.Snapshot{Key: s.Key, CreatedAt: s.CreatedAt})
	}
	return list, nil
}

func (r *backupRepository) Delete(ctx context.Context, key string) error {
	index, err := r.loadIndex(ctx)
	if err != nil {
		return err
	}
	kept := make([]*snapshotRecord, 0, len(index))
	for _, s := range index {
		if s.Key != key {
			kept = append(kept, s)
		}
	}
	// 只删除索引中登记过的快照
	if len(kept) == len(index) {
		return nil
	}
	if err := r.store.Remove(ctx, key); err != nil {
		return errors.Wrap(err, "remove snapshot")
	}
	return r.saveIndex(ctx, kept)
}
