package dao

import (
	"context"
	"time"

	"github.com/haierkeys/fast-latex-notes/internal/model"
	"github.com/haierkeys/fast-latex-notes/pkg/storage"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// kvRepository 基于 key_value 表实现 storage.Storager
type kvRepository struct {
	dao *Dao
}

// NewKVRepository 创建数据库键值存储
func NewKVRepository(dao *Dao) storage.Storager {
	return &kvRepository{dao: dao}
}

// errEmptyKey 结构体条件会忽略空值，空键必须拒绝
var errEmptyKey = errors.New("kv key is empty")

func (r *kvRepository) db(ctx context.Context) *gorm.DB {
	return r.dao.Db.WithContext(ctx)
}

func (r *kvRepository) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, errEmptyKey
	}
	var m model.KeyValue
	err := r.db(ctx).Where(&model.KeyValue{Key: key}).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "kv get %s", key)
	}
	return m.Value, true, nil
}

func (r *kvRepository) Set(ctx context.Context, key string, value string) error {
	if key == "" {
		return errEmptyKey
	}
	now := time.Now()
	m := &model.KeyValue{
		Key:       key,
		Value:     value,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := r.db(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return errors.Wrapf(err, "kv set %s", key)
	}
	return nil
}

func (r *kvRepository) Remove(ctx context.Context, key string) error {
	if key == "" {
		return errEmptyKey
	}
	err := r.db(ctx).Where(&model.KeyValue{Key: key}).Delete(&model.KeyValue{}).Error
	if err != nil {
		return errors.Wrapf(err, "kv remove %s", key)
	}
	return nil
}
