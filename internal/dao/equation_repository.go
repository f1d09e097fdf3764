package dao

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/haierkeys/fast-latex-notes/internal/domain"
	"github.com/haierkeys/fast-latex-notes/pkg/logger"
	"github.com/haierkeys/fast-latex-notes/pkg/metrics"
	"github.com/haierkeys/fast-latex-notes/pkg/storage"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DefaultEquationKey 公式文档默认存储键
const DefaultEquationKey = "equations"

// equationRecord persisted shape of one equation
// equationRecord 公式的持久化结构
type equationRecord struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Latex    string   `json:"latex"`
	Tags     []string `json:"tags"`
	Favorite bool     `json:"favorite"`
	// Tag single-tag documents written by older versions
	// Tag 旧版本写入的单标签字段
	Tag *string `json:"tag,omitempty"`
}

// equationRepository 实现 domain.EquationRepository 接口
type equationRepository struct {
	store   storage.Storager
	key     string
	logger  *zap.Logger
	metrics *metrics.Collector
}

// NewEquationRepository 创建 EquationRepository 实例
func NewEquationRepository(store storage.Storager, key string, lg *zap.Logger) domain.EquationRepository {
	if key == "" {
		key = DefaultEquationKey
	}
	if lg == nil {
		lg = zap.NewNop()
	}
	return &equationRepository{store: store, key: key, logger: lg, metrics: metrics.Default()}
}

func (r *equationRepository) Key() string {
	return r.key
}

// toDomain 将持久化记录转换为领域模型
func (r *equationRepository) toDomain(m *equationRecord) *domain.Equation {
	tags := make([]domain.ColorTag, 0, len(m.Tags))
	for _, t := range m.Tags {
		tags = append(tags, domain.ColorTag(t))
	}
	if len(m.Tags) == 0 && m.Tag != nil && *m.Tag != "" {
		tags = append(tags, domain.ColorTag(*m.Tag))
	}
	return &domain.Equation{
		ID:       m.ID,
		Title:    m.Title,
		Latex:    m.Latex,
		Tags:     tags,
		Favorite: m.Favorite,
	}
}

// toRecord 将领域模型转换为持久化记录
func (r *equationRepository) toRecord(e *domain.Equation) *equationRecord {
	tags := make([]string, 0, len(e.Tags))
	for _, t := range e.Tags {
		tags = append(tags, string(t))
	}
	return &equationRecord{
		ID:       e.ID,
		Title:    e.Title,
		Latex:    e.Latex,
		Tags:     tags,
		Favorite: e.Favorite,
	}
}

func (r *equationRepository) Load(ctx context.Context) (list []*domain.Equation, found bool, err error) {
	defer func(start time.Time) { r.metrics.ObserveStore("load", start, err) }(time.Now())

	raw, ok, err := r.store.Get(ctx, r.key)
	if err != nil {
		return nil, false, errors.Wrap(err, "load equations")
	}
	if !ok {
		return nil, false, nil
	}

	var records []*equationRecord
	if raw != "" {
		if err := sonic.UnmarshalString(raw, &records); err != nil {
			r.logger.Error("equation document decode failed",
				zap.String(logger.FieldKey, r.key),
				zap.String(logger.FieldMethod, "equationRepository.Load"),
				zap.Error(err),
			)
			return nil, true, errors.Wrap(err, "decode equations")
		}
	}

	list = make([]*domain.Equation, 0, len(records))
	for _, m := range records {
		if m == nil {
			continue
		}
		list = append(list, r.toDomain(m))
	}
	return list, true, nil
}

func (r *equationRepository) Save(ctx context.Context, equations []*domain.Equation) (err error) {
	defer func(start time.Time) { r.metrics.ObserveStore("save", start, err) }(time.Now())

	records := make([]*equationRecord, 0, len(equations))
	for _, e := range equations {
		records = append(records, r.toRecord(e))
	}
	raw, err := sonic.MarshalString(records)
	if err != nil {
		return errors.Wrap(err, "encode equations")
	}
	if err := r.store.Set(ctx, r.key, raw); err != nil {
		return errors.Wrap(err, "save equations")
	}
	return nil
}

func (r *equationRepository) Clear(ctx context.Context) (err error) {
	defer func(start time.Time) { r.metrics.ObserveStore("clear", start, err) }(time.Now())

	if err := r.store.Remove(ctx, r.key); err != nil {
		return errors.Wrap(err, "clear equations")
	}
	return nil
}
