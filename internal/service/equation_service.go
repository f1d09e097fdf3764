package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/haierkeys/fast-latex-notes/internal/domain"
	"github.com/haierkeys/fast-latex-notes/internal/dto"
	"github.com/haierkeys/fast-latex-notes/pkg/code"
	"github.com/haierkeys/fast-latex-notes/pkg/convert"
	"github.com/haierkeys/fast-latex-notes/pkg/logger"
	"github.com/haierkeys/fast-latex-notes/pkg/writequeue"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Equation list filters besides group names
// 除分组名外的公式筛选值
const (
	FilterAll      = "all"
	FilterFavorite = "favorite"
)

// EquationService 定义公式业务服务接口
type EquationService interface {
	// FetchAll loads the collection, a never-written store is seeded with the demo collection
	// FetchAll 读取全部公式，存储从未写入时写入示例公式
	FetchAll(ctx context.Context) ([]*dto.EquationDTO, error)

	// Get 获取单个公式
	Get(ctx context.Context, id string) (*dto.EquationDTO, error)

	// Create 创建公式
	Create(ctx context.Context, params *dto.EquationCreateRequest) (*dto.EquationDTO, error)

	// Duplicate 复制公式，新公式取消收藏
	Duplicate(ctx context.Context, id string) (*dto.EquationDTO, error)

	// Edit replaces title, latex and tags, keeping id and favorite
	// Edit 替换标题、LaTeX 和标签，保留 id 与收藏状态
	Edit(ctx context.Context, params *dto.EquationEditRequest) (*dto.EquationDTO, error)

	// Favorite 切换收藏状态
	Favorite(ctx context.Context, id string) (*dto.EquationDTO, error)

	// Delete of a missing id succeeds without writing
	// Delete 删除公式，id 不存在时直接成功
	Delete(ctx context.Context, id string) error

	// DeleteAll removes the storage key
	// DeleteAll 删除存储键
	DeleteAll(ctx context.Context) error

	// List 按 all、favorite 或分组名筛选
	List(ctx context.Context, filter string) ([]*dto.EquationDTO, error)

	// Sections 按筛选条件返回分组视图
	Sections(ctx context.Context, filter string) ([]*dto.EquationGroupDTO, error)

	// ColorTags 颜色标签选项
	ColorTags() []*dto.ColorTagDTO
}

// equationService 实现 EquationService 接口
type equationService struct {
	repo   domain.EquationRepository
	wq     *writequeue.Manager
	sf     *singleflight.Group
	config *ServiceConfig
	logger *zap.Logger
	newID  func() string
}

// NewEquationService 创建 EquationService 实例
func NewEquationService(repo domain.EquationRepository, wq *writequeue.Manager, config *ServiceConfig, lg *zap.Logger) EquationService {
	if lg == nil {
		lg = zap.NewNop()
	}
	if config == nil {
		config = &ServiceConfig{}
	}
	return &equationService{
		repo:   repo,
		wq:     wq,
		sf:     &singleflight.Group{},
		config: config,
		logger: lg,
		newID:  uuid.NewString,
	}
}

// domainToDTO 将领域模型转换为 DTO
func (s *equationService) domainToDTO(e *domain.Equation) *dto.EquationDTO {
	if e == nil {
		return nil
	}
	tags := make([]string, 0, len(e.Tags))
	for _, t := range e.Tags {
		tags = append(tags, string(t))
	}
	return &dto.EquationDTO{
		ID:       e.ID,
		Title:    e.Title,
		Latex:    e.Latex,
		Tags:     tags,
		Favorite: e.Favorite,
	}
}

func (s *equationService) listToDTO(list []*domain.Equation) []*dto.EquationDTO {
	out := make([]*dto.EquationDTO, 0, len(list))
	for _, e := range list {
		out = append(out, s.domainToDTO(e))
	}
	return out
}

// parseTags normalizes names or values to tags, dropping repeats
// parseTags 将名称或值规范为标签并去重
func parseTags(raw []string) ([]domain.ColorTag, error) {
	tags := make([]domain.ColorTag, 0, len(raw))
	seen := make(map[domain.ColorTag]bool, len(raw))
	for _, r := range raw {
		t, ok := domain.ParseColorTag(r)
		if !ok {
			return nil, code.ErrorInvalidColorTag.WithDetails(r)
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	return tags, nil
}

func indexOf(list []*domain.Equation, id string) int {
	for i, e := range list {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// mintID returns an id not used in list
// mintID 生成 list 中未使用的 id
func (s *equationService) mintID(list []*domain.Equation) string {
	for {
		id := s.newID()
		if id != "" && indexOf(list, id) < 0 {
			return id
		}
	}
}

// mutate runs one read-modify-write cycle on the write queue of the document key
// mutate 在文档键的写队列上执行一次 读-改-写
func (s *equationService) mutate(ctx context.Context, method string, fn func(list []*domain.Equation) ([]*domain.Equation, bool, error)) error {
	err := s.wq.Execute(ctx, s.repo.Key(), func() error {
		list, _, err := s.repo.Load(ctx)
		if err != nil {
			return err
		}
		next, changed, err := fn(list)
		if err != nil || !changed {
			return err
		}
		return s.repo.Save(ctx, next)
	})
	if err != nil {
		err = storageError(err)
		if !errors.Is(err, code.ErrorEquationNotFound) {
			s.logger.Error("equation mutation failed",
				zap.String(logger.FieldMethod, method),
				zap.String(logger.FieldKey, s.repo.Key()),
				zap.Error(err),
			)
		}
	}
	return err
}

func (s *equationService) FetchAll(ctx context.Context) ([]*dto.EquationDTO, error) {
	list, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.listToDTO(list), nil
}

// loadAll concurrent callers share one load, the result must not be modified.
// The shared load ignores any single caller's cancellation, each caller stops waiting on its own ctx.
// loadAll 并发调用共享一次读取，返回值不可修改。
// 共享读取不受单个调用方取消影响，每个调用方按自己的 ctx 停止等待。
func (s *equationService) loadAll(ctx context.Context) ([]*domain.Equation, error) {
	shared := context.WithoutCancel(ctx)
	ch := s.sf.DoChan(s.repo.Key(), func() (interface{}, error) {
		list, found, err := s.repo.Load(shared)
		if err != nil {
			return nil, err
		}
		if found {
			return list, nil
		}
		return s.seed(shared)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, storageError(res.Err)
		}
		return res.Val.([]*domain.Equation), nil
	}
}

// seed writes the demo collection unless another writer got there first
// seed 写入示例公式，已有其他写入时不覆盖
func (s *equationService) seed(ctx context.Context) ([]*domain.Equation, error) {
	var result []*domain.Equation
	err := s.wq.Execute(ctx, s.repo.Key(), func() error {
		list, found, err := s.repo.Load(ctx)
		if err != nil {
			return err
		}
		if found {
			result = list
			return nil
		}
		demo := domain.DemoEquations()
		if err := s.repo.Save(ctx, demo); err != nil {
			return err
		}
		s.logger.Warn("equation store was empty, demo collection written",
			zap.String(logger.FieldKey, s.repo.Key()),
			zap.Int(logger.FieldCount, len(demo)),
		)
		if s.config.Equation.ReturnDemoOnFirstFetch {
			result = demo
		} else {
			result = []*domain.Equation{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *equationService) Get(ctx context.Context, id string) (*dto.EquationDTO, error) {
	list, _, err := s.repo.Load(ctx)
	if err != nil {
		return nil, storageError(err)
	}
	i := indexOf(list, id)
	if i < 0 {
		return nil, code.ErrorEquationNotFound.WithDetails(id)
	}
	return s.domainToDTO(list[i]), nil
}

func (s *equationService) Create(ctx context.Context, params *dto.EquationCreateRequest) (*dto.EquationDTO, error) {
	tags, err := parseTags(params.Tags)
	if err != nil {
		return nil, err
	}

	var created *domain.Equation
	err = s.mutate(ctx, "EquationService.Create", func(list []*domain.Equation) ([]*domain.Equation, bool, error) {
		created = &domain.Equation{
			ID:       s.mintID(list),
			Title:    params.Title,
			Latex:    params.Latex,
			Tags:     tags,
			Favorite: false,
		}
		return append(list, created), true, nil
	})
	if err != nil {
		return nil, err
	}
	return s.domainToDTO(created), nil
}

func (s *equationService) Duplicate(ctx context.Context, id string) (*dto.EquationDTO, error) {
	suffix := s.config.Equation.DuplicateSuffix
	if suffix == "" {
		suffix = DefaultDuplicateSuffix
	}

	var dup *domain.Equation
	err := s.mutate(ctx, "EquationService.Duplicate", func(list []*domain.Equation) ([]*domain.Equation, bool, error) {
		i := indexOf(list, id)
		if i < 0 {
			return nil, false, code.ErrorEquationNotFound.WithDetails(id)
		}
		dup = &domain.Equation{}
		if err := convert.StructAssignDeep(list[i], dup); err != nil {
			return nil, false, err
		}
		dup.ID = s.mintID(list)
		dup.Title += suffix
		dup.Favorite = false
		return append(list, dup), true, nil
	})
	if err != nil {
		return nil, err
	}
	return s.domainToDTO(dup), nil
}

func (s *equationService) Edit(ctx context.Context, params *dto.EquationEditRequest) (*dto.EquationDTO, error) {
	tags, err := parseTags(params.Tags)
	if err != nil {
		return nil, err
	}

	var edited *domain.Equation
	err = s.mutate(ctx, "EquationService.Edit", func(list []*domain.Equation) ([]*domain.Equation, bool, error) {
		i := indexOf(list, params.ID)
		if i < 0 {
			return nil, false, code.ErrorEquationNotFound.WithDetails(params.ID)
		}
		list[i].Title = params.Title
		list[i].Latex = params.Latex
		list[i].Tags = tags
		edited = list[i]
		return list, true, nil
	})
	if err != nil {
		return nil, err
	}
	return s.domainToDTO(edited), nil
}

func (s *equationService) Favorite(ctx context.Context, id string) (*dto.EquationDTO, error) {
	var toggled *domain.Equation
	err := s.mutate(ctx, "EquationService.Favorite", func(list []*domain.Equation) ([]*domain.Equation, bool, error) {
		i := indexOf(list, id)
		if i < 0 {
			return nil, false, code.ErrorEquationNotFound.WithDetails(id)
		}
		list[i].Favorite = !list[i].Favorite
		toggled = list[i]
		return list, true, nil
	})
	if err != nil {
		return nil, err
	}
	return s.domainToDTO(toggled), nil
}

func (s *equationService) Delete(ctx context.Context, id string) error {
	return s.mutate(ctx, "EquationService.Delete", func(list []*domain.Equation) ([]*domain.Equation, bool, error) {
		i := indexOf(list, id)
		if i < 0 {
			return list, false, nil
		}
		return append(list[:i], list[i+1:]...), true, nil
	})
}

func (s *equationService) DeleteAll(ctx context.Context) error {
	err := s.wq.Execute(ctx, s.repo.Key(), func() error {
		return s.repo.Clear(ctx)
	})
	if err != nil {
		s.logger.Error("equation delete all failed",
			zap.String(logger.FieldMethod, "EquationService.DeleteAll"),
			zap.String(logger.FieldKey, s.repo.Key()),
			zap.Error(err),
		)
		return storageError(err)
	}
	return nil
}

// filterKind 解析后的筛选条件
type filterKind int

const (
	filterAll filterKind = iota
	filterFavorite
	filterGroup
)

// resolveFilter accepts all, favorite, Other or a color tag name/value
// resolveFilter 接受 all、favorite、Other 或颜色标签名称/值
func resolveFilter(filter string) (filterKind, string, error) {
	f := strings.TrimSpace(filter)
	switch {
	case f == "" || strings.EqualFold(f, FilterAll):
		return filterAll, "", nil
	case strings.EqualFold(f, FilterFavorite):
		return filterFavorite, domain.FavoriteGroup, nil
	case strings.EqualFold(f, domain.OtherGroup):
		return filterGroup, domain.OtherGroup, nil
	}
	if t, ok := domain.ParseColorTag(f); ok {
		name, _ := t.Name()
		return filterGroup, name, nil
	}
	return 0, "", code.ErrorInvalidParams.WithDetails("unknown filter: " + filter)
}

func favorites(list []*domain.Equation) []*domain.Equation {
	out := make([]*domain.Equation, 0, len(list))
	for _, e := range list {
		if e.Favorite {
			out = append(out, e)
		}
	}
	return out
}

func (s *equationService) List(ctx context.Context, filter string) ([]*dto.EquationDTO, error) {
	kind, name, err := resolveFilter(filter)
	if err != nil {
		return nil, err
	}
	list, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	switch kind {
	case filterFavorite:
		list = favorites(list)
	case filterGroup:
		list, _ = GroupByTag(list).Get(name)
	}
	return s.listToDTO(list), nil
}

func (s *equationService) Sections(ctx context.Context, filter string) ([]*dto.EquationGroupDTO, error) {
	kind, name, err := resolveFilter(filter)
	if err != nil {
		return nil, err
	}
	list, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	switch kind {
	case filterFavorite:
		return []*dto.EquationGroupDTO{{Name: name, Equations: s.listToDTO(favorites(list))}}, nil
	case filterGroup:
		members, _ := GroupByTag(list).Get(name)
		return []*dto.EquationGroupDTO{{Name: name, Equations: s.listToDTO(members)}}, nil
	}

	groups := GroupByTag(list)
	sections := make([]*dto.EquationGroupDTO, 0, groups.Len())
	for _, n := range groups.Names() {
		members, _ := groups.Get(n)
		sections = append(sections, &dto.EquationGroupDTO{Name: n, Equations: s.listToDTO(members)})
	}
	return sections, nil
}

func (s *equationService) ColorTags() []*dto.ColorTagDTO {
	opts := domain.ColorTagOptions()
	out := make([]*dto.ColorTagDTO, 0, len(opts))
	for _, o := range opts {
		out = append(out, &dto.ColorTagDTO{Name: o.Name, Value: string(o.Value)})
	}
	return out
}
