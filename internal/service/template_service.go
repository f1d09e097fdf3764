package service

import (
	"errors"

	"github.com/haierkeys/fast-latex-notes/internal/catalog"
	"github.com/haierkeys/fast-latex-notes/internal/domain"
	"github.com/haierkeys/fast-latex-notes/internal/dto"
	"github.com/haierkeys/fast-latex-notes/pkg/code"
)

// TemplateService 模板目录查询服务
type TemplateService interface {
	// Categories 按展示顺序返回分类名
	Categories() []string

	// Templates category 为空或 all 时返回全部分类
	Templates(category string) ([]*dto.TemplateCategoryDTO, error)
}

type templateService struct {
	catalog *catalog.Catalog
}

// NewTemplateService 创建 TemplateService 实例
func NewTemplateService(c *catalog.Catalog) TemplateService {
	return &templateService{catalog: c}
}

func (s *templateService) Categories() []string {
	return s.catalog.Categories()
}

func (s *templateService) Templates(category string) ([]*dto.TemplateCategoryDTO, error) {
	cats, err := s.catalog.Templates(category)
	if errors.Is(err, catalog.ErrCategoryNotFound) {
		return nil, code.ErrorTemplateCategoryNotFound.WithDetails(category)
	}
	if err != nil {
		return nil, err
	}

	out := make([]*dto.TemplateCategoryDTO, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryToDTO(c))
	}
	return out, nil
}

func categoryToDTO(c domain.TemplateCategory) *dto.TemplateCategoryDTO {
	templates := make([]*dto.TemplateDTO, 0, len(c.Templates))
	for _, t := range c.Templates {
		templates = append(templates, &dto.TemplateDTO{Name: t.Name, Latex: t.Latex})
	}
	return &dto.TemplateCategoryDTO{Name: c.Name, Templates: templates}
}
