// Package catalog builds the read-only template catalog from the embedded category sources
// Package catalog 从内嵌分类数据构建只读模板目录
package catalog

import (
	"context"
	"io/fs"
	"path"

	"github.com/haierkeys/fast-latex-notes/internal/domain"
	"github.com/haierkeys/fast-latex-notes/pkg/logger"
	"github.com/haierkeys/fast-latex-notes/pkg/workerpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Sources merge order of the category files, also the display order
// Sources 分类文件的合并顺序，同时是展示顺序
var Sources = []string{
	"fractions",
	"powers_exponents_logarithms",
	"brackets",
	"summation_product",
	"limits",
	"derivatives",
	"integrals",
	"trigonometry",
	"vectors",
	"matrices",
	"sets",
	"logic",
	"complex_numbers",
	"permutations_combinations",
	"accents",
	"display_formats",
	"fonts_sizes",
	"spacing",
	"special_characters",
	"operators",
	"greek_lowercase",
	"greek_uppercase",
}

// ErrCategoryNotFound 分类不存在
var ErrCategoryNotFound = errors.New("template category not found")

// Catalog immutable after New returns
// Catalog 构建完成后不可变
type Catalog struct {
	categories []domain.TemplateCategory
	index      map[string]int
}

// New decodes every source under dir and merges them in Sources order.
// Decoding runs on pool when given; merging is always sequential.
// New 解码 dir 下的全部数据源并按 Sources 顺序合并，pool 不为空时并发解码
func New(ctx context.Context, fsys fs.FS, dir string, pool *workerpool.Pool, lg *zap.Logger) (*Catalog, error) {
	if lg == nil {
		lg = zap.NewNop()
	}

	decoded := make([][]domain.TemplateCategory, len(Sources))
	tasks := make([]func(context.Context) error, 0, len(Sources))
	for i, name := range Sources {
		i, name := i, name
		tasks = append(tasks, func(ctx context.Context) error {
			raw, err := fs.ReadFile(fsys, path.Join(dir, name+".json"))
			if err != nil {
				return errors.Wrapf(err, "read template source %s", name)
			}
			cats, err := Decode(raw)
			if err != nil {
				return errors.Wrapf(err, "decode template source %s", name)
			}
			decoded[i] = cats
			return nil
		})
	}

	if pool != nil {
		if err := pool.Run(ctx, tasks...); err != nil {
			return nil, err
		}
	} else {
		for _, task := range tasks {
			if err := task(ctx); err != nil {
				return nil, err
			}
		}
	}

	c := Merge(decoded...)
	lg.Debug("template catalog loaded",
		zap.Int(logger.FieldCount, len(c.categories)),
		zap.Int("sources", len(Sources)))
	return c, nil
}

// Decode parses one source keeping the key order of the document
// Decode 解析单个数据源，保持文档中的键顺序
func Decode(raw []byte) ([]domain.TemplateCategory, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 {
		return nil, nil
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, errors.New("source must be an object of categories")
	}

	root := doc.Content[0]
	cats := make([]domain.TemplateCategory, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		name, body := root.Content[i], root.Content[i+1]
		if body.Kind != yaml.MappingNode {
			return nil, errors.Errorf("category %q must be an object", name.Value)
		}
		templates := make([]domain.Template, 0, len(body.Content)/2)
		for j := 0; j+1 < len(body.Content); j += 2 {
			k, v := body.Content[j], body.Content[j+1]
			if v.Kind != yaml.ScalarNode {
				return nil, errors.Errorf("template %q in %q must be a string", k.Value, name.Value)
			}
			templates = append(templates, domain.Template{Name: k.Value, Latex: v.Value})
		}
		cats = appendCategory(cats, domain.TemplateCategory{Name: name.Value, Templates: templates})
	}
	return cats, nil
}

// appendCategory object spread: a repeated name replaces the templates but keeps the first position
// appendCategory 对象展开语义：重复的分类替换模板但保留首次出现的位置
func appendCategory(cats []domain.TemplateCategory, c domain.TemplateCategory) []domain.TemplateCategory {
	for i := range cats {
		if cats[i].Name == c.Name {
			cats[i].Templates = c.Templates
			return cats
		}
	}
	return append(cats, c)
}

// Merge combines decoded sources in the given order
// Merge 按给定顺序合并已解码的数据源
func Merge(sources ...[]domain.TemplateCategory) *Catalog {
	var cats []domain.TemplateCategory
	for _, src := range sources {
		for _, c := range src {
			cats = appendCategory(cats, c)
		}
	}
	index := make(map[string]int, len(cats))
	for i, c := range cats {
		index[c.Name] = i
	}
	return &Catalog{categories: cats, index: index}
}

// Categories 按展示顺序返回分类名
func (c *Catalog) Categories() []string {
	names := make([]string, 0, len(c.categories))
	for _, cat := range c.categories {
		names = append(names, cat.Name)
	}
	return names
}

// Category returns a copy of one category
// Category 返回单个分类的副本
func (c *Catalog) Category(name string) (domain.TemplateCategory, bool) {
	i, ok := c.index[name]
	if !ok {
		return domain.TemplateCategory{}, false
	}
	return clone(c.categories[i]), true
}

// Templates filters by category, domain.AllCategories or "" selects every category
// Templates 按分类筛选，domain.AllCategories 或空字符串表示全部
func (c *Catalog) Templates(category string) ([]domain.TemplateCategory, error) {
	if category == "" || category == domain.AllCategories {
		out := make([]domain.TemplateCategory, 0, len(c.categories))
		for _, cat := range c.categories {
			out = append(out, clone(cat))
		}
		return out, nil
	}
	cat, ok := c.Category(category)
	if !ok {
		return nil, ErrCategoryNotFound
	}
	return []domain.TemplateCategory{cat}, nil
}

// Len 分类数量
func (c *Catalog) Len() int {
	return len(c.categories)
}

func clone(c domain.TemplateCategory) domain.TemplateCategory {
	return domain.TemplateCategory{
		Name:      c.Name,
		Templates: append([]domain.Template{}, c.Templates...),
	}
}
