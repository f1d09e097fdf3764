package domain

// Template 单个公式模板
type Template struct {
	Name  string
	Latex string
}

// TemplateCategory 模板分类，Templates 保持数据源中的顺序
type TemplateCategory struct {
	Name      string
	Templates []Template
}

// AllCategories filter value selecting every category
// AllCategories 选择全部分类的筛选值
const AllCategories = "all"
