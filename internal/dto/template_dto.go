package dto

// TemplateDTO 模板
type TemplateDTO struct {
	Name  string `json:"name"`
	Latex string `json:"latex"`
}

// TemplateCategoryDTO 模板分类
type TemplateCategoryDTO struct {
	Name      string         `json:"name"`
	Templates []*TemplateDTO `json:"templates"`
}

// TemplateListRequest category 为空或 all 表示全部分类
type TemplateListRequest struct {
	Category string `json:"category" form:"category"`
}

// RenderURLRequest 构建公式图片地址的请求参数
type RenderURLRequest struct {
	Latex string `json:"latex" form:"latex" binding:"required"`
	Dark  *bool  `json:"dark" form:"dark"`
}

// RenderURLDTO 公式图片地址
type RenderURLDTO struct {
	URL   string `json:"url"`
	Latex string `json:"latex"`
	Dark  bool   `json:"dark"`
}
