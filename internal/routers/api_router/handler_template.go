package api_router

import (
	"github.com/gin-gonic/gin"
	"github.com/haierkeys/fast-latex-notes/internal/app"
	"github.com/haierkeys/fast-latex-notes/internal/dto"
	pkgapp "github.com/haierkeys/fast-latex-notes/pkg/app"
	"github.com/haierkeys/fast-latex-notes/pkg/code"
	apperrors "github.com/haierkeys/fast-latex-notes/pkg/errors"
	"go.uber.org/zap"
)

// TemplateHandler 模板目录与图片地址 API 路由处理器
type TemplateHandler struct {
	*Handler
}

// NewTemplateHandler 创建 TemplateHandler 实例
func NewTemplateHandler(a *app.App) *TemplateHandler {
	return &TemplateHandler{
		Handler: NewHandler(a),
	}
}

// Categories 模板分类名称
// @Summary 获取模板分类
// @Tags 模板
// @Produce json
// @Success 200 {object} pkgapp.Res{data=[]string} "成功"
// @Router /api/template/categories [get]
func (h *TemplateHandler) Categories(c *gin.Context) {
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(h.App.TemplateService.Categories()))
}

// List 获取模板
// @Summary 获取模板
// @Tags 模板
// @Produce json
// @Param category query string false "分类名，为空或 all 表示全部"
// @Success 200 {object} pkgapp.Res{data=[]dto.TemplateCategoryDTO} "成功"
// @Router /api/templates [get]
func (h *TemplateHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.TemplateListRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("TemplateHandler.List.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	categories, err := h.App.TemplateService.Templates(params.Category)
	if err != nil {
		h.logError(c.Request.Context(), "TemplateHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(categories))
}

// RenderURL 构建公式图片地址
// @Summary 构建公式图片地址
// @Tags 模板
// @Produce json
// @Param params query dto.RenderURLRequest true "LaTeX 与主题"
// @Success 200 {object} pkgapp.Res{data=dto.RenderURLDTO} "成功"
// @Router /api/render/url [get]
func (h *TemplateHandler) RenderURL(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.RenderURLRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("TemplateHandler.RenderURL.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	response.ToResponse(code.Success.WithData(h.App.RenderService.DisplayURL(params.Latex, params.Dark)))
}
