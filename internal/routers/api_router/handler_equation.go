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

// EquationHandler 公式 API 路由处理器
// 使用 App Container 注入依赖，支持统一错误处理
type EquationHandler struct {
	*Handler
}

// NewEquationHandler 创建 EquationHandler 实例
func NewEquationHandler(a *app.App) *EquationHandler {
	return &EquationHandler{
		Handler: NewHandler(a),
	}
}

// success 变更操作的成功响应，关闭 is-return-sussess 时只返回数据
func (h *EquationHandler) success(c *code.Code) *code.Code {
	if h.App.IsReturnSuccess() {
		return c
	}
	return code.Success
}

// List 获取公式列表
// @Summary 获取公式列表
// @Description filter 取值 all、favorite 或分组名（Blue、Other 等），支持分页
// @Tags 公式
// @Produce json
// @Param params query dto.EquationListRequest true "筛选参数"
// @Success 200 {object} pkgapp.Res{data=pkgapp.ListRes{list=[]dto.EquationDTO}} "成功"
// @Router /api/equations [get]
func (h *EquationHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.EquationListRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("EquationHandler.List.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()
	list, err := h.App.EquationService.List(ctx, params.Filter)
	if err != nil {
		h.logError(ctx, "EquationHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponseList(code.Success, pkgapp.Paginate(c, list), len(list))
}

// Grouped 获取按颜色标签分组的公式
// @Summary 获取分组公式
// @Tags 公式
// @Produce json
// @Param filter query string false "all、favorite 或分组名"
// @Success 200 {object} pkgapp.Res{data=[]dto.EquationGroupDTO} "成功"
// @Router /api/equations/grouped [get]
func (h *EquationHandler) Grouped(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.EquationListRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("EquationHandler.Grouped.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()
	sections, err := h.App.EquationService.Sections(ctx, params.Filter)
	if err != nil {
		h.logError(ctx, "EquationHandler.Grouped", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(sections))
}

// Get 获取单个公式
// @Summary 获取公式详情
// @Tags 公式
// @Produce json
// @Param id query string true "公式 ID"
// @Success 200 {object} pkgapp.Res{data=dto.EquationDTO} "成功"
// @Router /api/equation [get]
func (h *EquationHandler) Get(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.EquationIDRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("EquationHandler.Get.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()
	equation, err := h.App.EquationService.Get(ctx, params.ID)
	if err != nil {
		h.logError(ctx, "EquationHandler.Get", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(equation))
}

// Create 创建公式
// @Summary 创建公式
// @Description tags 至少一个，接受名称（Blue）或值（raycast-blue）
// @Tags 公式
// @Accept json
// @Produce json
// @Param params body dto.EquationCreateRequest true "公式内容"
// @Success 200 {object} pkgapp.Res{data=dto.EquationDTO} "成功"
// @Router /api/equation [post]
func (h *EquationHandler) Create(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.EquationCreateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("EquationHandler.Create.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()
	equation, err := h.App.EquationService.Create(ctx, params)
	if err != nil {
		h.logError(ctx, "EquationHandler.Create", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(h.success(code.SuccessCreate).WithData(equation))
}

// Edit 编辑公式
// @Summary 编辑公式
// @Description 替换标题、LaTeX 与标签，保留 id 和收藏状态
// @Tags 公式
// @Accept json
// @Produce json
// @Param params body dto.EquationEditRequest true "公式内容"
// @Success 200 {object} pkgapp.Res{data=dto.EquationDTO} "成功"
// @Router /api/equation [put]
func (h *EquationHandler) Edit(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.EquationEditRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("EquationHandler.Edit.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()
	equation, err := h.App.EquationService.Edit(ctx, params)
	if err != nil {
		h.logError(ctx, "EquationHandler.Edit", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(h.success(code.SuccessUpdate).WithData(equation))
}

// Duplicate 复制公式
// @Summary 复制公式
// @Tags 公式
// @Accept json
// @Produce json
// @Param params body dto.EquationIDRequest true "公式 ID"
// @Success 200 {object} pkgapp.Res{data=dto.EquationDTO} "成功"
// @Router /api/equation/duplicate [post]
func (h *EquationHandler) Duplicate(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.EquationIDRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("EquationHandler.Duplicate.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()
	equation, err := h.App.EquationService.Duplicate(ctx, params.ID)
	if err != nil {
		h.logError(ctx, "EquationHandler.Duplicate", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(h.success(code.SuccessDuplicate).WithData(equation))
}

// Favorite 切换收藏状态
// @Summary 切换收藏
// @Tags 公式
// @Accept json
// @Produce json
// @Param params body dto.EquationIDRequest true "公式 ID"
// @Success 200 {object} pkgapp.Res{data=dto.EquationDTO} "成功"
// @Router /api/equation/favorite [post]
func (h *EquationHandler) Favorite(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.EquationIDRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("EquationHandler.Favorite.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()
	equation, err := h.App.EquationService.Favorite(ctx, params.ID)
	if err != nil {
		h.logError(ctx, "EquationHandler.Favorite", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(h.success(code.SuccessFavorite).WithData(equation))
}

// Delete 删除公式，id 不存在时同样返回成功
// @Summary 删除公式
// @Tags 公式
// @Produce json
// @Param id query string true "公式 ID"
// @Success 200 {object} pkgapp.Res "成功"
// @Router /api/equation [delete]
func (h *EquationHandler) Delete(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.EquationIDRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("EquationHandler.Delete.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()
	if err := h.App.EquationService.Delete(ctx, params.ID); err != nil {
		h.logError(ctx, "EquationHandler.Delete", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(h.success(code.SuccessDelete))
}

// DeleteAll 删除全部公式
// @Summary 清空公式
// @Tags 公式
// @Produce json
// @Success 200 {object} pkgapp.Res "成功"
// @Router /api/equations [delete]
func (h *EquationHandler) DeleteAll(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	ctx := c.Request.Context()
	if err := h.App.EquationService.DeleteAll(ctx); err != nil {
		h.logError(ctx, "EquationHandler.DeleteAll", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(h.success(code.SuccessDelete))
}

// ColorTags 颜色标签选项
// @Summary 获取颜色标签
// @Tags 公式
// @Produce json
// @Success 200 {object} pkgapp.Res{data=[]dto.ColorTagDTO} "成功"
// @Router /api/color-tags [get]
func (h *EquationHandler) ColorTags(c *gin.Context) {
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(h.App.EquationService.ColorTags()))
}
