package api_router

import (
	"github.com/gin-gonic/gin"
	"github.com/haierkeys/fast-latex-notes/internal/app"
	pkgapp "github.com/haierkeys/fast-latex-notes/pkg/app"
	"github.com/haierkeys/fast-latex-notes/pkg/code"
	apperrors "github.com/haierkeys/fast-latex-notes/pkg/errors"
)

// BackupHandler 公式文档快照 API 路由处理器
type BackupHandler struct {
	*Handler
}

// NewBackupHandler 创建 BackupHandler 实例
func NewBackupHandler(a *app.App) *BackupHandler {
	return &BackupHandler{Handler: NewHandler(a)}
}

// List 快照列表
// @Summary 获取快照列表
// @Tags 备份
// @Produce json
// @Success 200 {object} pkgapp.Res{data=[]dto.BackupSnapshotDTO} "成功"
// @Router /api/backups [get]
func (h *BackupHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	ctx := c.Request.Context()

	list, err := h.App.BackupService.List(ctx)
	if err != nil {
		h.logError(ctx, "BackupHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	response.ToResponse(code.Success.WithData(list))
}

// Snapshot 立即创建快照，公式文档从未写入时返回空数据
// @Summary 创建快照
// @Tags 备份
// @Produce json
// @Success 200 {object} pkgapp.Res{data=dto.BackupSnapshotDTO} "成功"
// @Router /api/backup [post]
func (h *BackupHandler) Snapshot(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	ctx := c.Request.Context()

	snap, ok, err := h.App.BackupService.Snapshot(ctx)
	if err != nil {
		h.logError(ctx, "BackupHandler.Snapshot", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	if !ok {
		response.ToResponse(code.Success)
		return
	}
	response.ToResponse(code.SuccessCreate.WithData(snap))
}
