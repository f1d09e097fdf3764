package service

import (
	"context"

	"github.com/haierkeys/fast-latex-notes/internal/domain"
	"github.com/haierkeys/fast-latex-notes/internal/dto"
	"github.com/haierkeys/fast-latex-notes/pkg/code"
	"github.com/haierkeys/fast-latex-notes/pkg/logger"
	"github.com/haierkeys/fast-latex-notes/pkg/writequeue"
	"go.uber.org/zap"
)

// BackupService 公式文档快照服务
type BackupService interface {
	// Snapshot copies the current document and prunes old snapshots, ok=false when nothing was stored
	// Snapshot 复制当前文档并清理旧快照，无文档时 ok=false
	Snapshot(ctx context.Context) (snapshot *dto.BackupSnapshotDTO, ok bool, err error)

	// List 按创建时间升序返回快照
	List(ctx context.Context) ([]*dto.BackupSnapshotDTO, error)
}

type backupService struct {
	repo        domain.BackupRepository
	equationKey string
	wq          *writequeue.Manager
	config      *ServiceConfig
	logger      *zap.Logger
}

// NewBackupService 创建 BackupService 实例，快照与公式写入共用 equationKey 的写队列
func NewBackupService(repo domain.BackupRepository, equationKey string, wq *writequeue.Manager, config *ServiceConfig, lg *zap.Logger) BackupService {
	if lg == nil {
		lg = zap.NewNop()
	}
	if config == nil {
		config = &ServiceConfig{}
	}
	return &backupService{repo: repo, equationKey: equationKey, wq: wq, config: config, logger: lg}
}

func snapshotToDTO(s *domain.Snapshot) *dto.BackupSnapshotDTO {
	return &dto.BackupSnapshotDTO{Key: s.Key, CreatedAt: s.CreatedAt}
}

func (s *backupService) Snapshot(ctx context.Context) (*dto.BackupSnapshotDTO, bool, error) {
	var (
		snap *domain.Snapshot
		ok   bool
	)
	err := s.wq.Execute(ctx, s.equationKey, func() error {
		var err error
		snap, ok, err = s.repo.Create(ctx)
		if err != nil || !ok {
			return err
		}
		return s.prune(ctx)
	})
	if err != nil {
		s.logger.Error("equation snapshot failed",
			zap.String(logger.FieldMethod, "BackupService.Snapshot"),
			zap.String(logger.FieldKey, s.equationKey),
			zap.Error(err),
		)
		return nil, false, code.ErrorBackupSnapshotFails.WithDetails(err.Error())
	}
	if !ok {
		return nil, false, nil
	}
	return snapshotToDTO(snap), true, nil
}

// prune 删除超出保留数量的旧快照
func (s *backupService) prune(ctx context.Context) error {
	keep := s.config.Backup.Keep
	if keep <= 0 {
		return nil
	}
	list, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	for i := 0; i < len(list)-keep; i++ {
		if err := s.repo.Delete(ctx, list[i].Key); err != nil {
			return err
		}
		s.logger.Debug("equation snapshot pruned", zap.String(logger.FieldKey, list[i].Key))
	}
	return nil
}

func (s *backupService) List(ctx context.Context) ([]*dto.BackupSnapshotDTO, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, storageError(err)
	}
	out := make([]*dto.BackupSnapshotDTO, 0, len(list))
	for _, snap := range list {
		out = append(out, snapshotToDTO(snap))
	}
	return out, nil
}
