package task

import (
	"context"
	"sync"
	"time"

	"github.com/haierkeys/fast-latex-notes/internal/app"
	"github.com/haierkeys/fast-latex-notes/internal/service"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// cronParser 五段式表达式：分 时 日 月 周
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// BackupTask snapshots the equation document on a cron schedule
// BackupTask 按 cron 计划为公式文档创建快照
type BackupTask struct {
	backup   service.BackupService
	schedule cron.Schedule
	logger   *zap.Logger
	now      func() time.Time

	mu          sync.Mutex
	nextRunTime time.Time
}

// Name returns the task name
func (t *BackupTask) Name() string {
	return "BackupScheduled"
}

// LoopInterval 每分钟检查一次是否到达计划时间
func (t *BackupTask) LoopInterval() time.Duration {
	return 1 * time.Minute
}

// IsStartupRun 启动时只计算下次运行时间，不立即快照
func (t *BackupTask) IsStartupRun() bool {
	return false
}

// NextRunTime 下次计划运行时间
func (t *BackupTask) NextRunTime() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.nextRunTime
}

// Run takes a snapshot when the scheduled time has passed
// Run 到达计划时间后创建快照
func (t *BackupTask) Run(ctx context.Context) error {
	now := t.now()

	t.mu.Lock()
	due := !t.nextRunTime.After(now)
	if due {
		t.nextRunTime = t.schedule.Next(now)
	}
	next := t.nextRunTime
	t.mu.Unlock()

	if !due {
		return nil
	}

	snap, ok, err := t.backup.Snapshot(ctx)
	if err != nil {
		return err
	}
	if !ok {
		t.logger.Info("backup skipped, equation document not written yet", zap.Time("nextRunTime", next))
		return nil
	}
	t.logger.Info("backup snapshot created", zap.String("key", snap.Key), zap.Time("nextRunTime", next))
	return nil
}

// NewBackupTask 解析 cron 表达式，计算首次运行时间
func NewBackupTask(backup service.BackupService, spec string, lg *zap.Logger) (*BackupTask, error) {
	schedule, err := cronParser.Parse(spec)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid backup cron %q", spec)
	}
	if lg == nil {
		lg = zap.NewNop()
	}
	t := &BackupTask{
		backup:   backup,
		schedule: schedule,
		logger:   lg,
		now:      time.Now,
	}
	t.nextRunTime = schedule.Next(t.now())
	return t, nil
}

// init registers the backup task
func init() {
	RegisterWithApp(func(appContainer *app.App) (Task, error) {
		cfg := appContainer.Config()
		if !cfg.Backup.Enabled {
			appContainer.Logger().Info("backup task is disabled")
			return nil, nil
		}
		return NewBackupTask(appContainer.BackupService, cfg.GetBackupCron(), appContainer.Logger())
	})
}
