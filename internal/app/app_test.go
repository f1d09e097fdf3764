package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/haierkeys/fast-latex-notes/internal/dto"
	"github.com/haierkeys/fast-latex-notes/pkg/storage"
	"github.com/haierkeys/fast-latex-notes/pkg/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	c, err := DefaultConfig()
	require.NoError(t, err)

	assert.Equal(t, ":9000", c.Server.HttpPort)
	assert.Equal(t, storage.LOCAL, c.Storage.Type)
	assert.Equal(t, "equations", c.Equation.StorageKey)
	assert.Equal(t, " (Copy)", c.Equation.DuplicateSuffix)
	assert.False(t, c.Equation.ReturnDemoOnFirstFetch)
	assert.Equal(t, "https://latex.codecogs.com/png.image", c.Render.BaseURL)
	assert.Equal(t, 7, c.Backup.Keep)
	assert.Equal(t, "0 0 * * *", c.GetBackupCron())
}

func TestParseConfigKeepsExplicitFalse(t *testing.T) {
	c, err := ParseConfig([]byte("log:\n  production: false\nbackup:\n  enabled: false\n  strategy: weekly\n"))
	require.NoError(t, err)

	assert.False(t, c.Log.Production)
	assert.False(t, c.Backup.Enabled)
	assert.Equal(t, "0 0 * * 0", c.GetBackupCron())
	// 未出现的字段保持默认值
	assert.True(t, c.Tracer.Enabled)
	assert.Equal(t, "equations", c.Equation.StorageKey)
}

func TestParseConfigUnknownStorage(t *testing.T) {
	_, err := ParseConfig([]byte("storage:\n  type: ftp\n"))
	assert.Error(t, err)
}

func TestBackupCronStrategies(t *testing.T) {
	c, err := DefaultConfig()
	require.NoError(t, err)

	c.Backup.Strategy = "monthly"
	assert.Equal(t, "0 0 1 * *", c.GetBackupCron())

	c.Backup.Strategy = "custom"
	c.Backup.Cron = "*/5 * * * *"
	assert.Equal(t, "*/5 * * * *", c.GetBackupCron())
}

func TestQueueConfigFromSettings(t *testing.T) {
	c, err := DefaultConfig()
	require.NoError(t, err)
	c.App.WriteQueueTimeout = "5s"
	c.App.WorkerPoolMaxWorkers = 2

	assert.Equal(t, "5s", c.GetWriteQueueConfig().WriteTimeout.String())
	assert.Equal(t, 2, c.GetWorkerPoolConfig().MaxWorkers)
}

func TestConfigSave(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte("render:\n  dark: false\n"), 0644))

	c, realpath, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, realpath, c.File)

	c.Render.Dark = true
	require.NoError(t, c.Save())

	data, err := os.ReadFile(tmpFile)
	require.NoError(t, err)

	var saved AppConfig
	require.NoError(t, yaml.Unmarshal(data, &saved))
	assert.True(t, saved.Render.Dark)
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	c, err := DefaultConfig()
	require.NoError(t, err)
	c.Storage.Type = storage.Memory

	a, err := NewApp(c, zap.NewNop(), WithStore(memory.NewClient()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })
	return a
}

func TestNewAppWiresServices(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()

	assert.NotZero(t, a.Catalog.Len())
	assert.Len(t, a.TemplateService.Categories(), a.Catalog.Len())

	created, err := a.EquationService.Create(ctx, &dto.EquationCreateRequest{
		Title: "Identity",
		Latex: `e^{i\pi}+1=0`,
		Tags:  []string{"Blue"},
	})
	require.NoError(t, err)

	got, err := a.EquationService.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Identity", got.Title)

	u := a.RenderService.DisplayURL("x", nil)
	assert.Contains(t, u.URL, "https://latex.codecogs.com/png.image?")

	snap, ok, err := a.BackupService.Snapshot(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, snap.Key, "equations.backup.")

	assert.Equal(t, Name, a.VersionDTO().Name)
}

func TestNewAppRequiresConfig(t *testing.T) {
	_, err := NewApp(nil, zap.NewNop())
	assert.Error(t, err)

	c, err := DefaultConfig()
	require.NoError(t, err)
	_, err = NewApp(c, nil)
	assert.Error(t, err)
}

func TestShutdownIdempotent(t *testing.T) {
	a := newTestApp(t)
	done := make(chan struct{})
	a.Go(func() {
		<-a.ShutdownCh()
		close(done)
	})

	require.NoError(t, a.Shutdown(context.Background()))
	<-done
	assert.NoError(t, a.Shutdown(context.Background()))
}
