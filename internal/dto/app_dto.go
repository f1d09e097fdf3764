package dto

import "time"

// VersionDTO 版本信息
type VersionDTO struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GitTag    string `json:"gitTag"`
	BuildTime string `json:"buildTime"`
}

// BackupSnapshotDTO 备份快照
type BackupSnapshotDTO struct {
	Key       string    `json:"key"`
	CreatedAt time.Time `json:"createdAt"`
}
