package domain

import "time"

// Snapshot 公式文档的一次备份
type Snapshot struct {
	Key       string
	CreatedAt time.Time
}
