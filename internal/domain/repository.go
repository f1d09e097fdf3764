// Package domain 定义领域模型和接口
package domain

import "context"

// EquationRepository whole-document persistence of the equation collection
// EquationRepository 公式集合的整文档持久化
type EquationRepository interface {
	// Load returns found=false when the document has never been written
	// Load 文档从未写入时返回 found=false
	Load(ctx context.Context) (equations []*Equation, found bool, err error)

	// Save overwrites the whole document
	// Save 覆盖写入整个文档
	Save(ctx context.Context, equations []*Equation) error

	// Clear removes the document key
	// Clear 删除文档键
	Clear(ctx context.Context) error

	// Key 文档所在的存储键
	Key() string
}

// BackupRepository snapshots of the equation document
// BackupRepository 公式文档快照
type BackupRepository interface {
	// Create copies the current document, ok=false when there is nothing to copy
	// Create 复制当前文档，无内容时返回 ok=false
	Create(ctx context.Context) (snapshot *Snapshot, ok bool, err error)

	// List 按创建时间升序返回快照
	List(ctx context.Context) ([]*Snapshot, error)

	// Delete 删除快照
	Delete(ctx context.Context, key string) error
}
