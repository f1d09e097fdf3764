package model

import (
	"time"
)

const TableNameKeyValue = "key_value"

// KeyValue one stored document per key
// KeyValue 每个键保存一个文档
type KeyValue struct {
	Key       string    `gorm:"column:key;primaryKey;size:191" json:"key" form:"key"`
	Value     string    `gorm:"column:value" json:"value" form:"value"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt" form:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt" form:"updatedAt"`
}

// TableName KeyValue's table name
func (*KeyValue) TableName() string {
	return TableNameKeyValue
}
