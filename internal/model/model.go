package model

import (
	"gorm.io/gorm"
)

// AutoMigrate migrates every table the service owns
// AutoMigrate 迁移服务使用的全部表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&KeyValue{})
}
