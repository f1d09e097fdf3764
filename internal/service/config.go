// Package service implements the business logic layer
// Package service 实现业务逻辑层
package service

// ServiceConfig service layer configuration
// ServiceConfig 服务层配置
type ServiceConfig struct {
	Equation EquationServiceConfig // Equation store config // 公式存储配置
	Render   RenderServiceConfig   // Display URL config // 图片地址配置
	Backup   BackupServiceConfig   // Snapshot config // 快照配置
}

// EquationServiceConfig equation service configuration
// EquationServiceConfig 公式服务配置
type EquationServiceConfig struct {
	ReturnDemoOnFirstFetch bool   // Return the seeded demo on the cold-start fetch // 首次读取时直接返回写入的示例
	DuplicateSuffix        string // Title suffix of duplicated equations // 复制公式的标题后缀
}

// RenderServiceConfig display url configuration
// RenderServiceConfig 图片地址配置
type RenderServiceConfig struct {
	BaseURL string // Rendering endpoint // 渲染服务地址
	Dark    bool   // Default theme // 默认主题
}

// BackupServiceConfig snapshot configuration
// BackupServiceConfig 快照配置
type BackupServiceConfig struct {
	Keep int // Snapshots kept, 0 keeps all // 保留的快照数量，0 表示全部保留
}

// DefaultDuplicateSuffix 复制公式默认标题后缀
const DefaultDuplicateSuffix = " (Copy)"
