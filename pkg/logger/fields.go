package logger

// 统一的日志字段命名常量
// Shared log field names so queries over the log stay consistent
const (
	// FieldTraceID 追踪 ID 字段
	FieldTraceID = "traceId"

	// FieldAction 操作类型字段
	FieldAction = "action"

	// FieldMethod 方法名称字段
	FieldMethod = "method"

	// FieldDuration 耗时字段
	FieldDuration = "duration"

	// FieldError 错误信息字段
	FieldError = "error"

	// FieldKey 存储键字段
	FieldKey = "key"

	// FieldStorageType 存储类型字段
	FieldStorageType = "storageType"

	// FieldEquationID 公式 ID 字段
	FieldEquationID = "equationId"

	// FieldCount 数量字段
	FieldCount = "count"

	// FieldCategory 模板分类字段
	FieldCategory = "category"

	// FieldSource 数据源字段
	FieldSource = "source"
)
