package code

var (
	Success = NewSuss(1, lang{en: "Success", zh_cn: "成功"})

	SuccessCreate    = NewSuss(2, lang{en: "Created successfully", zh_cn: "创建成功"})
	SuccessUpdate    = NewSuss(3, lang{en: "Updated successfully", zh_cn: "更新成功"})
	SuccessDelete    = NewSuss(4, lang{en: "Deleted successfully", zh_cn: "删除成功"})
	SuccessDuplicate = NewSuss(5, lang{en: "Duplicated successfully", zh_cn: "复制成功"})
	SuccessFavorite  = NewSuss(6, lang{en: "Favorite toggled", zh_cn: "收藏状态已切换"})

	ErrorServerInternal  = NewError(500, lang{en: "Internal Server Error", zh_cn: "服务器内部错误"})
	ErrorNotFoundAPI     = NewError(404, lang{en: "API not found", zh_cn: "接口不存在"})
	ErrorInvalidParams   = NewError(400, lang{en: "Invalid params", zh_cn: "参数错误"})
	ErrorTooManyRequests = NewError(429, lang{en: "Too many requests", zh_cn: "请求过多"})

	// Equation store
	// 公式存储
	ErrorEquationNotFound = NewError(505001, lang{en: "Equation not found", zh_cn: "公式不存在"})
	ErrorStorageFailed    = NewError(505002, lang{en: "Equation storage failed", zh_cn: "公式存储读写失败"})
	ErrorInvalidColorTag  = NewError(505003, lang{en: "Unknown color tag", zh_cn: "未知的颜色标签"})

	// Template catalog
	// 模板目录
	ErrorTemplateCategoryNotFound = NewError(506001, lang{en: "Template category not found", zh_cn: "模板分类不存在"})
	ErrorTemplateLoadFailed       = NewError(506002, lang{en: "Template catalog load failed", zh_cn: "模板目录加载失败"})

	// Storage backends
	// 存储后端
	ErrorInvalidStorageType  = NewError(507001, lang{en: "Invalid storage type", zh_cn: "无效的存储类型"})
	ErrorStorageUnavailable  = NewError(507003, lang{en: "Storage temporarily unavailable", zh_cn: "存储暂不可用"})
	ErrorBackupSnapshotFails = NewError(507004, lang{en: "Backup snapshot failed", zh_cn: "备份快照失败"})
)

var (
	ErrorInvalidAuthToken = NewError(401, lang{en: "Invalid auth token", zh_cn: "鉴权令牌无效"})
)
