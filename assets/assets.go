// Package assets 内嵌的静态数据
package assets

import "embed"

// FormulaData template category sources, one JSON object per file
// FormulaData 模板分类数据源，每个文件一个 JSON 对象
//
//go:embed formula_data/*.json
var FormulaData embed.FS

// FormulaDataDir 数据源在 FormulaData 中的目录
const FormulaDataDir = "formula_data"
