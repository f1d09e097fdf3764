// Package dto Defines data transfer objects (request parameters and response structs)
// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

import (
	"github.com/go-playground/validator/v10"
	"github.com/haierkeys/fast-latex-notes/internal/domain"
)

// ColorTagRuleName binding rule accepting a color tag name or value
// ColorTagRuleName 接受颜色标签名称或值的校验规则
const ColorTagRuleName = "colortag"

// ColorTagRule validator.Func for ColorTagRuleName
func ColorTagRule(fl validator.FieldLevel) bool {
	_, ok := domain.ParseColorTag(fl.Field().String())
	return ok
}

// EquationDTO Equation data transfer object
// EquationDTO 公式数据传输对象
type EquationDTO struct {
	ID       string   `json:"id" form:"id"`
	Title    string   `json:"title" form:"title"`
	Latex    string   `json:"latex" form:"latex"`
	Tags     []string `json:"tags" form:"tags"`
	Favorite bool     `json:"favorite" form:"favorite"`
}

// EquationCreateRequest Request parameters for creating an equation
// 创建公式的请求参数
type EquationCreateRequest struct {
	Title string   `json:"title" form:"title" binding:"required"`
	Latex string   `json:"latex" form:"latex"`
	Tags  []string `json:"tags" form:"tags" binding:"required,min=1,dive,colortag"`
}

// EquationEditRequest Request parameters for editing an equation, id and favorite are kept
// 编辑公式的请求参数，保留 id 和收藏状态
type EquationEditRequest struct {
	ID    string   `json:"id" form:"id" binding:"required"`
	Title string   `json:"title" form:"title" binding:"required"`
	Latex string   `json:"latex" form:"latex"`
	Tags  []string `json:"tags" form:"tags" binding:"required,min=1,dive,colortag"`
}

// EquationIDRequest 按 id 操作单个公式
type EquationIDRequest struct {
	ID string `json:"id" form:"id" binding:"required"`
}

// EquationListRequest filter is all, favorite or a group name
// EquationListRequest filter 取值 all、favorite 或分组名
type EquationListRequest struct {
	Filter   string `json:"filter" form:"filter"`
	Page     int    `json:"page" form:"page"`
	PageSize int    `json:"pageSize" form:"pageSize"`
}

// EquationGroupDTO one section of the grouped listing
// EquationGroupDTO 分组列表中的一个分组
type EquationGroupDTO struct {
	Name      string         `json:"name"`
	Equations []*EquationDTO `json:"equations"`
}

// ColorTagDTO 颜色标签选项
type ColorTagDTO struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}
