package app

import (
	"github.com/gin-gonic/gin"
	"github.com/haierkeys/fast-latex-notes/pkg/convert"
)

// PaginationConfig pagination configuration // 分页配置
type PaginationConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultPaginationConfig pageSize 0 means the whole list
// DefaultPaginationConfig pageSize 为 0 表示返回全部
var DefaultPaginationConfig = PaginationConfig{
	DefaultPageSize: 0,
	MaxPageSize:     500,
}

func GetPage(c *gin.Context) int {
	page := convert.StrTo(c.Query("page")).MustInt()
	if page <= 0 {
		return 1
	}
	return page
}

// GetPageSize returns 0 when the caller did not ask for paging
// GetPageSize 未指定分页时返回 0
func GetPageSize(c *gin.Context) int {
	pageSize := convert.StrTo(c.Query("pageSize")).MustInt()
	if pageSize <= 0 {
		return DefaultPaginationConfig.DefaultPageSize
	}
	if pageSize > DefaultPaginationConfig.MaxPageSize {
		return DefaultPaginationConfig.MaxPageSize
	}
	return pageSize
}

func GetPageOffset(page, pageSize int) int {
	if page > 0 {
		return (page - 1) * pageSize
	}
	return 0
}

func NewPager(c *gin.Context, totalRows int) *Pager {
	pageSize := GetPageSize(c)
	if pageSize == 0 {
		return &Pager{Page: 1, PageSize: totalRows, TotalRows: totalRows}
	}
	return &Pager{Page: GetPage(c), PageSize: pageSize, TotalRows: totalRows}
}

// Paginate slices list for the current request
// Paginate 按当前请求的分页参数截取列表
func Paginate[T any](c *gin.Context, list []T) []T {
	pageSize := GetPageSize(c)
	if pageSize == 0 {
		return list
	}
	offset := GetPageOffset(GetPage(c), pageSize)
	if offset >= len(list) {
		return []T{}
	}
	end := offset + pageSize
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}
