package service

import (
	"strings"

	"github.com/haierkeys/fast-latex-notes/internal/dto"
)

// DefaultRenderBaseURL 默认公式渲染服务地址
const DefaultRenderBaseURL = "https://latex.codecogs.com/png.image"

const upperHex = "0123456789ABCDEF"

// BuildDisplayURL wraps latex in a color directive matching the theme and
// appends it, percent-encoded, as the query of base.
// BuildDisplayURL 按主题为 latex 加上颜色指令，编码后作为 base 的查询串
func BuildDisplayURL(base, latex string, dark bool) string {
	color := "Black"
	if dark {
		color = "White"
	}
	return base + "?" + EncodeURIComponent(`\color{`+color+`}`+latex)
}

// EncodeURIComponent escapes every byte except A-Z a-z 0-9 - _ . ! ~ * ' ( )
// EncodeURIComponent 除 A-Z a-z 0-9 - _ . ! ~ * ' ( ) 外全部百分号编码
func EncodeURIComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&0x0f])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}

// RenderService builds display urls with the configured endpoint and theme
// RenderService 使用配置的服务地址和主题构建图片地址
type RenderService interface {
	// DisplayURL dark 为空时使用配置的默认主题
	DisplayURL(latex string, dark *bool) *dto.RenderURLDTO
}

type renderService struct {
	config *ServiceConfig
}

// NewRenderService 创建 RenderService 实例
func NewRenderService(config *ServiceConfig) RenderService {
	return &renderService{config: config}
}

func (s *renderService) DisplayURL(latex string, dark *bool) *dto.RenderURLDTO {
	base := s.config.Render.BaseURL
	if base == "" {
		base = DefaultRenderBaseURL
	}
	isDark := s.config.Render.Dark
	if dark != nil {
		isDark = *dark
	}
	return &dto.RenderURLDTO{
		URL:   BuildDisplayURL(base, latex, isDark),
		Latex: latex,
		Dark:  isDark,
	}
}
