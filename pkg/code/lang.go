package code

import (
	"errors"
	"sync/atomic"
)

// lang holds the English and Chinese text of a code
// lang 保存状态码的英文与中文文本
type lang struct {
	en    string // English // 英文
	zh_cn string // Chinese // 中文
}

const FALLBACK_LNG = "en"

var supportedLanguages = []string{"en", "zh_cn"}

// current language, swapped by the lang middleware and the CLI --lang flag
// 当前语言，由语言中间件或 CLI --lang 参数切换
// registered codes read it while package variables initialize, before any init() runs
// 注册状态码时会在包变量初始化阶段读取，早于 init() 执行
var lng = func() *atomic.Value {
	v := &atomic.Value{}
	v.Store(FALLBACK_LNG)
	return v
}()

// GetMessage returns the message in the current language, falling back to English
// GetMessage 返回当前语言的消息，缺失时回退到英文
func (l lang) GetMessage() string {
	return l.In(GetGlobalDefaultLang())
}

// In returns the message for the given language
// In 返回指定语言的消息
func (l lang) In(language string) string {
	if language == "zh_cn" && l.zh_cn != "" {
		return l.zh_cn
	}
	return l.en
}

// GetSupportedLanguages returns the languages a lang value can carry
// GetSupportedLanguages 返回支持的语言列表
func GetSupportedLanguages() []string {
	out := make([]string, len(supportedLanguages))
	copy(out, supportedLanguages)
	return out
}

// SetGlobalDefaultLang sets the global default language, unknown values reset it to English
// SetGlobalDefaultLang 设置全局默认语言，未知语言会重置为英文
func SetGlobalDefaultLang(language string) error {
	for _, l := range supportedLanguages {
		if l == language {
			lng.Store(language)
			return nil
		}
	}
	lng.Store(FALLBACK_LNG)
	return errors.New("unsupported language type, set defaulting to " + FALLBACK_LNG)
}

// GetGlobalDefaultLang gets the global default language
// GetGlobalDefaultLang 获取全局默认语言
func GetGlobalDefaultLang() string {
	if l, ok := lng.Load().(string); ok && l != "" {
		return l
	}
	return FALLBACK_LNG
}
