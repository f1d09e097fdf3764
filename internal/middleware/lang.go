package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"github.com/haierkeys/fast-latex-notes/pkg/code"
)

// LangWithTranslator 创建带翻译器的语言中间件
// 语言来自 ?lang= 或 lang 请求头，zh / zh-CN 映射为 zh_cn
func LangWithTranslator(uni *ut.UniversalTranslator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var lang string
		if s, exist := c.GetQuery("lang"); exist {
			lang = s
		} else if s = c.GetHeader("lang"); len(s) != 0 {
			lang = s
		}
		lang = strings.ToLower(strings.ReplaceAll(lang, "-", "_"))

		transKey := "en"
		codeLang := code.FALLBACK_LNG
		if strings.HasPrefix(lang, "zh") {
			transKey = "zh"
			codeLang = "zh_cn"
		}

		if uni != nil {
			if trans, found := uni.GetTranslator(transKey); found {
				c.Set("trans", trans)
			}
		}
		_ = code.SetGlobalDefaultLang(codeLang)

		c.Next()
	}
}
