package app

import (
	"strings"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	val "github.com/go-playground/validator/v10"
)

type ValidError struct {
	Key     string
	Message string
}

type ValidErrors []*ValidError

func (v *ValidError) Error() string {
	return v.Message
}

func (v ValidErrors) Error() string {
	return strings.Join(v.Errors(), ",")
}

func (v ValidErrors) Errors() []string {
	var errs []string
	for _, err := range v {
		errs = append(errs, err.Error())
	}
	return errs
}

// ErrorsToString 以逗号拼接全部错误信息
func (v ValidErrors) ErrorsToString() string {
	return v.Error()
}

// MapsToString 字段名到错误信息的映射，作为响应 data 返回
func (v ValidErrors) MapsToString() map[string]string {
	out := make(map[string]string, len(v))
	for _, err := range v {
		out[err.Key] = err.Message
	}
	return out
}

// BindAndValid binds the request into v and translates validation failures
// BindAndValid 绑定请求参数并翻译校验错误
func BindAndValid(c *gin.Context, v interface{}) (bool, ValidErrors) {
	err := c.ShouldBind(v)
	if err == nil {
		return true, nil
	}
	return false, TranslateErrors(err, translator(c))
}

// TranslateErrors converts a binding error into ValidErrors, trans may be nil
// TranslateErrors 将绑定错误转换为 ValidErrors，trans 可为空
func TranslateErrors(err error, trans ut.Translator) ValidErrors {
	var errs ValidErrors
	verrs, ok := err.(val.ValidationErrors)
	if !ok {
		return append(errs, &ValidError{Key: "params", Message: err.Error()})
	}
	for _, e := range verrs {
		msg := e.Error()
		if trans != nil {
			msg = e.Translate(trans)
		}
		errs = append(errs, &ValidError{Key: e.Field(), Message: msg})
	}
	return errs
}

func translator(c *gin.Context) ut.Translator {
	v, ok := c.Get("trans")
	if !ok {
		return nil
	}
	trans, _ := v.(ut.Translator)
	return trans
}
