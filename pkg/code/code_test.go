package code

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeIs(t *testing.T) {
	clone := ErrorEquationNotFound.WithDetails("id=1")
	assert.ErrorIs(t, clone, ErrorEquationNotFound)
	assert.NotErrorIs(t, clone, ErrorStorageFailed)

	wrapped := fmt.Errorf("edit: %w", clone)
	assert.True(t, errors.Is(wrapped, ErrorEquationNotFound))
}

func TestWithDetailsDoesNotMutateRegistered(t *testing.T) {
	_ = ErrorStorageFailed.WithDetails("a")
	assert.False(t, ErrorStorageFailed.HaveDetails())
	assert.Empty(t, ErrorStorageFailed.Details())

	c := ErrorInvalidParams.WithDetails("x").WithData(map[string]string{"k": "v"})
	assert.True(t, c.HaveDetails())
	assert.True(t, c.HaveData())
	assert.Equal(t, []string{"x"}, c.Details())
	assert.False(t, ErrorInvalidParams.HaveData())
}

func TestLang(t *testing.T) {
	defer SetGlobalDefaultLang("en")

	assert.NoError(t, SetGlobalDefaultLang("zh_cn"))
	assert.Equal(t, "公式不存在", ErrorEquationNotFound.Msg())

	assert.Error(t, SetGlobalDefaultLang("fr"))
	assert.Equal(t, "en", GetGlobalDefaultLang())
	assert.Equal(t, "Equation not found", ErrorEquationNotFound.Error())
}

func TestRegisteredCodesUseEnglishByDefault(t *testing.T) {
	assert.Equal(t, "en", GetGlobalDefaultLang())
	assert.Equal(t, "Success", Success.Lang.GetMessage())
	assert.Equal(t, "Success", sussCodes[Success.Code()])
	assert.Equal(t, "Invalid params", codes[ErrorInvalidParams.Code()])
}
