package convert

import (
	"strconv"
	"strings"

	"github.com/jinzhu/copier"
)

type StrTo string

func (s StrTo) String() string {
	return string(s)
}

func (s StrTo) Int() (int, error) {
	return strconv.Atoi(strings.TrimSpace(s.String()))
}

func (s StrTo) MustInt() int {
	v, _ := s.Int()
	return v
}

// Bool accepts 1/0, true/false, yes/no, on/off
// Bool 解析 1/0、true/false、yes/no、on/off
func (s StrTo) Bool() (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s.String())) {
	case "yes", "on":
		return true, nil
	case "no", "off", "":
		return false, nil
	}
	return strconv.ParseBool(strings.TrimSpace(s.String()))
}

func (s StrTo) MustBool() bool {
	v, _ := s.Bool()
	return v
}

// StructAssignDeep 深拷贝，切片字段不与 src 共享底层数组
func StructAssignDeep(src any, dst any) error {
	return copier.CopyWithOption(dst, src, copier.Option{DeepCopy: true})
}
