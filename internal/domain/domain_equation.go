// Package domain 定义领域模型和接口
package domain

import (
	"strings"
)

// ColorTag named color attached to an equation, serialized by value
// ColorTag 公式的颜色标签，按值序列化
type ColorTag string

const (
	ColorBlue          ColorTag = "raycast-blue"
	ColorGreen         ColorTag = "raycast-green"
	ColorMagenta       ColorTag = "raycast-magenta"
	ColorOrange        ColorTag = "raycast-orange"
	ColorPurple        ColorTag = "raycast-purple"
	ColorRed           ColorTag = "raycast-red"
	ColorYellow        ColorTag = "raycast-yellow"
	ColorPrimaryText   ColorTag = "raycast-primary-text"
	ColorSecondaryText ColorTag = "raycast-secondary-text"
)

// OtherGroup bucket for equations without a resolvable tag
// OtherGroup 无法识别标签的公式所在分组
const OtherGroup = "Other"

// FavoriteGroup section title of the favorite filter
// FavoriteGroup 收藏筛选的分组名
const FavoriteGroup = "Favorite"

// ColorTagOption name/value pair of one tag
// ColorTagOption 颜色标签的名称与值
type ColorTagOption struct {
	Name  string
	Value ColorTag
}

// declaration order of the enumeration
var colorTagOptions = []ColorTagOption{
	{Name: "Blue", Value: ColorBlue},
	{Name: "Green", Value: ColorGreen},
	{Name: "Magenta", Value: ColorMagenta},
	{Name: "Orange", Value: ColorOrange},
	{Name: "Purple", Value: ColorPurple},
	{Name: "Red", Value: ColorRed},
	{Name: "Yellow", Value: ColorYellow},
	{Name: "PrimaryText", Value: ColorPrimaryText},
	{Name: "SecondaryText", Value: ColorSecondaryText},
}

// ColorTagOptions returns every tag in declaration order
// ColorTagOptions 按声明顺序返回全部颜色标签
func ColorTagOptions() []ColorTagOption {
	out := make([]ColorTagOption, len(colorTagOptions))
	copy(out, colorTagOptions)
	return out
}

// Name maps a tag value back to its enumerated name
// Name 将标签值映射回枚举名称
func (t ColorTag) Name() (string, bool) {
	for _, o := range colorTagOptions {
		if o.Value == t {
			return o.Name, true
		}
	}
	return "", false
}

// IsValid 是否为枚举中的值
func (t ColorTag) IsValid() bool {
	_, ok := t.Name()
	return ok
}

// ParseColorTag accepts a name (any case) or a value
// ParseColorTag 接受名称（不区分大小写）或值
func ParseColorTag(s string) (ColorTag, bool) {
	s = strings.TrimSpace(s)
	for _, o := range colorTagOptions {
		if strings.EqualFold(o.Name, s) || string(o.Value) == s {
			return o.Value, true
		}
	}
	return "", false
}

// IsGroupName reports whether name is a tag name or OtherGroup
// IsGroupName 判断是否为标签名称或 OtherGroup
func IsGroupName(name string) bool {
	if name == OtherGroup {
		return true
	}
	for _, o := range colorTagOptions {
		if o.Name == name {
			return true
		}
	}
	return false
}

// Equation 公式领域模型
type Equation struct {
	ID       string
	Title    string
	Latex    string
	Tags     []ColorTag
	Favorite bool
}

// HasTag 是否带有指定标签
func (e *Equation) HasTag(tag ColorTag) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// DemoEquations the collection seeded on first fetch
// DemoEquations 首次读取时写入的示例公式
func DemoEquations() []*Equation {
	return []*Equation{
		{ID: "0", Title: "Quadratic Formula", Latex: `x = \frac{-b \pm \sqrt{b^2 - 4ac}}{2a}`, Tags: []ColorTag{ColorBlue}},
		{ID: "1", Title: "Euler's Identity", Latex: `e^{i\pi} + 1 = 0`, Tags: []ColorTag{ColorPurple}, Favorite: true},
		{ID: "2", Title: "Pythagorean Theorem", Latex: `a^2 + b^2 = c^2`, Tags: []ColorTag{ColorGreen}},
		{ID: "3", Title: "Area of Circle", Latex: `A = \pi r^2`, Tags: []ColorTag{ColorRed}},
		{ID: "4", Title: "Derivative Definition", Latex: `f'(x) = \lim_{h \to 0} \frac{f(x+h) - f(x)}{h}`, Tags: []ColorTag{ColorOrange}, Favorite: true},
		{ID: "5", Title: "Integral of e^x", Latex: `\int e^x dx = e^x + C`, Tags: []ColorTag{ColorYellow}},
		{ID: "6", Title: "Sum of Arithmetic Series", Latex: `S_n = \frac{n(a_1 + a_n)}{2}`, Tags: []ColorTag{ColorBlue}, Favorite: true},
		{ID: "7", Title: "Binomial Theorem", Latex: `(a+b)^n = \sum_{k=0}^{n} \binom{n}{k} a^{n-k} b^k`, Tags: []ColorTag{ColorMagenta}, Favorite: true},
		{ID: "8", Title: "Law of Cosines", Latex: `c^2 = a^2 + b^2 - 2ab\cos C`, Tags: []ColorTag{ColorGreen}},
		{ID: "9", Title: "Normal Distribution", Latex: `f(x) = \frac{1}{\sigma\sqrt{2\pi}} e^{-\frac{(x-\mu)^2}{2\sigma^2}}`, Tags: []ColorTag{ColorPurple}, Favorite: true},
		{ID: "10", Title: "Matrix Determinant 2x2", Latex: `\det \begin{pmatrix} a & b \\ c & d \end{pmatrix} = ad - bc`, Tags: []ColorTag{ColorOrange}},
		{ID: "11", Title: "Taylor Series", Latex: `f(x) = \sum_{n=0}^{\infty} \frac{f^{(n)}(a)}{n!}(x-a)^n`, Tags: []ColorTag{ColorRed}, Favorite: true},
		{ID: "12", Title: "Fourier Transform", Latex: `\hat{f}(\xi) = \int_{-\infty}^{\infty} f(x) e^{-2\pi ix\xi} dx`, Tags: []ColorTag{ColorBlue}},
		{ID: "13", Title: "Schrödinger Equation", Latex: `i\hbar \frac{\partial}{\partial t} \Psi = \hat{H} \Psi`, Tags: []ColorTag{ColorMagenta}, Favorite: true},
	}
}
