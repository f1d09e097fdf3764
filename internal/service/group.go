package service

import (
	"github.com/haierkeys/fast-latex-notes/internal/domain"
)

// Groups ordered mapping group name -> equations, names in first-seen order
// Groups 有序的 分组名 -> 公式 映射，分组按首次出现顺序排列
type Groups struct {
	names   []string
	buckets map[string][]*domain.Equation
}

// GroupByTag buckets each equation under the name of every tag it carries.
// An equation with several tags appears in each of their groups, one without
// a resolvable tag goes to domain.OtherGroup.
// GroupByTag 按标签名称分组，多标签的公式出现在每个对应分组，无法识别标签的公式归入 Other
func GroupByTag(equations []*domain.Equation) *Groups {
	g := &Groups{buckets: make(map[string][]*domain.Equation)}
	for _, e := range equations {
		seen := make(map[string]bool, len(e.Tags))
		for _, t := range e.Tags {
			name, ok := t.Name()
			if !ok || seen[name] {
				continue
			}
			seen[name] = true
			g.add(name, e)
		}
		if len(seen) == 0 {
			g.add(domain.OtherGroup, e)
		}
	}
	return g
}

func (g *Groups) add(name string, e *domain.Equation) {
	if _, ok := g.buckets[name]; !ok {
		g.names = append(g.names, name)
	}
	g.buckets[name] = append(g.buckets[name], e)
}

// Names 分组名，按首次出现顺序
func (g *Groups) Names() []string {
	return append([]string{}, g.names...)
}

// Get 返回指定分组的公式
func (g *Groups) Get(name string) ([]*domain.Equation, bool) {
	list, ok := g.buckets[name]
	return list, ok
}

// Len 分组数量
func (g *Groups) Len() int {
	return len(g.names)
}
