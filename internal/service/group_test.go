package service

import (
	"testing"

	"github.com/haierkeys/fast-latex-notes/internal/domain"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eq(id string, tags ...domain.ColorTag) *domain.Equation {
	return &domain.Equation{ID: id, Title: id, Latex: id, Tags: tags}
}

func TestGroupByTagFanOut(t *testing.T) {
	both := eq("both", domain.ColorBlue, domain.ColorRed)
	groups := GroupByTag([]*domain.Equation{both, eq("green", domain.ColorGreen)})

	blue, ok := groups.Get("Blue")
	require.True(t, ok)
	assert.Equal(t, []*domain.Equation{both}, blue)

	red, ok := groups.Get("Red")
	require.True(t, ok)
	assert.Equal(t, []*domain.Equation{both}, red)

	green, _ := groups.Get("Green")
	assert.NotContains(t, green, both)
	_, ok = groups.Get(domain.OtherGroup)
	assert.False(t, ok)
}

func TestGroupByTagOtherAndOrder(t *testing.T) {
	untagged := eq("none")
	unknown := eq("pink", "raycast-pink")
	groups := GroupByTag([]*domain.Equation{
		eq("r", domain.ColorRed),
		untagged,
		eq("b", domain.ColorBlue, domain.ColorBlue),
		unknown,
		eq("r2", domain.ColorRed),
	})

	assert.Equal(t, []string{"Red", domain.OtherGroup, "Blue"}, groups.Names())
	assert.Equal(t, 3, groups.Len())

	other, _ := groups.Get(domain.OtherGroup)
	assert.Equal(t, []*domain.Equation{untagged, unknown}, other)

	blue, _ := groups.Get("Blue")
	assert.Len(t, blue, 1, "a repeated tag counts once")

	red, _ := groups.Get("Red")
	assert.Equal(t, []string{"r", "r2"}, []string{red[0].ID, red[1].ID})
}

func TestGroupByTagEmpty(t *testing.T) {
	groups := GroupByTag(nil)
	assert.Equal(t, 0, groups.Len())
	assert.Empty(t, groups.Names())
}

func TestPropertyGroupMembership(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	options := domain.ColorTagOptions()
	values := make([]domain.ColorTag, 0, len(options)+1)
	for _, o := range options {
		values = append(values, o.Value)
	}
	values = append(values, domain.ColorTag("raycast-unknown"))

	properties.Property("record appears exactly in the groups of its distinct tags", prop.ForAll(
		func(picks []int) bool {
			raw := make([]domain.ColorTag, 0, len(picks))
			for _, p := range picks {
				raw = append(raw, values[p])
			}
			e := eq("x", raw...)
			groups := GroupByTag([]*domain.Equation{e})

			want := map[string]bool{}
			for _, t := range raw {
				if name, ok := t.Name(); ok {
					want[name] = true
				}
			}
			if len(want) == 0 {
				want[domain.OtherGroup] = true
			}
			if groups.Len() != len(want) {
				return false
			}
			for _, name := range groups.Names() {
				members, _ := groups.Get(name)
				if !want[name] || len(members) != 1 || members[0] != e {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, len(values)-1)),
	))

	properties.TestingRun(t)
}
