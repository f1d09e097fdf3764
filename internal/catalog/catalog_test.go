package catalog

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/haierkeys/fast-latex-notes/assets"
	"github.com/haierkeys/fast-latex-notes/internal/domain"
	"github.com/haierkeys/fast-latex-notes/pkg/workerpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadEmbedded(t *testing.T, pool *workerpool.Pool) *Catalog {
	t.Helper()
	c, err := New(context.Background(), assets.FormulaData, assets.FormulaDataDir, pool, nil)
	require.NoError(t, err)
	return c
}

func TestEmbeddedCatalog(t *testing.T) {
	c := loadEmbedded(t, nil)

	require.Equal(t, len(Sources), c.Len())
	names := c.Categories()
	assert.Equal(t, "Fractions", names[0])
	assert.Equal(t, "Powers, Exponents & Logarithms", names[1])
	assert.Equal(t, "Greek Lowercase", names[len(names)-2])
	assert.Equal(t, "Greek Uppercase", names[len(names)-1])

	cat, ok := c.Category("Fractions")
	require.True(t, ok)
	require.NotEmpty(t, cat.Templates)
	assert.Equal(t, domain.Template{Name: "Fraction", Latex: `\frac{a}{b}`}, cat.Templates[0])

	for _, name := range names {
		cat, ok := c.Category(name)
		require.True(t, ok, name)
		assert.NotEmpty(t, cat.Templates, name)
	}
}

func TestEmbeddedCatalogOnPool(t *testing.T) {
	pool := workerpool.New(&workerpool.Config{MaxWorkers: 4, QueueSize: 4}, nil)
	defer pool.Shutdown(context.Background())

	parallel := loadEmbedded(t, pool)
	sequential := loadEmbedded(t, nil)

	all1, err := parallel.Templates(domain.AllCategories)
	require.NoError(t, err)
	all2, err := sequential.Templates("")
	require.NoError(t, err)
	assert.Equal(t, all2, all1)
}

func TestTemplatesFilter(t *testing.T) {
	c := loadEmbedded(t, nil)

	all, err := c.Templates(domain.AllCategories)
	require.NoError(t, err)
	assert.Len(t, all, c.Len())

	one, err := c.Templates("Logic")
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "Logic", one[0].Name)

	_, err = c.Templates("Astrology")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCatalogIsImmutable(t *testing.T) {
	c := loadEmbedded(t, nil)

	cat, _ := c.Category("Fractions")
	cat.Templates[0].Latex = "changed"

	again, _ := c.Category("Fractions")
	assert.Equal(t, `\frac{a}{b}`, again.Templates[0].Latex)
}

func TestDecodeKeepsOrder(t *testing.T) {
	cats, err := Decode([]byte(`{"Z": {"b": "\\beta", "a": "\\alpha", "c": "x^2"}}`))
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "Z", cats[0].Name)
	assert.Equal(t, []domain.Template{
		{Name: "b", Latex: `\beta`},
		{Name: "a", Latex: `\alpha`},
		{Name: "c", Latex: "x^2"},
	}, cats[0].Templates)
}

func TestDecodeErrors(t *testing.T) {
	for name, raw := range map[string]string{
		"array":         `[1, 2]`,
		"category list": `{"A": ["x"]}`,
		"nested value":  `{"A": {"x": {"y": "z"}}}`,
		"broken":        `{"A": `,
	} {
		_, err := Decode([]byte(raw))
		assert.Error(t, err, name)
	}

	cats, err := Decode(nil)
	assert.NoError(t, err)
	assert.Empty(t, cats)
}

func TestMergeSpreadSemantics(t *testing.T) {
	first := []domain.TemplateCategory{
		{Name: "A", Templates: []domain.Template{{Name: "a1", Latex: "1"}}},
		{Name: "B", Templates: []domain.Template{{Name: "b1", Latex: "1"}}},
	}
	second := []domain.TemplateCategory{
		{Name: "C", Templates: []domain.Template{{Name: "c1", Latex: "1"}}},
		{Name: "A", Templates: []domain.Template{{Name: "a2", Latex: "2"}}},
	}

	c := Merge(first, second)
	assert.Equal(t, []string{"A", "B", "C"}, c.Categories())

	a, ok := c.Category("A")
	require.True(t, ok)
	assert.Equal(t, []domain.Template{{Name: "a2", Latex: "2"}}, a.Templates)
}

func TestNewMissingSource(t *testing.T) {
	fsys := fstest.MapFS{
		"data/fractions.json": {Data: []byte(`{"Fractions": {"f": "\\frac{1}{2}"}}`)},
	}
	_, err := New(context.Background(), fsys, "data", nil, nil)
	assert.Error(t, err)
}
