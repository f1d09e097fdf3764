package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/haierkeys/fast-latex-notes/internal/dao"
	"github.com/haierkeys/fast-latex-notes/internal/domain"
	"github.com/haierkeys/fast-latex-notes/internal/dto"
	"github.com/haierkeys/fast-latex-notes/pkg/code"
	"github.com/haierkeys/fast-latex-notes/pkg/storage/memory"
	"github.com/haierkeys/fast-latex-notes/pkg/writequeue"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "equations"

type fixture struct {
	store *memory.Memory
	wq    *writequeue.Manager
	svc   *equationService
}

func newFixture(t *testing.T, cfg *ServiceConfig) *fixture {
	t.Helper()
	store := memory.NewClient()
	wq := writequeue.New(nil, nil)
	t.Cleanup(func() { _ = wq.Shutdown(context.Background()) })
	repo := dao.NewEquationRepository(store, testKey, nil)
	svc := NewEquationService(repo, wq, cfg, nil).(*equationService)
	return &fixture{store: store, wq: wq, svc: svc}
}

// stored decodes the raw document, nil when the key is absent
func (f *fixture) stored(t *testing.T) []map[string]any {
	t.Helper()
	raw, ok, err := f.store.Get(context.Background(), testKey)
	require.NoError(t, err)
	if !ok {
		return nil
	}
	var out []map[string]any
	require.NoError(t, sonic.UnmarshalString(raw, &out))
	return out
}

func (f *fixture) create(t *testing.T, title string, tags ...string) *dto.EquationDTO {
	t.Helper()
	if len(tags) == 0 {
		tags = []string{string(domain.ColorBlue)}
	}
	e, err := f.svc.Create(context.Background(), &dto.EquationCreateRequest{Title: title, Latex: title + "^2", Tags: tags})
	require.NoError(t, err)
	return e
}

func TestFetchAllColdStart(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	list, err := f.svc.FetchAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)

	doc := f.stored(t)
	require.Len(t, doc, 14)
	assert.Equal(t, "0", doc[0]["id"])
	assert.Equal(t, "Quadratic Formula", doc[0]["title"])
	assert.Equal(t, "13", doc[13]["id"])
	assert.Equal(t, "Schrödinger Equation", doc[13]["title"])

	list, err = f.svc.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 14)
	assert.Equal(t, []string{string(domain.ColorPurple)}, list[1].Tags)
	assert.True(t, list[1].Favorite)
	assert.False(t, list[0].Favorite)
}

func TestFetchAllReturnDemoOnFirstFetch(t *testing.T) {
	f := newFixture(t, &ServiceConfig{Equation: EquationServiceConfig{ReturnDemoOnFirstFetch: true}})

	list, err := f.svc.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 14)
}

func TestDeleteAllThenFetchReseeds(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.create(t, "a")
	require.NoError(t, f.svc.DeleteAll(ctx))
	assert.Nil(t, f.stored(t), "key is removed, not overwritten with []")

	list, err := f.svc.FetchAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Len(t, f.stored(t), 14)

	list, err = f.svc.FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 14)
}

func TestDeleteAllThenFetchReturnsDemoWhenConfigured(t *testing.T) {
	f := newFixture(t, &ServiceConfig{Equation: EquationServiceConfig{ReturnDemoOnFirstFetch: true}})
	ctx := context.Background()

	f.create(t, "a")
	require.NoError(t, f.svc.DeleteAll(ctx))

	list, err := f.svc.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 14)
	assert.Equal(t, "Quadratic Formula", list[0].Title)
}

func TestCreateThenFetch(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.FetchAll(ctx)
	require.NoError(t, err)
	before, err := f.svc.FetchAll(ctx)
	require.NoError(t, err)

	created, err := f.svc.Create(ctx, &dto.EquationCreateRequest{
		Title: "Mass-energy",
		Latex: "E = mc^2",
		Tags:  []string{"Red", string(domain.ColorBlue)},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.Favorite)

	after, err := f.svc.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, after, len(before)+1)

	var found []*dto.EquationDTO
	for _, e := range after {
		if e.ID == created.ID {
			found = append(found, e)
		}
	}
	require.Len(t, found, 1)
	assert.Equal(t, "Mass-energy", found[0].Title)
	assert.Equal(t, "E = mc^2", found[0].Latex)
	assert.Equal(t, []string{string(domain.ColorRed), string(domain.ColorBlue)}, found[0].Tags)
	assert.False(t, found[0].Favorite)
}

func TestCreateOnEmptyStoreDoesNotSeed(t *testing.T) {
	f := newFixture(t, nil)

	f.create(t, "only")
	list, err := f.svc.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "only", list[0].Title)
}

func TestCreateRejectsUnknownTag(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.Create(context.Background(), &dto.EquationCreateRequest{Title: "x", Latex: "x", Tags: []string{"pink"}})
	assert.True(t, errors.Is(err, code.ErrorInvalidColorTag))
	assert.Nil(t, f.stored(t))
}

func TestCreateDeduplicatesTags(t *testing.T) {
	f := newFixture(t, nil)

	e := f.create(t, "x", "Blue", "raycast-blue", "blue", "Green")
	assert.Equal(t, []string{string(domain.ColorBlue), string(domain.ColorGreen)}, e.Tags)
}

func TestMintIDRetriesOnCollision(t *testing.T) {
	f := newFixture(t, nil)
	ids := []string{"same", "same", "", "other"}
	f.svc.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	first := f.create(t, "a")
	second := f.create(t, "b")
	assert.Equal(t, "same", first.ID)
	assert.Equal(t, "other", second.ID)
}

func TestDuplicate(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	orig := f.create(t, "Orig", "Blue", "Red")
	_, err := f.svc.Favorite(ctx, orig.ID)
	require.NoError(t, err)

	dup, err := f.svc.Duplicate(ctx, orig.ID)
	require.NoError(t, err)
	assert.NotEqual(t, orig.ID, dup.ID)
	assert.Equal(t, "Orig (Copy)", dup.Title)
	assert.Equal(t, orig.Latex, dup.Latex)
	assert.Equal(t, orig.Tags, dup.Tags)
	assert.False(t, dup.Favorite)

	again, err := f.svc.Get(ctx, orig.ID)
	require.NoError(t, err)
	assert.Equal(t, "Orig", again.Title)
	assert.True(t, again.Favorite)

	list, err := f.svc.FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestDuplicateCustomSuffix(t *testing.T) {
	f := newFixture(t, &ServiceConfig{Equation: EquationServiceConfig{DuplicateSuffix: " - copy"}})

	orig := f.create(t, "Orig")
	dup, err := f.svc.Duplicate(context.Background(), orig.ID)
	require.NoError(t, err)
	assert.Equal(t, "Orig - copy", dup.Title)
}

func TestEditKeepsIDAndFavorite(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	orig := f.create(t, "Orig")
	_, err := f.svc.Favorite(ctx, orig.ID)
	require.NoError(t, err)

	edited, err := f.svc.Edit(ctx, &dto.EquationEditRequest{
		ID:    orig.ID,
		Title: "New",
		Latex: `\sqrt{2}`,
		Tags:  []string{"Yellow"},
	})
	require.NoError(t, err)
	assert.Equal(t, orig.ID, edited.ID)
	assert.True(t, edited.Favorite)

	got, err := f.svc.Get(ctx, orig.ID)
	require.NoError(t, err)
	assert.Equal(t, &dto.EquationDTO{
		ID:       orig.ID,
		Title:    "New",
		Latex:    `\sqrt{2}`,
		Tags:     []string{string(domain.ColorYellow)},
		Favorite: true,
	}, got)
}

func TestMissingIDIsNotFound(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.create(t, "a")

	_, err := f.svc.Get(ctx, "nope")
	assert.True(t, errors.Is(err, code.ErrorEquationNotFound))

	_, err = f.svc.Duplicate(ctx, "nope")
	assert.True(t, errors.Is(err, code.ErrorEquationNotFound))

	_, err = f.svc.Favorite(ctx, "nope")
	assert.True(t, errors.Is(err, code.ErrorEquationNotFound))

	_, err = f.svc.Edit(ctx, &dto.EquationEditRequest{ID: "nope", Title: "t", Latex: "l", Tags: []string{"Blue"}})
	assert.True(t, errors.Is(err, code.ErrorEquationNotFound))

	assert.Len(t, f.stored(t), 1)
}

func TestDeleteMissingIDIsNoop(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	require.NoError(t, f.svc.Delete(ctx, "nope"))
	assert.Nil(t, f.stored(t), "nothing written on a cold store")

	e := f.create(t, "a")
	require.NoError(t, f.svc.Delete(ctx, "nope"))
	assert.Len(t, f.stored(t), 1)

	require.NoError(t, f.svc.Delete(ctx, e.ID))
	raw, ok, err := f.store.Get(ctx, testKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[]`, raw)
}

func TestConcurrentCreatesAreSerialized(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	const n = 25
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.svc.Create(ctx, &dto.EquationCreateRequest{
				Title: fmt.Sprintf("eq-%d", i),
				Latex: "x",
				Tags:  []string{"Blue"},
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
	assert.Len(t, f.stored(t), n)
}

// gatedStore blocks the first Get until release is closed
type gatedStore struct {
	*memory.Memory
	once      sync.Once
	entered   chan struct{}
	release   chan struct{}
	cancelled bool
}

func (g *gatedStore) Get(ctx context.Context, key string) (string, bool, error) {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.entered)
		select {
		case <-g.release:
		case <-ctx.Done():
			g.cancelled = true
			return "", false, ctx.Err()
		}
	}
	return g.Memory.Get(ctx, key)
}

func TestFetchAllCancelDoesNotAbortSharedLoad(t *testing.T) {
	store := &gatedStore{Memory: memory.NewClient(), entered: make(chan struct{}), release: make(chan struct{})}
	wq := writequeue.New(nil, nil)
	t.Cleanup(func() { _ = wq.Shutdown(context.Background()) })
	svc := NewEquationService(dao.NewEquationRepository(store, testKey, nil), wq, nil, nil)

	ctxA, cancelA := context.WithCancel(context.Background())
	doneA := make(chan error, 1)
	go func() {
		_, err := svc.FetchAll(ctxA)
		doneA <- err
	}()
	<-store.entered

	cancelA()
	assert.ErrorIs(t, <-doneA, context.Canceled)

	doneB := make(chan error, 1)
	go func() {
		_, err := svc.FetchAll(context.Background())
		doneB <- err
	}()
	close(store.release)
	require.NoError(t, <-doneB)

	assert.False(t, store.cancelled)
	raw, ok, err := store.Memory.Get(context.Background(), testKey)
	require.NoError(t, err)
	require.True(t, ok)
	var seeded []map[string]any
	require.NoError(t, sonic.UnmarshalString(raw, &seeded))
	assert.Len(t, seeded, 14)
}

func TestListFilters(t *testing.T) {
	f := newFixture(t, &ServiceConfig{Equation: EquationServiceConfig{ReturnDemoOnFirstFetch: true}})
	ctx := context.Background()

	all, err := f.svc.List(ctx, "all")
	require.NoError(t, err)
	assert.Len(t, all, 14)

	favs, err := f.svc.List(ctx, "favorite")
	require.NoError(t, err)
	assert.Len(t, favs, 7)
	for _, e := range favs {
		assert.True(t, e.Favorite)
	}

	blue, err := f.svc.List(ctx, "Blue")
	require.NoError(t, err)
	require.Len(t, blue, 3)
	assert.Equal(t, "Quadratic Formula", blue[0].Title)

	other, err := f.svc.List(ctx, "Other")
	require.NoError(t, err)
	assert.Empty(t, other)

	_, err = f.svc.List(ctx, "Pink")
	assert.True(t, errors.Is(err, code.ErrorInvalidParams))
}

func TestSections(t *testing.T) {
	f := newFixture(t, &ServiceConfig{Equation: EquationServiceConfig{ReturnDemoOnFirstFetch: true}})
	ctx := context.Background()

	all, err := f.svc.Sections(ctx, "")
	require.NoError(t, err)
	names := make([]string, 0, len(all))
	for _, g := range all {
		names = append(names, g.Name)
	}
	assert.Equal(t, []string{"Blue", "Purple", "Green", "Red", "Orange", "Yellow", "Magenta"}, names)

	favs, err := f.svc.Sections(ctx, "favorite")
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, domain.FavoriteGroup, favs[0].Name)
	assert.Len(t, favs[0].Equations, 7)

	red, err := f.svc.Sections(ctx, string(domain.ColorRed))
	require.NoError(t, err)
	require.Len(t, red, 1)
	assert.Equal(t, "Red", red[0].Name)
	assert.Len(t, red[0].Equations, 2)

	empty, err := f.svc.Sections(ctx, "SecondaryText")
	require.NoError(t, err)
	require.Len(t, empty, 1)
	assert.NotNil(t, empty[0].Equations)
	assert.Empty(t, empty[0].Equations)
}

func TestColorTags(t *testing.T) {
	f := newFixture(t, nil)

	tags := f.svc.ColorTags()
	require.Len(t, tags, 9)
	assert.Equal(t, &dto.ColorTagDTO{Name: "Blue", Value: "raycast-blue"}, tags[0])
	assert.Equal(t, &dto.ColorTagDTO{Name: "SecondaryText", Value: "raycast-secondary-text"}, tags[8])
}

// failingStore 读写全部失败
type failingStore struct{}

func (failingStore) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, errors.New("disk on fire")
}

func (failingStore) Set(ctx context.Context, key string, value string) error {
	return errors.New("disk on fire")
}

func (failingStore) Remove(ctx context.Context, key string) error {
	return errors.New("disk on fire")
}

func TestStorageFailurePropagates(t *testing.T) {
	wq := writequeue.New(nil, nil)
	defer wq.Shutdown(context.Background())
	svc := NewEquationService(dao.NewEquationRepository(failingStore{}, testKey, nil), wq, nil, nil)
	ctx := context.Background()

	_, err := svc.FetchAll(ctx)
	assert.True(t, errors.Is(err, code.ErrorStorageFailed))

	_, err = svc.Create(ctx, &dto.EquationCreateRequest{Title: "a", Latex: "a", Tags: []string{"Blue"}})
	assert.True(t, errors.Is(err, code.ErrorStorageFailed))

	assert.True(t, errors.Is(svc.Delete(ctx, "x"), code.ErrorStorageFailed))
	assert.True(t, errors.Is(svc.DeleteAll(ctx), code.ErrorStorageFailed))
}

func TestPropertyDeleteIsIdempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30

	properties := gopter.NewProperties(parameters)

	properties.Property("deleting twice equals deleting once", prop.ForAll(
		func(n int, pick int) bool {
			f := newFixture(t, nil)
			ctx := context.Background()

			ids := make([]string, 0, n)
			for i := 0; i < n; i++ {
				ids = append(ids, f.create(t, fmt.Sprintf("eq-%d", i)).ID)
			}
			target := "missing"
			if pick < n {
				target = ids[pick]
			}

			if err := f.svc.Delete(ctx, target); err != nil {
				return false
			}
			once := f.stored(t)
			if err := f.svc.Delete(ctx, target); err != nil {
				return false
			}
			twice := f.stored(t)
			return assert.ObjectsAreEqual(once, twice)
		},
		gen.IntRange(1, 8),
		gen.IntRange(0, 9),
	))

	properties.TestingRun(t)
}

func TestPropertyIDsAreUnique(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20

	properties := gopter.NewProperties(parameters)

	properties.Property("n creates yield n distinct ids", prop.ForAll(
		func(n int) bool {
			f := newFixture(t, nil)
			seen := make(map[string]bool, n)
			for i := 0; i < n; i++ {
				seen[f.create(t, "x").ID] = true
			}
			return len(seen) == n && len(f.stored(t)) == n
		},
		gen.IntRange(1, 40),
	))

	properties.TestingRun(t)
}

func TestPropertyDoubleFavoriteRestores(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30

	properties := gopter.NewProperties(parameters)

	properties.Property("favorite twice restores the flag", prop.ForAll(
		func(initial bool) bool {
			f := newFixture(t, nil)
			ctx := context.Background()

			e := f.create(t, "x")
			if initial {
				if _, err := f.svc.Favorite(ctx, e.ID); err != nil {
					return false
				}
			}
			before, err := f.svc.Get(ctx, e.ID)
			if err != nil || before.Favorite != initial {
				return false
			}
			if _, err := f.svc.Favorite(ctx, e.ID); err != nil {
				return false
			}
			if _, err := f.svc.Favorite(ctx, e.ID); err != nil {
				return false
			}
			after, err := f.svc.Get(ctx, e.ID)
			return err == nil && after.Favorite == initial
		},
		gen.Bool(),
	))

	properties.TestingRun(t)
}
